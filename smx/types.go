package smx

import (
	"net/url"
	"strconv"
)

// Page is the API's pagination envelope.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Pagination selects a page of results. Zero values fall back to the
// API defaults (page 1, 100 items per page). Values are passed through
// to the API unmodified; no aggregation happens across pages.
type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) apply(q url.Values) {
	page := p.Page
	if page == 0 {
		page = 1
	}
	pageSize := p.PageSize
	if pageSize == 0 {
		pageSize = 100
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
}

// setNonEmpty adds key=value to q unless value is empty.
func setNonEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

// Company is a portfolio company record.
type Company struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Sector      string `json:"sector,omitempty"`
	City        string `json:"city,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// MetricData is one reported metric value.
type MetricData struct {
	ID        string   `json:"id"`
	CompanyID string   `json:"company_id,omitempty"`
	Category  string   `json:"category,omitempty"`
	Cadence   string   `json:"cadence,omitempty"`
	Date      string   `json:"date"`
	Value     *float64 `json:"value,omitempty"`
	Unit      string   `json:"unit,omitempty"`
	IsBudget  bool     `json:"is_budget,omitempty"`
}

// MetricOption describes an available metric category.
type MetricOption struct {
	ID           string `json:"id"`
	CategoryName string `json:"category_name"`
	IsStandard   bool   `json:"is_standard"`
	Unit         string `json:"unit,omitempty"`
}

// Budget is a company budget record.
type Budget struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id,omitempty"`
	Name      string `json:"name,omitempty"`
	FromDate  string `json:"from_date,omitempty"`
	ToDate    string `json:"to_date,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CustomColumn is custom column data attached to a company.
type CustomColumn struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Value     string `json:"value,omitempty"`
}

// CustomColumnOption describes a custom column and its allowed values.
type CustomColumnOption struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Options []string `json:"options,omitempty"`
}

// Document is a document record.
type Document struct {
	ID         string `json:"id"`
	CompanyID  string `json:"company_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Source     string `json:"source,omitempty"`
	ParseState string `json:"parse_state,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// Fund is a fund record.
type Fund struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Currency string `json:"currency,omitempty"`
}

// InformationRequest is an information request record.
type InformationRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// InformationReport is an information report record.
type InformationReport struct {
	ID                   string `json:"id"`
	CompanyID            string `json:"company_id,omitempty"`
	InformationRequestID string `json:"information_request_id,omitempty"`
	CreatedAt            string `json:"created_at,omitempty"`
}

// Note is an internal note attached to a company.
type Note struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id,omitempty"`
	Author    string `json:"author,omitempty"`
	Content   string `json:"content,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// User is a firm user record.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// DateRange bounds a reporting window, dates in YYYY-MM-DD.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CompanyMetricsSummary pairs a company with its recent metrics inside
// a portfolio summary. Error is set when the per-company metric fetch
// failed; the summary itself still succeeds.
type CompanyMetricsSummary struct {
	CompanyInfo   Company      `json:"company_info"`
	RecentMetrics []MetricData `json:"recent_metrics,omitempty"`
	Error         string       `json:"error,omitempty"`
}

// PortfolioSummaryResult aggregates companies, funds and key metrics.
type PortfolioSummaryResult struct {
	TotalCompanies   int                              `json:"total_companies"`
	TotalFunds       int                              `json:"total_funds"`
	Companies        []Company                        `json:"companies"`
	Funds            []Fund                           `json:"funds"`
	PortfolioMetrics map[string]CompanyMetricsSummary `json:"portfolio_metrics"`
}

// CompanyPerformanceResult is the comprehensive performance view of one
// company over a reporting window.
type CompanyPerformanceResult struct {
	Company           Company        `json:"company"`
	Metrics           []MetricData   `json:"metrics"`
	Budgets           []Budget       `json:"budgets"`
	Notes             []Note         `json:"notes"`
	CustomColumns     []CustomColumn `json:"custom_columns"`
	PerformancePeriod string         `json:"performance_period"`
	DateRange         DateRange      `json:"date_range"`
}

// FinancialSummaryResult groups a company's metrics by category over a
// reporting window.
type FinancialSummaryResult struct {
	Company           Company               `json:"company"`
	Period            string                `json:"period"`
	TotalMetrics      int                   `json:"total_metrics"`
	MetricsByCategory map[string]int        `json:"metrics_by_category"`
	LatestMetrics     map[string]MetricData `json:"latest_metrics"`
	DateRange         DateRange             `json:"date_range"`
}

// NotesSummary condenses the notes attached to a company.
type NotesSummary struct {
	TotalNotes  int      `json:"total_notes"`
	RecentNotes []Note   `json:"recent_notes"`
	Authors     []string `json:"authors"`
}
