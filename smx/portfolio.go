package smx

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// summaryWindow converts a month count into the YYYY-MM-DD range the
// API filters on. A month counts as 30 days, as the vendor defines it.
func summaryWindow(months int) DateRange {
	if months <= 0 {
		months = 12
	}
	end := time.Now()
	start := end.AddDate(0, 0, -months*30)
	return DateRange{
		Start: start.Format(dateLayout),
		End:   end.Format(dateLayout),
	}
}

// PortfolioSummary aggregates companies, funds and recent metrics for
// the first ten companies of the portfolio. A failed per-company metric
// fetch degrades to an error string in that company's entry instead of
// failing the whole summary.
func (c *Client) PortfolioSummary(ctx context.Context) (PortfolioSummaryResult, error) {
	var result PortfolioSummaryResult

	companies, errCompanies := c.ListCompanies(ctx, Pagination{PageSize: 1000})
	if errCompanies != nil {
		return result, errCompanies
	}
	funds, errFunds := c.ListFunds(ctx, Pagination{PageSize: 1000})
	if errFunds != nil {
		return result, errFunds
	}

	companyResults := companies.Results
	if len(companyResults) > 10 {
		companyResults = companyResults[:10]
	}

	portfolioMetrics := make(map[string]CompanyMetricsSummary, len(companyResults))
	for _, company := range companyResults {
		if company.ID == "" {
			continue
		}
		entry := CompanyMetricsSummary{CompanyInfo: company}
		metrics, errMetrics := c.GetCompanyMetrics(ctx, company.ID, MetricsParams{Pagination: Pagination{PageSize: 50}})
		if errMetrics != nil {
			entry.Error = errMetrics.Error()
		} else {
			entry.RecentMetrics = metrics.Results
		}
		portfolioMetrics[company.Name] = entry
	}

	result = PortfolioSummaryResult{
		TotalCompanies:   len(companyResults),
		TotalFunds:       len(funds.Results),
		Companies:        companyResults,
		Funds:            funds.Results,
		PortfolioMetrics: portfolioMetrics,
	}
	return result, nil
}

// CompanyPerformance gets comprehensive performance data for one company
// over the trailing months window.
func (c *Client) CompanyPerformance(ctx context.Context, companyID string, months int) (CompanyPerformanceResult, error) {
	var result CompanyPerformanceResult

	if months <= 0 {
		months = 12
	}
	window := summaryWindow(months)

	company, errCompany := c.GetCompany(ctx, companyID)
	if errCompany != nil {
		return result, errCompany
	}
	metrics, errMetrics := c.GetCompanyMetrics(ctx, companyID, MetricsParams{
		FromDate: window.Start,
		ToDate:   window.End,
	})
	if errMetrics != nil {
		return result, errMetrics
	}
	budgets, errBudgets := c.ListBudgets(ctx, BudgetsParams{CompanyID: companyID})
	if errBudgets != nil {
		return result, errBudgets
	}
	notes, errNotes := c.ListNotes(ctx, NotesParams{CompanyID: companyID})
	if errNotes != nil {
		return result, errNotes
	}
	customColumns, errColumns := c.GetCustomColumns(ctx, CustomColumnsParams{CompanyID: companyID})
	if errColumns != nil {
		return result, errColumns
	}

	result = CompanyPerformanceResult{
		Company:           company,
		Metrics:           metrics.Results,
		Budgets:           budgets.Results,
		Notes:             notes.Results,
		CustomColumns:     customColumns.Results,
		PerformancePeriod: fmt.Sprintf("%d months", months),
		DateRange:         window,
	}
	return result, nil
}

// CompanyFinancialSummary groups a company's metrics by category over
// the trailing months window and picks the latest value per category.
func (c *Client) CompanyFinancialSummary(ctx context.Context, companyID string, months int) (FinancialSummaryResult, error) {
	var result FinancialSummaryResult

	if months <= 0 {
		months = 12
	}
	window := summaryWindow(months)

	company, errCompany := c.GetCompany(ctx, companyID)
	if errCompany != nil {
		return result, errCompany
	}
	metrics, errMetrics := c.GetCompanyMetrics(ctx, companyID, MetricsParams{
		FromDate: window.Start,
		ToDate:   window.End,
	})
	if errMetrics != nil {
		return result, errMetrics
	}

	byCategory := make(map[string][]MetricData)
	for _, m := range metrics.Results {
		category := m.Category
		if category == "" {
			category = "unknown"
		}
		byCategory[category] = append(byCategory[category], m)
	}

	counts := make(map[string]int, len(byCategory))
	latest := make(map[string]MetricData, len(byCategory))
	for category, categoryMetrics := range byCategory {
		counts[category] = len(categoryMetrics)
		sort.Slice(categoryMetrics, func(i, j int) bool {
			return categoryMetrics[i].Date > categoryMetrics[j].Date
		})
		latest[category] = categoryMetrics[0]
	}

	result = FinancialSummaryResult{
		Company:           company,
		Period:            fmt.Sprintf("%d months", months),
		TotalMetrics:      len(metrics.Results),
		MetricsByCategory: counts,
		LatestMetrics:     latest,
		DateRange:         window,
	}
	return result, nil
}

// FindCompanyByName finds a company by exact name, case-insensitive.
// Returns nil when no company matches.
func (c *Client) FindCompanyByName(ctx context.Context, name string) (*Company, error) {
	companies, errSearch := c.SearchCompanies(ctx, SearchCompaniesParams{
		NameContains: name,
		Pagination:   Pagination{PageSize: 1000},
	})
	if errSearch != nil {
		return nil, errSearch
	}
	for _, company := range companies.Results {
		if strings.EqualFold(company.Name, name) {
			return &company, nil
		}
	}
	return nil, nil
}

// CompanyRecentMetrics gets the most recent metrics for a company,
// newest first.
func (c *Client) CompanyRecentMetrics(ctx context.Context, companyID, category string, limit int) ([]MetricData, error) {
	if limit <= 0 {
		limit = 10
	}
	metrics, errMetrics := c.GetCompanyMetrics(ctx, companyID, MetricsParams{
		Category:   category,
		Pagination: Pagination{PageSize: limit},
	})
	if errMetrics != nil {
		return nil, errMetrics
	}
	results := metrics.Results
	sort.Slice(results, func(i, j int) bool {
		return results[i].Date > results[j].Date
	})
	return results, nil
}

// CompaniesBySector gets all companies in a specific sector.
func (c *Client) CompaniesBySector(ctx context.Context, sector string) ([]Company, error) {
	companies, errSearch := c.SearchCompanies(ctx, SearchCompaniesParams{
		Sector:     sector,
		Pagination: Pagination{PageSize: 1000},
	})
	if errSearch != nil {
		return nil, errSearch
	}
	return companies.Results, nil
}

// CompanyNotesSummary condenses the notes attached to a company into
// totals, the five most recent notes, and the distinct authors.
func (c *Client) CompanyNotesSummary(ctx context.Context, companyID string) (NotesSummary, error) {
	var result NotesSummary

	notes, errNotes := c.ListNotes(ctx, NotesParams{
		CompanyID:  companyID,
		Pagination: Pagination{PageSize: 1000},
	})
	if errNotes != nil {
		return result, errNotes
	}

	results := notes.Results
	sorted := make([]Note, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt > sorted[j].CreatedAt
	})

	recent := sorted
	if len(recent) > 5 {
		recent = recent[:5]
	}

	seen := make(map[string]bool)
	var authors []string
	for _, note := range results {
		if note.Author == "" || seen[note.Author] {
			continue
		}
		seen[note.Author] = true
		authors = append(authors, note.Author)
	}

	result = NotesSummary{
		TotalNotes:  len(results),
		RecentNotes: recent,
		Authors:     authors,
	}
	return result, nil
}
