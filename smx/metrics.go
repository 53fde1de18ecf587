package smx

import (
	"context"
	"net/url"
	"strconv"
)

// MetricsParams filter a company's metrics. Dates are YYYY-MM-DD.
type MetricsParams struct {
	FromDate       string
	ToDate         string
	Category       string
	Cadence        string
	IncludeBudgets bool
	Pagination
}

// MetricsOptionsParams filter the metric options listing.
type MetricsOptionsParams struct {
	CategoryName string
	IsStandard   *bool
	Pagination
}

// GetCompanyMetrics gets metrics for a specific company.
func (c *Client) GetCompanyMetrics(ctx context.Context, companyID string, params MetricsParams) (Page[MetricData], error) {
	q := url.Values{}
	q.Set("company_id", companyID)
	params.Pagination.apply(q)
	setNonEmpty(q, "from", params.FromDate)
	setNonEmpty(q, "to", params.ToDate)
	setNonEmpty(q, "category", params.Category)
	setNonEmpty(q, "cadence", params.Cadence)
	if params.IncludeBudgets {
		q.Set("include_budgets", "1")
	}
	var out Page[MetricData]
	err := c.get(ctx, "/v1/metrics/", q, &out)
	return out, err
}

// GetMetricsOptions gets available metric categories and options.
func (c *Client) GetMetricsOptions(ctx context.Context, params MetricsOptionsParams) (Page[MetricOption], error) {
	q := url.Values{}
	params.Pagination.apply(q)
	setNonEmpty(q, "category_name", params.CategoryName)
	if params.IsStandard != nil {
		q.Set("is_standard", strconv.FormatBool(*params.IsStandard))
	}
	var out Page[MetricOption]
	err := c.get(ctx, "/v1/metrics/options/", q, &out)
	return out, err
}
