package smx

import (
	"context"
	"net/url"
)

// BudgetsParams filter the budget listing.
type BudgetsParams struct {
	CompanySlug string
	CompanyID   string
	Pagination
}

// CustomColumnsParams filter the custom column listing.
type CustomColumnsParams struct {
	CompanySlug string
	CompanyID   string
	Pagination
}

// ListBudgets lists all budgets associated with the firm.
func (c *Client) ListBudgets(ctx context.Context, params BudgetsParams) (Page[Budget], error) {
	q := url.Values{}
	params.Pagination.apply(q)
	setNonEmpty(q, "company_slug", params.CompanySlug)
	setNonEmpty(q, "company_id", params.CompanyID)
	var out Page[Budget]
	err := c.get(ctx, "/v1/budgets/", q, &out)
	return out, err
}

// GetCustomColumns gets custom column data for companies.
func (c *Client) GetCustomColumns(ctx context.Context, params CustomColumnsParams) (Page[CustomColumn], error) {
	q := url.Values{}
	params.Pagination.apply(q)
	setNonEmpty(q, "company_slug", params.CompanySlug)
	setNonEmpty(q, "company_id", params.CompanyID)
	var out Page[CustomColumn]
	err := c.get(ctx, "/v1/custom-columns/", q, &out)
	return out, err
}

// GetCustomColumnOptions gets all custom columns and their available options.
func (c *Client) GetCustomColumnOptions(ctx context.Context, page Pagination) (Page[CustomColumnOption], error) {
	q := url.Values{}
	page.apply(q)
	var out Page[CustomColumnOption]
	err := c.get(ctx, "/v1/custom-columns/options/", q, &out)
	return out, err
}
