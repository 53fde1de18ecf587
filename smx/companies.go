package smx

import (
	"context"
	"net/url"
)

// SearchCompaniesParams filter the company listing. Empty fields are
// omitted from the request.
type SearchCompaniesParams struct {
	NameContains string
	Sector       string
	City         string
	Pagination
}

// ListCompanies lists all companies associated with the firm.
func (c *Client) ListCompanies(ctx context.Context, page Pagination) (Page[Company], error) {
	q := url.Values{}
	page.apply(q)
	var out Page[Company]
	err := c.get(ctx, "/v1/companies/", q, &out)
	return out, err
}

// GetCompany gets a specific company by ID.
func (c *Client) GetCompany(ctx context.Context, companyID string) (Company, error) {
	var out Company
	err := c.get(ctx, "/v1/companies/"+url.PathEscape(companyID)+"/", nil, &out)
	return out, err
}

// SearchCompanies searches companies by name, sector or city.
func (c *Client) SearchCompanies(ctx context.Context, params SearchCompaniesParams) (Page[Company], error) {
	q := url.Values{}
	params.Pagination.apply(q)
	setNonEmpty(q, "name_contains", params.NameContains)
	setNonEmpty(q, "sector", params.Sector)
	setNonEmpty(q, "city", params.City)
	var out Page[Company]
	err := c.get(ctx, "/v1/companies/", q, &out)
	return out, err
}
