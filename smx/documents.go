package smx

import (
	"context"
	"net/url"
)

// DocumentsParams filter the document listing. Dates are YYYY-MM-DD.
type DocumentsParams struct {
	CompanyID  string
	ParseState string
	FromDate   string
	ToDate     string
	Source     string
	Pagination
}

// ListDocuments lists all documents associated with the firm.
func (c *Client) ListDocuments(ctx context.Context, params DocumentsParams) (Page[Document], error) {
	q := url.Values{}
	params.Pagination.apply(q)
	setNonEmpty(q, "company_id", params.CompanyID)
	setNonEmpty(q, "parse_state", params.ParseState)
	setNonEmpty(q, "from", params.FromDate)
	setNonEmpty(q, "to", params.ToDate)
	setNonEmpty(q, "source", params.Source)
	var out Page[Document]
	err := c.get(ctx, "/v1/documents/", q, &out)
	return out, err
}

// ListFunds lists all funds associated with the firm.
func (c *Client) ListFunds(ctx context.Context, page Pagination) (Page[Fund], error) {
	q := url.Values{}
	page.apply(q)
	var out Page[Fund]
	err := c.get(ctx, "/v1/funds/", q, &out)
	return out, err
}
