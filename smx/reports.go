package smx

import (
	"context"
	"net/url"
)

// InformationRequestsParams filter the information request listing.
type InformationRequestsParams struct {
	Name string
	Pagination
}

// InformationReportsParams filter the information report listing.
type InformationReportsParams struct {
	CompanyID            string
	InformationRequestID string
	Pagination
}

// ListInformationRequests lists all information requests associated with the firm.
func (c *Client) ListInformationRequests(ctx context.Context, params InformationRequestsParams) (Page[InformationRequest], error) {
	q := url.Values{}
	params.Pagination.apply(q)
	setNonEmpty(q, "name", params.Name)
	var out Page[InformationRequest]
	err := c.get(ctx, "/v1/information-requests/", q, &out)
	return out, err
}

// ListInformationReports lists all information reports associated with the firm.
func (c *Client) ListInformationReports(ctx context.Context, params InformationReportsParams) (Page[InformationReport], error) {
	q := url.Values{}
	params.Pagination.apply(q)
	setNonEmpty(q, "company_id", params.CompanyID)
	setNonEmpty(q, "information_request_id", params.InformationRequestID)
	var out Page[InformationReport]
	err := c.get(ctx, "/v1/information-reports/", q, &out)
	return out, err
}
