package smx

import (
	"context"
	"net/url"
)

// NotesParams filter the note listing.
type NotesParams struct {
	CompanySlug string
	CompanyID   string
	SortBy      string
	Pagination
}

// UsersParams filter the user listing.
type UsersParams struct {
	Email string
	Pagination
}

// ListNotes lists all notes associated with a specific company.
func (c *Client) ListNotes(ctx context.Context, params NotesParams) (Page[Note], error) {
	q := url.Values{}
	params.Pagination.apply(q)
	setNonEmpty(q, "company_slug", params.CompanySlug)
	setNonEmpty(q, "company_id", params.CompanyID)
	setNonEmpty(q, "sort_by", params.SortBy)
	var out Page[Note]
	err := c.get(ctx, "/v1/notes/", q, &out)
	return out, err
}

// ListUsers lists all users associated with the firm.
func (c *Client) ListUsers(ctx context.Context, params UsersParams) (Page[User], error) {
	q := url.Values{}
	params.Pagination.apply(q)
	setNonEmpty(q, "email", params.Email)
	var out Page[User]
	err := c.get(ctx, "/v1/users/", q, &out)
	return out, err
}
