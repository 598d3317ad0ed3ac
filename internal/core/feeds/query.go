// Package feeds composes filtered post queries and synchronizes group feeds
// into the post cache. Access is gated on membership: a feed is neither
// fetched nor populated until the viewer is a full member of its group.
package feeds

import (
	"net/url"
	"strconv"
	"time"

	"Thrive/internal/backend"
	"Thrive/internal/core/paging"
)

// dateLayout is the wire format for date-range filters.
const dateLayout = "2006-01-02"

// DefaultPageSize is used when a query doesn't specify one.
const DefaultPageSize = 10

// Query is the user-facing filter set for a group's feed. Two queries with
// equal keys produce the same result set; changing any field (including the
// page size, which changes result framing) changes the key and resets
// pagination to page 1.
type Query struct {
	Search   string
	Status   string
	From     *time.Time
	To       *time.Time
	PageSize int
}

// normalized fills defaults so equal-meaning queries compare equal.
func (q Query) normalized() Query {
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	return q
}

// Key returns the canonical, comparable identity of the query. url.Values
// encoding sorts keys, so field order can never produce distinct keys for
// the same filter set. Absent fields are omitted entirely.
func (q Query) Key() string {
	q = q.normalized()

	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.From != nil {
		v.Set("from", q.From.Format(dateLayout))
	}
	if q.To != nil {
		v.Set("to", q.To.Format(dateLayout))
	}
	v.Set("size", strconv.Itoa(q.PageSize))
	return v.Encode()
}

// Params produces the normalized backend request payload for one page.
// Absent dates are omitted, never sent as null.
func (q Query) Params(page int) backend.ListPostsParams {
	q = q.normalized()

	params := backend.ListPostsParams{
		Page:   paging.Page{Number: page, Size: q.PageSize},
		Search: q.Search,
		Status: q.Status,
	}
	if q.From != nil {
		params.From = q.From.Format(dateLayout)
	}
	if q.To != nil {
		params.To = q.To.Format(dateLayout)
	}
	return params
}
