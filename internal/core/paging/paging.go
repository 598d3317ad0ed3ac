// Package paging tracks per-query-key pagination state for remote list
// fetches. A Controller hands out tickets when a page load begins and only
// commits results whose ticket still matches the current key and generation,
// so responses for a superseded query are discarded when they resolve.
package paging

// Page identifies one page of a remote list request.
type Page struct {
	Number int
	Size   int
}

// Info carries the totals a list response reported, when it reported any.
// Legacy endpoints return bare arrays with no totals; HasTotals is false for
// those and the has-more heuristic applies instead.
type Info struct {
	TotalPages int
	TotalCount int
	HasTotals  bool
}

// HasMore reports whether more pages are expected after loading page p.
// With totals it is exact: p.Number < TotalPages. Without totals it falls
// back to the full-page heuristic (returned == page size), which can report
// true on an exact-multiple final page; callers must tolerate one trailing
// empty fetch.
func HasMore(p Page, returned int, info Info) bool {
	if info.HasTotals {
		return p.Number < info.TotalPages
	}
	return returned == p.Size && p.Size > 0
}
