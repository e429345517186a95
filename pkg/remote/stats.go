package remote

// Stats summarizes a query's result set as seen by one stats request.
type Stats struct {
	TotalResults int
	// Page is the page index the stats request itself observed.
	Page int
	// TotalImages counts the records present on that page.
	TotalImages  int
	More         bool
	ErrorMessage string
}

// Pages returns ceil(total / perPage), or 0 when perPage is not positive.
func Pages(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// NewStats derives Stats from one response. More assumes zero-indexed
// pages and is only meaningful when page is the first page; stats
// requests never carry an explicit page, so backends always report 0 here.
func NewStats(total, page, images, perPage int) Stats {
	return Stats{
		TotalResults: total,
		Page:         page,
		TotalImages:  images,
		More:         page < Pages(total, perPage)-1,
	}
}

// Expected returns how many records q should yield given s, before any
// client-side filtering.
func (s Stats) Expected(q Query) int {
	if !q.HasPage() {
		return s.TotalResults
	}
	remaining := s.TotalResults - *q.Page*q.NumPerPage
	switch {
	case remaining <= 0:
		return 0
	case remaining > q.NumPerPage:
		return q.NumPerPage
	default:
		return remaining
	}
}
