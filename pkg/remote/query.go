package remote

import "slices"

// Query describes one catalog request. It is treated as immutable; page
// tasks work on copies made by WithPage.
type Query struct {
	// Instruments holds the short camera codes as given by the user.
	Instruments []string
	// Cameras holds the resolved API search tokens.
	Cameras    []string
	NumPerPage int
	// Page selects a single zero-indexed page. Nil fetches every page.
	Page *int
	// MinDate and MaxDate bound the date received, inclusive, in the
	// API's native format.
	MinDate  string
	MaxDate  string
	ListOnly bool
	// Search terms are matched as substrings of the image id.
	Search     []string
	OnlyNew    bool
	FilterNum  *int
	Filter     []string
	OutputPath string
}

// WithPage returns a copy of q targeting the given page.
func (q Query) WithPage(page int) Query {
	c := q.clone()
	c.Page = &page
	return c
}

// AllPages returns a copy of q with no explicit page.
func (q Query) AllPages() Query {
	c := q.clone()
	c.Page = nil
	return c
}

// HasPage reports whether q targets a single page.
func (q Query) HasPage() bool {
	return q.Page != nil
}

func (q Query) clone() Query {
	c := q
	c.Instruments = slices.Clone(q.Instruments)
	c.Cameras = slices.Clone(q.Cameras)
	c.Search = slices.Clone(q.Search)
	c.Filter = slices.Clone(q.Filter)
	if q.Page != nil {
		p := *q.Page
		c.Page = &p
	}
	if q.FilterNum != nil {
		f := *q.FilterNum
		c.FilterNum = &f
	}
	return c
}
