package remote

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pru/pkg/errors"
	"pru/pkg/metadata"
)

// fakePager serves total synthetic records split into pages of the
// query's page size.
type fakePager struct {
	total     int
	failPage  int
	panicPage int
	statsErr  error

	statsCalls atomic.Int32
	pageCalls  atomic.Int32
	mu         sync.Mutex
	seenPages  []int
}

func newFakePager(total int) *fakePager {
	return &fakePager{total: total, failPage: -1, panicPage: -1}
}

func (f *fakePager) FetchStats(_ context.Context, q Query) (Stats, error) {
	f.statsCalls.Add(1)
	if f.statsErr != nil {
		return Stats{}, f.statsErr
	}
	images := q.NumPerPage
	if f.total < images {
		images = f.total
	}
	return NewStats(f.total, 0, images, q.NumPerPage), nil
}

func (f *fakePager) FetchPage(ctx context.Context, q Query) ([]metadata.Metadata, error) {
	f.pageCalls.Add(1)
	page := *q.Page

	f.mu.Lock()
	f.seenPages = append(f.seenPages, page)
	f.mu.Unlock()

	if page == f.panicPage {
		panic("boom")
	}
	if page == f.failPage {
		return nil, errors.Remote(fmt.Errorf("page %d unavailable", page))
	}

	start := page * q.NumPerPage
	end := min(start+q.NumPerPage, f.total)
	var records []metadata.Metadata
	for i := start; i < end; i++ {
		records = append(records, metadata.Metadata{
			ID:      uint32(i),
			ImageID: fmt.Sprintf("PSY_A_%05d", i),
		})
	}
	return records, nil
}

func ids(records []metadata.Metadata) []uint32 {
	out := make([]uint32, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestPages(t *testing.T) {
	tests := []struct {
		total, perPage, want int
	}{
		{250, 100, 3},
		{200, 100, 2},
		{1, 100, 1},
		{0, 100, 0},
		{99, 1, 99},
		{10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.total, tt.perPage), func(t *testing.T) {
			assert.Equal(t, tt.want, Pages(tt.total, tt.perPage))
		})
	}
}

func TestNewStatsMore(t *testing.T) {
	for total := 0; total <= 350; total += 25 {
		for _, perPage := range []int{1, 7, 50, 100} {
			pages := Pages(total, perPage)
			for page := 0; page <= pages; page++ {
				s := NewStats(total, page, 0, perPage)
				assert.Equal(t, page < pages-1, s.More, "total=%d perPage=%d page=%d", total, perPage, page)
			}
		}
	}

	s := NewStats(250, 0, 100, 100)
	assert.Equal(t, 250, s.TotalResults)
	assert.Equal(t, 100, s.TotalImages)
	assert.True(t, s.More)
	assert.Empty(t, s.ErrorMessage)
}

func TestStatsExpected(t *testing.T) {
	s := Stats{TotalResults: 250}
	q := Query{NumPerPage: 100}

	assert.Equal(t, 250, s.Expected(q))
	assert.Equal(t, 100, s.Expected(q.WithPage(0)))
	assert.Equal(t, 50, s.Expected(q.WithPage(2)))
	assert.Equal(t, 0, s.Expected(q.WithPage(3)))
}

func TestQueryWithPageCopies(t *testing.T) {
	base := Query{Cameras: []string{"A"}, Search: []string{"x"}, NumPerPage: 10}
	p := base.WithPage(4)
	p.Cameras[0] = "B"
	p.Search = append(p.Search, "y")

	assert.False(t, base.HasPage())
	require.True(t, p.HasPage())
	assert.Equal(t, 4, *p.Page)
	assert.Equal(t, []string{"A"}, base.Cameras)
	assert.Equal(t, []string{"x"}, base.Search)
	assert.False(t, p.AllPages().HasPage())
}

func TestMatchesSearch(t *testing.T) {
	tests := []struct {
		name   string
		search []string
		want   bool
	}{
		{"no terms", nil, true},
		{"numeric suffix", []string{"00042"}, true},
		{"prefix fragment", []string{"A_"}, true},
		{"any of several", []string{"nope", "42"}, true},
		{"miss", []string{"00099"}, false},
		{"case sensitive", []string{"psy"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesSearch("PSY_A_00042", tt.search))
		})
	}
}

func TestFilterBySearchKeepsOrder(t *testing.T) {
	records := []metadata.Metadata{{ImageID: "PSY_A_3"}, {ImageID: "PSY_B_1"}, {ImageID: "PSY_A_2"}}
	kept := FilterBySearch(records, []string{"_A_"})
	require.Len(t, kept, 2)
	assert.Equal(t, "PSY_A_3", kept[0].ImageID)
	assert.Equal(t, "PSY_A_2", kept[1].ImageID)
}

func TestQueryPagesAllPages(t *testing.T) {
	pager := newFakePager(250)
	q := Query{NumPerPage: 100}

	records, err := QueryPages(context.Background(), q, pager, 0)
	require.NoError(t, err)

	assert.Len(t, records, 250)
	assert.Equal(t, int32(1), pager.statsCalls.Load())
	assert.Equal(t, int32(3), pager.pageCalls.Load())
	assert.ElementsMatch(t, []int{0, 1, 2}, pager.seenPages)

	seen := make(map[uint32]bool)
	for _, id := range ids(records) {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
}

func TestQueryPagesIdempotent(t *testing.T) {
	q := Query{NumPerPage: 7}
	first, err := QueryPages(context.Background(), q, newFakePager(100), 3)
	require.NoError(t, err)
	second, err := QueryPages(context.Background(), q, newFakePager(100), 3)
	require.NoError(t, err)

	assert.ElementsMatch(t, ids(first), ids(second))
}

func TestQueryPagesAppliesSearchPerPage(t *testing.T) {
	q := Query{NumPerPage: 100, Search: []string{"00042", "00199"}}
	records, err := QueryPages(context.Background(), q, newFakePager(250), 2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint32{42, 199}, ids(records))
}

func TestQueryPagesExplicitPage(t *testing.T) {
	pager := newFakePager(250)
	page := 2
	q := Query{NumPerPage: 100, Page: &page}

	records, err := QueryPages(context.Background(), q, pager, 0)
	require.NoError(t, err)

	assert.Len(t, records, 50)
	assert.Equal(t, int32(0), pager.statsCalls.Load())
	assert.Equal(t, int32(1), pager.pageCalls.Load())
	assert.Equal(t, uint32(200), records[0].ID)
}

func TestQueryPagesExplicitPageFailure(t *testing.T) {
	pager := newFakePager(250)
	pager.failPage = 1

	records, err := QueryPages(context.Background(), Query{NumPerPage: 100}.WithPage(1), pager, 0)
	require.Error(t, err)
	assert.Nil(t, records)
	assert.True(t, errors.IsType(err, errors.ErrorTypeRemote))
}

func TestQueryPagesFailureIsAtomic(t *testing.T) {
	pager := newFakePager(500)
	pager.failPage = 2

	records, err := QueryPages(context.Background(), Query{NumPerPage: 100}, pager, 0)
	require.Error(t, err)
	assert.Nil(t, records)
	assert.True(t, errors.IsType(err, errors.ErrorTypeRemote))
	assert.Contains(t, err.Error(), "page 2")
}

func TestQueryPagesReturnsPageErrorUnchanged(t *testing.T) {
	pager := newFakePager(300)
	pager.failPage = 1

	_, err := QueryPages(context.Background(), Query{NumPerPage: 100}, pager, 0)
	require.Error(t, err)
	assert.Equal(t, "remote error: page 1 unavailable", err.Error())
}

func TestQueryPagesStatsFailure(t *testing.T) {
	pager := newFakePager(500)
	pager.statsErr = errors.Remote(stderrors.New("dns failure"))

	records, err := QueryPages(context.Background(), Query{NumPerPage: 100}, pager, 0)
	require.Error(t, err)
	assert.Nil(t, records)
	assert.Equal(t, int32(0), pager.pageCalls.Load())
}

func TestQueryPagesPanicBecomesProgrammingError(t *testing.T) {
	pager := newFakePager(300)
	pager.panicPage = 1

	records, err := QueryPages(context.Background(), Query{NumPerPage: 100}, pager, 0)
	require.Error(t, err)
	assert.Nil(t, records)
	assert.True(t, errors.IsType(err, errors.ErrorTypeProgramming))
}

func TestQueryPagesRejectsNonPositivePageSize(t *testing.T) {
	_, err := QueryPages(context.Background(), Query{NumPerPage: 0}, newFakePager(10), 0)
	assert.True(t, errors.IsType(err, errors.ErrorTypeProgramming))
}

func TestQueryPagesEmptyResult(t *testing.T) {
	pager := newFakePager(0)
	records, err := QueryPages(context.Background(), Query{NumPerPage: 100}, pager, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, int32(0), pager.pageCalls.Load())
}
