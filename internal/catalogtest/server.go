// Package catalogtest serves a fake raw image catalog for tests.
package catalogtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// CatalogPath is where the fake catalog answers queries.
const CatalogPath = "/api/v1/raw_image_psyche_items/"

// Item mirrors one catalog entry on the wire.
type Item struct {
	ID               uint32   `json:"id"`
	ImageID          string   `json:"imageid"`
	URL              string   `json:"url"`
	DateTakenUTC     string   `json:"date_taken_utc"`
	DateReceived     string   `json:"date_received"`
	Width            uint32   `json:"width"`
	Height           uint32   `json:"height"`
	Instrument       string   `json:"instrument"`
	CameraName       string   `json:"camera_name"`
	CameraTitle      string   `json:"camera_title"`
	Filter           uint32   `json:"filter"`
	FilterName       string   `json:"filter_name"`
	FilterWavelength string   `json:"filter_wavelength"`
	Target           *string  `json:"target"`
	Distance         *uint32  `json:"distance"`
	OrbitNumber      *uint32  `json:"orbit_number"`
	SpacecraftClock  *float64 `json:"spacecraft_clock"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
}

// Server is an httptest server holding a fixed set of items. Items
// alternate between instruments A and B and cycle through filters 0..3.
type Server struct {
	*httptest.Server

	items []Item

	// FailPage makes requests for that explicit page return 500. -1 disables.
	FailPage atomic.Int32
	// FailImages makes every image request return 404.
	FailImages atomic.Bool
	// MalformedStats returns invalid JSON for requests without a page.
	MalformedStats atomic.Bool

	mu            sync.Mutex
	queries       []map[string]string
	imageRequests atomic.Int32
}

// NewServer starts a catalog holding total items.
func NewServer(total int) *Server {
	s := &Server{}
	s.FailPage.Store(-1)

	mux := http.NewServeMux()
	mux.HandleFunc(CatalogPath, s.handleCatalog)
	mux.HandleFunc("/images/", s.handleImage)
	s.Server = httptest.NewServer(mux)

	target := "16 Psyche"
	for i := 0; i < total; i++ {
		instrument := "A"
		if i%2 == 1 {
			instrument = "B"
		}
		orbit := uint32(i / 10)
		s.items = append(s.items, Item{
			ID:               uint32(i + 1),
			ImageID:          fmt.Sprintf("PSY_%s_%05d", instrument, i),
			URL:              fmt.Sprintf("%s/images/psy_%s_%05d.png", s.URL, strings.ToLower(instrument), i),
			DateTakenUTC:     "2024-05-01T10:00:00.000Z",
			DateReceived:     "2024-05-02T10:00:00.000Z",
			Width:            1024,
			Height:           1024,
			Instrument:       instrument,
			CameraName:       "Imager " + instrument,
			CameraTitle:      "Multispectral Imager " + instrument,
			Filter:           uint32(i % 4),
			FilterName:       fmt.Sprintf("F%d", i%4),
			FilterWavelength: "550nm",
			Target:           &target,
			OrbitNumber:      &orbit,
			CreatedAt:        "2024-05-02T11:00:00.000Z",
			UpdatedAt:        "2024-05-02T11:00:00.000Z",
		})
	}
	return s
}

// CatalogURL is the base URL to configure a backend with.
func (s *Server) CatalogURL() string {
	return s.URL + CatalogPath
}

// Queries returns the query parameters of every catalog request so far.
func (s *Server) Queries() []map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]string(nil), s.queries...)
}

// ImageRequests counts image downloads served.
func (s *Server) ImageRequests() int {
	return int(s.imageRequests.Load())
}

// ImageBody is the payload served for an image file name.
func ImageBody(name string) []byte {
	return []byte("image:" + name)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	seen := make(map[string]string, len(q))
	for k := range q {
		seen[k] = q.Get(k)
	}
	s.mu.Lock()
	s.queries = append(s.queries, seen)
	s.mu.Unlock()

	perPage, err := strconv.Atoi(q.Get("per_page"))
	if err != nil || perPage <= 0 {
		http.Error(w, "bad per_page", http.StatusBadRequest)
		return
	}

	page := 0
	if p := q.Get("page"); p != "" {
		page, err = strconv.Atoi(p)
		if err != nil {
			http.Error(w, "bad page", http.StatusBadRequest)
			return
		}
		if int32(page) == s.FailPage.Load() {
			http.Error(w, "page unavailable", http.StatusInternalServerError)
			return
		}
	} else if s.MalformedStats.Load() {
		w.Write([]byte(`{"items": [`))
		return
	}

	matched := s.match(q.Get("search"))
	start := min(page*perPage, len(matched))
	end := min(start+perPage, len(matched))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"items":    matched[start:end],
		"per_page": strconv.Itoa(perPage),
		"total":    len(matched),
		"page":     page,
	})
}

// match applies a "(A|B):camera" clause.
func (s *Server) match(search string) []Item {
	clause := strings.TrimSuffix(search, ":camera")
	clause = strings.TrimSuffix(strings.TrimPrefix(clause, "("), ")")
	if clause == "" {
		return s.items
	}
	want := make(map[string]bool)
	for _, tok := range strings.Split(clause, "|") {
		want[tok] = true
	}
	var out []Item
	for _, it := range s.items {
		if want[it.Instrument] {
			out = append(out, it)
		}
	}
	return out
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	s.imageRequests.Add(1)
	if s.FailImages.Load() {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/images/")
	w.Write(ImageBody(name))
}
