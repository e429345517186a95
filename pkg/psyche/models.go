package psyche

import (
	"encoding/json"
	"fmt"
	"os"

	"pru/pkg/metadata"
)

// ImageRecord is one item as returned by the Psyche catalog.
type ImageRecord struct {
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

// APIResults is one page of catalog results. The API reports per_page as
// a string.
type APIResults struct {
	Items   []ImageRecord `json:"items"`
	PerPage string        `json:"per_page"`
	Total   uint32        `json:"total"`
	Page    uint32        `json:"page"`
}

// ToMetadata projects the mission record onto the canonical record.
func (r ImageRecord) ToMetadata() metadata.Metadata {
	return metadata.Metadata{
		ID:               r.ID,
		ImageID:          r.ImageID,
		URL:              r.URL,
		DateTakenUTC:     r.DateTakenUTC,
		DateReceived:     r.DateReceived,
		Width:            r.Width,
		Height:           r.Height,
		Instrument:       r.Instrument,
		CameraName:       r.CameraName,
		CameraTitle:      r.CameraTitle,
		Filter:           r.Filter,
		FilterName:       r.FilterName,
		FilterWavelength: r.FilterWavelength,
		Target:           r.Target,
		Distance:         r.Distance,
		OrbitNumber:      r.OrbitNumber,
		SpacecraftClock:  r.SpacecraftClock,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// Records projects every item on the page, keeping API order.
func (r *APIResults) Records() []metadata.Metadata {
	out := make([]metadata.Metadata, 0, len(r.Items))
	for _, item := range r.Items {
		out = append(out, item.ToMetadata())
	}
	return out
}

// ParseResults decodes one raw catalog response.
func ParseResults(body string) (*APIResults, error) {
	var res APIResults
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// LoadRecordFile reads a single catalog item saved as JSON and projects it.
func LoadRecordFile(path string) (*metadata.Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}

	var rec ImageRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse record file %s: %w", path, err)
	}

	m := rec.ToMetadata()
	return &m, nil
}
