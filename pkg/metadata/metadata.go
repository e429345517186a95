// Package metadata defines the mission-agnostic image record written next to
// every downloaded image.
package metadata

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Metadata is the canonical projection of one catalog entry.
type Metadata struct {
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

// ImageFilename returns the file name an image is stored under: the last
// path element of its URL, without query string.
func (m *Metadata) ImageFilename() string {
	return FilenameFromURL(m.URL)
}

// FilenameFromURL extracts the base name from an image URL.
func FilenameFromURL(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(rawURL)
}

// SidecarName maps an image file name to its metadata file name,
// e.g. "psy_a_0042.png" -> "psy_a_0042-metadata.json".
func SidecarName(imageFilename string) string {
	base := strings.TrimSuffix(imageFilename, filepath.Ext(imageFilename))
	return base + "-metadata.json"
}

// Save writes the record as indented JSON into dir and returns the path.
func (m *Metadata) Save(dir string) (string, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}

	metadataPath := filepath.Join(dir, SidecarName(m.ImageFilename()))
	if err := os.WriteFile(metadataPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write metadata file: %w", err)
	}

	return metadataPath, nil
}

// Load reads a metadata file written by Save.
func Load(metadataPath string) (*Metadata, error) {
	data, err := os.ReadFile(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	return &meta, nil
}

// Dimensions formats the pixel size for display.
func (m *Metadata) Dimensions() string {
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}
