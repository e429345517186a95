package psyche

import "pru/pkg/config"

// Name is the mission name used in configuration.
const Name = "psyche"

// DefaultInstruments is the Psyche imager code table.
func DefaultInstruments() map[string][]string {
	return map[string][]string{
		"A": {"A"},
		"B": {"B"},
	}
}

// Config is passed to New. A nil Instruments table selects
// DefaultInstruments.
type Config struct {
	BaseURL     string
	Instruments map[string][]string
	// MaxConcurrentPages bounds the page fan-out; 0 means one task per page
	// with no bound.
	MaxConcurrentPages int
}

// ConfigFrom builds a Config from the catalog section of the app config.
func ConfigFrom(c config.CatalogConfig) Config {
	return Config{
		BaseURL:            c.BaseURL,
		Instruments:        c.Instruments,
		MaxConcurrentPages: c.MaxConcurrentPages,
	}
}
