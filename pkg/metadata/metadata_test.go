package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Metadata {
	target := "16 Psyche"
	orbit := uint32(12)
	return &Metadata{
		ID:           42,
		ImageID:      "PSY_A_00042",
		URL:          "https://example.test/raw/psy_a_00042.png?v=2",
		DateTakenUTC: "2024-05-01T10:00:00.000Z",
		DateReceived: "2024-05-02T10:00:00.000Z",
		Width:        2048,
		Height:       1536,
		Instrument:   "A",
		CameraName:   "Imager A",
		Filter:       3,
		FilterName:   "F3",
		Target:       &target,
		OrbitNumber:  &orbit,
	}
}

func TestFilenames(t *testing.T) {
	tests := []struct {
		url     string
		image   string
		sidecar string
	}{
		{"https://example.test/raw/psy_a_00042.png?v=2", "psy_a_00042.png", "psy_a_00042-metadata.json"},
		{"https://example.test/a/b/frame.IMG", "frame.IMG", "frame-metadata.json"},
		{"noext", "noext", "noext-metadata.json"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			m := &Metadata{URL: tt.url}
			assert.Equal(t, tt.image, m.ImageFilename())
			assert.Equal(t, tt.sidecar, SidecarName(m.ImageFilename()))
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	m := sample()

	p, err := m.Save(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "psy_a_00042-metadata.json"), p)

	loaded, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, m, loaded)
	assert.Equal(t, "2048x1536", loaded.Dimensions())
}

func TestOptionalFieldsSerializeAsNull(t *testing.T) {
	dir := t.TempDir()
	m := sample()
	m.Target = nil

	p, err := m.Save(dir)
	require.NoError(t, err)

	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"target": null`)
	assert.Contains(t, string(raw), `"distance": null`)
	assert.Contains(t, string(raw), `"orbit_number": 12`)
}

func TestLoadMissingOptionalFields(t *testing.T) {
	p := filepath.Join(t.TempDir(), "x-metadata.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"id":7,"imageid":"X","url":"u"}`), 0644))

	m, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), m.ID)
	assert.Nil(t, m.Target)
	assert.Nil(t, m.SpacecraftClock)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = Load(bad)
	assert.Error(t, err)
}
