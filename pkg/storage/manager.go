package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"pru/pkg/metadata"
)

const (
	tempSuffix     = ".tmp"
	metadataSuffix = "-metadata.json"
)

// Manager owns one output directory: it writes images and their metadata
// sidecars and answers whether an image is already present.
type Manager struct {
	outputDir  string
	downloaded map[string]bool
	mu         sync.RWMutex
}

// NewManager creates the output directory if needed and indexes the images
// already in it.
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	m := &Manager{
		outputDir:  outputDir,
		downloaded: make(map[string]bool),
	}

	if err := m.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing files: %w", err)
	}

	return m, nil
}

func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasSuffix(name, tempSuffix) || strings.HasSuffix(name, metadataSuffix) {
			continue
		}
		m.downloaded[name] = true
	}

	return nil
}

// IsDownloaded reports whether filename already exists in the output
// directory. This is the "only new" skip policy.
func (m *Manager) IsDownloaded(filename string) bool {
	m.mu.RLock()
	known := m.downloaded[filename]
	m.mu.RUnlock()
	if known {
		return true
	}

	if _, err := os.Stat(filepath.Join(m.outputDir, filename)); err != nil {
		return false
	}

	m.mu.Lock()
	m.downloaded[filename] = true
	m.mu.Unlock()
	return true
}

// SaveImage writes r to filename atomically and returns the final path.
func (m *Manager) SaveImage(r io.Reader, filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || filename == "." || filename == ".." {
		return "", fmt.Errorf("invalid image file name %q", filename)
	}

	final := filepath.Join(m.outputDir, filename)
	tempFile := final + tempSuffix

	out, err := os.Create(tempFile)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to save image data: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, final); err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.mu.Lock()
	m.downloaded[filename] = true
	m.mu.Unlock()

	return final, nil
}

// SaveMetadata writes the record's sidecar next to its image.
func (m *Manager) SaveMetadata(rec *metadata.Metadata) (string, error) {
	return rec.Save(m.outputDir)
}

// OutputDir returns the output directory path
func (m *Manager) OutputDir() string {
	return m.outputDir
}

// DownloadedCount returns the number of images known to be present
func (m *Manager) DownloadedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.downloaded)
}
