package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pru/pkg/logger"
	"pru/pkg/metadata"
)

type mockFetcher struct {
	delay    time.Duration
	failURL  string
	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (m *mockFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.calls.Add(1)
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		cur := m.maxSeen.Load()
		if n <= cur || m.maxSeen.CompareAndSwap(cur, n) {
			break
		}
	}

	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if url == m.failURL {
		return nil, errors.New("404 not found")
	}
	return []byte("data:" + url), nil
}

type mockStorage struct {
	mu       sync.Mutex
	images   map[string][]byte
	metadata map[string]bool
	saveErr  error
}

func newMockStorage() *mockStorage {
	return &mockStorage{images: make(map[string][]byte), metadata: make(map[string]bool)}
}

func (m *mockStorage) SaveImage(r io.Reader, filename string) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[filename] = data
	return "/out/" + filename, nil
}

func (m *mockStorage) SaveMetadata(rec *metadata.Metadata) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[rec.ImageID] = true
	return "/out/" + rec.ImageID + "-metadata.json", nil
}

func jobs(n int) []Job {
	out := make([]Job, n)
	for i := range out {
		out[i] = Job{
			Record:   metadata.Metadata{ID: uint32(i), ImageID: fmt.Sprintf("PSY_A_%d", i), URL: fmt.Sprintf("https://img/%d.png", i)},
			Filename: fmt.Sprintf("%d.png", i),
		}
	}
	return out
}

func runAll(t *testing.T, pool *WorkerPool, js []Job) []Result {
	t.Helper()
	ctx := context.Background()
	pool.Start(ctx)

	go func() {
		defer pool.Close()
		for _, j := range js {
			assert.NoError(t, pool.Submit(ctx, j))
		}
	}()

	var results []Result
	for r := range pool.Results() {
		results = append(results, r)
	}
	return results
}

func TestWorkerPoolProcessesEveryJob(t *testing.T) {
	fetcher := &mockFetcher{delay: 5 * time.Millisecond}
	storage := newMockStorage()
	pool := NewWorkerPool(Options{Workers: 3, WriteMetadata: true}, fetcher, storage, logger.NewNopLogger())

	results := runAll(t, pool, jobs(20))

	require.Len(t, results, 20)
	for _, r := range results {
		assert.NoError(t, r.Error)
		assert.Equal(t, "/out/"+r.Job.Filename, r.Path)
		assert.NotEmpty(t, r.MetadataPath)
		assert.Positive(t, r.Size)
	}
	assert.Len(t, storage.images, 20)
	assert.Len(t, storage.metadata, 20)
	assert.Equal(t, int32(20), fetcher.calls.Load())
	assert.LessOrEqual(t, fetcher.maxSeen.Load(), int32(3))
}

func TestWorkerPoolWithoutMetadata(t *testing.T) {
	storage := newMockStorage()
	pool := NewWorkerPool(Options{Workers: 2}, &mockFetcher{}, storage, logger.NewNopLogger())

	results := runAll(t, pool, jobs(4))
	require.Len(t, results, 4)
	assert.Empty(t, storage.metadata)
	for _, r := range results {
		assert.Empty(t, r.MetadataPath)
	}
}

func TestWorkerPoolReportsFailures(t *testing.T) {
	fetcher := &mockFetcher{failURL: "https://img/2.png"}
	pool := NewWorkerPool(Options{Workers: 2}, fetcher, newMockStorage(), logger.NewNopLogger())

	results := runAll(t, pool, jobs(5))
	require.Len(t, results, 5)

	var failed []Result
	for _, r := range results {
		if r.Error != nil {
			failed = append(failed, r)
		}
	}
	require.Len(t, failed, 1)
	assert.Equal(t, "2.png", failed[0].Job.Filename)
	assert.Contains(t, failed[0].Error.Error(), "404")
}

func TestWorkerPoolSaveFailure(t *testing.T) {
	storage := newMockStorage()
	storage.saveErr = errors.New("disk full")
	pool := NewWorkerPool(Options{Workers: 1}, &mockFetcher{}, storage, logger.NewNopLogger())

	results := runAll(t, pool, jobs(2))
	require.Len(t, results, 2)
	for _, r := range results {
		assert.ErrorContains(t, r.Error, "disk full")
	}
}

func TestWorkerPoolSubmitAfterCancel(t *testing.T) {
	pool := NewWorkerPool(Options{Workers: 1}, &mockFetcher{delay: 50 * time.Millisecond}, newMockStorage(), logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)
	cancel()

	var err error
	for _, j := range jobs(10) {
		if err = pool.Submit(ctx, j); err != nil {
			break
		}
	}
	assert.Error(t, err)
	pool.Close()

	for range pool.Results() {
	}
}

func TestWorkerPoolDefaultsToOneWorker(t *testing.T) {
	pool := NewWorkerPool(Options{}, &mockFetcher{}, newMockStorage(), nil)
	assert.Equal(t, 1, pool.Workers())
}
