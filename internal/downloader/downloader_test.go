package downloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload(t *testing.T) {
	const content = "I HAD always thought Jack Gisburn rather a cheap genius"
	var failures atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "simpletok-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		if failures.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(content))
	}))
	defer server.Close()

	m := New().WithUserAgent("simpletok-test").WithAuthToken("secret").
		WithRetries(3, time.Millisecond, 5*time.Millisecond)
	filePath := filepath.Join(t.TempDir(), "corpus.txt")
	var lastDownloaded int64
	err := m.Download(context.Background(), server.URL+"/corpus.txt", filePath, func(downloaded, total int64) {
		lastDownloaded = downloaded
	})
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), lastDownloaded)
	got, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestDownloadErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()
	m := New().WithRetries(0, time.Millisecond, time.Millisecond)
	filePath := filepath.Join(t.TempDir(), "missing.txt")
	err := m.Download(context.Background(), server.URL+"/missing.txt", filePath, nil)
	assert.ErrorContains(t, err, "404")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = m.Download(ctx, server.URL+"/missing.txt", filePath, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSemaphore(t *testing.T) {
	s := NewSemaphore(2)
	var current, maxSeen atomic.Int32
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Acquire()
			defer s.Release()
			n := current.Add(1)
			for {
				m := maxSeen.Load()
				if n <= m || maxSeen.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			current.Add(-1)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, maxSeen.Load(), int32(2))

	s.Resize(0)
	assert.Equal(t, 0, s.Capacity())
	for range 5 {
		s.Acquire()
	}
}

func TestSemaphoreAcquireContext(t *testing.T) {
	s := NewSemaphore(1)
	require.NoError(t, s.AcquireContext(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.AcquireContext(ctx), context.Canceled)

	// Cancelled while waiting for the slot.
	ctx, cancel = context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.AcquireContext(ctx) }()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("AcquireContext didn't return after its context was cancelled")
	}

	// Giving up didn't take the slot: it can still be handed over.
	go func() {
		time.Sleep(20 * time.Millisecond)
		s.Release()
	}()
	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.AcquireContext(ctx))
	s.Release()
}

func TestDownloadWaitingForSlot(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("tea"))
	}))
	defer server.Close()
	m := New().MaxParallel(1)
	m.semaphore.Acquire()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	filePath := filepath.Join(t.TempDir(), "tea.txt")
	err := m.Download(ctx, server.URL+"/tea.txt", filePath, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(0), hits.Load())

	m.semaphore.Release()
	require.NoError(t, m.Download(context.Background(), server.URL+"/tea.txt", filePath, nil))
	contents, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, "tea", string(contents))
}
