// Package downloader implements a download manager: HTTP GETs of URLs to files, with a bounded number of
// parallel downloads and retries of transient failures.
package downloader

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const (
	// DefaultMaxParallel is the default number of parallel downloads of a Manager.
	DefaultMaxParallel = 20

	// DefaultRetryMax is the default number of retries of a download after a transient failure.
	DefaultRetryMax = 3
)

// ProgressCallback is called synchronously while downloading, with the number of bytes downloaded so far and
// the total expected (-1 if not known).
type ProgressCallback func(downloaded, total int64)

// Manager of downloads. Create it with New, and configure it with the various setters.
//
// It is safe for concurrent use, as long as it is configured before downloads start.
type Manager struct {
	semaphore *Semaphore
	client    *retryablehttp.Client
	authToken string
	userAgent string
}

// New creates a Manager with DefaultMaxParallel parallel downloads and DefaultRetryMax retries.
func New() *Manager {
	client := retryablehttp.NewClient()
	client.RetryMax = DefaultRetryMax
	client.Logger = klogLogger{}
	return &Manager{
		semaphore: NewSemaphore(DefaultMaxParallel),
		client:    client,
	}
}

// MaxParallel sets the maximum number of parallel downloads. If <= 0 there is no limit.
func (m *Manager) MaxParallel(n int) *Manager {
	m.semaphore.Resize(n)
	return m
}

// WithAuthToken sets a bearer token sent with every request. Empty disables it.
func (m *Manager) WithAuthToken(authToken string) *Manager {
	m.authToken = authToken
	return m
}

// WithUserAgent sets the "User-Agent" header sent with every request.
func (m *Manager) WithUserAgent(userAgent string) *Manager {
	m.userAgent = userAgent
	return m
}

// WithRetries configures retries of transient failures (connection errors, 5xx and 429 responses):
// at most retryMax retries, waiting with exponential backoff between waitMin and waitMax.
func (m *Manager) WithRetries(retryMax int, waitMin, waitMax time.Duration) *Manager {
	m.client.RetryMax = retryMax
	m.client.RetryWaitMin = waitMin
	m.client.RetryWaitMax = waitMax
	return m
}

// WithHTTPClient sets the underlying http.Client, e.g. for tests or proxies.
func (m *Manager) WithHTTPClient(client *http.Client) *Manager {
	m.client.HTTPClient = client
	return m
}

// Download url to filePath, truncating filePath if it exists.
//
// It blocks while the maximum number of parallel downloads is reached, until ctx is done.
// If progressCallback is not nil, it is called as the download progresses.
func (m *Manager) Download(ctx context.Context, url, filePath string, progressCallback ProgressCallback) error {
	if err := m.semaphore.AcquireContext(ctx); err != nil {
		return err
	}
	defer m.semaphore.Release()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrapf(err, "failed to create request for %q", url)
	}
	if m.userAgent != "" {
		req.Header.Set("User-Agent", m.userAgent)
	}
	if m.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+m.authToken)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed request to download %q", url)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		contents, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errors.Errorf("download of %q failed with status %q: %q", url, resp.Status, contents)
	}

	f, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, "failed to create %q", filePath)
	}
	var r io.Reader = resp.Body
	if progressCallback != nil {
		progressCallback(0, resp.ContentLength)
		r = &progressReader{reader: r, total: resp.ContentLength, callback: progressCallback}
	}
	_, err = io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "failed to download %q to %q", url, filePath)
	}
	if err = f.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %q", filePath)
	}
	return nil
}

// progressReader reports the bytes read to a ProgressCallback.
type progressReader struct {
	reader            io.Reader
	downloaded, total int64
	callback          ProgressCallback
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.reader.Read(buf)
	if n > 0 {
		p.downloaded += int64(n)
		p.callback(p.downloaded, p.total)
	}
	return n, err
}

// klogLogger implements retryablehttp.LeveledLogger.
type klogLogger struct{}

var _ retryablehttp.LeveledLogger = klogLogger{}

func (klogLogger) Error(msg string, keysAndValues ...interface{}) {
	klog.ErrorS(nil, msg, keysAndValues...)
}

func (klogLogger) Warn(msg string, keysAndValues ...interface{}) {
	klog.InfoS("Warning: "+msg, keysAndValues...)
}

func (klogLogger) Info(msg string, keysAndValues ...interface{}) {
	klog.V(1).InfoS(msg, keysAndValues...)
}

func (klogLogger) Debug(msg string, keysAndValues ...interface{}) {
	klog.V(3).InfoS(msg, keysAndValues...)
}
