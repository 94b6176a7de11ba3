package corpus

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/simpletok/internal/downloader"
	"github.com/gomlx/simpletok/internal/files"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Source of a corpus: a plain-text file to be downloaded from a URL. Create it with New.
type Source struct {
	// URL of the plain-text file. It must be an http(s) URL whose path ends with ".txt".
	URL string

	// Verbosity: 0 for quiet operation; 1 for information about progress; 2 and higher for debugging.
	Verbosity int

	// cacheDir is where to store the downloaded files.
	cacheDir string

	// fileName within cacheDir, if empty one is derived from the URL.
	fileName string

	// authToken to be used when downloading the file.
	authToken string

	forceDownload bool

	// retryMax, if >= 0, overrides the download manager default number of retries.
	retryMax int

	managerOnce     sync.Once
	downloadManager *downloader.Manager
}

// New creates a Source for the given URL.
//
// It uses the default cache directory (see DefaultCacheDir), use Source.WithCacheDir to change it.
// The URL is only validated (see Source.Validate) when downloading.
func New(url string) *Source {
	return &Source{
		URL:       url,
		cacheDir:  DefaultCacheDir(),
		Verbosity: 1,
		retryMax:  -1,
	}
}

// WithCacheDir sets the directory where the downloaded file is stored. A leading "~" is expanded.
func (s *Source) WithCacheDir(cacheDir string) *Source {
	newCacheDir, err := files.ExpandTilde(cacheDir)
	if err == nil {
		s.cacheDir = filepath.Clean(newCacheDir)
	} else {
		klog.Warningf("Failed to resolve directory for %q: %+v", cacheDir, err)
	}
	return s
}

// WithFileName sets the name of the downloaded file within the cache directory.
// By default, it is derived from the URL host and path.
func (s *Source) WithFileName(fileName string) *Source {
	s.fileName = cleanRelativeFilePath(fileName)
	return s
}

// WithAuth sets the bearer token to use during downloads.
//
// Setting it to empty ("") is the same as resetting and not using authentication.
func (s *Source) WithAuth(authToken string) *Source {
	s.authToken = authToken
	return s
}

// WithForceDownload makes Download fetch the file even if it is already in the cache.
func (s *Source) WithForceDownload(force bool) *Source {
	s.forceDownload = force
	return s
}

// WithRetryMax sets the number of retries of transient download failures.
func (s *Source) WithRetryMax(retryMax int) *Source {
	s.retryMax = retryMax
	return s
}

// WithDownloadManager sets the downloader.Manager to use for download.
// This is not needed, one will be created automatically if one is not set.
// This is useful when downloading multiple sources simultaneously, to coordinate limits by sharing the download manager.
func (s *Source) WithDownloadManager(manager *downloader.Manager) *Source {
	s.downloadManager = manager
	return s
}

// getDownloadManager returns the current downloader.Manager, or creates a new one for this Source.
// It is safe to call from concurrent downloads of the same Source.
func (s *Source) getDownloadManager() *downloader.Manager {
	s.managerOnce.Do(func() {
		if s.downloadManager != nil {
			return
		}
		s.downloadManager = downloader.New().WithUserAgent(DefaultHttpUserAgent()).WithAuthToken(s.authToken)
		if s.retryMax >= 0 {
			s.downloadManager.WithRetries(s.retryMax, time.Second, 30*time.Second)
		}
	})
	return s.downloadManager
}

// Validate that the URL identifies a plain-text resource: an http or https URL whose path ends with ".txt".
// It returns an error wrapping ErrInvalidSource otherwise.
func (s *Source) Validate() error {
	u, err := url.Parse(s.URL)
	if err != nil {
		return errors.Wrapf(ErrInvalidSource, "can't parse URL %q: %v", s.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Wrapf(ErrInvalidSource, "URL %q must use http or https", s.URL)
	}
	if u.Host == "" {
		return errors.Wrapf(ErrInvalidSource, "URL %q has no host", s.URL)
	}
	if !strings.HasSuffix(u.Path, ".txt") {
		return errors.Wrapf(ErrInvalidSource, "URL %q must be a valid text file endpoint, its path must end with \".txt\"", s.URL)
	}
	return nil
}

// FilePath returns the path where the corpus is (or will be) stored.
func (s *Source) FilePath() string {
	if s.fileName != "" {
		return filepath.Join(s.cacheDir, s.fileName)
	}
	return filepath.Join(s.cacheDir, s.flatFileName())
}

// flatFileName returns a name for the URL safe for disk storage as a single file: host and path parts joined
// by "--".
func (s *Source) flatFileName() string {
	u, err := url.Parse(s.URL)
	if err != nil {
		return "corpus.txt"
	}
	parts := []string{u.Host}
	for _, part := range strings.Split(u.Path, "/") {
		if part != "" && part != "." && part != ".." {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "--")
}

// Download the corpus to the cache directory (if not there yet) and return its local path.
//
// It returns an error wrapping ErrInvalidSource, without attempting any download, if the URL is not valid.
func (s *Source) Download(ctx context.Context) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	filePath := s.FilePath()
	if err := s.lockedDownload(ctx, s.URL, filePath, s.forceDownload, s.progressCallback()); err != nil {
		return "", err
	}
	return filePath, nil
}

// FetchText downloads the corpus (if not cached yet) and returns its raw contents.
func (s *Source) FetchText(ctx context.Context) ([]byte, error) {
	filePath, err := s.Download(ctx)
	if err != nil {
		return nil, err
	}
	contents, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read downloaded corpus %q", filePath)
	}
	return contents, nil
}

// Text downloads the corpus (if not cached yet) and returns it as text. See LoadText.
func (s *Source) Text(ctx context.Context) (string, error) {
	filePath, err := s.Download(ctx)
	if err != nil {
		return "", err
	}
	return LoadText(filePath)
}

// progressCallback returns a callback that logs the download progress, if Verbosity > 0.
func (s *Source) progressCallback() downloader.ProgressCallback {
	if s.Verbosity <= 0 {
		return nil
	}
	const reportEvery = 1 << 20
	var lastReported int64
	return func(downloaded, total int64) {
		if downloaded != total && downloaded-lastReported < reportEvery {
			return
		}
		lastReported = downloaded
		if total > 0 {
			klog.V(1).Infof("Downloading %q: %s of %s", s.URL, humanize.Bytes(uint64(downloaded)), humanize.Bytes(uint64(total)))
		} else {
			klog.V(1).Infof("Downloading %q: %s", s.URL, humanize.Bytes(uint64(downloaded)))
		}
	}
}

// String implements fmt.Stringer.
func (s *Source) String() string {
	return s.URL
}

// cleanRelativeFilePath cleans fileName and makes sure it is a relative path that doesn't go up (no "..").
func cleanRelativeFilePath(fileName string) string {
	cleaned := filepath.Clean("/" + filepath.ToSlash(fileName))
	cleaned = strings.TrimPrefix(filepath.ToSlash(cleaned), "/")
	if cleaned == "" {
		return "."
	}
	return filepath.FromSlash(cleaned)
}
