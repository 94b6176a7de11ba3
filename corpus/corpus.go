// Package corpus downloads plain-text corpora and loads them as text.
//
// Downloaded files are kept in a local cache directory (see DefaultCacheDir), so a corpus is only downloaded
// once, even when different programs ask for it at the same time.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gomlx/simpletok"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// SessionId is unique and always created anew at the start of the program, and used during the life of the program.
var SessionId string

// panicf generates an error message and panics with it, in one function.
func panicf(format string, args ...any) {
	err := errors.Errorf(format, args...)
	panic(err)
}

func init() {
	sessionUUID, err := uuid.NewRandom()
	if err != nil {
		panicf("failed generating UUID for SessionId: %v", err)
	}
	SessionId = strings.ReplaceAll(sessionUUID.String(), "-", "")
}

var (
	// DefaultDirCreationPerm is used when creating new cache subdirectories.
	DefaultDirCreationPerm = os.FileMode(0755)

	// DefaultFileCreationPerm is used when creating files inside the cache subdirectories.
	DefaultFileCreationPerm = os.FileMode(0644)
)

// DefaultURL of the corpus used when none is given: the short story "The Verdict", by Edith Wharton.
const DefaultURL = "https://raw.githubusercontent.com/rasbt/LLMs-from-scratch/refs/heads/main/ch02/01_main-chapter-code/the-verdict.txt"

// ErrInvalidSource is returned (wrapped) when a locator doesn't identify a plain-text resource.
// It is a validation error: retrying won't help.
var ErrInvalidSource = errors.New("invalid corpus source")

func getEnvOr(key, defaultValue string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	return v
}

// DefaultCacheDir where downloaded corpora are stored.
//
// It is `${SIMPLETOK_CACHE}` if set. Otherwise, its prefix is either `${XDG_CACHE_HOME}` if set, or `~/.cache`,
// followed by `/simpletok/corpus`.
func DefaultCacheDir() string {
	if dir := os.Getenv("SIMPLETOK_CACHE"); dir != "" {
		return dir
	}
	cacheDir := getEnvOr("XDG_CACHE_HOME", filepath.Join(os.Getenv("HOME"), ".cache"))
	return filepath.Join(cacheDir, "simpletok", "corpus")
}

// DefaultHttpUserAgent returns the user agent used in downloads.
func DefaultHttpUserAgent() string {
	return fmt.Sprintf("simpletok/%v; golang/%s; session_id/%s",
		simpletok.Version, runtime.Version(), SessionId)
}
