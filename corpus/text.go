package corpus

import (
	"os"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// previewLength is the number of characters of a loaded text logged at verbosity 2.
const previewLength = 99

// LoadText reads the whole file as UTF-8 text.
func LoadText(filePath string) (string, error) {
	contents, err := os.ReadFile(filePath)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read text file %q", filePath)
	}
	if !utf8.Valid(contents) {
		return "", errors.Errorf("file %q is not valid UTF-8 text", filePath)
	}
	text := string(contents)
	if klog.V(1).Enabled() {
		klog.Infof("Loaded %q: %s characters", filePath, humanize.Comma(int64(utf8.RuneCountInString(text))))
		klog.V(2).Infof("%s", preview(text, previewLength))
	}
	return text, nil
}

// preview returns the first n characters of text.
func preview(text string, n int) string {
	for ii := range text {
		if n == 0 {
			return text[:ii]
		}
		n--
	}
	return text
}
