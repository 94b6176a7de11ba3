package vocab

import (
	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"
)

// DefaultSampleSize is the number of entries LogRecorder logs by default.
const DefaultSampleSize = 51

// LogRecorder is a Recorder that logs the vocabulary size, and the first SampleSize entries at verbosity 2.
type LogRecorder struct {
	SampleSize int
}

var _ Recorder = LogRecorder{}

// VocabularyBuilt implements Recorder.
func (r LogRecorder) VocabularyBuilt(v *Vocabulary) {
	klog.Infof("Vocab size: %s", humanize.Comma(int64(v.Size())))
	if !klog.V(2).Enabled() {
		return
	}
	sampleSize := r.SampleSize
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	for token, id := range v.All() {
		if id >= sampleSize {
			break
		}
		klog.V(2).Infof("  %q: %d", token, id)
	}
}

// RecorderFunc adapts a function to a Recorder.
type RecorderFunc func(v *Vocabulary)

// VocabularyBuilt implements Recorder.
func (fn RecorderFunc) VocabularyBuilt(v *Vocabulary) {
	fn(v)
}
