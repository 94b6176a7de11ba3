// Package splitter splits raw text into word and punctuation tokens.
package splitter

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// DefaultPattern matches the delimiters of the default splitter: punctuation, the em-dash written as "--",
// and whitespace. RE2's `\s` is only `[\t\n\f\r ]`, so vertical tab, NEL and the Unicode separators are
// listed explicitly.
const DefaultPattern = `([,.:;?_!"()']|--|[\s\v\x{85}\p{Z}])`

// Splitter splits text on the matches of a regular expression, keeping the matches as tokens.
// It is safe for concurrent use.
type Splitter struct {
	re *regexp.Regexp
}

var defaultSplitter = &Splitter{re: regexp.MustCompile(DefaultPattern)}

// Default returns the Splitter for DefaultPattern.
func Default() *Splitter {
	return defaultSplitter
}

// New compiles pattern into a Splitter. An empty pattern returns Default.
func New(pattern string) (*Splitter, error) {
	if pattern == "" || pattern == DefaultPattern {
		return Default(), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid split pattern %q", pattern)
	}
	return &Splitter{re: re}, nil
}

// Pattern returns the regular expression used to split.
func (s *Splitter) Pattern() string {
	return s.re.String()
}

// Split text into tokens: every delimiter matched is a token, and so is every span between delimiters.
// Tokens are trimmed of surrounding whitespace, and the ones left empty are dropped.
//
// It never returns nil: an empty text returns an empty slice.
func (s *Splitter) Split(text string) []string {
	tokens := make([]string, 0, len(text)/4)
	appendToken := func(candidate string) {
		candidate = strings.TrimSpace(candidate)
		if candidate != "" {
			tokens = append(tokens, candidate)
		}
	}
	var prev int
	for _, loc := range s.re.FindAllStringIndex(text, -1) {
		appendToken(text[prev:loc[0]])
		appendToken(text[loc[0]:loc[1]])
		prev = loc[1]
	}
	appendToken(text[prev:])
	return tokens
}

// Split text with the Default splitter.
func Split(text string) []string {
	return defaultSplitter.Split(text)
}
