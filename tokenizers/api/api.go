// Package api defines the Tokenizer API.
// It's just a hack to break the cyclic dependency, and allow the users to import `tokenizers` and get the
// default implementations.
package api

import (
	"fmt"

	"github.com/pkg/errors"
)

// Tokenizer interface allows one to convert text to "tokens" (integer ids) and back.
//
// It also allows mapping of special tokens: tokens with a common semantic (like unknown) but that
// may map to different ids (int) for different vocabularies.
type Tokenizer interface {
	Encode(text string) ([]int, error)
	Decode(ids []int) (string, error)

	// SpecialTokenID returns ID for given special token if registered, or an error if not.
	SpecialTokenID(token SpecialToken) (int, error)

	// VocabSize is the number of ids known to the tokenizer.
	VocabSize() int
}

// SpecialToken is an enum of the special tokens reserved in a vocabulary.
type SpecialToken int

const (
	TokEndOfText SpecialToken = iota
	TokUnknown
	TokSpecialTokensCount
)

// String implements fmt.Stringer.
func (t SpecialToken) String() string {
	switch t {
	case TokEndOfText:
		return "end_of_text"
	case TokUnknown:
		return "unknown"
	}
	return fmt.Sprintf("SpecialToken(%d)", int(t))
}

// Reserved literals for the special tokens. The vocabulary builder appends them (in this order) and the
// unknown-aware tokenizer substitutes DefaultUnknownToken for unseen tokens.
const (
	DefaultEndOfTextToken = "<|endoftext|>"
	DefaultUnknownToken   = "<|unk|>"
)

// ErrLookup is matched (with errors.Is) by every LookupError.
var ErrLookup = errors.New("vocabulary lookup failed")

// LookupError is returned when a token (during encoding) or an id (during decoding) is not in the vocabulary.
type LookupError struct {
	// Token that was not found, if HasID is false.
	Token string

	// ID that was not found, if HasID is true.
	ID    int
	HasID bool
}

// Error implements error.
func (e *LookupError) Error() string {
	if e.HasID {
		return fmt.Sprintf("%v: id %d not in vocabulary", ErrLookup, e.ID)
	}
	return fmt.Sprintf("%v: token %q not in vocabulary", ErrLookup, e.Token)
}

// Is makes errors.Is(err, ErrLookup) true.
func (e *LookupError) Is(target error) bool {
	return target == ErrLookup
}

// UnknownToken returns a *LookupError for token.
func UnknownToken(token string) error {
	return &LookupError{Token: token}
}

// UnknownID returns a *LookupError for id.
func UnknownID(id int) error {
	return &LookupError{ID: id, HasID: true}
}
