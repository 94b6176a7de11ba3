// Package simple implements a word-level api.Tokenizer on top of a vocab.Vocabulary.
//
// There are two variants:
//
//   - NewV1 creates a strict tokenizer: encoding a token not in the vocabulary is an error.
//   - NewV2 creates a tokenizer that encodes tokens not in the vocabulary as the unknown token.
//
// Both decode the same way: tokens are joined with a space, and the space before closing punctuation is removed.
package simple

import (
	"regexp"
	"strings"

	"github.com/gomlx/simpletok/tokenizers/api"
	"github.com/gomlx/simpletok/tokenizers/splitter"
	"github.com/gomlx/simpletok/tokenizers/vocab"
	"github.com/pkg/errors"
)

// spaceBeforePunctuation matches the whitespace removed by Decode.
var spaceBeforePunctuation = regexp.MustCompile(`\s+([,.?!"()'])`)

// Tokenizer implements api.Tokenizer for a vocab.Vocabulary.
// It holds no state besides the (immutable) vocabulary, so it is safe for concurrent use.
type Tokenizer struct {
	vocab    *vocab.Vocabulary
	splitter *splitter.Splitter

	// unknownID is the id used for tokens not in the vocabulary, if hasUnknown.
	unknownID  int
	hasUnknown bool
}

// Compile time assert that simple.Tokenizer implements api.Tokenizer interface.
var _ api.Tokenizer = &Tokenizer{}

// Option for NewV1 and NewV2.
type Option func(t *Tokenizer)

// WithSplitter sets the splitter used by Encode. The default is splitter.Default.
func WithSplitter(s *splitter.Splitter) Option {
	return func(t *Tokenizer) {
		if s != nil {
			t.splitter = s
		}
	}
}

// NewV1 creates a strict Tokenizer: Encode fails for any token not in v.
func NewV1(v *vocab.Vocabulary, opts ...Option) *Tokenizer {
	t := &Tokenizer{
		vocab:    v,
		splitter: splitter.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewV2 creates a Tokenizer that encodes tokens not in v as unknownToken, which must be in v.
func NewV2(v *vocab.Vocabulary, unknownToken string, opts ...Option) (*Tokenizer, error) {
	unknownID, found := v.ID(unknownToken)
	if !found {
		return nil, errors.Errorf("unknown token %q is not in the vocabulary", unknownToken)
	}
	t := NewV1(v, opts...)
	t.unknownID = unknownID
	t.hasUnknown = true
	return t, nil
}

// Vocabulary used by the tokenizer.
func (t *Tokenizer) Vocabulary() *vocab.Vocabulary {
	return t.vocab
}

// Encode returns the text encoded into a sequence of ids.
//
// For a strict tokenizer (NewV1) it returns an *api.LookupError for the first token not in the vocabulary.
func (t *Tokenizer) Encode(text string) ([]int, error) {
	tokens := t.splitter.Split(text)
	ids := make([]int, len(tokens))
	for ii, token := range tokens {
		id, found := t.vocab.ID(token)
		if !found {
			if !t.hasUnknown {
				return nil, api.UnknownToken(token)
			}
			id = t.unknownID
		}
		ids[ii] = id
	}
	return ids, nil
}

// Decode returns the text from a sequence of ids.
//
// It returns an *api.LookupError for the first id not in the vocabulary.
func (t *Tokenizer) Decode(ids []int) (string, error) {
	tokens := make([]string, len(ids))
	for ii, id := range ids {
		token, found := t.vocab.Token(id)
		if !found {
			return "", api.UnknownID(id)
		}
		tokens[ii] = token
	}
	text := strings.Join(tokens, " ")
	return spaceBeforePunctuation.ReplaceAllString(text, "$1"), nil
}

// SpecialTokenID returns the id for the given special token, or an error if the vocabulary doesn't have it.
func (t *Tokenizer) SpecialTokenID(token api.SpecialToken) (int, error) {
	literal, found := t.vocab.SpecialToken(token)
	if !found {
		return 0, errors.Errorf("unknown special token: %s (%d)", token, int(token))
	}
	id, found := t.vocab.ID(literal)
	if !found {
		return 0, errors.Errorf("special token %s (%q) not in vocabulary", token, literal)
	}
	return id, nil
}

// VocabSize returns the number of ids in the vocabulary.
func (t *Tokenizer) VocabSize() int {
	return t.vocab.Size()
}
