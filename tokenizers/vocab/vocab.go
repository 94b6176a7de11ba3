// Package vocab builds the vocabulary of a tokenizer: a bijective mapping between tokens and dense integer ids.
//
// Ids are assigned to the sorted distinct tokens, starting from 0, followed by the special tokens (if requested)
// in a fixed order: first the end-of-text token, then the unknown token.
//
// A Vocabulary is immutable, and can be shared by any number of tokenizers and goroutines.
package vocab

import (
	"iter"
	"slices"

	"github.com/gomlx/simpletok/tokenizers/api"
	"github.com/pkg/errors"
)

// ErrSpecialTokenCollision is returned (wrapped) by Build when a special token is already a token of the
// corpus and the collision policy is api.CollisionFail.
var ErrSpecialTokenCollision = errors.New("special token collides with existing token")

// Vocabulary maps tokens to ids and back. Create it with Build.
type Vocabulary struct {
	tokenToID map[string]int
	idToToken map[int]string

	// size is the number of positions assigned, which can be larger than len(tokenToID) if
	// special tokens overwrote tokens of the corpus.
	size int

	// withSpecial is set when the special tokens were appended, even if their literals are empty.
	withSpecial        bool
	endOfText, unknown string
}

// Recorder is an optional observability hook, called once a vocabulary is built.
type Recorder interface {
	VocabularyBuilt(v *Vocabulary)
}

type buildOptions struct {
	withSpecial        bool
	endOfText, unknown string
	policy             api.CollisionPolicy
	recorder           Recorder
}

// Option for Build.
type Option func(o *buildOptions)

// WithSpecialTokens appends the given end-of-text and unknown tokens, in this order, after the sorted tokens.
func WithSpecialTokens(endOfText, unknown string) Option {
	return func(o *buildOptions) {
		o.withSpecial = true
		o.endOfText = endOfText
		o.unknown = unknown
	}
}

// WithDefaultSpecialTokens is WithSpecialTokens with api.DefaultEndOfTextToken and api.DefaultUnknownToken.
func WithDefaultSpecialTokens() Option {
	return WithSpecialTokens(api.DefaultEndOfTextToken, api.DefaultUnknownToken)
}

// WithCollisionPolicy sets what happens when a special token is already one of the tokens.
// Default is api.CollisionFail.
//
// With api.CollisionOverwrite the last assignment wins: the token maps to the special token id, and the id
// it would otherwise have is left without a token (decoding it fails).
func WithCollisionPolicy(policy api.CollisionPolicy) Option {
	return func(o *buildOptions) {
		o.policy = policy
	}
}

// WithRecorder sets a Recorder to be notified of the built vocabulary.
func WithRecorder(recorder Recorder) Option {
	return func(o *buildOptions) {
		o.recorder = recorder
	}
}

// Build the Vocabulary of the given tokens.
//
// It fails only when special tokens are requested and collide with the tokens (or with each other), and the
// collision policy is api.CollisionFail, or if the collision policy is invalid.
func Build(tokens []string, opts ...Option) (*Vocabulary, error) {
	o := &buildOptions{policy: api.CollisionFail}
	for _, opt := range opts {
		opt(o)
	}
	if o.policy != api.CollisionFail && o.policy != api.CollisionOverwrite {
		return nil, errors.Errorf("invalid collision policy %q", o.policy)
	}

	allTokens := slices.Clone(tokens)
	slices.Sort(allTokens)
	allTokens = slices.Compact(allTokens)
	if o.withSpecial {
		allTokens = append(allTokens, o.endOfText, o.unknown)
	}

	v := &Vocabulary{
		tokenToID: make(map[string]int, len(allTokens)),
		idToToken: make(map[int]string, len(allTokens)),
		size:      len(allTokens),
	}
	if o.withSpecial {
		v.withSpecial = true
		v.endOfText, v.unknown = o.endOfText, o.unknown
	}
	for id, token := range allTokens {
		if prevID, found := v.tokenToID[token]; found && o.policy == api.CollisionFail {
			return nil, errors.Wrapf(ErrSpecialTokenCollision, "token %q assigned to ids %d and %d", token, prevID, id)
		}
		v.tokenToID[token] = id
	}
	for token, id := range v.tokenToID {
		v.idToToken[id] = token
	}

	if o.recorder != nil {
		o.recorder.VocabularyBuilt(v)
	}
	return v, nil
}

// Size is the number of ids assigned, including special tokens.
// Ids range from 0 to Size()-1.
func (v *Vocabulary) Size() int {
	return v.size
}

// Len is the number of distinct tokens. It is equal to Size, unless special tokens overwrote tokens.
func (v *Vocabulary) Len() int {
	return len(v.tokenToID)
}

// ID returns the id of token, and whether it was found.
func (v *Vocabulary) ID(token string) (int, bool) {
	id, found := v.tokenToID[token]
	return id, found
}

// Token returns the token of id, and whether it was found.
func (v *Vocabulary) Token(id int) (string, bool) {
	token, found := v.idToToken[id]
	return token, found
}

// Has returns whether token is in the vocabulary.
func (v *Vocabulary) Has(token string) bool {
	_, found := v.tokenToID[token]
	return found
}

// SpecialToken returns the literal of the given special token, if the vocabulary was built with special tokens.
func (v *Vocabulary) SpecialToken(token api.SpecialToken) (string, bool) {
	if !v.withSpecial {
		return "", false
	}
	switch token {
	case api.TokEndOfText:
		return v.endOfText, true
	case api.TokUnknown:
		return v.unknown, true
	}
	return "", false
}

// All iterates over the tokens and their ids, in id order.
// Ids without a token (see WithCollisionPolicy) are skipped.
func (v *Vocabulary) All() iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		for id := range v.size {
			token, found := v.idToToken[id]
			if !found {
				continue
			}
			if !yield(token, id) {
				return
			}
		}
	}
}

// Tokens returns the tokens in id order.
func (v *Vocabulary) Tokens() []string {
	tokens := make([]string, 0, len(v.idToToken))
	for token := range v.All() {
		tokens = append(tokens, token)
	}
	return tokens
}
