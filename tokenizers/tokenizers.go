// Package tokenizers creates word-level tokenizers from a text corpus.
//
// Given a corpus (see corpus.New to create one) and a Config, it splits the text into tokens, builds the
// vocabulary, and instantiates the Tokenizer class named in the config.
package tokenizers

import (
	"context"

	"github.com/gomlx/simpletok/corpus"
	"github.com/gomlx/simpletok/tokenizers/api"
	"github.com/gomlx/simpletok/tokenizers/simple"
	"github.com/gomlx/simpletok/tokenizers/splitter"
	"github.com/gomlx/simpletok/tokenizers/vocab"
	"github.com/pkg/errors"
)

// Tokenizer interface allows one to convert text to "tokens" (integer ids) and back.
//
// It also allows mapping of special tokens: tokens with a common semantic (like unknown) but that
// may map to different ids (int) for different vocabularies.
type Tokenizer = api.Tokenizer

// SpecialToken is an enum of the special tokens reserved in a vocabulary.
type SpecialToken = api.SpecialToken

const (
	TokEndOfText          = api.TokEndOfText
	TokUnknown            = api.TokUnknown
	TokSpecialTokensCount = api.TokSpecialTokensCount
)

// Config of the tokenizer, see api.Config.
type Config = api.Config

// Names of the tokenizer classes always registered.
const (
	ClassSimpleV1 = "SimpleTokenizerV1"
	ClassSimpleV2 = "SimpleTokenizerV2"
)

// TokenizerConstructor is used by Tokenizer implementations to provide implementations for different
// tokenizer classes.
type TokenizerConstructor func(config *api.Config, vocabulary *vocab.Vocabulary) (api.Tokenizer, error)

// RegisterTokenizerClass used by Tokenizer implementations.
func RegisterTokenizerClass(name string, constructor TokenizerConstructor) {
	registerOfClasses[name] = constructor
}

var (
	registerOfClasses = make(map[string]TokenizerConstructor)
)

func init() {
	RegisterTokenizerClass(ClassSimpleV1, newSimpleV1)
	RegisterTokenizerClass(ClassSimpleV2, newSimpleV2)
}

func newSimpleV1(config *api.Config, vocabulary *vocab.Vocabulary) (api.Tokenizer, error) {
	s, err := splitter.New(config.SplitPattern)
	if err != nil {
		return nil, err
	}
	return simple.NewV1(vocabulary, simple.WithSplitter(s)), nil
}

func newSimpleV2(config *api.Config, vocabulary *vocab.Vocabulary) (api.Tokenizer, error) {
	s, err := splitter.New(config.SplitPattern)
	if err != nil {
		return nil, err
	}
	tokenizer, err := simple.NewV2(vocabulary, config.UnkToken, simple.WithSplitter(s))
	if err != nil {
		return nil, err
	}
	return tokenizer, nil
}

// New creates the Tokenizer of the class given in config.TokenizerClass, for the given vocabulary.
// A nil config is the same as api.DefaultConfig().
func New(config *api.Config, vocabulary *vocab.Vocabulary) (Tokenizer, error) {
	if config == nil {
		config = api.DefaultConfig()
	}
	constructor, found := registerOfClasses[config.TokenizerClass]
	if !found {
		return nil, errors.Errorf("unknown tokenizer class %q", config.TokenizerClass)
	}
	tokenizer, err := constructor(config, vocabulary)
	if err != nil {
		return nil, errors.WithMessagef(err, "while creating tokenizer %q", config.TokenizerClass)
	}
	return tokenizer, nil
}

// BuildVocabulary splits text with the configured pattern and builds its vocabulary, with the configured
// special tokens. A nil config is the same as api.DefaultConfig().
//
// Extra options (e.g. vocab.WithRecorder) are passed to vocab.Build.
func BuildVocabulary(text string, config *api.Config, opts ...vocab.Option) (*vocab.Vocabulary, error) {
	if config == nil {
		config = api.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	s, err := splitter.New(config.SplitPattern)
	if err != nil {
		return nil, err
	}
	buildOpts := []vocab.Option{vocab.WithCollisionPolicy(config.OnSpecialCollision)}
	if config.AddSpecialTokens {
		buildOpts = append(buildOpts, vocab.WithSpecialTokens(config.EosToken, config.UnkToken))
	}
	buildOpts = append(buildOpts, opts...)
	vocabulary, err := vocab.Build(s.Split(text), buildOpts...)
	if err != nil {
		return nil, errors.WithMessage(err, "while building vocabulary")
	}
	return vocabulary, nil
}

// FromText builds the vocabulary of text and creates the configured Tokenizer on it.
func FromText(text string, config *api.Config, opts ...vocab.Option) (Tokenizer, error) {
	if config == nil {
		config = api.DefaultConfig()
	}
	vocabulary, err := BuildVocabulary(text, config, opts...)
	if err != nil {
		return nil, err
	}
	return New(config, vocabulary)
}

// FromCorpus downloads the corpus (if not cached yet), builds its vocabulary and creates the configured
// Tokenizer on it.
func FromCorpus(ctx context.Context, source *corpus.Source, config *api.Config, opts ...vocab.Option) (Tokenizer, error) {
	text, err := source.Text(ctx)
	if err != nil {
		return nil, err
	}
	tokenizer, err := FromText(text, config, opts...)
	if err != nil {
		return nil, errors.WithMessagef(err, "corpus %q", source)
	}
	return tokenizer, nil
}
