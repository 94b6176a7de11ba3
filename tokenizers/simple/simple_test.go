package simple

import (
	"strings"
	"sync"
	"testing"

	"github.com/gomlx/simpletok/tokenizers/api"
	"github.com/gomlx/simpletok/tokenizers/splitter"
	"github.com/gomlx/simpletok/tokenizers/vocab"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const testCorpus = `I HAD always thought Jack Gisburn rather a cheap genius--though a good fellow enough--so it was no
great surprise to me to hear that, in the height of his glory, he had dropped his painting. "It's the last he
painted, you know," Mrs. Gisburn said with pardonable pride. In the sunlit terraces of the palace? do you like it!`

const gisburn = `"It's the last he painted you know," Mrs. Gisburn said with pardonable pride.`

func buildVocab(t testing.TB, opts ...vocab.Option) *vocab.Vocabulary {
	v, err := vocab.Build(splitter.Split(testCorpus), opts...)
	require.NoError(t, err)
	return v
}

func TestV1(t *testing.T) {
	tok := NewV1(buildVocab(t))
	ids, err := tok.Encode(gisburn)
	require.NoError(t, err)
	require.Len(t, ids, 20)

	text, err := tok.Decode(ids)
	require.NoError(t, err)
	assert.Equal(t, `" It' s the last he painted you know," Mrs. Gisburn said with pardonable pride.`, text)

	// Token-level round-trip.
	ids2, err := tok.Encode(text)
	require.NoError(t, err)
	assert.Equal(t, ids, ids2)
}

func TestV1Errors(t *testing.T) {
	tok := NewV1(buildVocab(t))

	ids, err := tok.Encode("Hello, do you like tea?")
	require.Error(t, err)
	assert.Nil(t, ids)
	assert.True(t, errors.Is(err, api.ErrLookup))
	var lookupErr *api.LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, "Hello", lookupErr.Token)

	text, err := tok.Decode([]int{0, tok.VocabSize()})
	assert.Equal(t, "", text)
	require.True(t, errors.As(err, &lookupErr))
	assert.True(t, lookupErr.HasID)
	assert.Equal(t, tok.VocabSize(), lookupErr.ID)

	_, err = tok.Decode([]int{-1})
	assert.True(t, errors.Is(err, api.ErrLookup))

	_, err = tok.SpecialTokenID(api.TokUnknown)
	assert.Error(t, err)
}

func TestEmpty(t *testing.T) {
	tok := NewV1(buildVocab(t))
	ids, err := tok.Encode("")
	require.NoError(t, err)
	assert.Empty(t, ids)
	text, err := tok.Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestV2(t *testing.T) {
	v := buildVocab(t, vocab.WithDefaultSpecialTokens())
	tok, err := NewV2(v, api.DefaultUnknownToken)
	require.NoError(t, err)

	unknownID, err := tok.SpecialTokenID(api.TokUnknown)
	require.NoError(t, err)
	assert.Equal(t, v.Size()-1, unknownID)
	eotID, err := tok.SpecialTokenID(api.TokEndOfText)
	require.NoError(t, err)
	assert.Equal(t, v.Size()-2, eotID)
	_, err = tok.SpecialTokenID(api.TokSpecialTokensCount)
	assert.Error(t, err)

	text := strings.Join([]string{"Hello, do you like tea?", "In the sunlit terraces of the palace."},
		" "+api.DefaultEndOfTextToken+" ")
	ids, err := tok.Encode(text)
	require.NoError(t, err)
	assert.Equal(t, unknownID, ids[0])
	assert.Equal(t, eotID, ids[7])

	decoded, err := tok.Decode(ids)
	require.NoError(t, err)
	assert.Equal(t, "<|unk|>, do you like <|unk|>? <|endoftext|> In the sunlit terraces of the palace.", decoded)

	_, err = tok.Decode([]int{v.Size()})
	assert.True(t, errors.Is(err, api.ErrLookup))
}

func TestV2RequiresUnknownToken(t *testing.T) {
	_, err := NewV2(buildVocab(t), api.DefaultUnknownToken)
	assert.ErrorContains(t, err, "is not in the vocabulary")
}

func TestWithSplitter(t *testing.T) {
	s, err := splitter.New(`(\s)`)
	require.NoError(t, err)
	v, err := vocab.Build(s.Split("hello, world."))
	require.NoError(t, err)
	tok := NewV1(v, WithSplitter(s))
	ids, err := tok.Encode("world. hello,")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, ids)
}

func TestConcurrentUse(t *testing.T) {
	tok, err := NewV2(buildVocab(t, vocab.WithDefaultSpecialTokens()), api.DefaultUnknownToken)
	require.NoError(t, err)
	want, err := tok.Encode(testCorpus)
	require.NoError(t, err)
	wantText, err := tok.Decode(want)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				ids, err := tok.Encode(testCorpus)
				assert.NoError(t, err)
				assert.Equal(t, want, ids)
				text, err := tok.Decode(ids)
				assert.NoError(t, err)
				assert.Equal(t, wantText, text)
			}
		}()
	}
	wg.Wait()
}

func TestRoundTripProperty(t *testing.T) {
	words := []string{"the", "dog", "It", "s", "Mrs", "tea", "--", ",", ".", "?", "!", `"`, "(", ")", "'", ":", ";", "_"}
	v, err := vocab.Build(words)
	require.NoError(t, err)
	tok := NewV1(v)
	rapid.Check(t, func(rt *rapid.T) {
		tokens := rapid.SliceOf(rapid.SampledFrom(words)).Draw(rt, "tokens")
		ids := make([]int, len(tokens))
		for ii, token := range tokens {
			ids[ii], _ = v.ID(token)
		}
		text, err := tok.Decode(ids)
		require.NoError(rt, err)
		got, err := tok.Encode(text)
		require.NoError(rt, err)
		require.Equal(rt, ids, got)

		// Only spaces before the closing punctuation are removed.
		joined := strings.Join(tokens, " ")
		require.Equal(rt, spaceBeforePunctuation.ReplaceAllString(joined, "$1"), text)
		require.Equal(rt, strings.ReplaceAll(joined, " ", ""), strings.ReplaceAll(text, " ", ""))
	})
}
