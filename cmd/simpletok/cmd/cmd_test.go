package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gomlx/simpletok/tokenizers/api"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCorpus = `I HAD always thought Jack Gisburn rather a cheap genius--though a good fellow enough--so it was no
great surprise to me to hear that, in the height of his glory, he had dropped his painting. "It's the last he
painted, you know," Mrs. Gisburn said with pardonable pride. In the sunlit terraces of the palace, do you like it?`

func writeCorpus(t *testing.T) string {
	filePath := filepath.Join(t.TempDir(), "the-verdict.txt")
	require.NoError(t, os.WriteFile(filePath, []byte(testCorpus), 0644))
	return filePath
}

// run executes the root command with args, and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEncodeDecode(t *testing.T) {
	corpusFile := writeCorpus(t)
	out, err := run(t, "encode", "--file", corpusFile, "--special=false", "the last pride.")
	require.NoError(t, err)
	ids := strings.TrimSpace(out)
	require.NotEmpty(t, ids)

	out, err = run(t, append([]string{"decode", "--file", corpusFile, "--special=false"}, strings.Fields(ids)...)...)
	require.NoError(t, err)
	assert.Equal(t, "the last pride.\n", out)

	_, err = run(t, "encode", "--file", corpusFile, "--special=false", "Hello")
	assert.True(t, errors.Is(err, api.ErrLookup))

	_, err = run(t, "decode", "--file", corpusFile, "--special=false", "x")
	assert.ErrorContains(t, err, "invalid token id")
}

func TestVocab(t *testing.T) {
	corpusFile := writeCorpus(t)
	out, err := run(t, "vocab", "--file", corpusFile, "--special=true", "--sample", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Vocab size: "))
	assert.Equal(t, "0\t\"\\\"\"", lines[1])
	assert.Equal(t, "1\t\"'\"", lines[2])
}

func TestConfigFile(t *testing.T) {
	corpusFile := writeCorpus(t)
	configPath := filepath.Join(t.TempDir(), "tokenizer.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("tokenizer_class: SimpleTokenizerV2\nadd_special_tokens: true\n"), 0644))
	defer func() { configFile = "" }()

	out, err := run(t, "encode", "--file", corpusFile, "--config", configPath, "--special=true", "Hello, tea")
	require.NoError(t, err)
	out2, err := run(t, append([]string{"decode", "--file", corpusFile, "--config", configPath, "--special=true"}, strings.Fields(out)...)...)
	require.NoError(t, err)
	assert.Equal(t, "<|unk|>, <|unk|>\n", out2)
}

func TestDemo(t *testing.T) {
	corpusFile := writeCorpus(t)
	out, err := run(t, "demo", "--file", corpusFile, "--special=false")
	require.NoError(t, err)
	assert.Contains(t, out, `Decoder output: " It' s the last he painted, you know," Mrs. Gisburn said with pardonable pride.`)
	assert.Contains(t, out, "Decoder output: <|unk|>, do you like <|unk|>? <|endoftext|> In the sunlit terraces of the palace.")
}
