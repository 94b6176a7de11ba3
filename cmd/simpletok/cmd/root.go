package cmd

import (
	"context"
	"flag"
	"os"

	"github.com/gomlx/simpletok/corpus"
	"github.com/gomlx/simpletok/tokenizers"
	"github.com/gomlx/simpletok/tokenizers/api"
	"github.com/gomlx/simpletok/tokenizers/vocab"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

var (
	configFile    string
	corpusURL     string
	corpusFile    string
	cacheDir      string
	specialTokens bool
	sampleSize    int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "simpletok",
	Short: "Word-level tokenizer built from a plain-text corpus",
	Long: `simpletok splits a plain-text corpus into word and punctuation tokens, builds a vocabulary
with them, and encodes text into token ids (and back) with it.

The corpus is downloaded once and kept in a local cache (see --cache-dir), or read from a local
file with --file.

Examples:
  simpletok vocab --sample 20
  simpletok encode "It's the last he painted, you know."
  simpletok decode 1 58 2 872 1016
  simpletok encode --special "Hello, do you like tea?"
  simpletok demo`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer klog.Flush()
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	rootCmd.PersistentFlags().AddGoFlagSet(klogFlags)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "tokenizer config file, YAML or JSON")
	rootCmd.PersistentFlags().StringVar(&corpusURL, "url", corpus.DefaultURL, "URL of the plain-text corpus")
	rootCmd.PersistentFlags().StringVar(&corpusFile, "file", "", "local plain-text corpus, instead of --url")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "directory where downloaded corpora are kept (default $SIMPLETOK_CACHE or ~/.cache/simpletok/corpus)")
	rootCmd.PersistentFlags().BoolVar(&specialTokens, "special", false,
		"add the end-of-text and unknown special tokens, and encode unknown tokens as unknown (overrides --config)")
	rootCmd.PersistentFlags().IntVar(&sampleSize, "sample", vocab.DefaultSampleSize, "number of vocabulary entries shown by vocab, or logged with -v=2")
}

// loadConfig returns the config from --config, with the command line overrides.
func loadConfig(cmd *cobra.Command) (*api.Config, error) {
	config := api.DefaultConfig()
	if configFile != "" {
		var err error
		config, err = api.ParseConfigFile(configFile)
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("special") {
		config.AddSpecialTokens = specialTokens
		if specialTokens {
			config.TokenizerClass = tokenizers.ClassSimpleV2
		} else {
			config.TokenizerClass = tokenizers.ClassSimpleV1
		}
	}
	return config, nil
}

// loadText returns the corpus from --file or --url.
func loadText(ctx context.Context) (string, error) {
	if corpusFile != "" {
		return corpus.LoadText(corpusFile)
	}
	source := corpus.New(corpusURL)
	if cacheDir != "" {
		source = source.WithCacheDir(cacheDir)
	}
	return source.Text(ctx)
}

// loadTokenizer builds the vocabulary of the corpus, and the configured tokenizer on it.
func loadTokenizer(cmd *cobra.Command, config *api.Config) (api.Tokenizer, *vocab.Vocabulary, error) {
	text, err := loadText(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	vocabulary, err := tokenizers.BuildVocabulary(text, config, vocab.WithRecorder(vocab.LogRecorder{SampleSize: sampleSize}))
	if err != nil {
		return nil, nil, err
	}
	tokenizer, err := tokenizers.New(config, vocabulary)
	if err != nil {
		return nil, nil, err
	}
	return tokenizer, vocabulary, nil
}
