package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/gomlx/simpletok/tokenizers"
	"github.com/gomlx/simpletok/tokenizers/api"
	"github.com/spf13/cobra"
)

// demoStrictText is fully covered by the vocabulary of "The Verdict".
const demoStrictText = `"It's the last he painted, you know,"
       Mrs. Gisburn said with pardonable pride.`

var demoUnknownTexts = []string{"Hello, do you like tea?", "In the sunlit terraces of the palace."}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Encode and decode sample texts, with the strict tokenizer and with the unknown-aware one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		config, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		config.AddSpecialTokens = false
		config.TokenizerClass = tokenizers.ClassSimpleV1
		strict, _, err := loadTokenizer(cmd, config)
		if err != nil {
			return err
		}
		if err = demoRoundTrip(out, strict, demoStrictText); err != nil {
			return err
		}

		fmt.Fprintln(out, strings.Repeat("-", 80))
		config.AddSpecialTokens = true
		config.TokenizerClass = tokenizers.ClassSimpleV2
		withUnknown, _, err := loadTokenizer(cmd, config)
		if err != nil {
			return err
		}
		return demoRoundTrip(out, withUnknown, strings.Join(demoUnknownTexts, " "+config.EosToken+" "))
	},
}

func demoRoundTrip(out io.Writer, tokenizer api.Tokenizer, text string) error {
	ids, err := tokenizer.Encode(text)
	if err != nil {
		return err
	}
	decoded, err := tokenizer.Decode(ids)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Input: %s\n", text)
	fmt.Fprintf(out, "Tokenized output: %v\n", ids)
	fmt.Fprintf(out, "Decoder output: %s\n", decoded)
	return nil
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
