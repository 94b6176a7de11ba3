package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Build the vocabulary of the corpus and print its size and first entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		_, vocabulary, err := loadTokenizer(cmd, config)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Vocab size: %d\n", vocabulary.Size())
		for token, id := range vocabulary.All() {
			if id >= sampleSize {
				break
			}
			fmt.Fprintf(out, "%d\t%q\n", id, token)
		}
		return nil
	},
}

var encodeCmd = &cobra.Command{
	Use:   "encode TEXT...",
	Short: "Encode the text (arguments joined by spaces) into token ids",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		tokenizer, _, err := loadTokenizer(cmd, config)
		if err != nil {
			return err
		}
		ids, err := tokenizer.Encode(strings.Join(args, " "))
		if err != nil {
			return err
		}
		parts := make([]string, len(ids))
		for ii, id := range ids {
			parts[ii] = strconv.Itoa(id)
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parts, " "))
		return nil
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode ID...",
	Short: "Decode the token ids into text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int, len(args))
		for ii, arg := range args {
			id, err := strconv.Atoi(arg)
			if err != nil {
				return errors.Errorf("invalid token id %q", arg)
			}
			ids[ii] = id
		}
		config, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		tokenizer, _, err := loadTokenizer(cmd, config)
		if err != nil {
			return err
		}
		text, err := tokenizer.Decode(ids)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vocabCmd, encodeCmd, decodeCmd)
}
