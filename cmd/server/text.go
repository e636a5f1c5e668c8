package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Brownie44l1/ai-dashboard/internal/text"
)

var tokensMethod string

var tokensCmd = &cobra.Command{
	Use:   "tokens [text]",
	Short: "Tokenize text and print frequency statistics (reads stdin without arguments)",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := argsOrStdin(cmd, args)
		if err != nil {
			return err
		}
		if strings.TrimSpace(input) == "" {
			return fmt.Errorf("no text to analyze")
		}
		printAnalysis(cmd.OutOrStdout(), input, text.ParseMethod(tokensMethod))
		return nil
	},
}

var onehotSelect string

var onehotCmd = &cobra.Command{
	Use:   "onehot <words>...",
	Short: "Build a vocabulary and print one-hot vectors",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		words := text.SplitWords(strings.Join(args, " "))
		if len(words) < 2 {
			return fmt.Errorf("need at least 2 words, got %d", len(words))
		}
		return printOneHot(cmd.OutOrStdout(), words, onehotSelect)
	},
}

func init() {
	names := make([]string, len(text.Methods))
	for i, m := range text.Methods {
		names[i] = string(m)
	}
	tokensCmd.Flags().StringVarP(&tokensMethod, "method", "m", string(text.Whitespace), "Tokenizer: "+strings.Join(names, ", "))
	onehotCmd.Flags().StringVarP(&onehotSelect, "select", "s", "", "Word whose vector is printed on its own")

	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(onehotCmd)
}

func argsOrStdin(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func printAnalysis(w io.Writer, input string, method text.Method) {
	a := text.Analyze(input)
	tokens := text.Tokenize(input, method)

	fmt.Fprintf(w, "Tokens:              %d\n", a.Total)
	fmt.Fprintf(w, "Unique tokens:       %d\n", a.UniqueCount)
	fmt.Fprintf(w, "Average length:      %.2f\n", a.AvgTokenLength)
	fmt.Fprintf(w, "Characters:          %d\n", a.TotalChars)
	fmt.Fprintf(w, "Without spaces:      %d\n", a.CharsNoSpaces)
	fmt.Fprintf(w, "%s tokens: %d\n", method, len(tokens))
	fmt.Fprintf(w, "  %s\n", strings.Join(tokens, " | "))

	fmt.Fprintln(w, "Most common:")
	for _, tc := range a.MostCommon {
		fmt.Fprintf(w, "  %-20s %d\n", tc.Token, tc.Count)
	}
}

func printOneHot(w io.Writer, words []string, selected string) error {
	vocab := text.NewVocabulary(words)

	fmt.Fprintf(w, "Vocabulary (%d words): %s\n\n", vocab.Size(), strings.Join(vocab.Words(), ", "))

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\t%s\t\n", strings.Join(vocab.Words(), "\t"))
	for _, row := range vocab.EncodeAll(words) {
		cells := make([]string, len(row.Vector))
		for i, v := range row.Vector {
			cells[i] = fmt.Sprint(v)
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", row.Word, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if selected == "" {
		return nil
	}
	vec, ok := vocab.Encode(selected)
	if !ok {
		return fmt.Errorf("selected word %q not found in vocabulary", text.NormalizeWord(selected))
	}
	id, _ := vocab.Index(selected)
	fmt.Fprintf(w, "\n%s (index %d): %v\n", text.NormalizeWord(selected), id, vec)
	return nil
}
