package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/msto63/pratt/foundation/pratt/calc"
	"github.com/msto63/pratt/foundation/pratt/parser"
	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens EXPRESSION...",
	Short: "List the tokens the lexer produces",
	Long: `List the token stream of an expression with offsets, kinds and
binding powers. Scanning stops at the first character the grammar
does not know; the tokens before it are still listed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	expr := strings.Join(args, " ")

	def, err := loadGrammar()
	if err != nil {
		return err
	}
	evaluator, err := calc.NewEvaluator(def)
	if err != nil {
		return err
	}

	lexemes, lexErr := evaluator.Tokens(expr)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "OFFSET", "TEXT", "KIND", "BP")
	for i, lx := range lexemes {
		kind := ""
		if k, ok := lx.Token.(parser.Kinded); ok {
			kind = k.Kind()
		}
		t.Row(fmt.Sprint(i), fmt.Sprint(lx.Offset), lx.Text, kind, fmt.Sprint(lx.Token.BindingPower()))
	}
	fmt.Fprintln(cmd.OutOrStdout(), t)

	return lexErr
}
