package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	mdwconfig "github.com/msto63/pratt/foundation/core/config"
	"github.com/msto63/pratt/foundation/pratt/calc"
	"github.com/msto63/pratt/foundation/pratt/grammar"
	"github.com/spf13/cobra"
)

var exportFormat string

var grammarCmd = &cobra.Command{
	Use:   "grammar",
	Short: "Inspect operator tables",
	Long: `Inspect the active operator table or check a grammar file.

Subcommands:
  show       Print the operator table
  validate   Check a grammar file and build both example grammars from it
  export     Write the table as TOML or YAML, e.g. as a starting point`,
}

var grammarShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active operator table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := loadGrammar()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Grammar: %s (numbers: %s)\n\n", def.Name, def.Numbers)

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("SYMBOL", "KIND", "BP", "ASSOC", "OPERATION")
		for _, op := range def.Operators {
			operation := op.Op
			if op.PrefixOp != "" {
				operation += " / " + op.PrefixOp
			}
			assoc := op.Assoc
			if assoc == "" {
				assoc = "left"
			}
			t.Row(op.Symbol, op.Kind, fmt.Sprint(op.BP), assoc, operation)
		}
		fmt.Fprintln(out, t)

		for _, g := range def.Groups {
			fmt.Fprintf(out, "group:       %s ... %s\n", g.Open, g.Close)
		}
		for _, l := range def.Literals {
			fmt.Fprintf(out, "literal:     %s = %s\n", l.Word, l.Value)
		}
		if def.Ternary != nil {
			fmt.Fprintf(out, "ternary:     c %s a %s b (bp %d)\n", def.Ternary.Symbol, def.Ternary.Separator, def.Ternary.BP)
		}
		if c := def.Conditional; c != nil {
			fmt.Fprintf(out, "conditional: %s c %s a [%s b] %s\n", c.If, c.Then, c.Else, c.End)
		}
		return nil
	},
}

var grammarValidateCmd = &cobra.Command{
	Use:   "validate [FILE]",
	Short: "Validate a grammar file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			def grammar.Definition
			err error
		)
		source := "built-in grammar"
		if len(args) == 1 {
			source = args[0]
			def, err = grammar.LoadDefinition(args[0])
		} else {
			if appConfig.Grammar.File != "" {
				source = appConfig.Grammar.File
			}
			def, err = loadGrammar()
		}
		if err != nil {
			return err
		}

		if _, err := calc.NewEvaluator(def); err != nil {
			return err
		}
		if _, err := calc.NewTreeBuilder(def); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d operators, %d lexemes)\n", source, len(def.Operators), len(def.Lexemes()))
		return nil
	},
}

var grammarExportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Export the active operator table",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := loadGrammar()
		if err != nil {
			return err
		}
		format, err := mdwconfig.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			if format == mdwconfig.FormatAuto {
				format = mdwconfig.FormatTOML
			}
			return def.Encode(cmd.OutOrStdout(), format)
		}

		if format == mdwconfig.FormatAuto {
			format = mdwconfig.DetectFormat(args[0])
		}
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		if err := def.Encode(f, format); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Grammar written to %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(grammarCmd)
	grammarCmd.AddCommand(grammarShowCmd)
	grammarCmd.AddCommand(grammarValidateCmd)
	grammarCmd.AddCommand(grammarExportCmd)

	grammarExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "auto", "output format: toml, yaml or auto (from the file extension)")
}
