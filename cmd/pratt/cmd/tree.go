package cmd

import (
	"fmt"
	"strings"

	"github.com/msto63/pratt/foundation/pratt/ast"
	"github.com/msto63/pratt/foundation/pratt/calc"
	"github.com/msto63/pratt/internal/server"
	"github.com/spf13/cobra"
)

var (
	treePretty bool
	treeStats  bool
	treeEval   bool
)

var treeCmd = &cobra.Command{
	Use:   "tree EXPRESSION...",
	Short: "Print the syntax tree of an expression",
	Long: `Parse an expression and print its syntax tree in Lisp notation.

Examples:
  pratt tree "1+2*3"            # (+ 1 (* 2 3))
  pratt tree --pretty "-3+4"
  pratt tree --eval "true ? 1 : 2"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().BoolVarP(&treePretty, "pretty", "p", false, "print the indented tree as well")
	treeCmd.Flags().BoolVar(&treeStats, "stats", false, "print node count and depth")
	treeCmd.Flags().BoolVar(&treeEval, "eval", false, "evaluate the tree")
}

func runTree(cmd *cobra.Command, args []string) error {
	expr := strings.Join(args, " ")

	def, err := loadGrammar()
	if err != nil {
		return err
	}
	builder, err := calc.NewTreeBuilder(def, engineOptions()...)
	if err != nil {
		return err
	}

	timer := logger.StartTimer("Tree build").WithField("expression", expr)
	node, err := builder.Tree(expr)
	result := ""
	if err == nil {
		result = node.String()
	}
	recordEvaluation(server.ModeTree, expr, result, err, timer.Stop())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, node)
	if treePretty {
		fmt.Fprintln(out, node.Pretty(""))
	}
	if treeStats {
		fmt.Fprintf(out, "nodes: %d, depth: %d\n", ast.Count(node), ast.Depth(node))
	}
	if treeEval {
		v, err := calc.EvalNode(node)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "= %s\n", v)
	}
	return nil
}
