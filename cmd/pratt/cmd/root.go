package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	mdwerror "github.com/msto63/pratt/foundation/core/error"
	mdwlog "github.com/msto63/pratt/foundation/core/log"
	"github.com/msto63/pratt/foundation/pratt/calc"
	"github.com/msto63/pratt/foundation/pratt/grammar"
	"github.com/msto63/pratt/internal/history"
	"github.com/msto63/pratt/pkg/core/config"
	"github.com/msto63/pratt/pkg/core/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	grammarFile string
	logLevel    string
	verbose     bool

	appConfig *config.Config
	logger    *mdwlog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pratt",
	Short: "pratt - operator precedence parsing toolkit",
	Long: `pratt parses and evaluates expressions with a table-driven
top-down operator precedence parser.

The built-in grammar covers arithmetic, comparisons, booleans,
the ternary operator and if/then/else/end. Load a different operator
table with --grammar.

Examples:
  pratt eval "2+3*4"
  pratt tree --pretty "-2^2"
  pratt repl
  pratt serve`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and reports errors on stderr
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		reportError(os.Stderr, err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./pratt.toml)")
	rootCmd.PersistentFlags().StringVar(&grammarFile, "grammar", "", "grammar definition file (TOML or YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return err
	}
	if grammarFile != "" {
		cfg.Grammar.File = grammarFile
	}
	if logLevel != "" {
		cfg.General.LogLevel = logLevel
	}
	if verbose {
		cfg.General.LogLevel = "debug"
	}
	appConfig = cfg

	logger = logging.NewLogger(logging.LoggerConfig{
		ServiceName: "pratt",
		Level:       cfg.General.LogLevel,
		Format:      cfg.General.LogFormat,
		Output:      cmd.ErrOrStderr(),
	})
	mdwlog.SetDefault(logger)
	return nil
}

// loadGrammar returns the configured operator table
func loadGrammar() (grammar.Definition, error) {
	if appConfig == nil || appConfig.Grammar.File == "" {
		return grammar.Default(), nil
	}
	return grammar.LoadDefinition(appConfig.Grammar.File)
}

// openHistory opens the history store, or returns nil when disabled
func openHistory() (*history.SQLiteStore, error) {
	if !appConfig.History.Enabled {
		return nil, nil
	}
	return history.Open(history.Config{Path: appConfig.History.Path})
}

func engineOptions() []calc.Option {
	if logger != nil && logger.IsLevelEnabled(mdwlog.LevelTrace) {
		return []calc.Option{calc.WithLogger(logger)}
	}
	return nil
}

// reportError prints err; input errors get the caret diagram
func reportError(w io.Writer, err error) {
	var inputErr *calc.InputError
	if errors.As(err, &inputErr) {
		fmt.Fprintln(w, inputErr.Caret())
		fmt.Fprintf(w, "Error [%s]: %v\n", mdwerror.GetCode(err), inputErr.Err)
		return
	}
	if code := mdwerror.GetCode(err); code != mdwerror.CodeUnknown {
		fmt.Fprintf(w, "Error [%s]: %v\n", code, err)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
