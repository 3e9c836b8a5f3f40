package cmd

import (
	"github.com/msto63/pratt/internal/history"
	"github.com/msto63/pratt/internal/repl"
	"github.com/spf13/cobra"
)

var replMode string

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive REPL",
	Long: `Start an interactive session. Enter evaluates the input line,
Tab switches between evaluation and tree mode, Up/Down walk the input
history. With [history] enabled every line is recorded and earlier
sessions seed the input history.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := loadGrammar()
		if err != nil {
			return err
		}

		mode := appConfig.REPL.Mode
		if replMode != "" {
			mode = replMode
		}

		cfg := repl.Config{Grammar: def, Mode: mode}
		store, err := openHistory()
		if err != nil {
			logger.WarnWithErr("History unavailable, continuing without", err)
		}
		if store != nil {
			defer store.Close()
			cfg.History = history.Store(store)
		}

		return repl.Run(cfg)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().StringVarP(&replMode, "mode", "m", "", "start mode: eval or tree")
}
