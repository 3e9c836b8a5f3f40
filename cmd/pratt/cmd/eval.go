package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	mdwerror "github.com/msto63/pratt/foundation/core/error"
	mdwlog "github.com/msto63/pratt/foundation/core/log"
	"github.com/msto63/pratt/foundation/pratt/calc"
	"github.com/msto63/pratt/internal/history"
	"github.com/msto63/pratt/internal/server"
	pkggrpc "github.com/msto63/pratt/pkg/core/grpc"
	"github.com/spf13/cobra"
)

var (
	evalRemote string
	evalRecord bool
)

var evalCmd = &cobra.Command{
	Use:   "eval EXPRESSION...",
	Short: "Evaluate an expression",
	Long: `Evaluate an expression and print its value.

Arguments are joined with spaces, so quoting is optional for
expressions without shell metacharacters.

Examples:
  pratt eval "2+3*4"            # 14
  pratt eval 2 ^ 3 ^ 2          # 512
  pratt eval "if 1 < 2 then 10 else 20 end"
  pratt eval --remote localhost:9090 "(1+2)*3"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVar(&evalRemote, "remote", "", "evaluate on a pratt server (gRPC address)")
	evalCmd.Flags().BoolVar(&evalRecord, "record", false, "record the evaluation in the history store")
}

func runEval(cmd *cobra.Command, args []string) error {
	expr := strings.Join(args, " ")

	if evalRemote != "" {
		return evalOnServer(cmd, expr)
	}

	def, err := loadGrammar()
	if err != nil {
		return err
	}
	evaluator, err := calc.NewEvaluator(def, engineOptions()...)
	if err != nil {
		return err
	}

	timer := logger.StartTimer("Evaluation").WithField("expression", expr)
	v, err := evaluator.Eval(expr)
	recordEvaluation(server.ModeEval, expr, v.String(), err, timer.Stop())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), v)
	return nil
}

func evalOnServer(cmd *cobra.Command, expr string) error {
	clientCfg := pkggrpc.DefaultClientConfig(evalRemote)
	clientCfg.Logger = logger
	conn, err := pkggrpc.Dial(clientCfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), clientCfg.Timeout)
	defer cancel()

	resp, err := server.EvaluateRemote(ctx, conn, server.Request{Expression: expr, Mode: server.ModeEval})
	if err != nil {
		return mdwerror.Wrap(err, "remote evaluation").WithCode(mdwerror.CodeServiceUnavailable)
	}
	if resp.Error != nil {
		if resp.Error.Caret != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), resp.Error.Caret)
		}
		return mdwerror.New(resp.Error.Message).WithCode(mdwerror.Code(resp.Error.Code))
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.Result)
	return nil
}

// recordEvaluation writes one CLI evaluation to the history store when
// --record is set and history is enabled
func recordEvaluation(mode, expr, result string, evalErr error, elapsed time.Duration) {
	if !evalRecord {
		return
	}
	store, err := openHistory()
	if err != nil {
		logger.WarnWithErr("History unavailable", err)
		return
	}
	if store == nil {
		logger.Warn("History is disabled; enable [history] in the config to record")
		return
	}
	defer store.Close()

	entry := &history.Entry{Expression: expr, Mode: mode, Result: result, Duration: elapsed}
	if evalErr != nil {
		entry.Result = ""
		entry.ErrorCode = string(mdwerror.GetCode(evalErr))
		entry.Error = evalErr.Error()
	}
	if err := store.Record(context.Background(), entry); err != nil {
		logger.WarnWithErr("Failed to record evaluation", err)
		return
	}
	logger.Debug("Evaluation recorded", mdwlog.Fields{"id": entry.ID})
}
