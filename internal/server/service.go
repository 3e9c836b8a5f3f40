package server

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	mdwerror "github.com/msto63/pratt/foundation/core/error"
	mdwlog "github.com/msto63/pratt/foundation/core/log"
	"github.com/msto63/pratt/foundation/pratt/ast"
	"github.com/msto63/pratt/foundation/pratt/calc"
	"github.com/msto63/pratt/foundation/pratt/grammar"
	"github.com/msto63/pratt/foundation/pratt/parser"
	"github.com/msto63/pratt/internal/history"
	"github.com/msto63/pratt/pkg/core/cache"
	pkggrpc "github.com/msto63/pratt/pkg/core/grpc"
)

// Evaluation modes
const (
	ModeEval = "eval"
	ModeTree = "tree"
)

// Request asks the service to evaluate or parse one expression
type Request struct {
	Expression string `json:"expression"`
	Mode       string `json:"mode,omitempty"`
}

// Response is the outcome of one request. Exactly one of Result and
// Error is set.
type Response struct {
	ID         string      `json:"id"`
	Expression string      `json:"expression"`
	Mode       string      `json:"mode"`
	Result     string      `json:"result,omitempty"`
	Value      interface{} `json:"value,omitempty"`
	Tree       string      `json:"tree,omitempty"`
	Pretty     string      `json:"pretty,omitempty"`
	Nodes      int         `json:"nodes,omitempty"`
	Depth      int         `json:"depth,omitempty"`
	Error      *ErrorInfo  `json:"error,omitempty"`
	Cached     bool        `json:"cached,omitempty"`
	DurationMs float64     `json:"duration_ms"`
}

// ErrorInfo describes a failed evaluation
type ErrorInfo struct {
	Code     string `json:"code"`
	Category string `json:"category,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Message  string `json:"message"`
	Index    *int   `json:"index,omitempty"`
	Offset   *int   `json:"offset,omitempty"`
	Caret    string `json:"caret,omitempty"`
}

// ServiceConfig configures a Service
type ServiceConfig struct {
	Grammar        grammar.Definition
	MaxInputLength int
	CacheSize      int
	CacheTTL       time.Duration

	// History records every evaluation when set
	History history.Store

	// Metrics is optional
	Metrics *Metrics

	Logger *mdwlog.Logger
}

// Service evaluates expressions for the HTTP, websocket and gRPC
// front ends
type Service struct {
	evaluator *calc.Evaluator
	trees     *calc.TreeBuilder
	cache     *cache.Cache[Response]
	history   history.Store
	metrics   *Metrics
	maxInput  int
	logger    *mdwlog.Logger
}

// NewService builds the evaluator and tree builder for cfg.Grammar
func NewService(cfg ServiceConfig) (*Service, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = mdwlog.GetDefault()
	}

	evaluator, err := calc.NewEvaluator(cfg.Grammar)
	if err != nil {
		return nil, err
	}
	trees, err := calc.NewTreeBuilder(cfg.Grammar)
	if err != nil {
		return nil, err
	}

	s := &Service{
		evaluator: evaluator,
		trees:     trees,
		history:   cfg.History,
		metrics:   cfg.Metrics,
		maxInput:  cfg.MaxInputLength,
		logger:    logger.WithField("component", "service"),
	}
	if cfg.CacheSize > 0 {
		s.cache = cache.New[Response](cache.Config{
			MaxItems:        cfg.CacheSize,
			TTL:             cfg.CacheTTL,
			CleanupInterval: time.Minute,
		})
	}
	return s, nil
}

// Grammar returns the active operator table
func (s *Service) Grammar() grammar.Definition {
	return s.evaluator.Definition()
}

// History returns the history store, or nil
func (s *Service) History() history.Store {
	return s.history
}

// SelfTest checks that the lexer recognises every lexeme of the grammar
func (s *Service) SelfTest(ctx context.Context) error {
	for _, lexeme := range s.Grammar().Lexemes() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.evaluator.Tokens(lexeme); err != nil {
			return err
		}
	}
	return nil
}

// CacheStats returns the result cache counters; ok is false when caching
// is disabled
func (s *Service) CacheStats() (cache.Stats, bool) {
	if s.cache == nil {
		return cache.Stats{}, false
	}
	return s.cache.Stats(), true
}

// Close stops the cache; the history store is owned by the caller
func (s *Service) Close() {
	if s.cache != nil {
		s.cache.Stop()
	}
}

// Evaluate runs one request. Syntax and evaluation failures are reported
// in Response.Error; the returned error is reserved for malformed
// requests (INVALID_INPUT).
func (s *Service) Evaluate(ctx context.Context, req Request) (*Response, error) {
	logger := s.logger
	if id := pkggrpc.GetRequestID(ctx); id != "" {
		logger = logger.WithRequestID(id)
	}
	timer := logger.StartTimer("Expression evaluation")

	mode, err := s.validate(req)
	if err != nil {
		timer.WithField("mode", mode).StopWithError(err)
		s.metrics.observeRejected(mode)
		return nil, err
	}

	key := cache.Key(mode, req.Expression)
	resp, cached := s.lookup(key)
	if !cached {
		resp = s.compute(mode, req.Expression)
		if s.cache != nil {
			s.cache.Set(key, resp)
		}
	}

	resp.ID = uuid.New().String()
	resp.Cached = cached

	timer.WithField("mode", mode).WithField("cached", cached)
	if resp.Error != nil {
		timer.WithField("code", resp.Error.Code)
	}
	elapsed := timer.Stop()
	resp.DurationMs = float64(elapsed.Nanoseconds()) / 1e6

	s.metrics.observe(&resp, elapsed)
	s.record(ctx, &resp, elapsed)

	return &resp, nil
}

func (s *Service) validate(req Request) (string, error) {
	mode := strings.ToLower(strings.TrimSpace(req.Mode))
	if mode == "" {
		mode = ModeEval
	}
	if mode != ModeEval && mode != ModeTree {
		return mode, invalidRequest("unknown mode %q (want eval or tree)", req.Mode)
	}
	if strings.TrimSpace(req.Expression) == "" {
		return mode, invalidRequest("expression is required")
	}
	if s.maxInput > 0 && len(req.Expression) > s.maxInput {
		return mode, invalidRequest("expression exceeds %d bytes", s.maxInput)
	}
	return mode, nil
}

func (s *Service) lookup(key string) (Response, bool) {
	if s.cache == nil {
		return Response{}, false
	}
	return s.cache.Get(key)
}

func (s *Service) compute(mode, expression string) Response {
	resp := Response{Expression: expression, Mode: mode}

	switch mode {
	case ModeTree:
		node, err := s.trees.Tree(expression)
		if err != nil {
			resp.Error = describeError(err)
			return resp
		}
		resp.Tree = node.String()
		resp.Result = resp.Tree
		resp.Pretty = node.Pretty("")
		resp.Nodes = ast.Count(node)
		resp.Depth = ast.Depth(node)
	default:
		v, err := s.evaluator.Eval(expression)
		if err != nil {
			resp.Error = describeError(err)
			return resp
		}
		resp.Result = v.String()
		resp.Value = v.Interface()
	}
	return resp
}

func (s *Service) record(ctx context.Context, resp *Response, elapsed time.Duration) {
	if s.history == nil {
		return
	}
	entry := &history.Entry{
		ID:         resp.ID,
		Expression: resp.Expression,
		Mode:       resp.Mode,
		Result:     resp.Result,
		Duration:   elapsed,
	}
	if resp.Error != nil {
		entry.Result = ""
		entry.ErrorCode = resp.Error.Code
		entry.Error = resp.Error.Message
	}
	if err := s.history.Record(ctx, entry); err != nil {
		s.logger.WarnWithErr("Failed to record history entry", err)
	}
}

// describeError flattens an evaluation error for the wire
func describeError(err error) *ErrorInfo {
	code := mdwerror.GetCode(err)
	info := &ErrorInfo{
		Code:     string(code),
		Category: code.Category(),
		Message:  err.Error(),
	}

	var inputErr *calc.InputError
	if errors.As(err, &inputErr) {
		info.Message = inputErr.Err.Error()
		offset := inputErr.Offset
		info.Offset = &offset
		info.Caret = inputErr.Caret()
	}
	if pe, ok := parser.AsParseError(err); ok {
		info.Kind = pe.Kind.String()
		index := pe.Index
		info.Index = &index
	}
	return info
}

func invalidRequest(format string, args ...interface{}) error {
	return mdwerror.Newf(format, args...).
		WithCode(mdwerror.CodeInvalidInput).
		WithOperation("server.Evaluate")
}
