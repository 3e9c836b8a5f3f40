// File: calc.go
// Title: Evaluator and Tree Builder
// Description: Two consumers of one grammar definition. The Evaluator's
//              handlers compute Values while parsing; the TreeBuilder's
//              handlers build an expression tree that EvalNode can
//              evaluate afterwards.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial implementation

package calc

import (
	"slices"
	"strconv"

	mdwerror "github.com/msto63/pratt/foundation/core/error"
	mdwlog "github.com/msto63/pratt/foundation/core/log"
	"github.com/msto63/pratt/foundation/pratt/ast"
	"github.com/msto63/pratt/foundation/pratt/grammar"
	"github.com/msto63/pratt/foundation/pratt/lexer"
	"github.com/msto63/pratt/foundation/pratt/parser"
)

// Option configures an Evaluator or TreeBuilder
type Option func(*options)

type options struct {
	logger *mdwlog.Logger
}

// WithLogger traces every handler dispatch at trace level
func WithLogger(logger *mdwlog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// engine is the part shared by both consumers. Registries are immutable,
// so an engine is safe for concurrent use; every call lexes and parses
// with fresh state.
type engine struct {
	def    grammar.Definition
	reg    *grammar.Registry
	logger *mdwlog.Logger
}

func newEngine[R any](def grammar.Definition, sem grammar.Semantics[R], opts []Option) (engine, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := checkOperations(def); err != nil {
		return engine{}, err
	}
	reg, err := grammar.Build(def, sem)
	if err != nil {
		return engine{}, err
	}
	return engine{def: def, reg: reg, logger: o.logger}, nil
}

// Definition returns the grammar definition
func (e engine) Definition() grammar.Definition {
	return e.def
}

// Registry returns the lexeme table
func (e engine) Registry() *grammar.Registry {
	return e.reg
}

// Tokens scans input without parsing it
func (e engine) Tokens(input string) ([]lexer.Lexeme, error) {
	lx := lexer.New(e.reg, input)
	lexemes, err := lx.All()
	if err != nil {
		return lexemes, locate(lx, err)
	}
	return lexemes, nil
}

func run[R any](e engine, input string) (R, error) {
	lx := lexer.New(e.reg, input)

	opts := []parser.Option{parser.RequireEnd()}
	if e.logger != nil {
		opts = append(opts, parser.WithLogger(e.logger))
	}

	result, err := parser.Parse[R](lx.Tokens(), opts...)
	if err != nil || lx.Err() != nil {
		var zero R
		return zero, locate(lx, err)
	}
	return result, nil
}

func checkOperations(def grammar.Definition) error {
	binary, unary := Operations()
	for _, op := range def.Operators {
		known := unary
		if op.Kind == grammar.OpInfix || op.Kind == grammar.OpBifix {
			known = binary
		}
		if !slices.Contains(known, op.Op) {
			return unknownOperation(def, op.Symbol, op.Op)
		}
		if op.Kind == grammar.OpBifix && !slices.Contains(unary, op.PrefixOp) {
			return unknownOperation(def, op.Symbol, op.PrefixOp)
		}
	}
	return nil
}

func unknownOperation(def grammar.Definition, symbol, op string) error {
	return mdwerror.Newf("operator %q uses unknown operation %q", symbol, op).
		WithCode(mdwerror.CodeInvalidConfig).
		WithOperation("calc.checkOperations").
		WithDetail("grammar", def.Name)
}

// Evaluator computes Values directly while parsing
type Evaluator struct {
	engine
}

// NewEvaluator builds an evaluator for def
func NewEvaluator(def grammar.Definition, opts ...Option) (*Evaluator, error) {
	e, err := newEngine(def, evalSemantics(), opts)
	if err != nil {
		return nil, err
	}
	return &Evaluator{engine: e}, nil
}

// Eval parses and evaluates input; trailing input is an error
func (e *Evaluator) Eval(input string) (Value, error) {
	return run[Value](e.engine, input)
}

func evalSemantics() grammar.Semantics[Value] {
	return grammar.Semantics[Value]{
		Number: func(lexeme string) (Value, error) {
			f, err := strconv.ParseFloat(lexeme, 64)
			if err != nil {
				return Value{}, err
			}
			return Number(f), nil
		},
		Digit: func(d int) (Value, error) {
			return Number(float64(d)), nil
		},
		AppendDigit: func(left Value, d int) (Value, error) {
			f, ok := left.Float()
			if !ok {
				return Value{}, mismatch("digit", "number", left)
			}
			return Number(f*10 + float64(d)), nil
		},
		Literal:     Literal,
		Binary:      Binary,
		Unary:       Unary,
		Postfix:     Unary,
		Ternary:     Select,
		Conditional: If,
	}
}

// TreeBuilder builds expression trees
type TreeBuilder struct {
	engine
}

// NewTreeBuilder builds a tree builder for def
func NewTreeBuilder(def grammar.Definition, opts ...Option) (*TreeBuilder, error) {
	e, err := newEngine(def, treeSemantics(def), opts)
	if err != nil {
		return nil, err
	}
	return &TreeBuilder{engine: e}, nil
}

// Tree parses input into an expression tree
func (b *TreeBuilder) Tree(input string) (ast.Node, error) {
	return run[ast.Node](b.engine, input)
}

func treeSemantics(def grammar.Definition) grammar.Semantics[ast.Node] {
	symbols := make(map[string]string)
	for _, op := range def.Operators {
		symbols[op.Op] = op.Symbol
		if op.PrefixOp != "" {
			symbols[op.PrefixOp] = op.Symbol
		}
	}

	return grammar.Semantics[ast.Node]{
		Number: func(lexeme string) (ast.Node, error) {
			f, err := strconv.ParseFloat(lexeme, 64)
			if err != nil {
				return nil, err
			}
			return &ast.Number{Value: f, Text: lexeme}, nil
		},
		Digit: func(d int) (ast.Node, error) {
			return &ast.Number{Value: float64(d)}, nil
		},
		AppendDigit: func(left ast.Node, d int) (ast.Node, error) {
			n, ok := left.(*ast.Number)
			if !ok {
				return nil, evalError(mdwerror.CodeTypeMismatch, "digit", "a digit cannot follow %s", left)
			}
			return &ast.Number{Value: n.Value*10 + float64(d)}, nil
		},
		Literal: func(value string) (ast.Node, error) {
			v, err := Literal(value)
			if err != nil {
				return nil, err
			}
			return constant(v), nil
		},
		Binary: func(op string, l, r ast.Node) (ast.Node, error) {
			return &ast.Binary{Op: op, Symbol: symbols[op], Left: l, Right: r}, nil
		},
		Unary: func(op string, operand ast.Node) (ast.Node, error) {
			return &ast.Unary{Op: op, Symbol: symbols[op], Operand: operand}, nil
		},
		Postfix: func(op string, operand ast.Node) (ast.Node, error) {
			return &ast.Postfix{Op: op, Symbol: symbols[op], Operand: operand}, nil
		},
		Ternary: func(cond, then, otherwise ast.Node) (ast.Node, error) {
			return &ast.Ternary{Cond: cond, Then: then, Else: otherwise}, nil
		},
		Conditional: func(cond, then ast.Node, otherwise *ast.Node) (ast.Node, error) {
			n := &ast.Conditional{Cond: cond, Then: then}
			if otherwise != nil {
				n.Else = *otherwise
			}
			return n, nil
		},
	}
}

func constant(v Value) ast.Node {
	if b, ok := v.Boolean(); ok {
		return &ast.Bool{Value: b}
	}
	f, _ := v.Float()
	return &ast.Number{Value: f}
}
