// Package parser implements a generic top-down operator precedence
// (Pratt) parsing engine.
//
// The engine knows nothing about any concrete grammar. Tokens carry their
// own binding power and, optionally, a prefix handler (Nud) and an
// infix/postfix handler (Led). The result type R of a parse is chosen by
// the grammar: an evaluator may use a number, a tree builder an AST node.
//
//	result, err := parser.Parse[float64](tokens, parser.RequireEnd())
//
// Handlers parse their operands by calling back into the engine:
//
//	func (op *Plus) Led(p *parser.Parser[float64], left float64) (float64, error) {
//		right, err := p.Expression(op.BindingPower())
//		if err != nil {
//			return 0, err
//		}
//		return left + right, nil
//	}
//
// A left-associative operator recurses with its own binding power, a
// right-associative one with one less. Grouping is an ordinary prefix
// handler that parses Expression(0) and then Expect()s the closing token.
//
// Every token source ends in End, a sentinel with binding power 0, so the
// main loop terminates for any finite input. Failures are *ParseError
// values of three kinds; errors returned by handlers pass through
// unchanged.
package parser
