// Package calc puts the grammar kit to work on the built-in arithmetic
// grammar, or any definition using its operation names. One definition
// serves two consumers: an Evaluator computing values while parsing and a
// TreeBuilder producing ast trees.
//
//	ev, _ := calc.NewEvaluator(grammar.Default())
//	v, err := ev.Eval("-3+4*2")   // 5
//
//	tb, _ := calc.NewTreeBuilder(grammar.Default())
//	n, err := tb.Tree("-3+4")     // (+ (- 3) 4)
//
// Syntax and lex errors come back as *InputError carrying the byte offset
// of the failing token; errors from operations are *EvalError.
package calc
