// Package lexer scans text into tokens for the parser engine, using the
// lexemes of a grammar.Registry.
//
// Whitespace separates tokens but is otherwise ignored. Symbols match
// longest first, words are whole identifiers and numbers are handed to the
// registry's number scanner when it has one. Scanning is lazy; the first
// unknown character ends the token stream and is reported by Err, in the
// manner of bufio.Scanner:
//
//	lx := lexer.New(reg, input)
//	v, err := parser.Parse[float64](lx.Tokens())
//	if lexErr := lx.Err(); lexErr != nil {
//		return lexErr
//	}
package lexer
