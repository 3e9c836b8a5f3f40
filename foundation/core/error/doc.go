// Package error provides the coded error type used throughout the pratt
// module.
//
// Every failure that leaves a package boundary carries a Code. Codes are
// grouped into categories (syntax, evaluation, configuration, storage,
// service) and imply a default Severity and HTTP status, so the CLI, the
// REPL and the evaluation service can report a failure without knowing
// which package produced it.
//
//	err := mdwerror.New("operator table has no entries").
//		WithCode(mdwerror.CodeInvalidConfig).
//		WithOperation("grammar.Validate")
//
// Errors that are not *Error values but expose a Code method, such as the
// parse errors of the engine, are recognised by GetCode and HasCode
// anywhere in a wrapped chain.
package error
