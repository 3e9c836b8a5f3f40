// Package ast defines the expression trees built by the tree-building
// grammar, their Lisp-style and indented renderings, and a visitor.
package ast
