// File: env.go
// Title: Environment Overrides
// Description: Typed lookups of prefixed environment variables used to
//              override file configuration (PRATT_SERVER_HTTP_PORT etc.).
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Extracted from the dynamic config loader

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Env reads environment variables under a common prefix. Keys are joined
// with the prefix using "_" and upper-cased; "." and "-" become "_".
type Env struct {
	Prefix string

	// lookup is os.LookupEnv unless replaced in tests
	lookup func(string) (string, bool)
}

// NewEnv creates an Env for the given prefix
func NewEnv(prefix string) Env {
	return Env{Prefix: prefix, lookup: os.LookupEnv}
}

// Name returns the variable name for key
func (e Env) Name(key string) string {
	name := strings.NewReplacer(".", "_", "-", "_").Replace(key)
	if e.Prefix != "" {
		name = e.Prefix + "_" + name
	}
	return strings.ToUpper(name)
}

func (e Env) get(key string) (string, bool) {
	lookup := e.lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, ok := lookup(e.Name(key))
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// String overrides *dst when the variable is set
func (e Env) String(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

// Int overrides *dst when the variable is set and parses as an integer
func (e Env) Int(key string, dst *int) {
	if v, ok := e.get(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Bool overrides *dst when the variable is set and parses as a boolean
func (e Env) Bool(key string, dst *bool) {
	if v, ok := e.get(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// Duration overrides *dst when the variable is set and parses as a duration
func (e Env) Duration(key string, dst *time.Duration) {
	if v, ok := e.get(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
