// File: config.go
// Title: Configuration Decoding
// Description: Decodes TOML and YAML documents into typed structs and encodes
//              them back. The file format is detected from the extension.
//              Used for the application config and for grammar definitions.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-15
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with TOML/YAML support
// - 2026-10-15 v0.2.0: Struct decoding and encoding instead of a dynamic map

package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/pratt/foundation/core/error"
)

// Format represents the configuration file format
type Format int

const (
	// FormatTOML represents TOML format (default)
	FormatTOML Format = iota

	// FormatYAML represents YAML format
	FormatYAML

	// FormatAuto auto-detects format from file extension
	FormatAuto
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// ParseFormat parses "toml", "yaml" / "yml" or "auto"
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "auto", "":
		return FormatAuto, nil
	default:
		return FormatAuto, mdwerror.Newf("unknown config format %q", s).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("config.ParseFormat")
	}
}

// DetectFormat determines the format from the file extension,
// defaulting to TOML
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// DecodeFile reads path and decodes it into v
func DecodeFile(path string, format Format, v interface{}) error {
	if strings.TrimSpace(path) == "" {
		return mdwerror.New("config file path cannot be empty").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("config.DecodeFile")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		code := mdwerror.CodeConfigError
		if os.IsNotExist(err) {
			code = mdwerror.CodeNotFound
		}
		return mdwerror.Wrap(err, "failed to read config file").
			WithCode(code).
			WithOperation("config.DecodeFile").
			WithDetail("filePath", path)
	}

	if format == FormatAuto {
		format = DetectFormat(path)
	}
	if err := Decode(content, format, v); err != nil {
		return mdwerror.Wrap(err, "failed to parse config file").
			WithDetail("filePath", path)
	}
	return nil
}

// Decode decodes content in the given format into v
func Decode(content []byte, format Format, v interface{}) error {
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(content, v)
	case FormatTOML, FormatAuto:
		_, err = toml.Decode(string(content), v)
	default:
		return mdwerror.Newf("unsupported format %s", format).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("config.Decode")
	}
	if err != nil {
		return mdwerror.Wrap(err, "decode "+format.String()).
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Decode").
			WithDetail("format", format.String())
	}
	return nil
}

// DecodeString is Decode for string input
func DecodeString(content string, format Format, v interface{}) error {
	return Decode([]byte(content), format, v)
}

// Encode writes v to w in the given format
func Encode(w io.Writer, format Format, v interface{}) error {
	var err error
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(v)
		if err == nil {
			err = enc.Close()
		}
	case FormatTOML, FormatAuto:
		err = toml.NewEncoder(w).Encode(v)
	default:
		return mdwerror.Newf("unsupported format %s", format).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("config.Encode")
	}
	if err != nil {
		return mdwerror.Wrap(err, "encode "+format.String()).
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Encode")
	}
	return nil
}

// EncodeString is Encode into a string
func EncodeString(format Format, v interface{}) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, format, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}
