// Package config decodes TOML and YAML documents into typed structs and
// applies environment overrides.
//
//	var def grammar.Definition
//	if err := config.DecodeFile("grammar.yaml", config.FormatAuto, &def); err != nil {
//		return err
//	}
//
// Struct fields need both `toml` and `yaml` tags to be readable from
// either format. Errors are *mdwerror.Error values with CodeNotFound for
// missing files and CodeConfigError for syntax problems.
package config
