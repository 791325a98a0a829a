package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	dErrors "orion/pkg/domain-errors"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

func validateFormat(format string) error {
	switch format {
	case formatYAML, formatJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (want yaml or json)", format)
	}
}

func render(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
}

// stepError is the rendered form of a failed step. Failures inside a run are
// reported next to the step rather than aborting the command.
type stepError struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

func newStepError(err error) *stepError {
	if err == nil {
		return nil
	}
	code := dErrors.GetCode(err)
	if code == "" {
		code = dErrors.CodeInternal
	}
	return &stepError{Code: string(code), Message: err.Error()}
}
