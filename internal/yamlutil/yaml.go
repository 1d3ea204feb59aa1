// Package yamlutil decodes the two YAML documents finmemo reads: the service
// config file and memo payload files handed to the CLI. Both go through
// goccy/go-yaml, and struct fields without a yaml tag are matched by their
// json tag, so a payload written as YAML fills the same Payload fields as the
// JSON form posted to the server.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxDocumentSize is the largest memo payload the service accepts, in bytes.
// The payload decoder and the server's default body limit derive from it, so
// a YAML payload file and a posted JSON form share one ceiling.
const MaxDocumentSize = 2 << 20

// MaxInputSize is the limit enforced by Unmarshal and UnmarshalStrict.
// Tests lower it; production code leaves it at MaxDocumentSize.
var MaxInputSize = MaxDocumentSize

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// Unmarshal decodes data into v, ignoring unknown fields.
func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}
