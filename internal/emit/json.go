package emit

import (
	"encoding/json"
	"fmt"
	"io"

	"paxy/internal/bytecode"
)

// jsonArtifact wraps the unit with its schema so readers can check it.
type jsonArtifact struct {
	Magic  string         `json:"magic"`
	Schema uint16         `json:"schema"`
	Unit   *bytecode.Unit `json:"unit"`
}

type jsonEmitter struct{}

func (jsonEmitter) Format() Format { return FormatJSON }

func (jsonEmitter) Emit(w io.Writer, u *bytecode.Unit) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonArtifact{Magic: Magic, Schema: SchemaVersion, Unit: u}); err != nil {
		return fmt.Errorf("emit json: %w", err)
	}
	return nil
}

func decodeJSON(r io.Reader) (*bytecode.Unit, error) {
	var a jsonArtifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("emit: decode json: %w", err)
	}
	if a.Magic != Magic {
		return nil, ErrBadMagic
	}
	if a.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w %d (want %d)", ErrSchema, a.Schema, SchemaVersion)
	}
	if a.Unit == nil {
		return nil, fmt.Errorf("emit: json artifact has no unit")
	}
	return a.Unit, nil
}
