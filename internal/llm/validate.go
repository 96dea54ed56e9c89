package llm

import (
	"encoding/json"

	"github.com/abhisek/mcqquiz/internal/schema"
)

// validateResponse validates raw JSON against the given Schema. A nil
// schema accepts anything.
func validateResponse(s *Schema, raw json.RawMessage) error {
	if s == nil {
		return nil
	}
	if err := schema.Validate("llm-"+s.Name, s.Definition, raw); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}
	return nil
}
