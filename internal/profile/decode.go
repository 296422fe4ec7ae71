package profile

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"mbaadvisor/internal/errors"
)

// DecodeJSON parses a profile document. When validate is set the document is
// checked against the profile schema first.
func DecodeJSON(raw []byte, validate bool) (Profile, error) {
	if validate {
		if err := ValidateJSON(raw); err != nil {
			return Profile{}, err
		}
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return Profile{}, errors.NewValidationError(errors.ErrCodeInvalidFormat, "failed to parse profile JSON", err)
	}
	return p.normalize(), nil
}

// DecodeYAML parses a YAML profile document. Validation runs on the JSON
// form of the document so both encodings share one schema.
func DecodeYAML(raw []byte, validate bool) (Profile, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Profile{}, errors.NewValidationError(errors.ErrCodeInvalidFormat, "failed to parse profile YAML", err)
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return Profile{}, errors.NewValidationError(errors.ErrCodeInvalidFormat, "profile YAML cannot be represented as JSON", err)
	}
	return DecodeJSON(asJSON, validate)
}

// DecodeFile picks the decoder from the file extension. Anything other than
// .yaml or .yml is treated as JSON.
func DecodeFile(path string, raw []byte, validate bool) (Profile, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(raw, validate)
	default:
		return DecodeJSON(raw, validate)
	}
}
