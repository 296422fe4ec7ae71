package profile

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"mbaadvisor/internal/errors"
)

// profileSchema constrains a raw profile document. It is an optional layer in
// front of the scoring functions, which accept any well-typed Profile.
const profileSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "academics": {
      "type": "object",
      "properties": {
        "gpa": {"type": "number", "minimum": 0},
        "gpaScale": {"type": "number", "exclusiveMinimum": 0},
        "testScore": {
          "type": "object",
          "properties": {
            "type": {"enum": ["", "none", "GMAT", "GRE"]},
            "score": {"type": "integer", "minimum": 0, "maximum": 800}
          }
        },
        "undergraduateInstitution": {"type": "string"},
        "undergraduateMajor": {"type": "string"},
        "additionalDegrees": {"type": "array", "items": {"type": "string"}}
      }
    },
    "workExperience": {
      "type": "object",
      "properties": {
        "years": {"type": "integer", "minimum": 0},
        "industry": {"type": "string"},
        "function": {"type": "string"},
        "leadership": {"$ref": "#/definitions/scale"},
        "international": {"type": "boolean"},
        "companies": {"type": "array", "items": {"type": "string"}},
        "roles": {"type": "array", "items": {"type": "string"}}
      }
    },
    "extracurriculars": {
      "type": "object",
      "properties": {
        "activities": {"type": ["array", "null"], "items": {"type": "string"}},
        "leadership": {"type": "boolean"},
        "continuity": {"type": "boolean"},
        "impact": {"$ref": "#/definitions/scale"}
      }
    },
    "career": {
      "type": "object",
      "properties": {
        "goals": {"type": "string"},
        "clarity": {"$ref": "#/definitions/scale"},
        "feasibility": {"$ref": "#/definitions/scale"},
        "fit": {"$ref": "#/definitions/scale"}
      }
    },
    "targetSchools": {
      "type": "object",
      "properties": {
        "tier": {"enum": ["", "none", "top 10", "top 25", "top 50", "top 100"]},
        "reach": {"type": "array", "items": {"type": "string"}},
        "target": {"type": "array", "items": {"type": "string"}},
        "safety": {"type": "array", "items": {"type": "string"}}
      }
    },
    "demographics": {
      "type": "object",
      "properties": {
        "age": {"type": "integer", "minimum": 0},
        "gender": {"type": "string"},
        "country": {"type": "string"},
        "underrepresented": {"type": "boolean"}
      }
    }
  },
  "definitions": {
    "scale": {"type": "integer", "minimum": 1, "maximum": 10}
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(profileSchema)

// ValidateJSON checks a raw profile document against the profile schema
func ValidateJSON(raw []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat, "profile is not valid JSON", err)
	}
	if result.Valid() {
		return nil
	}

	details := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		details[i] = desc.String()
	}
	return errors.NewValidationError(errors.ErrCodeInvalidProfile,
		fmt.Sprintf("profile validation failed: %s", strings.Join(details, "; ")), nil).
		WithContext("violations", details)
}

// normalize maps the "none" spelling of unset enums to the empty value
func (p Profile) normalize() Profile {
	if p.Academics.TestScore.Type == "none" {
		p.Academics.TestScore.Type = TestNone
	}
	if p.TargetSchools.Tier == "none" {
		p.TargetSchools.Tier = TierNone
	}
	return p
}
