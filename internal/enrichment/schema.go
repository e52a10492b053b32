package enrichment

import (
	"encoding/json"
	"fmt"
	"strings"

	"smart-hr/internal/repository"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const cvSchemaJSON = `{
  "type": "object",
  "required": ["first_name", "match_score", "ai_summary"],
  "properties": {
    "first_name": {"type": "string"},
    "last_name": {"type": ["string", "null"]},
    "email": {"type": ["string", "null"]},
    "phone": {"type": ["string", "null"]},
    "gender": {"type": ["string", "null"]},
    "age": {"type": ["number", "null"]},
    "dob": {"type": ["string", "null"]},
    "nationality": {"type": ["string", "null"]},
    "family_status": {"type": ["string", "null"]},
    "experience_years": {"type": ["number", "null"]},
    "address": {"type": ["string", "null"]},
    "expected_salary": {"type": ["string", "null"]},
    "education_list": {
      "type": ["array", "null"],
      "items": {"type": "object", "properties": {
        "level": {"type": ["string", "null"]},
        "institution": {"type": ["string", "null"]},
        "year": {"type": ["string", "number", "null"]},
        "major": {"type": ["string", "null"]}
      }}
    },
    "employment_list": {
      "type": ["array", "null"],
      "items": {"type": "object", "properties": {
        "company": {"type": ["string", "null"]},
        "position": {"type": ["string", "null"]},
        "period": {"type": ["string", "null"]},
        "salary": {"type": ["string", "number", "null"]}
      }}
    },
    "skills": {"type": ["array", "null"], "items": {"type": "string"}},
    "match_score": {"type": "number"},
    "ai_summary": {"type": "string"}
  }
}`

const scoreSchemaJSON = `{
  "type": "object",
  "required": ["match_score", "ai_summary"],
  "properties": {
    "match_score": {"type": "number"},
    "ai_summary": {"type": "string"}
  }
}`

const translationSchemaJSON = `{
  "type": "object",
  "properties": {
    "work_history": {"type": ["string", "null"]},
    "education": {"type": ["string", "null"]},
    "ai_summary": {"type": ["string", "null"]}
  }
}`

const suggestionsSchemaJSON = `{
  "type": "object",
  "required": ["suggestions"],
  "properties": {
    "suggestions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["jobId", "matchScore"],
        "properties": {
          "jobId": {"type": "string"},
          "title": {"type": ["string", "null"]},
          "matchScore": {"type": "number"},
          "reason": {"type": ["string", "null"]}
        }
      }
    }
  }
}`

var (
	cvSchema          = mustCompile("cv.json", cvSchemaJSON)
	scoreSchema       = mustCompile("score.json", scoreSchemaJSON)
	translationSchema = mustCompile("translation.json", translationSchemaJSON)
	suggestionsSchema = mustCompile("suggestions.json", suggestionsSchemaJSON)
)

func mustCompile(name, src string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(src)); err != nil {
		panic(fmt.Sprintf("add schema %s: %v", name, err))
	}
	s, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("compile schema %s: %v", name, err))
	}
	return s
}

// decodeValidated cleans raw model output, checks it against schema and
// decodes it into out.
func decodeValidated(schema *jsonschema.Schema, raw []byte, out any) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("unmarshal ai output: %w", err)
	}
	v = repository.SanitizeValue(v)
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("ai output does not match schema: %w", err)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
