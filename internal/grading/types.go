package grading

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// QuestionType enumerates the question kinds the engine knows about.
type QuestionType string

const (
	TypeMCQ         QuestionType = "mcq"
	TypeMultipleMCQ QuestionType = "multiple_mcq"
	TypeDescriptive QuestionType = "descriptive"
	TypeCoding      QuestionType = "coding"
)

// ManualGraded reports whether this type is scored by a human grader
// rather than the auto-grading engine.
func (t QuestionType) ManualGraded() bool {
	return t == TypeDescriptive || t == TypeCoding
}

func (t QuestionType) Valid() bool {
	switch t {
	case TypeMCQ, TypeMultipleMCQ, TypeDescriptive, TypeCoding:
		return true
	}
	return false
}

// Option is one choice of an mcq question.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text,omitempty"`
	IsCorrect bool   `json:"is_correct,omitempty"`
}

// Q is the minimal view of a question needed for grading.
// Keep this in sync with whatever fields your store uses.
type Q struct {
	Type           QuestionType
	Points         decimal.Decimal
	Options        []Option // mcq
	CorrectAnswers []string // multiple_mcq
}

// Response is the submitted payload for one answer: a single value for
// mcq/descriptive/coding, or a value set for multiple_mcq. The shape is
// fixed here, at the JSON boundary, so strategies never inspect raw
// interface{} payloads.
type Response struct {
	Single string
	Multi  []string
	Many   bool
}

func SingleResponse(v string) Response    { return Response{Single: v} }
func MultiResponse(vs ...string) Response { return Response{Multi: vs, Many: true} }

// Values normalizes the response to a value list: the multi set as-is,
// or the single value as a one-element list.
func (r Response) Values() []string {
	if r.Many {
		return r.Multi
	}
	return []string{r.Single}
}

func (r Response) IsZero() bool {
	if r.Many {
		return len(r.Multi) == 0
	}
	return r.Single == ""
}

// UnmarshalJSON accepts a scalar (string, number, bool) as a single
// value, or an array of scalars as a value set. Numbers are kept as
// their literal text so option-ID comparison stays a string compare.
func (r *Response) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = Response{}
		return nil
	}
	if trimmed[0] == '[' {
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return fmt.Errorf("answer payload: %w", err)
		}
		vals := make([]string, 0, len(raw))
		for _, el := range raw {
			s, err := scalarString(el)
			if err != nil {
				return err
			}
			vals = append(vals, s)
		}
		*r = Response{Multi: vals, Many: true}
		return nil
	}
	s, err := scalarString(trimmed)
	if err != nil {
		return err
	}
	*r = Response{Single: s}
	return nil
}

func (r Response) MarshalJSON() ([]byte, error) {
	if r.Many {
		return json.Marshal(r.Multi)
	}
	return json.Marshal(r.Single)
}

func scalarString(raw []byte) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err == nil {
		if v {
			return "true", nil
		}
		return "false", nil
	}
	return "", fmt.Errorf("answer payload: unsupported value %s", string(raw))
}
