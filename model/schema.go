package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// CastError reports a value that could not be stored at a schema path.
type CastError struct {
	Path  string
	Kind  string
	Value any
}

func (e *CastError) Error() string {
	value, _ := json.Marshal(e.Value)
	return fmt.Sprintf("Cast to %s failed for value %s (type %s) at path %q", e.Kind, value, jsonType(e.Value), e.Path)
}

// ValidationError collects every schema violation of one document.
type ValidationError struct {
	Violations *multierror.Error
}

func NewValidationError(violations ...error) *ValidationError {
	return &ValidationError{Violations: multierror.Append(nil, violations...)}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details(), "; ")
}

// Details lists one message per violated field.
func (e *ValidationError) Details() []string {
	if e.Violations == nil {
		return nil
	}
	details := make([]string, 0, len(e.Violations.Errors))
	for _, err := range e.Violations.Errors {
		details = append(details, err.Error())
	}
	return details
}

// Cast converts a decoded JSON document into a FormData, stringifying
// scalars found under string paths. Objects and arrays under string paths
// are violations; answers are stored as they are.
func Cast(raw map[string]any) (fd FormData, err error) {
	var violations *multierror.Error

	userInfo, ok := raw["userInfo"].(map[string]any)
	if !ok {
		violations = multierror.Append(violations, &CastError{"userInfo", "Embedded", raw["userInfo"]})
	}
	fd.UserInfo.FullName, violations = castString(userInfo, "fullName", "userInfo.", violations)
	fd.UserInfo.Email, violations = castString(userInfo, "email", "userInfo.", violations)

	responses, ok := raw["responses"].([]any)
	if !ok {
		violations = multierror.Append(violations, &CastError{"responses", "Array", raw["responses"]})
	}
	fd.Responses = make([]SurveyResponse, 0, len(responses))
	for i, r := range responses {
		prefix := "responses." + strconv.Itoa(i) + "."
		obj, ok := r.(map[string]any)
		if !ok {
			violations = multierror.Append(violations, &CastError{strings.TrimSuffix(prefix, "."), "Embedded", r})
			continue
		}
		var resp SurveyResponse
		resp.QuestionID, violations = castString(obj, "questionId", prefix, violations)
		resp.Answer = obj["answer"]
		fd.Responses = append(fd.Responses, resp)
	}

	if violations != nil {
		err = &ValidationError{Violations: violations}
	}
	return
}

func castString(obj map[string]any, key, prefix string, violations *multierror.Error) (string, *multierror.Error) {
	switch v := obj[key].(type) {
	case nil:
		return "", violations
	case string:
		return v, violations
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), violations
	case json.Number:
		return v.String(), violations
	case bool:
		return strconv.FormatBool(v), violations
	default:
		return "", multierror.Append(violations, &CastError{prefix + key, "string", v})
	}
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64, json.Number:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	default:
		return "object"
	}
}
