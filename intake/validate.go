package intake

import (
	"net/http"

	"github.com/mbolis/tichi-survey/log"
)

// Validate checks the shape of a decoded submission body. Checks run in a
// fixed order and the first failing one is reported.
func Validate(body any) *Error {
	doc, _ := body.(map[string]any)
	userInfo, responses := doc["userInfo"], doc["responses"]

	if !truthy(userInfo) || !truthy(responses) {
		log.WithFields(log.Fields{
			"userInfo":  truthy(userInfo),
			"responses": truthy(responses),
		}).Debug("validate.missing_fields")
		return &Error{
			Status:  http.StatusBadRequest,
			Title:   "Invalid request body",
			Details: "Request must include userInfo and responses",
		}
	}

	info, _ := userInfo.(map[string]any)
	if !truthy(info["fullName"]) || !truthy(info["email"]) {
		log.WithField("userInfo", userInfo).Debug("validate.user_info")
		return &Error{
			Status:  http.StatusBadRequest,
			Title:   "Invalid userInfo",
			Details: "userInfo must include fullName and email",
		}
	}

	list, ok := responses.([]any)
	if !ok || len(list) == 0 {
		log.WithField("responses", responses).Debug("validate.responses")
		return &Error{
			Status:  http.StatusBadRequest,
			Title:   "Invalid responses",
			Details: "responses must be a non-empty array",
		}
	}

	for _, r := range list {
		resp, _ := r.(map[string]any)
		_, hasAnswer := resp["answer"]
		if !truthy(resp["questionId"]) || !hasAnswer {
			log.WithField("response", r).Debug("validate.response")
			return &Error{
				Status:  http.StatusBadRequest,
				Title:   "Invalid response object",
				Details: "Each response must include questionId and answer",
			}
		}
	}

	log.Debug("validate.ok")
	return nil
}

// truthy follows JavaScript semantics for decoded JSON values: null, false,
// 0 and "" are falsy, every object and array is truthy.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}
