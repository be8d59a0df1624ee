package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failed request into the four shapes callers are allowed
// to branch on. Transport specifics are absorbed here and never re-inspected
// downstream.
type Kind int

const (
	// KindOther is any non-2xx response not covered by a more specific kind.
	KindOther Kind = iota
	// KindUnauthorized is a 401; the client clears the session before
	// returning it.
	KindUnauthorized
	// KindValidation is a 422 carrying field-level errors.
	KindValidation
	// KindNetwork means no response was received at all (connection refused,
	// DNS failure, timeout).
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	default:
		return "other"
	}
}

// NetworkErrorMessage is the fixed user-facing message for transport-level
// failures, kept distinct from any backend-provided text.
const NetworkErrorMessage = "network error - please check your connection"

const genericErrorMessage = "request failed"

// FieldError is one entry of a structured validation response.
type FieldError struct {
	Field   string
	Message string
}

// Error is the normalized failure every Client method returns. Status is
// zero for KindNetwork.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Kind == kind
}

// errorBody mirrors the backend's structured error envelope. The detail
// field is either a plain string or a list of field errors, so it is kept
// raw and decoded in two passes.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type rawFieldError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// normalizeError converts a non-2xx response body into an *Error. The body
// may be empty or non-JSON; both fall back to the generic message.
func normalizeError(status int, body []byte) *Error {
	e := &Error{Kind: KindOther, Status: status, Message: genericErrorMessage}

	if status == 401 {
		e.Kind = KindUnauthorized
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return e
	}

	// string detail
	var msg string
	if err := json.Unmarshal(eb.Detail, &msg); err == nil {
		if msg != "" {
			e.Message = msg
		}
		return e
	}

	// list-of-field-errors detail
	var raw []rawFieldError
	if err := json.Unmarshal(eb.Detail, &raw); err == nil && len(raw) > 0 {
		if status == 422 {
			e.Kind = KindValidation
		}
		parts := make([]string, 0, len(raw))
		for _, fe := range raw {
			field := locLeaf(fe.Loc)
			e.Fields = append(e.Fields, FieldError{Field: field, Message: fe.Msg})
			if field != "" {
				parts = append(parts, field+": "+fe.Msg)
			} else {
				parts = append(parts, fe.Msg)
			}
		}
		e.Message = strings.Join(parts, "; ")
	}

	return e
}

// locLeaf returns the last string element of a validation location path,
// e.g. ["body","name"] -> "name".
func locLeaf(loc []any) string {
	for i := len(loc) - 1; i >= 0; i-- {
		if s, ok := loc[i].(string); ok {
			return s
		}
	}
	return ""
}

func netError() *Error {
	return &Error{Kind: KindNetwork, Message: NetworkErrorMessage}
}
