package middleware

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxUserNameLength = 200
	maxSubjectLength  = 200

	defaultLimit = 50
	maxLimit     = 200
)

// FieldError is a validation failure tied to one input field. Validation
// runs before any database access.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// ValidateUserName validates a user name after whitespace trimming.
func ValidateUserName(name string) error {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) == 0 {
		return &FieldError{Field: "user_name", Reason: "cannot be empty"}
	}
	if utf8.RuneCountInString(trimmed) > maxUserNameLength {
		return &FieldError{Field: "user_name", Reason: "exceeds maximum length"}
	}
	if !utf8.ValidString(trimmed) {
		return &FieldError{Field: "user_name", Reason: "must be valid UTF-8"}
	}
	return nil
}

// ValidateConversation validates a transcript body.
func ValidateConversation(conversation string) error {
	if len(conversation) == 0 {
		return &FieldError{Field: "conversation", Reason: "cannot be empty"}
	}
	if !utf8.ValidString(conversation) {
		return &FieldError{Field: "conversation", Reason: "must be valid UTF-8"}
	}
	return nil
}

// ValidateSubject validates a subject tag.
func ValidateSubject(subject string) error {
	if utf8.RuneCountInString(subject) > maxSubjectLength {
		return &FieldError{Field: "sujet", Reason: "exceeds maximum length"}
	}
	if !utf8.ValidString(subject) {
		return &FieldError{Field: "sujet", Reason: "must be valid UTF-8"}
	}
	return nil
}

// ParseRecordID parses a positive record id from a path segment.
func ParseRecordID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, &FieldError{Field: "id", Reason: "must be a positive integer"}
	}
	return id, nil
}

// ParseDay parses a YYYY-MM-DD calendar day, interpreted as UTC.
func ParseDay(raw string) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return time.Time{}, &FieldError{Field: "date", Reason: "must be formatted YYYY-MM-DD"}
	}
	return day, nil
}

// ParseLimit parses the page size, defaulting when absent.
func ParseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > maxLimit {
		return 0, &FieldError{Field: "limit", Reason: "must be an integer between 1 and 200"}
	}
	return limit, nil
}

// ParseOffset parses the page offset, defaulting when absent.
func ParseOffset(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	offset, err := strconv.Atoi(raw)
	if err != nil || offset < 0 {
		return 0, &FieldError{Field: "offset", Reason: "must be a non-negative integer"}
	}
	return offset, nil
}
