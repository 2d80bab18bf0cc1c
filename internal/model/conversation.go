// Package model defines data structures for the conversation logger.
package model

import (
	"strings"
	"time"
)

const (
	// PreviewLength is the number of leading characters of a transcript
	// included in list views.
	PreviewLength = 160

	// TurnDelimiter separates logical turns inside the flat transcript.
	TurnDelimiter = " , "

	previewMarker = "…"
)

// Record is one stored conversation row. Records are immutable after
// creation; there is no update or delete surface.
type Record struct {
	ID           int64     `json:"id"`
	UserName     string    `json:"user_name"`
	Conversation string    `json:"conversation"`
	Subject      *string   `json:"sujet"`
	Date         time.Time `json:"date_conversation"`
}

// CreateRequest is the body accepted by the save endpoint.
type CreateRequest struct {
	UserName     string     `json:"user_name"`
	Conversation string     `json:"conversation"`
	Subject      *string    `json:"sujet,omitempty"`
	Date         *time.Time `json:"date_conversation,omitempty"`
}

// CreateResponse carries the generated id back to the caller.
type CreateResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// Summary is the list-view projection of a record.
type Summary struct {
	ID       int64     `json:"id"`
	UserName string    `json:"user_name"`
	Subject  *string   `json:"sujet"`
	Date     time.Time `json:"date_conversation"`
	Preview  string    `json:"preview"`
}

// Detail is the full record returned by the lookup endpoint.
type Detail struct {
	ID           int64     `json:"id"`
	UserName     string    `json:"user_name"`
	Subject      *string   `json:"sujet"`
	Date         time.Time `json:"date_conversation"`
	Conversation string    `json:"conversation"`
}

// ListResponse is the response for listing records.
type ListResponse struct {
	Items []Summary `json:"items"`
	Total int       `json:"total"`
}

// Preview returns the leading PreviewLength characters of a transcript.
// The truncation marker is appended only when something was cut off: a
// transcript of exactly PreviewLength characters passes through unchanged.
func Preview(conversation string) string {
	runes := []rune(conversation)
	if len(runes) <= PreviewLength {
		return conversation
	}
	return string(runes[:PreviewLength]) + previewMarker
}

// ExportText renders a flat transcript as human-readable multi-line text by
// replacing every literal turn delimiter with a line break.
func ExportText(conversation string) string {
	return strings.ReplaceAll(conversation, TurnDelimiter, "\n")
}

// Summarize builds the list-view projection of a record.
func (r Record) Summarize() Summary {
	return Summary{
		ID:       r.ID,
		UserName: r.UserName,
		Subject:  r.Subject,
		Date:     r.Date,
		Preview:  Preview(r.Conversation),
	}
}

// Detail builds the full-view projection of a record.
func (r Record) Detail() Detail {
	return Detail{
		ID:           r.ID,
		UserName:     r.UserName,
		Subject:      r.Subject,
		Date:         r.Date,
		Conversation: r.Conversation,
	}
}
