package wire

import (
	"encoding/json"
	"fmt"
)

// Error codes reported by the store, plus the codes this client uses
// when reporting local faults in the same shape.
const (
	CodeOtherCause     = -1
	CodeObjectNotFound = 101
	CodeInvalidJSON    = 107
)

// Error is the store's error document: {"code":101,"error":"..."}.
// It carries both protocol-level failures reported by the server and
// local encoding faults, so callers deal with a single error surface.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("stash: %s (code %d)", e.Message, e.Code)
}

// DecodeError decodes an error document from body. It returns nil when
// the body is not an error document, so callers can fall back to a
// generic error.
func DecodeError(body []byte) *Error {
	var e Error
	if err := json.Unmarshal(body, &e); err != nil {
		return nil
	}
	if e.Code == 0 && e.Message == "" {
		return nil
	}
	return &e
}
