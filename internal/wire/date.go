package wire

import (
	"encoding/json"
	"fmt"
	"time"
)

// ISOLayout is the store's canonical timestamp format: UTC with a
// literal Z and exactly three fractional digits.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// Date wraps time.Time with the store's tagged wire encoding:
//
//	{"__type":"Date","iso":"2024-01-01T00:00:00.000Z"}
//
// Encoding always produces the tagged form. Decoding accepts a bare
// ISO string first, then falls back to the tagged form, since server
// responses are not consistent about which one they use. A string
// that matches neither is a recoverable decode error; untrusted
// server bytes must never take the process down.
type Date struct {
	time.Time
}

// NewDate returns a Date for t, normalized to UTC.
func NewDate(t time.Time) Date {
	return Date{Time: t.UTC()}
}

type taggedDate struct {
	Type string `json:"__type"`
	ISO  string `json:"iso"`
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(taggedDate{Type: "Date", ISO: d.UTC().Format(ISOLayout)})
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return d.decodeISO(s)
	}

	var tagged taggedDate
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("decoding date: %w", err)
	}
	if tagged.Type != "Date" {
		return fmt.Errorf("decoding date: unexpected __type %q", tagged.Type)
	}
	return d.decodeISO(tagged.ISO)
}

func (d *Date) decodeISO(s string) error {
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return fmt.Errorf("malformed date %q: %w", s, err)
	}
	d.Time = t
	return nil
}
