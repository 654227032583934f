package rest

import (
	"encoding/json"
	"fmt"

	"stash-go/internal/object"
	"stash-go/internal/wire"
)

// Ack is the server's create/update acknowledgement. Any subset of
// the fields may be present; classification is strictly by presence.
type Ack struct {
	ObjectID  string     `json:"objectId"`
	CreatedAt *wire.Date `json:"createdAt"`
	UpdatedAt *wire.Date `json:"updatedAt"`
}

// IsCreate reports whether the ack acknowledges a create. Both the
// identifier and the creation time must be present together; either
// one alone does not classify as create.
func (a Ack) IsCreate() bool {
	return a.ObjectID != "" && a.CreatedAt != nil
}

// Reconcile decodes a save acknowledgement and applies it to rec,
// returning the post-save record value. rec itself is not modified;
// only the identity fields differ on the result.
func Reconcile[T object.Record[T]](raw []byte, rec T) (T, error) {
	var ack Ack
	if err := json.Unmarshal(raw, &ack); err != nil {
		var zero T
		return zero, fmt.Errorf("decoding %s save acknowledgement: %w", rec.ClassName(), err)
	}
	return ApplyAck(ack, rec)
}

// ApplyAck merges a decoded acknowledgement into rec. A create ack
// sets the identifier and both timestamps, with updatedAt defined
// equal to createdAt for a fresh object. An update ack sets only
// updatedAt, leaving the identifier and creation time untouched.
func ApplyAck[T object.Record[T]](ack Ack, rec T) (T, error) {
	if ack.IsCreate() {
		created := ack.CreatedAt.Time
		return rec.WithIdentity(ack.ObjectID, created, created), nil
	}
	if ack.UpdatedAt == nil {
		var zero T
		if ack.ObjectID != "" {
			return zero, fmt.Errorf("%s: %w", rec.ClassName(), ErrAckIdentifierOnly)
		}
		return zero, fmt.Errorf("%s: %w", rec.ClassName(), ErrAckShape)
	}
	return rec.WithIdentity(rec.ID(), rec.Created(), ack.UpdatedAt.Time), nil
}
