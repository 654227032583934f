package rest

import "errors"

var (
	// ErrNotAddressable is returned when an operation needs a
	// single-record remote path and the record has no identifier.
	ErrNotAddressable = errors.New("object has no objectId")

	// ErrAckShape is returned for an update acknowledgement that lacks
	// its required updatedAt field.
	ErrAckShape = errors.New("save acknowledgement missing updatedAt")

	// ErrAckIdentifierOnly is returned for an acknowledgement carrying
	// an objectId but neither timestamp. It is kept distinct from
	// ErrAckShape so the condition cannot be mistaken for a plain
	// update ack missing its timestamp.
	ErrAckIdentifierOnly = errors.New("save acknowledgement has objectId but no timestamps")

	// ErrBatchMismatch is returned when a batch response does not have
	// exactly one entry per batched record.
	ErrBatchMismatch = errors.New("batch response length mismatch")
)
