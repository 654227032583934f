package stash

import "github.com/google/uuid"

// IDGenerator abstracts unique ID generation so tests are
// deterministic. The transport uses it for request correlation IDs.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }
