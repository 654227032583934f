package object

import (
	"encoding/json"
	"fmt"
	"time"

	"stash-go/internal/wire"
)

// Object is the capability set every persistable record exposes.
// Concrete record types implement it by embedding Base and providing
// ClassName; the class name is an explicit method, never derived from
// the Go type at runtime.
type Object interface {
	// ClassName names the server-side collection the record belongs to.
	ClassName() string
	// ID returns the server-assigned identifier, or "" before first save.
	ID() string
	// Created returns the server-assigned creation time, zero if unsaved.
	Created() time.Time
	// Updated returns the server-assigned last-update time, zero if unsaved.
	Updated() time.Time
	// Permissions returns the record's ACL, or nil when none is set.
	Permissions() *ACL
}

// Record is an Object whose identity fields can be replaced to produce
// a new value of the concrete type. WithIdentity must not mutate the
// receiver; reconciliation depends on getting a distinct value back.
type Record[T any] interface {
	Object
	WithIdentity(id string, created, updated time.Time) T
}

// Base carries the server-managed identity fields. Embed it in record
// structs; the JSON names match the store's wire bodies, and the
// timestamps use the wire date codec so no other representation can
// reach the wire.
type Base struct {
	ObjectID  string     `json:"objectId,omitempty"`
	CreatedAt *wire.Date `json:"createdAt,omitempty"`
	UpdatedAt *wire.Date `json:"updatedAt,omitempty"`
	ACL       *ACL       `json:"ACL,omitempty"`
}

func (b Base) ID() string { return b.ObjectID }

func (b Base) Created() time.Time {
	if b.CreatedAt == nil {
		return time.Time{}
	}
	return b.CreatedAt.Time
}

func (b Base) Updated() time.Time {
	if b.UpdatedAt == nil {
		return time.Time{}
	}
	return b.UpdatedAt.Time
}

func (b Base) Permissions() *ACL { return b.ACL }

// WithIdentity returns a copy of b with the server-assigned fields
// replaced. Zero times clear the corresponding timestamp.
func (b Base) WithIdentity(id string, created, updated time.Time) Base {
	b.ObjectID = id
	b.CreatedAt = dateOrNil(created)
	b.UpdatedAt = dateOrNil(updated)
	return b
}

func dateOrNil(t time.Time) *wire.Date {
	if t.IsZero() {
		return nil
	}
	d := wire.NewDate(t)
	return &d
}

// Saved reports whether o has been persisted at least once. Identity
// presence is the sole criterion.
func Saved(o Object) bool { return o.ID() != "" }

// RemotePath returns the REST path addressing o: the single-record
// path when o is saved, the class collection path otherwise. It is
// recomputed from current state on every call, never cached.
func RemotePath(o Object) string {
	if Saved(o) {
		return fmt.Sprintf("/classes/%s/%s", o.ClassName(), o.ID())
	}
	return ClassPath(o)
}

// ClassPath returns the collection path for o's class.
func ClassPath(o Object) string {
	return "/classes/" + o.ClassName()
}

// DebugString renders o as "ClassName ({...json...})" for diagnostics.
// An encoding failure degrades to "ClassName ()"; it is never reported
// to the caller.
func DebugString(o Object) string {
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Sprintf("%s ()", o.ClassName())
	}
	return fmt.Sprintf("%s (%s)", o.ClassName(), data)
}
