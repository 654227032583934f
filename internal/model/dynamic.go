// Package model holds the record types shipped with the client.
// Dynamic covers arbitrary classes; applications define their own
// typed records by embedding object.Base.
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"stash-go/internal/object"
	"stash-go/internal/wire"
)

// Dynamic is a schemaless record for an arbitrary class. The CLI uses
// it to save and fetch documents without a compiled-in record type.
// All mutators are value semantic: they return a copy and leave the
// receiver alone.
type Dynamic struct {
	class  string
	fields map[string]any
	base   object.Base
}

// NewDynamic returns an empty unsaved record of the given class.
func NewDynamic(class string) Dynamic {
	return Dynamic{class: class, fields: make(map[string]any)}
}

// FromJSON builds a Dynamic of the given class from a flat JSON
// document. Identity fields present in the document (objectId,
// createdAt, updatedAt, ACL) are folded into the record's identity
// rather than kept as plain fields.
func FromJSON(class string, doc []byte) (Dynamic, error) {
	d := NewDynamic(class)
	if err := json.Unmarshal(doc, &d); err != nil {
		return Dynamic{}, fmt.Errorf("decoding %s document: %w", class, err)
	}
	return d, nil
}

func (d Dynamic) ClassName() string { return d.class }

func (d Dynamic) ID() string { return d.base.ID() }

func (d Dynamic) Created() time.Time { return d.base.Created() }

func (d Dynamic) Updated() time.Time { return d.base.Updated() }

func (d Dynamic) Permissions() *object.ACL { return d.base.Permissions() }

// WithIdentity returns a copy of d with the server-assigned identity
// replaced. The field map is shared with the receiver; identity and
// fields never alias each other.
func (d Dynamic) WithIdentity(id string, created, updated time.Time) Dynamic {
	d.base = d.base.WithIdentity(id, created, updated)
	return d
}

// Set returns a copy of d with the named field set. The receiver's
// field map is left untouched.
func (d Dynamic) Set(name string, value any) Dynamic {
	fields := make(map[string]any, len(d.fields)+1)
	for k, v := range d.fields {
		fields[k] = v
	}
	fields[name] = value
	d.fields = fields
	return d
}

// Get returns the named field and whether it is present.
func (d Dynamic) Get(name string) (any, bool) {
	v, ok := d.fields[name]
	return v, ok
}

// Len returns the number of plain fields, identity excluded.
func (d Dynamic) Len() int { return len(d.fields) }

// MarshalJSON renders the record as the flat wire document: every
// plain field plus whichever identity fields are present.
func (d Dynamic) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(d.fields)+4)
	for k, v := range d.fields {
		doc[k] = v
	}
	if d.base.ObjectID != "" {
		doc["objectId"] = d.base.ObjectID
	}
	if d.base.CreatedAt != nil {
		doc["createdAt"] = d.base.CreatedAt
	}
	if d.base.UpdatedAt != nil {
		doc["updatedAt"] = d.base.UpdatedAt
	}
	if d.base.ACL != nil {
		doc["ACL"] = d.base.ACL
	}
	return json.Marshal(doc)
}

// UnmarshalJSON replaces the record's fields and identity from a flat
// wire document. The class name is not part of the document and is
// kept from the receiver.
func (d *Dynamic) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	base := object.Base{}
	fields := make(map[string]any, len(doc))
	for k, raw := range doc {
		switch k {
		case "objectId":
			if err := json.Unmarshal(raw, &base.ObjectID); err != nil {
				return fmt.Errorf("decoding objectId: %w", err)
			}
		case "createdAt":
			var date wire.Date
			if err := json.Unmarshal(raw, &date); err != nil {
				return fmt.Errorf("decoding createdAt: %w", err)
			}
			base.CreatedAt = &date
		case "updatedAt":
			var date wire.Date
			if err := json.Unmarshal(raw, &date); err != nil {
				return fmt.Errorf("decoding updatedAt: %w", err)
			}
			base.UpdatedAt = &date
		case "ACL":
			acl := object.NewACL()
			if err := json.Unmarshal(raw, acl); err != nil {
				return fmt.Errorf("decoding ACL: %w", err)
			}
			base.ACL = acl
		default:
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("decoding field %q: %w", k, err)
			}
			fields[k] = v
		}
	}

	d.base = base
	d.fields = fields
	return nil
}

var _ object.Record[Dynamic] = Dynamic{}
