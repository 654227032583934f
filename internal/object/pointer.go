package object

import (
	"encoding/json"
	"fmt"
)

// Pointer is a lightweight reference to a saved record, used to relate
// records to each other without embedding the full record.
type Pointer struct {
	ClassName string
	ObjectID  string
}

type taggedPointer struct {
	Type      string `json:"__type"`
	ClassName string `json:"className"`
	ObjectID  string `json:"objectId"`
}

func (p Pointer) MarshalJSON() ([]byte, error) {
	return json.Marshal(taggedPointer{
		Type:      "Pointer",
		ClassName: p.ClassName,
		ObjectID:  p.ObjectID,
	})
}

func (p *Pointer) UnmarshalJSON(data []byte) error {
	var tagged taggedPointer
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("decoding pointer: %w", err)
	}
	if tagged.Type != "Pointer" {
		return fmt.Errorf("decoding pointer: unexpected __type %q", tagged.Type)
	}
	p.ClassName = tagged.ClassName
	p.ObjectID = tagged.ObjectID
	return nil
}

// ToPointer builds a Pointer to o. The object must be saved; there is
// nothing to point at before the server has assigned an identifier.
func ToPointer(o Object) (Pointer, error) {
	if !Saved(o) {
		return Pointer{}, fmt.Errorf("cannot point to unsaved %s object", o.ClassName())
	}
	return Pointer{ClassName: o.ClassName(), ObjectID: o.ID()}, nil
}
