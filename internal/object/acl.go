package object

import "encoding/json"

// PublicPrincipal is the ACL principal that grants access to everyone.
const PublicPrincipal = "*"

// Permission is the access a single principal holds on a record.
type Permission struct {
	Read  bool `json:"read,omitempty"`
	Write bool `json:"write,omitempty"`
}

// ACL maps principals (user identifiers, or PublicPrincipal) to their
// permissions on a record. The wire shape is a plain JSON object:
//
//	{"*":{"read":true},"u1":{"read":true,"write":true}}
type ACL struct {
	perms map[string]Permission
}

// NewACL returns an empty ACL.
func NewACL() *ACL {
	return &ACL{perms: make(map[string]Permission)}
}

// Set grants principal the given permissions, replacing any previous
// grant for that principal.
func (a *ACL) Set(principal string, perm Permission) {
	if a.perms == nil {
		a.perms = make(map[string]Permission)
	}
	a.perms[principal] = perm
}

// Get returns the permissions held by principal. Absent principals
// hold no access.
func (a *ACL) Get(principal string) Permission {
	if a == nil {
		return Permission{}
	}
	return a.perms[principal]
}

func (a ACL) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.perms)
}

func (a *ACL) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &a.perms)
}
