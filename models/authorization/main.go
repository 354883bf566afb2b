package authorization

import (
	"encoding/json"

	c "primerdesign/api/models/constants/authorization"
)

type Resource interface{}
type ResourceEverything struct {
	Everything bool `json:"everything"`
}

type Permission struct {
	Verb c.PermissionVerb
	Noun c.PermissionNoun
}

type PermissionsList struct {
	List []Permission
}

// MarshalJSON flattens the permissions into "verb:noun" strings
func (p PermissionsList) MarshalJSON() ([]byte, error) {
	flattened := make([]string, 0, len(p.List))
	for _, perm := range p.List {
		flattened = append(flattened, string(perm.Verb)+":"+string(perm.Noun))
	}
	return json.Marshal(flattened)
}
