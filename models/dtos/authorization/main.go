package authorization

import (
	"encoding/json"
	mauthz "primerdesign/api/models/authorization"
)

type PermissionRequestDto struct {
	RequestedResource   mauthz.Resource
	RequiredPermissions mauthz.PermissionsList
}

func (p *PermissionRequestDto) MarshalJSON() ([]byte, error) {
	// structure the request body using snake case
	res := map[string]interface{}{
		"requested_resource":   p.RequestedResource,
		"required_permissions": p.RequiredPermissions,
	}
	return json.Marshal(&res)
}
