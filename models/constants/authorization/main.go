package authorization

type PermissionVerb string
type PermissionNoun string

const (
	QUERY   PermissionVerb = "query"
	ANALYZE PermissionVerb = "analyze"
	CREATE  PermissionVerb = "create"
)

const (
	DATA PermissionNoun = "data"
)
