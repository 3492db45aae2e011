package rbac

// Role permissions for the classroom gateway. Ownership and membership of a
// particular class are checked per handler against the roster; these rules
// only gate what a role may attempt at all.
var RolePermissions = map[string][]string{
	"student": {
		"class:join",
		"class:view",
		"material:view",
		"submission:create",
		"quiz:generate",
	},
	"teacher": {
		"class:create",
		"class:view",
		"material:upload",
		"material:view",
		"assignment:create",
		"submission:view-all",
		"submission:grade",
	},
	"admin": {
		"*", // everything
	},
}
