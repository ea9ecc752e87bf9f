package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"exam:view",
		"attempt:create",
		"attempt:save",
		"attempt:submit",
		"attempt:view-own",
		"result:view-own",
		"user:change_password",
	},
	"staff": {
		"exam:create",
		"exam:view",
		"attempt:view-all",
		"attempt:grade",
		"result:view-all",
		"users:list",
		"user:change_password",
	},
	"admin": {
		"*", // everything
	},
}
