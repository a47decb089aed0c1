package rbac

// Simple default policy. Roles match the values stored on user records.
var RolePermissions = map[string][]string{
	"STUDENT": {
		"textbook:view",
		"assignment:view",
		"attempt:create",
		"attempt:save",
		"attempt:submit",
		"submission:view-own",
	},
	"TEACHER": {
		"textbook:*",
		"assignment:*",
		"attempt:create",
		"attempt:save",
		"attempt:submit",
		"submission:*",
		"users:manage",
		"ai:translate",
		"ai:feedback",
	},
	"ADMIN": {
		"*", // everything
	},
}
