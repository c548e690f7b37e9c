package user

type Permission string

const (
	// Invitations
	PermissionInvitationView   Permission = "invitation.view"
	PermissionInvitationManage Permission = "invitation.manage"

	// Customers
	PermissionCustomerView Permission = "customer.view"

	// Fleet
	PermissionWorkOrderManage Permission = "work_order.manage"

	// Notifications
	PermissionNotificationSend Permission = "notification.send"

	// Company
	PermissionCompanyView   Permission = "company.view"
	PermissionCompanyManage Permission = "company.manage"

	// Audit
	PermissionActivityView Permission = "activity.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionInvitationView,
		PermissionInvitationManage,
		PermissionCustomerView,
		PermissionWorkOrderManage,
		PermissionNotificationSend,
		PermissionCompanyView,
		PermissionCompanyManage,
		PermissionActivityView,
	},
	RoleAdmin: {
		PermissionInvitationView,
		PermissionInvitationManage,
		PermissionCustomerView,
		PermissionWorkOrderManage,
		PermissionNotificationSend,
		PermissionCompanyView,
		PermissionActivityView,
	},
	RoleDispatcher: {
		PermissionInvitationView,
		PermissionCustomerView,
		PermissionWorkOrderManage,
		PermissionNotificationSend,
		PermissionCompanyView,
	},
	RoleViewer: {
		PermissionInvitationView,
		PermissionCustomerView,
		PermissionCompanyView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
