package domain

// RoleKey names a configured guild role. Keys map to concrete role ids in the
// loaded configuration.
type RoleKey string

const (
	RoleMember    RoleKey = "member"
	RoleMod       RoleKey = "mod"
	RoleSrMod     RoleKey = "sr_mod"
	RoleAdmin     RoleKey = "admin"
	RoleSrAdmin   RoleKey = "sr_admin"
	RoleManager   RoleKey = "manager"
	RoleOwner     RoleKey = "owner"
	RoleStaff     RoleKey = "staff"
	RoleDeveloper RoleKey = "developer"
)

// RankOrder is the promotion ladder, lowest rank first. RoleStaff and
// RoleDeveloper sit outside the ladder.
var RankOrder = []RoleKey{
	RoleMember,
	RoleMod,
	RoleSrMod,
	RoleAdmin,
	RoleSrAdmin,
	RoleManager,
	RoleOwner,
}

// SensitiveTicketRoles are the roles layered onto staff-restricted tickets.
var SensitiveTicketRoles = []RoleKey{RoleAdmin, RoleSrAdmin, RoleManager, RoleOwner}

// TicketCloseRoles may start a close countdown.
var TicketCloseRoles = []RoleKey{RoleMod, RoleSrMod, RoleAdmin, RoleSrAdmin, RoleManager, RoleOwner}

// TicketDeleteRoles may delete an archived ticket.
var TicketDeleteRoles = []RoleKey{RoleSrAdmin, RoleManager, RoleOwner}

// RankManageRoles may promote and demote staff.
var RankManageRoles = []RoleKey{RoleManager, RoleOwner}

// BroadcastRoles may use staff-only broadcast commands such as /sendip.
var BroadcastRoles = []RoleKey{RoleMod, RoleSrMod, RoleAdmin, RoleSrAdmin, RoleManager, RoleDeveloper, RoleOwner}
