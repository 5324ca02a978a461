package team

// Role is a collaborator's permission level.
type Role string

const (
	RoleLead        Role = "Lead"
	RoleMaintainer  Role = "Maintainer"
	RoleContributor Role = "Contributor"
)

// Presence is a collaborator's availability.
type Presence string

const (
	PresenceOnline  Presence = "online"
	PresenceOffline Presence = "offline"
	PresenceBusy    Presence = "busy"
)

// Member represents a single collaborator on the roster.
type Member struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Role     Role     `json:"role"`
	Avatar   string   `json:"avatar"`
	Presence Presence `json:"status"`
}
