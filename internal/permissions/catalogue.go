package permissions

// Capability is a named boolean permission scoped to a club role.
type Capability string

const (
	// Core access
	CapViewAnnouncements   Capability = "view_announcements"
	CapCreateAnnouncements Capability = "create_announcements"
	CapEditAnnouncements   Capability = "edit_announcements"
	CapDeleteAnnouncements Capability = "delete_announcements"

	// Events
	CapViewEvents   Capability = "view_events"
	CapCreateEvents Capability = "create_events"
	CapEditEvents   Capability = "edit_events"
	CapDeleteEvents Capability = "delete_events"

	// Members
	CapViewMembers     Capability = "view_members"
	CapManageMembers   Capability = "manage_members"
	CapEditMemberRoles Capability = "edit_member_roles"

	// Attendance
	CapViewAttendance Capability = "view_attendance"
	CapTakeAttendance Capability = "take_attendance"
	CapEditAttendance Capability = "edit_attendance"

	// Communication
	CapAccessChat      Capability = "access_chat"
	CapCreateChatRooms Capability = "create_chat_rooms"
	CapManageChatRooms Capability = "manage_chat_rooms"

	// Administration
	CapModifyClubSettings Capability = "modify_club_settings"
	CapManageRoles        Capability = "manage_roles"
	CapViewAnalytics      Capability = "view_analytics"
)

// CapabilityInfo describes one capability for presentation.
type CapabilityInfo struct {
	Key         Capability `json:"key"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
}

// Category groups capabilities for presentation only; resolution treats
// every key uniformly.
type Category struct {
	Name         string           `json:"name"`
	Capabilities []CapabilityInfo `json:"capabilities"`
}

var catalogue = []Category{
	{
		Name: "Core Access",
		Capabilities: []CapabilityInfo{
			{CapViewAnnouncements, "View Announcements", "Can see club announcements"},
			{CapCreateAnnouncements, "Create Announcements", "Can post new announcements"},
			{CapEditAnnouncements, "Edit Announcements", "Can modify existing announcements"},
			{CapDeleteAnnouncements, "Delete Announcements", "Can remove announcements"},
		},
	},
	{
		Name: "Events",
		Capabilities: []CapabilityInfo{
			{CapViewEvents, "View Events", "Can see club events"},
			{CapCreateEvents, "Create Events", "Can create new events"},
			{CapEditEvents, "Edit Events", "Can modify events"},
			{CapDeleteEvents, "Delete Events", "Can remove events"},
		},
	},
	{
		Name: "Members",
		Capabilities: []CapabilityInfo{
			{CapViewMembers, "View Members", "Can see member list"},
			{CapManageMembers, "Manage Members", "Can add/remove members and approve join requests"},
			{CapEditMemberRoles, "Edit Member Roles", "Can change member roles"},
		},
	},
	{
		Name: "Attendance",
		Capabilities: []CapabilityInfo{
			{CapViewAttendance, "View Attendance", "Can see attendance records"},
			{CapTakeAttendance, "Take Attendance", "Can mark attendance"},
			{CapEditAttendance, "Edit Attendance", "Can modify attendance records"},
		},
	},
	{
		Name: "Communication",
		Capabilities: []CapabilityInfo{
			{CapAccessChat, "Access Chat", "Can use club chat"},
			{CapCreateChatRooms, "Create Chat Rooms", "Can create new chat rooms"},
			{CapManageChatRooms, "Manage Chat Rooms", "Can edit/delete chat rooms"},
		},
	},
	{
		Name: "Administration",
		Capabilities: []CapabilityInfo{
			{CapModifyClubSettings, "Modify Club Settings", "Can change club information"},
			{CapManageRoles, "Manage Roles", "Can create and manage roles"},
			{CapViewAnalytics, "View Analytics", "Can see club statistics and reports"},
		},
	},
}

var validKeys = buildKeySet()

func buildKeySet() map[Capability]struct{} {
	keys := make(map[Capability]struct{})
	for _, cat := range catalogue {
		for _, info := range cat.Capabilities {
			keys[info.Key] = struct{}{}
		}
	}
	return keys
}

// Catalogue returns the full capability catalogue grouped by category.
func Catalogue() []Category {
	return catalogue
}

// IsValid reports whether key belongs to the closed catalogue.
func IsValid(key Capability) bool {
	_, ok := validKeys[key]
	return ok
}
