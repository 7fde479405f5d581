package realtime

import "sawit-ops/backend/internal/model"

// Channel is a named broadcast stream. Clients are subscribed to channels
// by role at connect time; a client never receives events from a channel
// outside its role's allow-list.
type Channel string

const (
	ChannelGateCheck      Channel = "GATE_CHECK"
	ChannelSecurityAlerts Channel = "SECURITY_ALERTS"
	ChannelHarvest        Channel = "HARVEST"
	ChannelApproval       Channel = "APPROVAL"
	ChannelDashboard      Channel = "DASHBOARD"
)

// roleChannels maps each role to the channels it may receive. Every role
// additionally joins DASHBOARD for the shared refresh stream.
var roleChannels = map[model.Role][]Channel{
	model.RoleSatpam:  {ChannelGateCheck, ChannelSecurityAlerts, ChannelDashboard},
	model.RoleMandor:  {ChannelHarvest, ChannelDashboard},
	model.RoleAsisten: {ChannelHarvest, ChannelApproval, ChannelDashboard},
	model.RoleManager: {ChannelApproval, ChannelDashboard},
	model.RoleAdmin: {
		ChannelGateCheck, ChannelSecurityAlerts,
		ChannelHarvest, ChannelApproval, ChannelDashboard,
	},
}

// ChannelsForRole returns the channels a role is allowed to join. Unknown
// roles only get the shared dashboard stream.
func ChannelsForRole(role model.Role) []Channel {
	chs, ok := roleChannels[role]
	if !ok {
		return []Channel{ChannelDashboard}
	}
	out := make([]Channel, len(chs))
	copy(out, chs)
	return out
}

// RoleAllowed reports whether a role may receive events on a channel.
func RoleAllowed(role model.Role, ch Channel) bool {
	for _, allowed := range ChannelsForRole(role) {
		if allowed == ch {
			return true
		}
	}
	return false
}
