package events

import "github.com/godbus/dbus/v5"

const (
	// TypePlayerUpdate carries the changed-properties map of a
	// PropertiesChanged signal from an MPRIS player.
	TypePlayerUpdate = "player.update"

	// TypePlayerGone signals that a player's bus connection disappeared.
	TypePlayerGone = "player.gone"
)

// Event is one typed inbound bus event, keyed by the unique connection name
// of the emitting peer.
type Event struct {
	Type   string
	Sender string

	// Props is set for TypePlayerUpdate only.
	Props map[string]dbus.Variant
}
