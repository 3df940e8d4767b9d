package mpris

const (
	// MPRIS D-Bus constants
	MPRIS_PREFIX       = "org.mpris.MediaPlayer2"
	MPRIS_PATH         = "/org/mpris/MediaPlayer2"
	MPRIS_PLAYER_IFACE = "org.mpris.MediaPlayer2.Player"

	// Metadata keys, see https://www.freedesktop.org/wiki/Specifications/mpris-spec/metadata/
	KEY_TRACK_ID     = "mpris:trackid"
	KEY_ART_URL      = "mpris:artUrl"
	KEY_TITLE        = "xesam:title"
	KEY_ALBUM        = "xesam:album"
	KEY_ARTIST       = "xesam:artist"
	KEY_ALBUM_ARTIST = "xesam:albumArtist"
	KEY_TRACK_NUMBER = "xesam:trackNumber"
	KEY_URL          = "xesam:url"
)

const (
	StatusPlaying PlaybackStatus = "Playing"
	StatusPaused  PlaybackStatus = "Paused"
	StatusStopped PlaybackStatus = "Stopped"

	// StatusUnknown is the zero value, used when a signal carries no
	// PlaybackStatus or an unrecognized one.
	StatusUnknown PlaybackStatus = ""
)
