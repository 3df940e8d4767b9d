package mpris

import "strings"

// PlaybackStatus represents the current playback state of a player
type PlaybackStatus string

// ParseStatus converts a raw PlaybackStatus property value to a PlaybackStatus.
// Unrecognized values map to StatusUnknown rather than failing.
func ParseStatus(s string) PlaybackStatus {
	switch PlaybackStatus(s) {
	case StatusPlaying, StatusPaused, StatusStopped:
		return PlaybackStatus(s)
	default:
		return StatusUnknown
	}
}

// TrackMetadata is a snapshot of a player's current media item.
// Empty strings and nil slices mean the field was absent upstream.
type TrackMetadata struct {
	Title        string
	Album        string
	Artists      []string
	AlbumArtists []string
	TrackNumber  int
	TrackID      string
	TrackURL     string
	ArtURL       string
	Status       PlaybackStatus
}

// TrackIdentity is the subset of metadata used to decide whether two signals
// describe the same logical track. Comparable, so it can be checked with ==.
type TrackIdentity struct {
	Title   string
	Artists string
	Album   string
}

// identitySeparator joins the artist list into the comparable identity key.
// A control character avoids collisions with artist names containing commas.
const identitySeparator = "\x1f"

// Identity returns the deduplication identity of this metadata snapshot.
func (m TrackMetadata) Identity() TrackIdentity {
	return TrackIdentity{
		Title:   m.Title,
		Artists: strings.Join(m.Artists, identitySeparator),
		Album:   m.Album,
	}
}

// IsZero reports whether every identity field is absent. A fully empty
// identity is treated as noise by the dispatcher, not a notifiable track.
func (id TrackIdentity) IsZero() bool {
	return id.Title == "" && id.Artists == "" && id.Album == ""
}

// Update is the typed result of parsing one PropertiesChanged signal body.
// Meta is nil when the signal carried no Metadata property; Status is
// StatusUnknown when it carried no PlaybackStatus.
type Update struct {
	Meta   *TrackMetadata
	Status PlaybackStatus
}
