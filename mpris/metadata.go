package mpris

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// ParseUpdate extracts the track metadata and playback status carried by the
// changed-properties map of a PropertiesChanged signal. It never fails:
// missing or mistyped properties simply leave the corresponding Update field
// at its zero value.
func ParseUpdate(props map[string]dbus.Variant) Update {
	var update Update

	if v, ok := props["PlaybackStatus"]; ok {
		if s, ok := asString(v.Value()); ok {
			update.Status = ParseStatus(s)
		}
	}

	if v, ok := props["Metadata"]; ok {
		if raw, ok := v.Value().(map[string]dbus.Variant); ok {
			meta := ParseMetadata(raw)
			meta.Status = update.Status
			update.Meta = &meta
		}
	}

	return update
}

// ParseMetadata builds a TrackMetadata from a raw mpris:/xesam: property map.
// Players vary wildly in strictness, so every field is coerced individually
// and downgraded to absence on type mismatch instead of failing the record.
func ParseMetadata(raw map[string]dbus.Variant) TrackMetadata {
	return TrackMetadata{
		Title:        mapString(raw, KEY_TITLE),
		Album:        mapString(raw, KEY_ALBUM),
		Artists:      mapStringList(raw, KEY_ARTIST),
		AlbumArtists: mapStringList(raw, KEY_ALBUM_ARTIST),
		TrackNumber:  mapInt(raw, KEY_TRACK_NUMBER),
		TrackID:      mapString(raw, KEY_TRACK_ID),
		TrackURL:     mapString(raw, KEY_URL),
		ArtURL:       mapString(raw, KEY_ART_URL),
	}
}

func mapString(raw map[string]dbus.Variant, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	s, _ := asString(v.Value())
	return s
}

func mapStringList(raw map[string]dbus.Variant, key string) []string {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	return asStringList(v.Value())
}

func mapInt(raw map[string]dbus.Variant, key string) int {
	v, ok := raw[key]
	if !ok {
		return 0
	}
	n, _ := asInt(v.Value())
	return n
}

// asString accepts a string value, unwrapping a nested variant if needed.
// Some players double-wrap metadata values.
func asString(val interface{}) (string, bool) {
	switch v := val.(type) {
	case string:
		return v, true
	case dbus.Variant:
		return asString(v.Value())
	case dbus.ObjectPath:
		return string(v), true
	default:
		return "", false
	}
}

// asStringList coerces an array-typed value to a string slice, preserving
// source order. Non-string elements are coerced to their string form; only
// elements with no usable representation are dropped, never the whole field.
func asStringList(val interface{}) []string {
	switch v := val.(type) {
	case []string:
		if len(v) == 0 {
			return nil
		}
		out := make([]string, len(v))
		copy(out, v)
		return out
	case dbus.Variant:
		return asStringList(v.Value())
	case []interface{}:
		var out []string
		for _, item := range v {
			if s, ok := asString(item); ok {
				out = append(out, s)
			} else if item != nil {
				out = append(out, fmt.Sprintf("%v", item))
			}
		}
		return out
	case []dbus.Variant:
		var out []string
		for _, item := range v {
			if s, ok := asString(item.Value()); ok {
				out = append(out, s)
			} else if item.Value() != nil {
				out = append(out, fmt.Sprintf("%v", item.Value()))
			}
		}
		return out
	default:
		return nil
	}
}

// asInt accepts the integer types players actually send for trackNumber.
func asInt(val interface{}) (int, bool) {
	switch v := val.(type) {
	case int:
		return v, true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case uint64:
		return int(v), true
	case dbus.Variant:
		return asInt(v.Value())
	default:
		return 0, false
	}
}
