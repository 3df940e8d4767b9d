// Package format renders user-configurable notification templates against a
// track metadata snapshot. Format strings contain literal runs and {token}
// placeholders; unrecognized tokens pass through verbatim so user templates
// keep working across versions.
package format

import (
	"strconv"
	"strings"

	"github.com/l1na-forever/mpris-notifier/mpris"
)

// Render substitutes the recognized placeholders in format with fields from
// meta. Multi-valued fields are joined with join. Absent fields substitute
// the empty string. Render performs no I/O and never fails.
func Render(format string, meta mpris.TrackMetadata, join string) string {
	var out strings.Builder
	out.Grow(len(format))

	rest := format
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			out.WriteString(rest)
			return out.String()
		}
		out.WriteString(rest[:open])
		rest = rest[open:]

		end := strings.IndexByte(rest, '}')
		if end < 0 {
			// Unterminated placeholder, emit the remainder as a literal
			out.WriteString(rest)
			return out.String()
		}

		token := rest[1:end]
		if value, ok := resolve(token, meta, join); ok {
			out.WriteString(value)
		} else {
			// Unknown token passes through untouched
			out.WriteString(rest[:end+1])
		}
		rest = rest[end+1:]
	}
}

func resolve(token string, meta mpris.TrackMetadata, join string) (string, bool) {
	switch token {
	case "title", "track":
		return meta.Title, true
	case "album":
		return meta.Album, true
	case "artist", "artists":
		return strings.Join(meta.Artists, join), true
	case "album_artist", "album_artists":
		return strings.Join(meta.AlbumArtists, join), true
	case "track_number":
		if meta.TrackNumber == 0 {
			return "", true
		}
		return strconv.Itoa(meta.TrackNumber), true
	case "status":
		return string(meta.Status), true
	default:
		return "", false
	}
}
