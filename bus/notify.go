package bus

import (
	"github.com/godbus/dbus/v5"

	"github.com/l1na-forever/mpris-notifier/logger"
)

// ImageData is the raw-pixel image layout of the desktop notification
// image-data hint. Field order matches the (iiibiiay) wire signature, see
// https://specifications.freedesktop.org/notification-spec/notification-spec-latest.html#icons-and-images
type ImageData struct {
	Width         int32
	Height        int32
	Rowstride     int32
	HasAlpha      bool
	BitsPerSample int32
	Channels      int32
	Pixels        []byte
}

// Notify sends a desktop notification and returns the server-assigned ID.
// Passing a previous ID as replaces updates that popup in place. The call is
// fire-and-forget in spirit: an absent or rejecting notification daemon is a
// runtime condition the caller logs and moves past, never a fatal error.
func (s *Session) Notify(subject, body string, img *ImageData, replaces uint32) (uint32, error) {
	hints := map[string]dbus.Variant{
		// Collapses rapid track-skip notifications into a single popup slot
		// on servers that support the hint.
		"x-canonical-private-synchronous": dbus.MakeVariant(AppName),
	}
	if img != nil {
		hints["image-data"] = dbus.MakeVariant(*img)
	}

	obj := s.conn.Object(NOTIFY_SERVICE, NOTIFY_PATH)
	call := obj.Call(NOTIFY_METHOD, 0,
		AppName,    // app_name
		replaces,   // replaces_id
		"",         // app_icon
		subject,    // summary
		body,       // body
		[]string{}, // actions
		hints,      // hints
		int32(-1),  // expire_timeout (-1 = server default)
	)
	if err := CallWithTimeout(call); err != nil {
		return 0, err
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}

	logger.Debug("[bus] sent notification %d: %q", id, subject)
	return id, nil
}
