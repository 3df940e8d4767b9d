package bus

const (
	// D-Bus system constants
	DBUS_INTERFACE  = "org.freedesktop.DBus"
	DBUS_PROP_IFACE = DBUS_INTERFACE + ".Properties"

	BUS_ADD_MATCH    = DBUS_INTERFACE + ".AddMatch"
	BUS_REMOVE_MATCH = DBUS_INTERFACE + ".RemoveMatch"

	// D-Bus signal names
	DBUS_PROP_CHANGED_SIGNAL = DBUS_PROP_IFACE + ".PropertiesChanged"
	DBUS_NAME_OWNER_CHANGED  = DBUS_INTERFACE + ".NameOwnerChanged"

	// Desktop notification service, see
	// https://specifications.freedesktop.org/notification-spec/
	NOTIFY_SERVICE = "org.freedesktop.Notifications"
	NOTIFY_PATH    = "/org/freedesktop/Notifications"
	NOTIFY_METHOD  = NOTIFY_SERVICE + ".Notify"
)

// AppName identifies this daemon to the notification server and in the
// x-canonical-private-synchronous hint.
const AppName = "mpris-notifier"
