package notifier

import (
	"github.com/l1na-forever/mpris-notifier/mpris"
)

// Decision is the outcome of applying one inbound signal to the tracker.
type Decision int

const (
	// DecisionSuppress drops the signal (duplicate, property churn, or noise)
	DecisionSuppress Decision = iota

	// DecisionNewTrack notifies for a track the source was not showing before
	DecisionNewTrack

	// DecisionStatusChange notifies for a notify-worthy status-only
	// transition on an unchanged track
	DecisionStatusChange
)

// Policy selects which status-only transitions are notify-worthy.
type Policy struct {
	NotifyOnResume bool
	NotifyOnPause  bool
}

func (p Policy) notifyWorthy(from, to mpris.PlaybackStatus) bool {
	switch {
	case to == mpris.StatusPlaying && from != mpris.StatusPlaying:
		return p.NotifyOnResume
	case to == mpris.StatusPaused && from == mpris.StatusPlaying:
		return p.NotifyOnPause
	default:
		return false
	}
}

// SourceState is the tracked state of one bus peer (player instance).
type SourceState struct {
	Meta           mpris.TrackMetadata
	Identity       mpris.TrackIdentity
	Status         mpris.PlaybackStatus
	NotificationID uint32
}

// Tracker owns the mapping from bus sender to SourceState. It is mutated
// only from the single dispatch loop, so it needs no locking.
type Tracker struct {
	sources map[string]*SourceState
}

func NewTracker() *Tracker {
	return &Tracker{sources: make(map[string]*SourceState)}
}

// Apply folds one parsed signal into the per-source state and decides
// whether it warrants a notification. The returned metadata is the effective
// snapshot to render: incoming fields merged over the last-known ones, so a
// status-only signal reuses the cached track fields.
func (t *Tracker) Apply(sender string, update mpris.Update, policy Policy) (Decision, mpris.TrackMetadata) {
	state, known := t.sources[sender]

	var meta mpris.TrackMetadata
	if update.Meta != nil {
		meta = *update.Meta
	} else if known {
		meta = state.Meta
	}

	status := update.Status
	if status == mpris.StatusUnknown && known {
		status = state.Status
	}
	meta.Status = status
	identity := meta.Identity()

	if !known {
		t.sources[sender] = &SourceState{Meta: meta, Identity: identity, Status: status}
		if identity.IsZero() || status == mpris.StatusStopped {
			return DecisionSuppress, meta
		}
		return DecisionNewTrack, meta
	}

	prevIdentity := state.Identity
	prevStatus := state.Status
	state.Meta = meta
	state.Identity = identity
	state.Status = status

	if identity != prevIdentity {
		// A fully empty identity is property churn, not a track
		if identity.IsZero() {
			return DecisionSuppress, meta
		}
		return DecisionNewTrack, meta
	}

	if update.Status != mpris.StatusUnknown && update.Status != prevStatus && !identity.IsZero() {
		if policy.notifyWorthy(prevStatus, update.Status) {
			return DecisionStatusChange, meta
		}
	}

	return DecisionSuppress, meta
}

// Remove drops all state for a departed peer. The next signal from the same
// sender starts from scratch, so player restarts never leak stale identity.
func (t *Tracker) Remove(sender string) {
	delete(t.sources, sender)
}

// NotificationID returns the last notification ID sent for this sender, or
// 0 when none was sent yet. Zero means "create a new popup" to the server.
func (t *Tracker) NotificationID(sender string) uint32 {
	if state, ok := t.sources[sender]; ok {
		return state.NotificationID
	}
	return 0
}

// SetNotificationID remembers the server-assigned ID so the next
// notification from the same sender replaces the popup instead of stacking.
func (t *Tracker) SetNotificationID(sender string, id uint32) {
	if state, ok := t.sources[sender]; ok {
		state.NotificationID = id
	}
}

// Len returns the number of tracked sources.
func (t *Tracker) Len() int {
	return len(t.sources)
}
