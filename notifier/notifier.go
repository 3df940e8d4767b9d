// Package notifier is the change-detection and dispatch core: it consumes
// the typed bus event stream, decides which signals deserve a desktop
// notification, and orchestrates template rendering, the deadline-bound
// artwork fetch, and the outbound Notify call.
package notifier

import (
	"sync"
	"time"

	"github.com/l1na-forever/mpris-notifier/bus"
	"github.com/l1na-forever/mpris-notifier/config"
	"github.com/l1na-forever/mpris-notifier/events"
	"github.com/l1na-forever/mpris-notifier/format"
	"github.com/l1na-forever/mpris-notifier/logger"
	"github.com/l1na-forever/mpris-notifier/mpris"
)

// Sender is the outbound notification call exposed by the bus session.
type Sender interface {
	Notify(subject, body string, img *bus.ImageData, replaces uint32) (uint32, error)
}

// ArtFetcher retrieves artwork under a deadline, nil on any failure.
type ArtFetcher interface {
	Fetch(uri string, deadline time.Duration) *bus.ImageData
}

// Notifier runs the dispatch loop. The tracker is touched exclusively from
// Run's goroutine; only the config pointer is swapped from outside (live
// reload), behind its own mutex.
type Notifier struct {
	sender  Sender
	fetcher ArtFetcher
	tracker *Tracker

	mu  sync.RWMutex
	cfg *config.Config
}

func New(cfg *config.Config, sender Sender, fetcher ArtFetcher) *Notifier {
	return &Notifier{
		sender:  sender,
		fetcher: fetcher,
		tracker: NewTracker(),
		cfg:     cfg,
	}
}

// SetConfig swaps in a freshly loaded configuration. Takes effect on the
// next dispatched event.
func (n *Notifier) SetConfig(cfg *config.Config) {
	n.mu.Lock()
	n.cfg = cfg
	n.mu.Unlock()
}

func (n *Notifier) config() *config.Config {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.cfg
}

// Run consumes the event stream until it closes. Events are processed
// strictly in arrival order; each one is fully dispatched (including any
// art fetch, bounded by its deadline) before the next is read.
func (n *Notifier) Run(evs <-chan events.Event) {
	logger.Info("[notifier] dispatch loop started")

	for ev := range evs {
		switch ev.Type {
		case events.TypePlayerUpdate:
			n.handleUpdate(ev.Sender, mpris.ParseUpdate(ev.Props))
		case events.TypePlayerGone:
			n.tracker.Remove(ev.Sender)
			logger.Debug("[notifier] dropped state for departed player %s", ev.Sender)
		default:
			logger.Debug("[notifier] unhandled event type: %s", ev.Type)
		}
	}

	logger.Info("[notifier] event stream closed, dispatch loop stopped")
}

func (n *Notifier) handleUpdate(sender string, update mpris.Update) {
	cfg := n.config()
	policy := Policy{NotifyOnResume: cfg.NotifyOnResume, NotifyOnPause: cfg.NotifyOnPause}

	decision, meta := n.tracker.Apply(sender, update, policy)
	if decision == DecisionSuppress {
		logger.Debug("[notifier] suppressed signal from %s (status %s)", sender, meta.Status)
		return
	}

	n.dispatch(sender, meta, cfg)
}

// dispatch renders and sends one notification. Artwork is best-effort: a
// fetch failure or timeout never blocks or cancels the text notification.
func (n *Notifier) dispatch(sender string, meta mpris.TrackMetadata, cfg *config.Config) {
	subject := format.Render(cfg.SubjectFormat, meta, cfg.JoinString)
	body := format.Render(cfg.BodyFormat, meta, cfg.JoinString)

	var icon *bus.ImageData
	if cfg.EnableAlbumArt && meta.ArtURL != "" && n.fetcher != nil {
		icon = n.fetcher.Fetch(meta.ArtURL, cfg.AlbumArtDeadline)
	}

	id, err := n.sender.Notify(subject, body, icon, n.tracker.NotificationID(sender))
	if err != nil {
		// A missing or rejecting notification daemon is a tolerated
		// runtime condition, not a failure of the dispatcher
		logger.Warn("[notifier] failed to send notification for %s: %v", sender, err)
		return
	}
	n.tracker.SetNotificationID(sender, id)

	logger.Info("[notifier] notified %q (%s)", subject, meta.Status)

	runCommands(cfg.Commands)
}
