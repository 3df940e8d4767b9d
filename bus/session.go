// Package bus owns the session D-Bus transport: it subscribes to MPRIS
// player signals, converts them into typed events for the dispatcher, and
// carries the outbound desktop notification call.
package bus

import (
	"context"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/l1na-forever/mpris-notifier/events"
	"github.com/l1na-forever/mpris-notifier/logger"
	"github.com/l1na-forever/mpris-notifier/mpris"
)

// Session wraps a session bus connection. Inbound player signals are exposed
// as a typed event channel; the channel closes when the connection is lost,
// which the caller treats as fatal.
type Session struct {
	conn   *dbus.Conn
	ctx    context.Context
	cancel context.CancelFunc
	events chan events.Event
}

// Connect opens a session bus connection. The bus must be reachable; a
// missing notification daemon, by contrast, is tolerated at send time.
func Connect(ctx context.Context) (*Session, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}

	sctx, cancel := context.WithCancel(ctx)
	return &Session{
		conn:   conn,
		ctx:    sctx,
		cancel: cancel,
		events: make(chan events.Event, 16),
	}, nil
}

// Start installs the MPRIS match rules and begins converting raw signals
// into events.
func (s *Session) Start() error {
	if err := s.addListenMatchRules(); err != nil {
		return err
	}

	ch := make(chan *dbus.Signal, 16)
	s.conn.Signal(ch)

	go s.listen(ch)

	logger.Info("[bus] session started (D-Bus signal-based)")
	return nil
}

// Events returns the inbound event stream consumed by the dispatcher.
func (s *Session) Events() <-chan events.Event {
	return s.events
}

// addListenMatchRules subscribes to the D-Bus signals the dispatcher needs:
// PropertiesChanged (track/status changes) and NameOwnerChanged (player
// appearance/disappearance), both scoped to the MPRIS namespace.
func (s *Session) addListenMatchRules() error {
	matchRule := "type='signal',interface='" + DBUS_PROP_IFACE + "',member='PropertiesChanged',path='" + mpris.MPRIS_PATH + "'"
	if err := AddMatchRule(s.conn, matchRule); err != nil {
		return err
	}

	ownerMatchRule := "type='signal',interface='" + DBUS_INTERFACE + "',member='NameOwnerChanged',arg0namespace='" + mpris.MPRIS_PREFIX + "'"
	if err := AddMatchRule(s.conn, ownerMatchRule); err != nil {
		return err
	}

	return nil
}

// listen continuously converts D-Bus signals into events
func (s *Session) listen(ch <-chan *dbus.Signal) {
	defer close(s.events)

	for {
		select {
		case <-s.ctx.Done():
			return
		case sig, ok := <-ch:
			if !ok {
				logger.Error("[bus] signal channel closed, connection lost")
				return
			}
			s.handleSignal(sig)
		}
	}
}

// handleSignal converts one raw signal, dropping anything malformed or
// irrelevant rather than failing.
func (s *Session) handleSignal(sig *dbus.Signal) {
	switch sig.Name {
	case DBUS_PROP_CHANGED_SIGNAL:
		s.handlePropertiesChanged(sig)
	case DBUS_NAME_OWNER_CHANGED:
		s.handleNameOwnerChanged(sig)
	default:
		logger.Debug("[bus] unhandled signal: %s", sig.Name)
	}
}

func (s *Session) handlePropertiesChanged(sig *dbus.Signal) {
	changed, iface, err := FilterSignal(sig)
	if err != nil {
		logger.Debug("[bus] dropping malformed signal from %s: %v", sig.Sender, err)
		return
	}
	if iface != mpris.MPRIS_PLAYER_IFACE {
		// We only care about Player changes
		return
	}

	s.emit(events.Event{
		Type:   events.TypePlayerUpdate,
		Sender: sig.Sender,
		Props:  changed,
	})
}

// handleNameOwnerChanged detects when a player disappears from the bus.
// Appearance needs no event: a new player is tracked lazily on its first
// PropertiesChanged signal.
func (s *Session) handleNameOwnerChanged(sig *dbus.Signal) {
	// Body[0] = bus name, Body[1] = old owner, Body[2] = new owner
	if len(sig.Body) < 3 {
		return
	}

	busName, ok := sig.Body[0].(string)
	if !ok || !strings.HasPrefix(busName, mpris.MPRIS_PREFIX+".") {
		return
	}

	oldOwner, _ := sig.Body[1].(string)
	newOwner, _ := sig.Body[2].(string)

	if oldOwner != "" && newOwner == "" {
		logger.Info("[bus] player removed: %s (%s)", busName, oldOwner)
		s.emit(events.Event{Type: events.TypePlayerGone, Sender: oldOwner})
	}
}

func (s *Session) emit(ev events.Event) {
	select {
	case s.events <- ev:
	case <-s.ctx.Done():
	}
}

// Close tears down the session.
func (s *Session) Close() {
	s.cancel()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}
