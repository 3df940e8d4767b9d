package notifier

import (
	"errors"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/l1na-forever/mpris-notifier/bus"
	"github.com/l1na-forever/mpris-notifier/config"
	"github.com/l1na-forever/mpris-notifier/events"
	"github.com/l1na-forever/mpris-notifier/mpris"
)

type sentNotification struct {
	Subject  string
	Body     string
	Icon     *bus.ImageData
	Replaces uint32
}

type fakeSender struct {
	sent   []sentNotification
	nextID uint32
	err    error
}

func (f *fakeSender) Notify(subject, body string, img *bus.ImageData, replaces uint32) (uint32, error) {
	f.sent = append(f.sent, sentNotification{Subject: subject, Body: body, Icon: img, Replaces: replaces})
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	return f.nextID, nil
}

type fakeFetcher struct {
	img       *bus.ImageData
	delay     time.Duration
	calls     []string
	deadlines []time.Duration
}

func (f *fakeFetcher) Fetch(uri string, deadline time.Duration) *bus.ImageData {
	f.calls = append(f.calls, uri)
	f.deadlines = append(f.deadlines, deadline)
	if f.delay > deadline {
		// Deadline-bound fetch abandons and yields nothing
		return nil
	}
	return f.img
}

func testConfig() *config.Config {
	return &config.Config{
		SubjectFormat:    "{track}",
		BodyFormat:       "{album} - {artist}",
		JoinString:       ", ",
		EnableAlbumArt:   true,
		AlbumArtDeadline: 100 * time.Millisecond,
		NotifyOnResume:   true,
		NotifyOnPause:    false,
	}
}

func playerUpdate(sender, title string, artists []string, status string, artURL string) events.Event {
	metaMap := map[string]dbus.Variant{}
	if title != "" {
		metaMap[mpris.KEY_TITLE] = dbus.MakeVariant(title)
	}
	if artists != nil {
		metaMap[mpris.KEY_ARTIST] = dbus.MakeVariant(artists)
	}
	if artURL != "" {
		metaMap[mpris.KEY_ART_URL] = dbus.MakeVariant(artURL)
	}

	props := map[string]dbus.Variant{
		"Metadata": dbus.MakeVariant(metaMap),
	}
	if status != "" {
		props["PlaybackStatus"] = dbus.MakeVariant(status)
	}

	return events.Event{Type: events.TypePlayerUpdate, Sender: sender, Props: props}
}

func statusOnlyUpdate(sender, status string) events.Event {
	return events.Event{
		Type:   events.TypePlayerUpdate,
		Sender: sender,
		Props:  map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant(status)},
	}
}

func run(n *Notifier, evs ...events.Event) {
	ch := make(chan events.Event, len(evs))
	for _, ev := range evs {
		ch <- ev
	}
	close(ch)
	n.Run(ch)
}

func TestNewTrackNotification(t *testing.T) {
	sender := &fakeSender{}
	n := New(testConfig(), sender, &fakeFetcher{})

	run(n, playerUpdate(":1.10", "A", []string{"X"}, "Playing", ""))

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(sender.sent))
	}
	if sender.sent[0].Subject != "A" {
		t.Errorf("subject = %q, want A", sender.sent[0].Subject)
	}
	if sender.sent[0].Body != " - X" {
		t.Errorf("body = %q, want ' - X'", sender.sent[0].Body)
	}
}

func TestIdenticalSignalsNotifyOnce(t *testing.T) {
	sender := &fakeSender{}
	n := New(testConfig(), sender, &fakeFetcher{})

	ev := playerUpdate(":1.10", "A", []string{"X"}, "Playing", "")
	run(n, ev, ev)

	if len(sender.sent) != 1 {
		t.Errorf("sent %d notifications for identical signals, want 1", len(sender.sent))
	}
}

func TestTrackChangeYieldsDistinctSubjects(t *testing.T) {
	sender := &fakeSender{}
	n := New(testConfig(), sender, &fakeFetcher{})

	run(n,
		playerUpdate(":1.10", "A", []string{"X"}, "Playing", ""),
		playerUpdate(":1.10", "B", []string{"X"}, "Playing", ""),
	)

	if len(sender.sent) != 2 {
		t.Fatalf("sent %d notifications, want 2", len(sender.sent))
	}
	if sender.sent[0].Subject == sender.sent[1].Subject {
		t.Errorf("subjects should differ, both %q", sender.sent[0].Subject)
	}
}

func TestStatusOnlyResumeNotifies(t *testing.T) {
	cfg := testConfig()
	cfg.SubjectFormat = "{status}: {track}"
	sender := &fakeSender{}
	n := New(cfg, sender, &fakeFetcher{})

	run(n,
		playerUpdate(":1.10", "A", []string{"X"}, "Paused", ""),
		statusOnlyUpdate(":1.10", "Playing"),
	)

	if len(sender.sent) != 2 {
		t.Fatalf("sent %d notifications, want 2 (initial + resume)", len(sender.sent))
	}
	if sender.sent[1].Subject != "Playing: A" {
		t.Errorf("resume subject = %q, want 'Playing: A' (cached title, new status)", sender.sent[1].Subject)
	}
}

func TestStatusOnlyPauseSuppressedByDefault(t *testing.T) {
	sender := &fakeSender{}
	n := New(testConfig(), sender, &fakeFetcher{})

	run(n,
		playerUpdate(":1.10", "A", []string{"X"}, "Playing", ""),
		statusOnlyUpdate(":1.10", "Paused"),
	)

	if len(sender.sent) != 1 {
		t.Errorf("sent %d notifications, want 1 (pause not notify-worthy by default)", len(sender.sent))
	}
}

func TestPeerRemovalResetsDeduplication(t *testing.T) {
	sender := &fakeSender{}
	n := New(testConfig(), sender, &fakeFetcher{})

	ev := playerUpdate(":1.10", "A", []string{"X"}, "Playing", "")
	gone := events.Event{Type: events.TypePlayerGone, Sender: ":1.10"}
	run(n, ev, gone, ev)

	if len(sender.sent) != 2 {
		t.Errorf("sent %d notifications, want 2 (state cleared between them)", len(sender.sent))
	}
}

func TestArtworkAttached(t *testing.T) {
	img := &bus.ImageData{Width: 2, Height: 2, Channels: 3, BitsPerSample: 8}
	fetcher := &fakeFetcher{img: img}
	sender := &fakeSender{}
	n := New(testConfig(), sender, fetcher)

	run(n, playerUpdate(":1.10", "A", []string{"X"}, "Playing", "https://example.com/art.jpg"))

	if len(fetcher.calls) != 1 || fetcher.calls[0] != "https://example.com/art.jpg" {
		t.Fatalf("fetcher calls = %v, want the art URL", fetcher.calls)
	}
	if fetcher.deadlines[0] != 100*time.Millisecond {
		t.Errorf("fetch deadline = %s, want the configured 100ms", fetcher.deadlines[0])
	}
	if len(sender.sent) != 1 || sender.sent[0].Icon != img {
		t.Error("notification should carry the fetched image")
	}
}

func TestArtworkTimeoutStillNotifies(t *testing.T) {
	fetcher := &fakeFetcher{img: &bus.ImageData{}, delay: time.Second}
	sender := &fakeSender{}
	n := New(testConfig(), sender, fetcher)

	run(n, playerUpdate(":1.10", "A", []string{"X"}, "Playing", "https://example.com/slow.jpg"))

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d notifications, want 1 despite art timeout", len(sender.sent))
	}
	if sender.sent[0].Icon != nil {
		t.Error("timed-out artwork should yield a text-only notification")
	}
}

func TestArtworkDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.EnableAlbumArt = false
	fetcher := &fakeFetcher{img: &bus.ImageData{}}
	sender := &fakeSender{}
	n := New(cfg, sender, fetcher)

	run(n, playerUpdate(":1.10", "A", []string{"X"}, "Playing", "https://example.com/art.jpg"))

	if len(fetcher.calls) != 0 {
		t.Errorf("fetcher called %d times with album art disabled, want 0", len(fetcher.calls))
	}
	if len(sender.sent) != 1 || sender.sent[0].Icon != nil {
		t.Error("notification should be sent without an icon")
	}
}

func TestNotificationReplacement(t *testing.T) {
	sender := &fakeSender{}
	n := New(testConfig(), sender, &fakeFetcher{})

	run(n,
		playerUpdate(":1.10", "A", []string{"X"}, "Playing", ""),
		playerUpdate(":1.10", "B", []string{"X"}, "Playing", ""),
	)

	if len(sender.sent) != 2 {
		t.Fatalf("sent %d notifications, want 2", len(sender.sent))
	}
	if sender.sent[0].Replaces != 0 {
		t.Errorf("first notification replaces = %d, want 0", sender.sent[0].Replaces)
	}
	if sender.sent[1].Replaces != 1 {
		t.Errorf("second notification replaces = %d, want the first's ID 1", sender.sent[1].Replaces)
	}
}

func TestSendFailureNonFatal(t *testing.T) {
	sender := &fakeSender{err: errors.New("no notification daemon")}
	n := New(testConfig(), sender, &fakeFetcher{})

	run(n,
		playerUpdate(":1.10", "A", []string{"X"}, "Playing", ""),
		playerUpdate(":1.10", "B", []string{"X"}, "Playing", ""),
	)

	// Both attempts are made, failures logged and moved past
	if len(sender.sent) != 2 {
		t.Errorf("attempted %d sends, want 2", len(sender.sent))
	}
	if sender.sent[1].Replaces != 0 {
		t.Errorf("replaces = %d after failed send, want 0 (no ID recorded)", sender.sent[1].Replaces)
	}
}

func TestEmptyIdentityNeverNotifies(t *testing.T) {
	sender := &fakeSender{}
	n := New(testConfig(), sender, &fakeFetcher{})

	run(n, playerUpdate(":1.10", "", nil, "Playing", ""))

	if len(sender.sent) != 0 {
		t.Errorf("sent %d notifications for an empty identity, want 0", len(sender.sent))
	}
}

func TestSetConfigTakesEffect(t *testing.T) {
	sender := &fakeSender{}
	n := New(testConfig(), sender, &fakeFetcher{})

	cfg := testConfig()
	cfg.SubjectFormat = "now: {track}"
	n.SetConfig(cfg)

	run(n, playerUpdate(":1.10", "A", []string{"X"}, "Playing", ""))

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(sender.sent))
	}
	if sender.sent[0].Subject != "now: A" {
		t.Errorf("subject = %q, want 'now: A' after config swap", sender.sent[0].Subject)
	}
}
