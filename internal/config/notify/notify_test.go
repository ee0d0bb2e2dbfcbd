package notify

import (
	"testing"
)

func TestNotifierSubscribe(t *testing.T) {
	n := New()
	var got []Change

	sub := n.Subscribe(func(c Change) { got = append(got, c) })
	n.NotifySet("trim.preserve-cursor", true, false, "user")
	n.NotifyReload("/tmp/settings.toml")

	if len(got) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(got))
	}
	if got[0].Type != ChangeSet || got[0].NewValue != false || got[0].Source != "user" {
		t.Errorf("unexpected set change %+v", got[0])
	}
	if got[1].Type != ChangeReload || got[1].Path != "" {
		t.Errorf("unexpected reload change %+v", got[1])
	}

	sub.Unsubscribe()
	sub.Unsubscribe()
	n.NotifySet("a", nil, 1, "user")
	if len(got) != 2 {
		t.Error("unsubscribed observer should not be called")
	}
	if n.Count() != 0 {
		t.Errorf("expected no subscriptions, got %d", n.Count())
	}
}

func TestNotifierPathMatching(t *testing.T) {
	tests := []struct {
		sub    string
		change string
		want   bool
	}{
		{"trim", "trim.preserve-cursor", true},
		{"trim.preserve-cursor", "trim.preserve-cursor", true},
		{"trim", "trimmer.x", false},
		{"trim.preserve-cursor", "trim", false},
		{"logging", "", true},
	}

	for _, tt := range tests {
		n := New()
		called := false
		n.SubscribePath(tt.sub, func(Change) { called = true })
		n.Notify(Change{Path: tt.change})
		if called != tt.want {
			t.Errorf("sub %q change %q: called=%v, want %v", tt.sub, tt.change, called, tt.want)
		}
	}
}

func TestNotifierUniqueIDs(t *testing.T) {
	n := New()
	a := n.Subscribe(func(Change) {})
	b := n.SubscribePath("trim", func(Change) {})

	if a.ID() == b.ID() {
		t.Error("subscription IDs should be unique")
	}
	if b.Path() != "trim" || a.Path() != "" {
		t.Errorf("unexpected paths %q %q", a.Path(), b.Path())
	}
}

func TestNotifierPanickingObserver(t *testing.T) {
	n := New()
	reached := false

	n.Subscribe(func(Change) { panic("bad observer") })
	n.Subscribe(func(Change) { reached = true })
	n.NotifyReload("x")

	if !reached {
		t.Error("observers after a panicking one should still run")
	}
}

func TestNotifierClose(t *testing.T) {
	n := New()
	called := false
	n.Subscribe(func(Change) { called = true })

	n.Close()
	n.Close()
	n.NotifyReload("x")

	if called {
		t.Error("closed notifier should not deliver")
	}
}
