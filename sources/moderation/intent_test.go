package moderation

import (
	"errors"
	"testing"
	"time"

	"chatwarden/sources/tracing"
)

type stubLookup struct {
	byRef map[string]*Actor
	byID  map[int64]*Actor
}

func (s *stubLookup) ByRef(log *tracing.Logger, ref string) (*Actor, error) {
	if actor, ok := s.byRef[ref]; ok {
		return actor, nil
	}
	return nil, ErrActorNotFound
}

func (s *stubLookup) ByID(log *tracing.Logger, id int64) (*Actor, error) {
	if actor, ok := s.byID[id]; ok {
		return actor, nil
	}
	return nil, ErrActorNotFound
}

func newStubLookup() *stubLookup {
	johndoe := &Actor{ID: 7, Username: "johndoe", Link: "@johndoe"}
	numeric := &Actor{ID: 123456, Link: "123456"}
	return &stubLookup{
		byRef: map[string]*Actor{"@johndoe": johndoe, "123456": numeric},
		byID:  map[int64]*Actor{7: johndoe, 123456: numeric},
	}
}

func TestResolveIntent(t *testing.T) {
	log := tracing.NewConsoleLogger()
	now := time.Date(2023, time.June, 1, 12, 0, 0, 0, time.UTC)
	resolver := NewResolver(newStubLookup())

	t.Run("Durations accumulate additively", func(t *testing.T) {
		intent, err := resolver.Resolve(log, ParseRequest{Text: "/mute @johndoe 1h30m spam", Now: now})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if intent.Command != "mute" || intent.Qualifier != "" {
			t.Errorf("command = %q qualifier = %q", intent.Command, intent.Qualifier)
		}
		if len(intent.Targets) != 1 || intent.Targets[0].ID != 7 {
			t.Errorf("targets = %+v", intent.Targets)
		}
		if want := now.Add(90 * time.Minute); !intent.ExpiresAt.Equal(want) {
			t.Errorf("expires at %v, want %v", intent.ExpiresAt, want)
		}
		if intent.ExpiryAdvisory {
			t.Error("unexpected expiry advisory")
		}
		if intent.Reason != "spam" {
			t.Errorf("reason = %q", intent.Reason)
		}
	})

	t.Run("Toggle form carries the qualifier", func(t *testing.T) {
		intent, err := resolver.Resolve(log, ParseRequest{Text: "/unmute @johndoe", Now: now})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if intent.Command != "unmute" || intent.Qualifier != "un" {
			t.Errorf("command = %q qualifier = %q", intent.Command, intent.Qualifier)
		}
	})

	t.Run("Un prefix on a non-toggle verb is not a qualifier", func(t *testing.T) {
		intent, err := resolver.Resolve(log, ParseRequest{Text: "/unknown @johndoe", Now: now})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if intent.Command != "unknown" || intent.Qualifier != "" {
			t.Errorf("command = %q qualifier = %q", intent.Command, intent.Qualifier)
		}
	})

	t.Run("Short delta is advisory but kept", func(t *testing.T) {
		intent, err := resolver.Resolve(log, ParseRequest{Text: "/mute @johndoe 29s", Now: now})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !intent.ExpiryAdvisory {
			t.Error("expected expiry advisory for 29s")
		}
		if want := now.Add(29 * time.Second); !intent.ExpiresAt.Equal(want) {
			t.Errorf("expires at %v, want %v", intent.ExpiresAt, want)
		}
	})

	t.Run("Long delta is advisory but kept", func(t *testing.T) {
		intent, err := resolver.Resolve(log, ParseRequest{Text: "/ban @johndoe 367d", Now: now})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !intent.ExpiryAdvisory {
			t.Error("expected expiry advisory for 367d")
		}
		if want := now.Add(367 * 24 * time.Hour); !intent.ExpiresAt.Equal(want) {
			t.Errorf("expires at %v, want %v", intent.ExpiresAt, want)
		}
	})

	t.Run("No duration means permanent", func(t *testing.T) {
		intent, err := resolver.Resolve(log, ParseRequest{Text: "/ban @johndoe", Now: now})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !intent.Permanent() {
			t.Error("expected permanent intent")
		}
		if intent.Until() != "" {
			t.Errorf("Until() = %q, want empty", intent.Until())
		}
	})

	t.Run("Empty reason falls back to the placeholder", func(t *testing.T) {
		intent, err := resolver.Resolve(log, ParseRequest{Text: "/kick @johndoe", Now: now, DefaultReason: "not specified"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if intent.Reason != "not specified" {
			t.Errorf("reason = %q", intent.Reason)
		}
	})

	t.Run("Nothing usable fails", func(t *testing.T) {
		_, err := resolver.Resolve(log, ParseRequest{Text: "?!", Now: now})
		if !errors.Is(err, ErrNoIntent) {
			t.Fatalf("err = %v, want ErrNoIntent", err)
		}
	})

	t.Run("Unknown target aborts resolution", func(t *testing.T) {
		_, err := resolver.Resolve(log, ParseRequest{Text: "/ban @stranger99", Now: now})
		if !errors.Is(err, ErrActorNotFound) {
			t.Fatalf("err = %v, want ErrActorNotFound", err)
		}
	})

	t.Run("Entity mentions append without dedup by default", func(t *testing.T) {
		intent, err := resolver.Resolve(log, ParseRequest{
			Text:     "/ban @johndoe",
			Mentions: []Mention{{UserID: 7}},
			Now:      now,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(intent.Targets) != 2 {
			t.Errorf("targets = %+v, want duplicate kept", intent.Targets)
		}
	})

	t.Run("Entity mentions dedup when enabled", func(t *testing.T) {
		intent, err := resolver.Resolve(log, ParseRequest{
			Text:          "/ban @johndoe",
			Mentions:      []Mention{{UserID: 7}, {UserID: 123456}},
			Now:           now,
			DedupMentions: true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(intent.Targets) != 2 {
			t.Errorf("targets = %+v, want johndoe once plus numeric", intent.Targets)
		}
	})
}

func TestUndo(t *testing.T) {
	tests := []struct {
		action   string
		expected string
	}{
		{action: "mute", expected: "unmute"},
		{action: "unmute", expected: "mute"},
		{action: "ban", expected: "unban"},
		{action: "unban", expected: "ban"},
		{action: "kick", expected: "unkick"},
	}

	for _, tt := range tests {
		if got := Undo(tt.action); got != tt.expected {
			t.Errorf("Undo(%q) = %q, want %q", tt.action, got, tt.expected)
		}
	}
}
