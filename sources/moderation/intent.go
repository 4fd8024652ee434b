package moderation

import (
	"errors"
	"strings"
	"time"

	"chatwarden/sources/tracing"
)

var (
	ErrNoIntent      = errors.New("message contains no usable moderation intent")
	ErrActorNotFound = errors.New("target actor not found")
)

const (
	minEnforceableDelta = 30 * time.Second
	maxEnforceableDelta = 366 * 24 * time.Hour
)

// Actor is a resolved moderation target: a platform identity plus a display
// link for confirmations.
type Actor struct {
	ID       int64
	Username string
	Link     string
}

// ActorLookup resolves raw target references into actors. Implemented by the
// users repository.
type ActorLookup interface {
	ByRef(log *tracing.Logger, ref string) (*Actor, error)
	ByID(log *tracing.Logger, id int64) (*Actor, error)
}

// Mention is a structured mention entity supplied by the platform alongside
// the message text.
type Mention struct {
	UserID int64
}

type ParseRequest struct {
	Text          string
	Mentions      []Mention
	Now           time.Time
	DefaultReason string

	// DedupMentions skips entity mentions whose actor was already picked up
	// by the text scan. The historical behavior is no dedup.
	DedupMentions bool
}

// Intent is the validated result of parsing one moderation message. It is
// built once per message and discarded after the caller consumes it.
type Intent struct {
	Command   string
	Qualifier string // "un" for toggled forms
	Bot       string
	Targets   []*Actor
	IssuedAt  time.Time
	ExpiresAt time.Time
	Reason    string

	// ExpiryAdvisory marks a computed delta outside the sane range (under
	// 30 seconds or over 366 days). The value is kept exactly as computed;
	// the caller decides how loudly to warn.
	ExpiryAdvisory bool
}

type Resolver struct {
	lookup ActorLookup
}

func NewResolver(lookup ActorLookup) *Resolver {
	return &Resolver{lookup: lookup}
}

func (x *Resolver) Resolve(log *tracing.Logger, req ParseRequest) (*Intent, error) {
	defer tracing.ProfilePoint(log, "Intent resolution completed", "moderation.intent.resolve")()

	intent := &Intent{
		IssuedAt:  req.Now,
		ExpiresAt: req.Now,
	}

	var reason strings.Builder

	for _, tok := range Tokenize(req.Text) {
		switch tok.Kind {
		case TokenCommand:
			if intent.Command != "" {
				// first command is authoritative, the rest are noise
				continue
			}
			intent.Command = tok.Name
			intent.Bot = tok.Bot
			// only real toggle forms carry the qualifier, /unknown does not
			if base, ok := strings.CutPrefix(tok.Name, "un"); ok && IsModerationCommand(base) {
				intent.Qualifier = "un"
			}
		case TokenTarget:
			actor, err := x.lookup.ByRef(log, tok.Text)
			if err != nil {
				log.W("Target resolution failed", tracing.TargetRef, tok.Text, tracing.InnerError, err)
				return nil, ErrActorNotFound
			}
			intent.Targets = append(intent.Targets, actor)
		case TokenDuration:
			// multiple duration tokens accumulate additively
			intent.ExpiresAt = intent.ExpiresAt.Add(DurationFrom(tok.Count, tok.Unit, req.Now))
		case TokenReason:
			reason.WriteString(tok.Text)
		}
	}

	for _, mention := range req.Mentions {
		if req.DedupMentions && intent.hasTarget(mention.UserID) {
			continue
		}
		actor, err := x.lookup.ByID(log, mention.UserID)
		if err != nil {
			log.W("Mention entity resolution failed", tracing.UserId, mention.UserID, tracing.InnerError, err)
			return nil, ErrActorNotFound
		}
		intent.Targets = append(intent.Targets, actor)
	}

	delta := intent.ExpiresAt.Sub(intent.IssuedAt)
	if delta != 0 && (delta < minEnforceableDelta || delta > maxEnforceableDelta) {
		intent.ExpiryAdvisory = true
	}

	intent.Reason = reason.String()
	if intent.Reason == "" {
		intent.Reason = req.DefaultReason
	}

	if len(intent.Targets) == 0 && intent.Command == "" && intent.Bot == "" {
		return nil, ErrNoIntent
	}

	return intent, nil
}

func (x *Intent) hasTarget(id int64) bool {
	for _, target := range x.Targets {
		if target.ID == id {
			return true
		}
	}
	return false
}

// Permanent reports whether the intent carries no expiry.
func (x *Intent) Permanent() bool {
	return x.ExpiresAt.Equal(x.IssuedAt)
}

// Until formats the expiry date, or returns empty for permanent intents.
func (x *Intent) Until() string {
	if x.Permanent() {
		return ""
	}
	return x.ExpiresAt.Format("2006-01-02")
}

// TargetLinks joins the display links of all targets for confirmations.
func (x *Intent) TargetLinks() string {
	links := make([]string, 0, len(x.Targets))
	for _, target := range x.Targets {
		links = append(links, target.Link)
	}
	return strings.Join(links, ",")
}

// Undo returns the toggled form of an action: the un prefix is stripped when
// present and added otherwise. Case-sensitive, prefix-only.
func Undo(action string) string {
	if strings.HasPrefix(action, "un") {
		return strings.TrimPrefix(action, "un")
	}
	return "un" + action
}
