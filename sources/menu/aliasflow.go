package menu

import (
	"errors"
	"strings"

	"chatwarden/sources/tracing"
)

var (
	ErrFlowActive      = errors.New("an alias capture flow is already active for this surface")
	ErrNoActiveFlow    = errors.New("no alias capture flow is active for this surface")
	ErrUnexpectedInput = errors.New("input kind is not accepted by the capture flow")
)

type FlowStage int

const (
	StageAwaitingKey FlowStage = iota + 1
	StageAwaitingValue
)

type KeyKind string

const (
	KeyKindSticker KeyKind = "sticker"
	KeyKindText    KeyKind = "text"
)

// FlowState is the ephemeral session of one alias capture, persisted in the
// injected store between messages.
type FlowState struct {
	Stage FlowStage `json:"stage"`
	Kind  KeyKind   `json:"kind"`
	Key   string    `json:"key,omitempty"`

	// OriginKey and OriginSurface locate the menu node and message the flow
	// was started from, so completion and cancel can repaint it.
	OriginKey     string `json:"origin_key"`
	OriginSurface string `json:"origin_surface,omitempty"`
}

// FlowStore persists capture sessions per surface. Get returns nil when no
// session exists.
type FlowStore interface {
	Get(log *tracing.Logger, surface string) (*FlowState, error)
	Put(log *tracing.Logger, surface string, state *FlowState) error
	Clear(log *tracing.Logger, surface string) error
}

type InputKind int

const (
	InputText InputKind = iota
	InputSticker
	InputOther
)

// Input is one user message offered to an active flow.
type Input struct {
	Kind      InputKind
	Text      string
	StickerID string
}

// FlowResult reports the flow's reaction to an input. Done carries the
// captured pair; otherwise the flow advanced a stage and expects more input.
type FlowResult struct {
	Done          bool
	Key           string
	Value         string
	OriginKey     string
	OriginSurface string
}

// AliasFlow is the finite state machine collecting a key (sticker id or
// literal text) and then an allow-listed command word across messages.
type AliasFlow struct {
	store   FlowStore
	allowed map[string]bool
}

func NewAliasFlow(store FlowStore, allowedCommands []string) *AliasFlow {
	allowed := make(map[string]bool, len(allowedCommands))
	for _, command := range allowedCommands {
		allowed[command] = true
	}
	return &AliasFlow{store: store, allowed: allowed}
}

// Active reports whether a capture session exists for the surface.
func (x *AliasFlow) Active(log *tracing.Logger, surface string) bool {
	state, err := x.store.Get(log, surface)
	return err == nil && state != nil
}

// Start opens a capture session. Exactly one flow may be active per surface;
// a second start surfaces the conflict instead of overwriting.
func (x *AliasFlow) Start(log *tracing.Logger, surface, originKey, originSurface string, kind KeyKind) error {
	defer tracing.ProfilePoint(log, "Alias flow started", "menu.aliasflow.start", tracing.SurfaceId, surface)()

	existing, err := x.store.Get(log, surface)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrFlowActive
	}

	return x.store.Put(log, surface, &FlowState{
		Stage:         StageAwaitingKey,
		Kind:          kind,
		OriginKey:     originKey,
		OriginSurface: originSurface,
	})
}

// Offer feeds one user message into the active flow. Any input outside the
// stage's grammar aborts the whole flow; the stray message is the caller's
// to discard.
func (x *AliasFlow) Offer(log *tracing.Logger, surface string, in Input) (*FlowResult, error) {
	defer tracing.ProfilePoint(log, "Alias flow offer completed", "menu.aliasflow.offer", tracing.SurfaceId, surface)()

	state, err := x.store.Get(log, surface)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrNoActiveFlow
	}

	switch state.Stage {
	case StageAwaitingKey:
		key, ok := x.captureKey(state.Kind, in)
		if !ok {
			return nil, x.abort(log, surface, state)
		}
		state.Key = key
		state.Stage = StageAwaitingValue
		if err := x.store.Put(log, surface, state); err != nil {
			return nil, err
		}
		return &FlowResult{OriginKey: state.OriginKey, OriginSurface: state.OriginSurface}, nil

	case StageAwaitingValue:
		value, ok := x.captureValue(in)
		if !ok {
			return nil, x.abort(log, surface, state)
		}
		if err := x.store.Clear(log, surface); err != nil {
			return nil, err
		}
		return &FlowResult{
			Done:          true,
			Key:           state.Key,
			Value:         value,
			OriginKey:     state.OriginKey,
			OriginSurface: state.OriginSurface,
		}, nil

	default:
		return nil, x.abort(log, surface, state)
	}
}

// Cancel discards the session without writing anything and hands back the
// discarded state so the caller can repaint the originating menu.
func (x *AliasFlow) Cancel(log *tracing.Logger, surface string) (*FlowState, error) {
	state, err := x.store.Get(log, surface)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrNoActiveFlow
	}
	if err := x.store.Clear(log, surface); err != nil {
		return nil, err
	}
	log.I("Alias flow cancelled", tracing.SurfaceId, surface, tracing.FlowStage, int(state.Stage))
	return state, nil
}

func (x *AliasFlow) captureKey(kind KeyKind, in Input) (string, bool) {
	switch {
	case kind == KeyKindSticker && in.Kind == InputSticker && in.StickerID != "":
		return in.StickerID, true
	case kind == KeyKindText && in.Kind == InputText && in.Text != "":
		return in.Text, true
	}
	return "", false
}

func (x *AliasFlow) captureValue(in Input) (string, bool) {
	if in.Kind != InputText || !strings.HasPrefix(in.Text, "/") {
		return "", false
	}

	verb := strings.TrimPrefix(strings.Fields(in.Text)[0], "/")
	if at := strings.Index(verb, "@"); at >= 0 {
		verb = verb[:at]
	}
	if !x.allowed[verb] {
		return "", false
	}
	return verb, true
}

func (x *AliasFlow) abort(log *tracing.Logger, surface string, state *FlowState) error {
	if err := x.store.Clear(log, surface); err != nil {
		return err
	}
	log.W("Alias flow aborted on unexpected input", tracing.SurfaceId, surface, tracing.FlowStage, int(state.Stage))
	return ErrUnexpectedInput
}
