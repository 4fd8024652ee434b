package menu

import (
	"errors"
	"testing"

	"chatwarden/sources/tracing"
)

type memoryFlows struct {
	states map[string]*FlowState
}

func newMemoryFlows() *memoryFlows {
	return &memoryFlows{states: make(map[string]*FlowState)}
}

func (m *memoryFlows) Get(log *tracing.Logger, surface string) (*FlowState, error) {
	state, ok := m.states[surface]
	if !ok {
		return nil, nil
	}
	copied := *state
	return &copied, nil
}

func (m *memoryFlows) Put(log *tracing.Logger, surface string, state *FlowState) error {
	copied := *state
	m.states[surface] = &copied
	return nil
}

func (m *memoryFlows) Clear(log *tracing.Logger, surface string) error {
	delete(m.states, surface)
	return nil
}

func newTestFlow() (*AliasFlow, *memoryFlows) {
	store := newMemoryFlows()
	return NewAliasFlow(store, []string{"ban", "unban", "mute", "unmute", "kick"}), store
}

func TestAliasFlowStickerEndToEnd(t *testing.T) {
	log := tracing.NewConsoleLogger()
	flow, store := newTestFlow()
	surface := "1"

	if err := flow.Start(log, surface, "sticker_alias", "1:100", KeyKindSticker); err != nil {
		t.Fatalf("start: %v", err)
	}

	result, err := flow.Offer(log, surface, Input{Kind: InputSticker, StickerID: "AgADsticker"})
	if err != nil {
		t.Fatalf("offer sticker: %v", err)
	}
	if result.Done {
		t.Fatal("flow completed before the value was captured")
	}
	if result.OriginSurface != "1:100" {
		t.Errorf("origin surface = %q", result.OriginSurface)
	}

	result, err = flow.Offer(log, surface, Input{Kind: InputText, Text: "/ban"})
	if err != nil {
		t.Fatalf("offer command: %v", err)
	}
	if !result.Done || result.Key != "AgADsticker" || result.Value != "ban" {
		t.Errorf("result = %+v", result)
	}
	if result.OriginKey != "sticker_alias" || result.OriginSurface != "1:100" {
		t.Errorf("origin = %q on %q", result.OriginKey, result.OriginSurface)
	}
	if len(store.states) != 0 {
		t.Error("session should be discarded on completion")
	}
}

func TestAliasFlowTextKey(t *testing.T) {
	log := tracing.NewConsoleLogger()
	flow, _ := newTestFlow()
	surface := "1:100"

	if err := flow.Start(log, surface, "text_alias", "1:100", KeyKindText); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := flow.Offer(log, surface, Input{Kind: InputText, Text: "gtfo"}); err != nil {
		t.Fatalf("offer key: %v", err)
	}

	result, err := flow.Offer(log, surface, Input{Kind: InputText, Text: "/mute@wardenbot"})
	if err != nil {
		t.Fatalf("offer value: %v", err)
	}
	if !result.Done || result.Key != "gtfo" || result.Value != "mute" {
		t.Errorf("result = %+v", result)
	}
}

func TestAliasFlowAbortsOnWrongInputKind(t *testing.T) {
	log := tracing.NewConsoleLogger()
	flow, store := newTestFlow()
	surface := "1:100"

	if err := flow.Start(log, surface, "sticker_alias", "1:100", KeyKindSticker); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := flow.Offer(log, surface, Input{Kind: InputSticker, StickerID: "AgADsticker"}); err != nil {
		t.Fatalf("offer sticker: %v", err)
	}

	// a photo instead of a command kills the whole flow
	_, err := flow.Offer(log, surface, Input{Kind: InputOther})
	if !errors.Is(err, ErrUnexpectedInput) {
		t.Fatalf("err = %v, want ErrUnexpectedInput", err)
	}
	if len(store.states) != 0 {
		t.Error("aborted session should be discarded")
	}
	if _, err := flow.Offer(log, surface, Input{Kind: InputText, Text: "/ban"}); !errors.Is(err, ErrNoActiveFlow) {
		t.Fatalf("err after abort = %v, want ErrNoActiveFlow", err)
	}
}

func TestAliasFlowRejectsUnlistedCommand(t *testing.T) {
	log := tracing.NewConsoleLogger()
	flow, _ := newTestFlow()
	surface := "1:100"

	if err := flow.Start(log, surface, "text_alias", "1:100", KeyKindText); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := flow.Offer(log, surface, Input{Kind: InputText, Text: "hi"}); err != nil {
		t.Fatalf("offer key: %v", err)
	}
	if _, err := flow.Offer(log, surface, Input{Kind: InputText, Text: "/settings"}); !errors.Is(err, ErrUnexpectedInput) {
		t.Fatalf("err = %v, want ErrUnexpectedInput", err)
	}
}

func TestAliasFlowCancelKeepsNothing(t *testing.T) {
	log := tracing.NewConsoleLogger()
	flow, store := newTestFlow()
	surface := "1"

	if err := flow.Start(log, surface, "text_alias", "1:100", KeyKindText); err != nil {
		t.Fatalf("start: %v", err)
	}

	state, err := flow.Cancel(log, surface)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if state.OriginKey != "text_alias" || state.OriginSurface != "1:100" {
		t.Errorf("origin = %q on %q", state.OriginKey, state.OriginSurface)
	}
	if len(store.states) != 0 {
		t.Error("cancelled session should be discarded")
	}
}

func TestAliasFlowConflict(t *testing.T) {
	log := tracing.NewConsoleLogger()
	flow, _ := newTestFlow()
	surface := "1:100"

	if err := flow.Start(log, surface, "text_alias", "1:100", KeyKindText); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := flow.Start(log, surface, "sticker_alias", "1:100", KeyKindSticker); !errors.Is(err, ErrFlowActive) {
		t.Fatalf("second start err = %v, want ErrFlowActive", err)
	}
}
