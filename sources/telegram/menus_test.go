package telegram

import (
	"testing"

	"chatwarden/sources/menu"
	"chatwarden/sources/tracing"
)

type stubHistory struct {
	stacks map[string][]string
}

func newStubHistory() *stubHistory {
	return &stubHistory{stacks: make(map[string][]string)}
}

func (s *stubHistory) Get(log *tracing.Logger, surface string) ([]string, error) {
	return append([]string(nil), s.stacks[surface]...), nil
}

func (s *stubHistory) Put(log *tracing.Logger, surface string, stack []string) error {
	s.stacks[surface] = append([]string(nil), stack...)
	return nil
}

func (s *stubHistory) Clear(log *tracing.Logger, surface string) error {
	delete(s.stacks, surface)
	return nil
}

func testTree() menu.Node {
	identity := func(id string) string { return id }
	return buildSettingsTree(identity, []string{"en", "ru", "zh"})
}

func TestSettingsTreeIndexes(t *testing.T) {
	nav, err := menu.NewNavigator(testTree(), newStubHistory())
	if err != nil {
		t.Fatalf("navigator: %v", err)
	}

	for _, key := range []string{NodeSettings, NodeChat, NodePrivate, NodeStatistic, NodeMyStatistic, NodeSticker, NodeText, NodeLanguage} {
		if nav.Node(key) == nil {
			t.Errorf("node %q missing from the tree index", key)
		}
	}
}

func TestSettingsTreeNavigation(t *testing.T) {
	log := tracing.NewConsoleLogger()
	nav, err := menu.NewNavigator(testTree(), newStubHistory())
	if err != nil {
		t.Fatalf("navigator: %v", err)
	}
	surface := "1:100"

	if _, err := nav.Enter(log, surface, NodeChat); err != nil {
		t.Fatalf("enter chat: %v", err)
	}
	node, err := nav.Enter(log, surface, NodeStatistic)
	if err != nil {
		t.Fatalf("enter statistic: %v", err)
	}

	rows := node.Keyboard(menu.Values{NodeStatistic: "menu.statistic.off"})
	if len(rows) != 1 || len(rows[0]) != 3 {
		t.Fatalf("statistic keyboard = %v", rows)
	}
	wantPayloads := []string{PrefixStatistic + "0", PrefixStatistic + "1", PrefixStatistic + "2"}
	for i, control := range rows[0] {
		if control.Payload != wantPayloads[i] {
			t.Errorf("payload[%d] = %q, want %q", i, control.Payload, wantPayloads[i])
		}
	}
}

func TestAliasPropertyExpandsEntries(t *testing.T) {
	nav, err := menu.NewNavigator(testTree(), newStubHistory())
	if err != nil {
		t.Fatalf("navigator: %v", err)
	}

	node := nav.Node(NodeSticker)
	values := menu.Values{
		NodeSticker: map[string]any{"AgADxyz": "ban", "AgADabc": "mute"},
	}

	rows := node.Keyboard(values)
	var payloads []string
	for _, row := range rows {
		for _, control := range row {
			payloads = append(payloads, control.Payload)
		}
	}

	want := []string{
		PayloadAddStickerAlias,
		PrefixDeleteAlias + "sticker:AgADabc",
		PrefixDeleteAlias + "sticker:AgADxyz",
	}
	if len(payloads) != len(want) {
		t.Fatalf("payloads = %v", payloads)
	}
	for i := range want {
		if payloads[i] != want[i] {
			t.Errorf("payload[%d] = %q, want %q", i, payloads[i], want[i])
		}
	}
}

func TestLanguageSubmenuOffersEveryLanguage(t *testing.T) {
	nav, err := menu.NewNavigator(testTree(), newStubHistory())
	if err != nil {
		t.Fatalf("navigator: %v", err)
	}

	node := nav.Node(NodeLanguage)
	rows := node.Keyboard(menu.Values{})

	var payloads []string
	for _, row := range rows {
		for _, control := range row {
			payloads = append(payloads, control.Payload)
		}
	}
	want := []string{PrefixChangeLang + "en", PrefixChangeLang + "ru", PrefixChangeLang + "zh"}
	if len(payloads) != len(want) {
		t.Fatalf("payloads = %v", payloads)
	}
	for i := range want {
		if payloads[i] != want[i] {
			t.Errorf("payload[%d] = %q, want %q", i, payloads[i], want[i])
		}
	}
}
