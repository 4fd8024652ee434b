package menu

import (
	"errors"
	"testing"

	"chatwarden/sources/tracing"
)

type memoryHistory struct {
	stacks map[string][]string
}

func newMemoryHistory() *memoryHistory {
	return &memoryHistory{stacks: make(map[string][]string)}
}

func (m *memoryHistory) Get(log *tracing.Logger, surface string) ([]string, error) {
	return append([]string(nil), m.stacks[surface]...), nil
}

func (m *memoryHistory) Put(log *tracing.Logger, surface string, stack []string) error {
	m.stacks[surface] = append([]string(nil), stack...)
	return nil
}

func (m *memoryHistory) Clear(log *tracing.Logger, surface string) error {
	delete(m.stacks, surface)
	return nil
}

func testTree() Node {
	chat := NewMenu("chat_settings", "Chat settings", 2).WithUndo().Add(
		NewProperty("statistic", "Statistic settings", "Current: {value}", 3).WithUndo().Add(
			NewButton("Off", "statistic:0"),
		),
	)
	private := NewMenu("private_settings", "Personal settings", 2).WithUndo()
	return NewMenu("settings", "Choose what you want to customize", 2).Add(chat, private)
}

func TestNavigatorEnterAndBack(t *testing.T) {
	log := tracing.NewConsoleLogger()
	nav, err := NewNavigator(testTree(), newMemoryHistory())
	if err != nil {
		t.Fatalf("navigator: %v", err)
	}
	surface := "1:100"

	node, err := nav.Enter(log, surface, "chat_settings")
	if err != nil || node.Key() != "chat_settings" {
		t.Fatalf("enter chat_settings: node=%v err=%v", node, err)
	}

	node, err = nav.Enter(log, surface, "statistic")
	if err != nil || node.Key() != "statistic" {
		t.Fatalf("enter statistic: node=%v err=%v", node, err)
	}

	node, err = nav.Back(log, surface)
	if err != nil || node.Key() != "chat_settings" {
		t.Fatalf("back to chat_settings: node=%v err=%v", node, err)
	}

	node, err = nav.Back(log, surface)
	if err != nil || node.Key() != "settings" {
		t.Fatalf("back to root: node=%v err=%v", node, err)
	}

	if _, err = nav.Back(log, surface); !errors.Is(err, ErrBackUnderflow) {
		t.Fatalf("back at root: err=%v, want ErrBackUnderflow", err)
	}
}

func TestNavigatorRejectsUnknownSelection(t *testing.T) {
	log := tracing.NewConsoleLogger()
	nav, err := NewNavigator(testTree(), newMemoryHistory())
	if err != nil {
		t.Fatalf("navigator: %v", err)
	}

	if _, err := nav.Enter(log, "1:100", "statistic"); !errors.Is(err, ErrUnknownSelection) {
		t.Fatalf("entering a grandchild from the root: err=%v, want ErrUnknownSelection", err)
	}
}

func TestNavigatorIsolatesSurfaces(t *testing.T) {
	log := tracing.NewConsoleLogger()
	nav, err := NewNavigator(testTree(), newMemoryHistory())
	if err != nil {
		t.Fatalf("navigator: %v", err)
	}

	if _, err := nav.Enter(log, "1:100", "chat_settings"); err != nil {
		t.Fatalf("enter: %v", err)
	}

	node, err := nav.Current(log, "2:200")
	if err != nil || node.Key() != "settings" {
		t.Fatalf("other surface should still be at root: node=%v err=%v", node, err)
	}
}

func TestNavigatorRecoversFromStaleHistory(t *testing.T) {
	log := tracing.NewConsoleLogger()
	store := newMemoryHistory()
	store.stacks["1:100"] = []string{"removed_node"}

	nav, err := NewNavigator(testTree(), store)
	if err != nil {
		t.Fatalf("navigator: %v", err)
	}

	node, err := nav.Current(log, "1:100")
	if err != nil || node.Key() != "settings" {
		t.Fatalf("stale history should degrade to root: node=%v err=%v", node, err)
	}
}

func TestNavigatorRejectsDuplicateKeys(t *testing.T) {
	root := NewMenu("settings", "Settings", 1).Add(
		NewMenu("dup", "One", 1),
		NewMenu("dup", "Two", 1),
	)
	if _, err := NewNavigator(root, newMemoryHistory()); err == nil {
		t.Fatal("expected duplicate key error")
	}
}
