package menu

import (
	"reflect"
	"testing"
)

func TestMenuKeyboardWrapsRows(t *testing.T) {
	root := NewMenu("settings", "Choose what you want to customize", 2).Add(
		NewButton("One", "one"),
		NewButton("Two", "two"),
		NewButton("Three", "three"),
	)

	rows := root.Keyboard(Values{})
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if len(rows[0]) != 2 || len(rows[1]) != 1 {
		t.Errorf("row widths = %d,%d want 2,1", len(rows[0]), len(rows[1]))
	}
	if rows[1][0].Payload != "three" {
		t.Errorf("last control payload = %q", rows[1][0].Payload)
	}
}

func TestHiddenChildIsNotRendered(t *testing.T) {
	confirm := NewMenu("delete_confirm", "Delete?", 1).WithHide()
	root := NewMenu("settings", "Settings", 1).Add(
		NewButton("Visible", "visible"),
		confirm,
	)

	rows := root.Keyboard(Values{})
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want only the visible control", len(rows))
	}

	// hidden nodes are still enterable children
	if childByKey(root, "delete_confirm") == nil {
		t.Error("hidden child should remain addressable")
	}
}

func TestPropertyTitleInterpolatesLiveValue(t *testing.T) {
	statistic := NewProperty("statistic", "Statistic settings", "Statistic level\nCurrent: {value}", 3).Add(
		NewButton("Off", "statistic:0"),
		NewButton("Date only", "statistic:1"),
		NewButton("Full", "statistic:2"),
	)

	if got := statistic.Title(Values{"statistic": 2}); got != "Statistic level\nCurrent: 2" {
		t.Errorf("title = %q", got)
	}

	// values are read at render time, never cached
	if got := statistic.Title(Values{"statistic": 0}); got != "Statistic level\nCurrent: 0" {
		t.Errorf("title after change = %q", got)
	}
}

func TestElementsExpandFromBoundMap(t *testing.T) {
	aliases := NewProperty("text_alias", "Alias for text", "Aliases\nClick to delete", 1).Add(
		NewButton("Add alias", "add_alias"),
		NewElements("{k} → {v}", "delete_alias:{k}"),
	)

	rows := aliases.Keyboard(Values{"text_alias": map[string]any{
		"bb": "ban",
		"aa": "mute",
	}})

	var flat []Control
	for _, row := range rows {
		flat = append(flat, row...)
	}

	expected := []Control{
		{Label: "Add alias", Payload: "add_alias"},
		{Label: "aa → mute", Payload: "delete_alias:aa"},
		{Label: "bb → ban", Payload: "delete_alias:bb"},
	}
	if !reflect.DeepEqual(flat, expected) {
		t.Errorf("controls = %+v, want %+v", flat, expected)
	}
}

func TestElementsWithoutBoundMapRenderNothing(t *testing.T) {
	aliases := NewProperty("sticker_alias", "Alias for sticker", "Aliases", 1).Add(
		NewElements("{v}", "delete_alias:{k}"),
	)

	if rows := aliases.Keyboard(Values{}); rows != nil {
		t.Errorf("rows = %+v, want none", rows)
	}
}

func TestURLButtonRendersWithoutPayload(t *testing.T) {
	root := NewMenu("root", "Root", 1).Add(
		NewURLButton("Open chat settings", "https://t.me/wardenbot?start=chatsettings_1"),
	)

	rows := root.Keyboard(Values{})
	control := rows[0][0]
	if control.URL == "" || control.Payload != "" {
		t.Errorf("control = %+v, want URL-only", control)
	}
}

func TestSubmenuRecordsParentKey(t *testing.T) {
	languages := NewSubmenu("change_lang", "Change language", "Choose language", 4)
	NewMenu("private_settings", "Personal settings", 1).Add(languages)

	if languages.ParentKey() != "private_settings" {
		t.Errorf("parent key = %q", languages.ParentKey())
	}
}
