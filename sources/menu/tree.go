package menu

import (
	"fmt"
	"sort"
	"strings"
)

// Values carries the owner's live settings at render time. Nothing in the
// tree caches them: labels always reflect the latest persisted state.
type Values map[string]any

// Control is one rendered inline control of a surface keyboard.
type Control struct {
	Label   string
	Payload string
	URL     string
}

// Node is the closed set of menu variants. The unexported method keeps the
// set closed so navigation can switch over it exhaustively.
type Node interface {
	Key() string
	Label(values Values) string
	Title(values Values) string
	Keyboard(values Values) [][]Control
	Children() []Node
	Undoable() bool
	Hidden() bool

	variant()
}

// Button is a leaf control carrying an opaque action payload or a URL.
type Button struct {
	label   string
	payload string
	url     string
}

func NewButton(label, payload string) *Button {
	return &Button{label: label, payload: payload}
}

func NewURLButton(label, url string) *Button {
	return &Button{label: label, url: url}
}

func (x *Button) Key() string                   { return x.payload }
func (x *Button) Label(values Values) string    { return x.label }
func (x *Button) Title(values Values) string    { return x.label }
func (x *Button) Keyboard(values Values) [][]Control { return nil }
func (x *Button) Children() []Node              { return nil }
func (x *Button) Undoable() bool                { return false }
func (x *Button) Hidden() bool                  { return false }
func (x *Button) variant()                      {}

// Menu is a plain list of selectable children.
type Menu struct {
	key      string
	title    string
	rowWidth int
	undo     bool
	hide     bool
	children []Node
}

func NewMenu(key, title string, rowWidth int) *Menu {
	return &Menu{key: key, title: title, rowWidth: rowWidth}
}

func (x *Menu) WithUndo() *Menu {
	x.undo = true
	return x
}

func (x *Menu) WithHide() *Menu {
	x.hide = true
	return x
}

func (x *Menu) Add(children ...Node) *Menu {
	for _, child := range children {
		if submenu, ok := child.(*Submenu); ok {
			submenu.parentKey = x.key
		}
		x.children = append(x.children, child)
	}
	return x
}

func (x *Menu) Key() string                { return x.key }
func (x *Menu) Label(values Values) string { return x.title }
func (x *Menu) Title(values Values) string { return x.title }
func (x *Menu) Children() []Node           { return x.children }
func (x *Menu) Undoable() bool             { return x.undo }
func (x *Menu) Hidden() bool               { return x.hide }
func (x *Menu) variant()                   {}

func (x *Menu) Keyboard(values Values) [][]Control {
	return wrap(childControls(x.children, values, ""), x.rowWidth)
}

// Submenu is a menu that also appears as a labelled button inside its
// parent. The parent key is recorded when the submenu is attached, for
// breadcrumb reconstruction.
type Submenu struct {
	key       string
	label     string
	title     string
	rowWidth  int
	undo      bool
	parentKey string
	children  []Node
}

func NewSubmenu(key, label, title string, rowWidth int) *Submenu {
	return &Submenu{key: key, label: label, title: title, rowWidth: rowWidth}
}

func (x *Submenu) WithUndo() *Submenu {
	x.undo = true
	return x
}

func (x *Submenu) Add(children ...Node) *Submenu {
	for _, child := range children {
		if submenu, ok := child.(*Submenu); ok {
			submenu.parentKey = x.key
		}
		x.children = append(x.children, child)
	}
	return x
}

func (x *Submenu) Key() string                { return x.key }
func (x *Submenu) Label(values Values) string { return x.label }
func (x *Submenu) Title(values Values) string { return x.title }
func (x *Submenu) Children() []Node           { return x.children }
func (x *Submenu) Undoable() bool             { return x.undo }
func (x *Submenu) Hidden() bool               { return false }
func (x *Submenu) ParentKey() string          { return x.parentKey }
func (x *Submenu) variant()                   {}

func (x *Submenu) Keyboard(values Values) [][]Control {
	return wrap(childControls(x.children, values, ""), x.rowWidth)
}

// Property is a node bound to one key of the settings mapping. Its title is
// a template interpolated with the live value; its children are value-choice
// controls whose payloads encode key:value, plus optionally dynamic
// Elements expanded from the bound map.
type Property struct {
	key      string
	title    string
	label    string
	rowWidth int
	undo     bool
	children []Node
}

func NewProperty(key, label, title string, rowWidth int) *Property {
	return &Property{key: key, label: label, title: title, rowWidth: rowWidth}
}

func (x *Property) WithUndo() *Property {
	x.undo = true
	return x
}

func (x *Property) Add(children ...Node) *Property {
	x.children = append(x.children, children...)
	return x
}

func (x *Property) Key() string                { return x.key }
func (x *Property) Label(values Values) string { return x.label }
func (x *Property) Undoable() bool             { return x.undo }
func (x *Property) Hidden() bool               { return false }
func (x *Property) variant()                   {}

func (x *Property) Title(values Values) string {
	return strings.ReplaceAll(x.title, "{value}", fmt.Sprint(values[x.key]))
}

// Children returns the statically addressable children; Elements are
// excluded because their controls only exist relative to live values.
func (x *Property) Children() []Node {
	var static []Node
	for _, child := range x.children {
		if _, ok := child.(*Elements); ok {
			continue
		}
		static = append(static, child)
	}
	return static
}

func (x *Property) Keyboard(values Values) [][]Control {
	return wrap(childControls(x.children, values, x.key), x.rowWidth)
}

// Elements generates one control per entry of the bound map value, with
// {k} and {v} interpolated into label and payload templates.
type Elements struct {
	labelTpl   string
	payloadTpl string
}

func NewElements(labelTpl, payloadTpl string) *Elements {
	return &Elements{labelTpl: labelTpl, payloadTpl: payloadTpl}
}

func (x *Elements) Key() string                   { return "" }
func (x *Elements) Label(values Values) string    { return "" }
func (x *Elements) Title(values Values) string    { return "" }
func (x *Elements) Keyboard(values Values) [][]Control { return nil }
func (x *Elements) Children() []Node              { return nil }
func (x *Elements) Undoable() bool                { return false }
func (x *Elements) Hidden() bool                  { return false }
func (x *Elements) variant()                      {}

func (x *Elements) expand(values Values, boundKey string) []Control {
	mapping, ok := values[boundKey].(map[string]any)
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	controls := make([]Control, 0, len(keys))
	for _, k := range keys {
		v := fmt.Sprint(mapping[k])
		controls = append(controls, Control{
			Label:   interpolate(x.labelTpl, k, v),
			Payload: interpolate(x.payloadTpl, k, v),
		})
	}
	return controls
}

func interpolate(tpl, k, v string) string {
	return strings.ReplaceAll(strings.ReplaceAll(tpl, "{k}", k), "{v}", v)
}

func childControls(children []Node, values Values, boundKey string) []Control {
	var controls []Control
	for _, child := range children {
		if child.Hidden() {
			continue
		}
		if elements, ok := child.(*Elements); ok {
			controls = append(controls, elements.expand(values, boundKey)...)
			continue
		}
		control := Control{Label: child.Label(values), Payload: child.Key()}
		if button, ok := child.(*Button); ok && button.url != "" {
			control.Payload = ""
			control.URL = button.url
		}
		controls = append(controls, control)
	}
	return controls
}

func wrap(controls []Control, rowWidth int) [][]Control {
	if rowWidth < 1 {
		rowWidth = 1
	}
	var rows [][]Control
	for i := 0; i < len(controls); i += rowWidth {
		end := i + rowWidth
		if end > len(controls) {
			end = len(controls)
		}
		rows = append(rows, controls[i:end])
	}
	return rows
}
