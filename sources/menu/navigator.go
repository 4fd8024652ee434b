package menu

import (
	"errors"
	"fmt"

	"chatwarden/sources/tracing"
)

var (
	ErrBackUnderflow    = errors.New("menu navigation is already at the root")
	ErrUnknownSelection = errors.New("selection does not match a child of the current node")
)

// HistoryStore keeps the per-surface stack of entered node keys. The root is
// implicit and never stored, so an empty stack means "at the root" and the
// root can never be popped.
type HistoryStore interface {
	Get(log *tracing.Logger, surface string) ([]string, error)
	Put(log *tracing.Logger, surface string, stack []string) error
	Clear(log *tracing.Logger, surface string) error
}

// Navigator drives one static menu tree over a keyed history store. All
// mutable navigation state lives in the store; the navigator itself is safe
// to share once built.
type Navigator struct {
	root  Node
	index map[string]Node
	store HistoryStore
}

func NewNavigator(root Node, store HistoryStore) (*Navigator, error) {
	index := make(map[string]Node)
	if err := indexTree(root, index); err != nil {
		return nil, err
	}
	return &Navigator{root: root, index: index, store: store}, nil
}

// indexTree registers every enterable node by key. Buttons and Elements are
// action leaves and stay out of the index; a key collision between
// enterable nodes would make history ambiguous and is rejected.
func indexTree(node Node, index map[string]Node) error {
	switch node.(type) {
	case *Button, *Elements:
		return nil
	}

	if _, ok := index[node.Key()]; ok {
		return fmt.Errorf("menu tree has duplicate node key %q", node.Key())
	}
	index[node.Key()] = node

	for _, child := range node.Children() {
		if err := indexTree(child, index); err != nil {
			return err
		}
	}
	return nil
}

// Root returns the tree root.
func (x *Navigator) Root() Node {
	return x.root
}

// Node resolves a node key against the static index.
func (x *Navigator) Node(key string) Node {
	return x.index[key]
}

// Current returns the node the surface is presently showing. A stale stack
// entry degrades to the root rather than failing the surface.
func (x *Navigator) Current(log *tracing.Logger, surface string) (Node, error) {
	stack, err := x.store.Get(log, surface)
	if err != nil {
		return nil, err
	}
	if len(stack) == 0 {
		return x.root, nil
	}

	node, ok := x.index[stack[len(stack)-1]]
	if !ok {
		log.W("Navigation history references an unknown node, resetting", tracing.SurfaceId, surface, tracing.MenuNode, stack[len(stack)-1])
		if err := x.store.Clear(log, surface); err != nil {
			return nil, err
		}
		return x.root, nil
	}
	return node, nil
}

// Enter descends into the child of the current node identified by key and
// pushes the previous position onto the history.
func (x *Navigator) Enter(log *tracing.Logger, surface, key string) (Node, error) {
	defer tracing.ProfilePoint(log, "Menu enter completed", "menu.navigator.enter", tracing.MenuNode, key)()

	current, err := x.Current(log, surface)
	if err != nil {
		return nil, err
	}

	child := childByKey(current, key)
	if child == nil {
		return nil, ErrUnknownSelection
	}

	stack, err := x.store.Get(log, surface)
	if err != nil {
		return nil, err
	}
	stack = append(stack, key)
	if err := x.store.Put(log, surface, stack); err != nil {
		return nil, err
	}
	return child, nil
}

// Back pops the most recent position. At the root there is nothing to pop
// and the caller gets ErrBackUnderflow, reported rather than swallowed.
func (x *Navigator) Back(log *tracing.Logger, surface string) (Node, error) {
	defer tracing.ProfilePoint(log, "Menu back completed", "menu.navigator.back")()

	stack, err := x.store.Get(log, surface)
	if err != nil {
		return nil, err
	}
	if len(stack) == 0 {
		return nil, ErrBackUnderflow
	}

	stack = stack[:len(stack)-1]
	if err := x.store.Put(log, surface, stack); err != nil {
		return nil, err
	}
	if len(stack) == 0 {
		return x.root, nil
	}
	return x.index[stack[len(stack)-1]], nil
}

// Reset drops the surface history and returns the root, for fresh top-level
// renders superseding an old surface.
func (x *Navigator) Reset(log *tracing.Logger, surface string) (Node, error) {
	if err := x.store.Clear(log, surface); err != nil {
		return nil, err
	}
	return x.root, nil
}

func childByKey(node Node, key string) Node {
	for _, child := range node.Children() {
		switch child.(type) {
		case *Button, *Elements:
			continue
		}
		if child.Key() == key {
			return child
		}
	}
	return nil
}
