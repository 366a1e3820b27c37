package component

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentID indexes the world's component stores. Zero is unregistered.
type ComponentID uint32

// ComponentKind is the typed key for one component type.
type ComponentKind[T any] struct {
	id ComponentID
}

// Kind is satisfied by every ComponentKind and lets untyped queries mix
// component types.
type Kind interface {
	ID() ComponentID
	Name() string
}

func (k ComponentKind[T]) ID() ComponentID { return k.id }

func (k ComponentKind[T]) Valid() bool { return k.id != 0 }

// Name is the Go type name the kind was registered for.
func (k ComponentKind[T]) Name() string {
	registry.RLock()
	defer registry.RUnlock()
	if int(k.id) >= len(registry.names) {
		return "unregistered"
	}
	return registry.names[k.id]
}

var registry = struct {
	sync.RWMutex
	names []string
}{names: []string{"unregistered"}}

// NewComponentKind registers a new component type. Each call yields a
// distinct kind, even for the same T.
func NewComponentKind[T any]() ComponentKind[T] {
	var zero T
	registry.Lock()
	defer registry.Unlock()
	registry.names = append(registry.names, fmt.Sprintf("%T", zero))
	return ComponentKind[T]{id: ComponentID(len(registry.names) - 1)}
}

// ComponentHandle is the package-level value each component file exports.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T]()}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}
