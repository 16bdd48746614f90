package component

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/tether/pkg/vdom"
)

// Hook identifies a lifecycle stage.
type Hook uint8

const (
	BeforeMount Hook = iota
	Mounted
	BeforeUpdate
	Updated
	Activated
	Deactivated
	BeforeDestroy
	Destroyed
)

// String returns the hook's name as used in error reports.
func (h Hook) String() string {
	switch h {
	case BeforeMount:
		return "beforeMount"
	case Mounted:
		return "mounted"
	case BeforeUpdate:
		return "beforeUpdate"
	case Updated:
		return "updated"
	case Activated:
		return "activated"
	case Deactivated:
		return "deactivated"
	case BeforeDestroy:
		return "beforeDestroy"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Definition describes a component. Definitions are immutable once used
// and may be shared between apps.
type Definition struct {
	// Name is used in traces and as the placeholder tag.
	Name string

	// Props lists the keys the component accepts from its parent. Other
	// keys passed by the parent are ignored.
	Props []string

	// Data returns the initial local state.
	Data func() map[string]any

	// Setup runs once after props and state exist and before the first
	// render. Register hooks and create watchers here.
	Setup func(c *Instance)

	// Render produces the component's tree. A nil result renders an empty
	// comment.
	Render func(c *Instance) *vdom.VNode
}

var (
	definitionTags sync.Map
	nextDefinition atomic.Uint64
)

// tag returns a placeholder tag unique to d, so that two definitions
// sharing a name are never patched into each other.
func (d *Definition) tag() string {
	if t, ok := definitionTags.Load(d); ok {
		return t.(string)
	}
	t, _ := definitionTags.LoadOrStore(d, fmt.Sprintf("component-%d-%s", nextDefinition.Add(1), d.Name))
	return t.(string)
}

// NodeOption configures a placeholder created by Instance.Child.
type NodeOption func(*vdom.VNode)

// WithKey sets the placeholder's reconciliation key.
func WithKey(key any) NodeOption {
	return func(v *vdom.VNode) { v.Key = fmt.Sprintf("%v", key) }
}

// WithListener binds a handler for events the child raises with Emit.
func WithListener(event string, fn vdom.Listener) NodeOption {
	return func(v *vdom.VNode) {
		if v.Props == nil {
			v.Props = make(vdom.Props)
		}
		v.Props["on"+event] = fn
	}
}
