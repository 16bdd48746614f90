package vdom

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// AttrsModule syncs element props, other than listeners and the key, to
// hosts implementing AttrOps. Values are stringified; booleans become
// presence attributes ("true" sets, "false" removes).
func AttrsModule(ops NodeOps) Module {
	host, ok := ops.(AttrOps)
	if !ok {
		return Module{Name: "attrs"}
	}
	sync := func(old, vnode *VNode) error {
		if vnode.Kind != KindElement || old.Props == nil && vnode.Props == nil {
			return nil
		}
		return diffProps(host, vnode.Elm, old.Props, vnode.Props)
	}
	return Module{Name: "attrs", Create: sync, Update: sync}
}

// diffProps applies the attribute changes from prev to next.
func diffProps(host AttrOps, elm NodeID, prev, next Props) error {
	for key, prevVal := range prev {
		if skipProp(key) {
			continue
		}
		nextVal, exists := next[key]
		switch {
		case !exists || nextVal == false || nextVal == nil:
			if err := host.RemoveAttr(elm, key); err != nil {
				return hostError("removeAttr", err)
			}
		case !propsEqual(prevVal, nextVal):
			if err := host.SetAttr(elm, key, propToString(nextVal)); err != nil {
				return hostError("setAttr", err)
			}
		}
	}
	for key, nextVal := range next {
		if skipProp(key) || nextVal == false || nextVal == nil {
			continue
		}
		if _, exists := prev[key]; !exists {
			if err := host.SetAttr(elm, key, propToString(nextVal)); err != nil {
				return hostError("setAttr", err)
			}
		}
	}
	return nil
}

func skipProp(key string) bool {
	return key == "key" || isEventHandler(key)
}

// isEventHandler returns true if the key is an event handler (starts with "on").
// Case-insensitive to catch onclick, ONCLICK, onClick, OnLoad, etc.
func isEventHandler(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

// propsEqual compares two prop values for equality.
func propsEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}

// propToString converts a prop value to its attribute text.
func propToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
