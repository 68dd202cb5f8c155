package detector

import (
	"regexp"
	"unicode"

	"github.com/MLH-Fellowship/hooknames/internal/parser"
)

// hookNamePattern matches useState, useCustomThing, use42 — but not user,
// used or useful.
var hookNamePattern = regexp.MustCompile(`^use[A-Z0-9].*$`)

// nonDeclarativePrimitives are hook categories whose calls are never
// assigned to a variable, so no binding name exists for them.
var nonDeclarativePrimitives = map[string]bool{
	"Effect":           true,
	"ImperativeHandle": true,
	"LayoutEffect":     true,
	"DebugValue":       true,
}

// IsHookName reports whether name follows the hook naming convention.
func IsHookName(name string) bool {
	return hookNamePattern.MatchString(name)
}

// IsHook reports whether node is a hook reference: a hook-named identifier,
// or a non-computed member access on a PascalCase namespace whose property
// is itself a hook reference (React.useState, Namespace.useCustom).
func IsHook(node parser.Node) bool {
	switch n := node.(type) {
	case *parser.Identifier:
		return IsHookName(n.Name)
	case *parser.Member:
		if n.Computed {
			return false
		}
		obj, ok := n.Object.(*parser.Identifier)
		if !ok || obj.Name == "" {
			return false
		}
		if !unicode.IsUpper(rune(obj.Name[0])) {
			return false
		}
		return IsHook(n.Property)
	default:
		return false
	}
}

// IsConfirmedHookDeclaration reports whether the declarator's initializer
// is a call to a hook.
func IsConfirmedHookDeclaration(d *parser.VariableDeclarator) bool {
	call, ok := d.Init.(*parser.Call)
	if !ok {
		return false
	}
	return IsHook(call.Callee)
}

// IsStateOrReducerHook reports whether the declarator calls useState or
// useReducer, bare or through the React namespace.
func IsStateOrReducerHook(d *parser.VariableDeclarator) bool {
	call, ok := d.Init.(*parser.Call)
	if !ok {
		return false
	}
	return isReactFunction(call.Callee, "useState") || isReactFunction(call.Callee, "useReducer")
}

// isReactFunction matches a bare identifier or the same property accessed
// on the React namespace.
func isReactFunction(callee parser.Node, name string) bool {
	switch n := callee.(type) {
	case *parser.Identifier:
		return n.Name == name
	case *parser.Member:
		if n.Computed {
			return false
		}
		obj, ok := n.Object.(*parser.Identifier)
		if !ok || obj.Name != "React" {
			return false
		}
		prop, ok := n.Property.(*parser.Identifier)
		return ok && prop.Name == name
	default:
		return false
	}
}

// ContainsReadableBinding reports whether the declarator itself carries the
// name a developer reads. Destructuring always does. A plain identifier does
// unless the call is useState/useReducer, where a bare identifier binds the
// [value, setter] pair and the readable name is established by a later
// accessor.
func ContainsReadableBinding(d *parser.VariableDeclarator) bool {
	switch d.ID.(type) {
	case *parser.ArrayPattern:
		return true
	case *parser.Identifier:
		return !IsStateOrReducerHook(d)
	default:
		return false
	}
}

// IsNonDeclarativePrimitive reports whether the hook category never binds a
// variable (Effect, ImperativeHandle, LayoutEffect, DebugValue).
func IsNonDeclarativePrimitive(name string) bool {
	return nonDeclarativePrimitives[name]
}
