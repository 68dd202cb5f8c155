package merger

import "github.com/MLH-Fellowship/hooknames/pkg/types"

// Merge folds resolved hook variable names from newTree back into oldTree in
// place. Node identity, ids, sub-hook counts and order, and every unrelated
// field of oldTree are preserved; only HookVariableName is written.
//
// The trees are walked at parallel positions. A position whose ids do not
// match is left untouched, and sub-hooks are only descended into when both
// sides report the same number of them.
func Merge(oldTree, newTree []*types.HookObservation) {
	n := len(oldTree)
	if len(newTree) < n {
		n = len(newTree)
	}
	for i := 0; i < n; i++ {
		oldHook, newHook := oldTree[i], newTree[i]
		if oldHook == nil || newHook == nil {
			continue
		}
		if !idsMatch(oldHook.ID, newHook.ID) {
			continue
		}
		oldHook.HookVariableName = newHook.HookVariableName
		if len(oldHook.SubHooks) == len(newHook.SubHooks) {
			Merge(oldHook.SubHooks, newHook.SubHooks)
		}
	}
}

// idsMatch treats two nil ids (custom hooks) as equal.
func idsMatch(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
