package detector

import "github.com/MLH-Fellowship/hooknames/internal/parser"

// CollectPotentialHookDeclarations returns every declarator in the file
// that could be part of a hook binding, in source order:
//
//   - a call to a hook (the hook declaration itself),
//   - a member access (const count = state[0]),
//   - a plain identifier (const [count, setCount] = state).
//
// All other initializers are discarded.
func CollectPotentialHookDeclarations(file *parser.File) []*parser.VariableDeclarator {
	var candidates []*parser.VariableDeclarator
	for _, d := range file.Declarators() {
		switch init := d.Init.(type) {
		case *parser.Call:
			if IsHook(init.Callee) {
				candidates = append(candidates, d)
			}
		case *parser.Member, *parser.Identifier:
			candidates = append(candidates, d)
		}
	}
	return candidates
}
