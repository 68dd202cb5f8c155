package resolver

import (
	"fmt"

	"github.com/MLH-Fellowship/hooknames/internal/detector"
	"github.com/MLH-Fellowship/hooknames/internal/parser"
)

// ResolveBindingName derives the readable variable name for a confirmed
// hook declarator. pool is the file's remaining potential declarators with
// confirmed already removed. An empty result with a nil error means the
// binding is legitimately nameless (an ambiguous custom-hook destructuring).
func ResolveBindingName(confirmed *parser.VariableDeclarator, pool []*parser.VariableDeclarator, isCustomHook bool) (string, error) {
	associated, err := associatedDeclarators(confirmed, pool)
	if err != nil {
		return "", err
	}

	switch len(associated) {
	case 1:
		member := associated[0]
		if isCustomHook && member == confirmed {
			return bindingName(confirmed, true)
		}
		return bindingName(member, false)

	case 2:
		// Two readers of the alias: pick the one binding index 0, the value
		// half of the [value, setter] pair.
		var zeroAccessors []*parser.VariableDeclarator
		for _, member := range associated {
			if accessesIndexZero(member) {
				zeroAccessors = append(zeroAccessors, member)
			}
		}
		if len(zeroAccessors) != 1 {
			return "", fmt.Errorf("expected one index-0 accessor, found %d", len(zeroAccessors))
		}
		return bindingName(zeroAccessors[0], false)

	default:
		// No reader, or too many to disambiguate: the alias itself is the
		// best name available.
		return bindingName(confirmed, isCustomHook)
	}
}

// associatedDeclarators selects the declarators carrying the readable name.
// When the confirmed declarator binds it directly, that is the whole set;
// otherwise the binding went through an aliasing variable and the set is
// every pool member reading that alias, in source order.
func associatedDeclarators(confirmed *parser.VariableDeclarator, pool []*parser.VariableDeclarator) ([]*parser.VariableDeclarator, error) {
	if detector.ContainsReadableBinding(confirmed) {
		return []*parser.VariableDeclarator{confirmed}, nil
	}

	alias, ok := confirmed.ID.(*parser.Identifier)
	if !ok {
		return nil, fmt.Errorf("unsupported declarator id %T", confirmed.ID)
	}

	var associated []*parser.VariableDeclarator
	for _, candidate := range pool {
		if readsAlias(candidate, alias.Name) {
			associated = append(associated, candidate)
		}
	}
	return associated, nil
}

// readsAlias reports whether the candidate's initializer references the
// aliasing variable: a member access on it (countState[0]) or the bare
// identifier (const [count] = countState).
func readsAlias(candidate *parser.VariableDeclarator, alias string) bool {
	switch init := candidate.Init.(type) {
	case *parser.Member:
		obj, ok := init.Object.(*parser.Identifier)
		return ok && obj.Name == alias
	case *parser.Identifier:
		return init.Name == alias
	default:
		return false
	}
}

func accessesIndexZero(d *parser.VariableDeclarator) bool {
	member, ok := d.Init.(*parser.Member)
	if !ok {
		return false
	}
	num, ok := member.Property.(*parser.NumberLit)
	return ok && num.Value == 0
}

// bindingName extracts the name a developer reads from a declarator's
// binding target. For array destructuring it is the first element; when the
// declarator belongs to a custom hook that choice is ambiguous and the
// result is empty.
func bindingName(d *parser.VariableDeclarator, isCustomHook bool) (string, error) {
	switch id := d.ID.(type) {
	case *parser.ArrayPattern:
		if isCustomHook {
			return "", nil
		}
		if len(id.Elements) == 0 {
			return "", fmt.Errorf("empty destructuring pattern")
		}
		first, ok := id.Elements[0].(*parser.Identifier)
		if !ok {
			return "", fmt.Errorf("first destructured element is not an identifier")
		}
		return first.Name, nil
	case *parser.Identifier:
		return id.Name, nil
	default:
		return "", fmt.Errorf("unsupported declarator id %T", d.ID)
	}
}
