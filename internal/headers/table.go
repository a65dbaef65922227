package headers

import (
	"fmt"
	"sort"
)

// Declaration associates a save class path with a header codec variant.
type Declaration struct {
	ClassPath string
	Kind      Kind
}

// DefaultDeclarations lists every class path with a custom header.
func DefaultDeclarations() []Declaration {
	return []Declaration{
		{ClassPath: "/Game/Blueprints/Saves/Abiotic_WorldSave.Abiotic_WorldSave_C", Kind: KindAbioticWorld},
		{ClassPath: "/Game/Blueprints/Saves/Abiotic_WorldMetadataSave.Abiotic_WorldMetadataSave_C", Kind: KindAbioticWorld},
		{ClassPath: "/Game/Blueprints/Saves/Abiotic_CharacterSave.Abiotic_CharacterSave_C", Kind: KindAbioticPlayer},
	}
}

// Table maps class paths to header codec variants. It is read-only once built.
type Table struct {
	policy  Policy
	entries map[string]Kind
}

// NewTable builds a dispatch table from decls. Duplicate or empty class paths
// and unknown kinds are configuration errors.
func NewTable(policy Policy, decls ...Declaration) (*Table, error) {
	t := &Table{
		policy:  policy,
		entries: make(map[string]Kind, len(decls)),
	}

	for _, d := range decls {
		if d.ClassPath == "" {
			return nil, fmt.Errorf("header declaration for %s has an empty class path", d.Kind)
		}
		switch d.Kind {
		case KindAbioticWorld, KindAbioticPlayer:
		default:
			return nil, fmt.Errorf("class path %q declares unsupported header kind %s", d.ClassPath, d.Kind)
		}
		if existing, exists := t.entries[d.ClassPath]; exists {
			return nil, fmt.Errorf("class path %q already registered to %s", d.ClassPath, existing)
		}
		t.entries[d.ClassPath] = d.Kind
	}

	return t, nil
}

// DefaultTable builds the table from DefaultDeclarations.
func DefaultTable(policy Policy) (*Table, error) {
	return NewTable(policy, DefaultDeclarations()...)
}

// Lookup returns a fresh codec for classPath. Unregistered class paths get
// the KindNone codec.
func (t *Table) Lookup(classPath string) *Codec {
	kind, ok := t.entries[classPath]
	if !ok {
		kind = KindNone
	}
	return NewCodec(kind, t.policy)
}

// Policy returns the policy applied to every codec the table hands out.
func (t *Table) Policy() Policy {
	return t.policy
}

// Entries returns all declarations sorted by class path.
func (t *Table) Entries() []Declaration {
	result := make([]Declaration, 0, len(t.entries))
	for path, kind := range t.entries {
		result = append(result, Declaration{ClassPath: path, Kind: kind})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ClassPath < result[j].ClassPath
	})
	return result
}
