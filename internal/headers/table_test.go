package headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Lookup(t *testing.T) {
	table, err := DefaultTable(DefaultPolicy())
	require.NoError(t, err)

	tests := []struct {
		classPath string
		want      Kind
	}{
		{"/Game/Blueprints/Saves/Abiotic_WorldSave.Abiotic_WorldSave_C", KindAbioticWorld},
		{"/Game/Blueprints/Saves/Abiotic_WorldMetadataSave.Abiotic_WorldMetadataSave_C", KindAbioticWorld},
		{"/Game/Blueprints/Saves/Abiotic_CharacterSave.Abiotic_CharacterSave_C", KindAbioticPlayer},
		{"/Game/Blueprints/Saves/Abiotic_WorldSave", KindNone},
		{"/Script/Engine.SaveGame", KindNone},
		{"", KindNone},
	}

	for _, tt := range tests {
		t.Run(tt.classPath, func(t *testing.T) {
			c := table.Lookup(tt.classPath)
			require.NotNil(t, c)
			assert.Equal(t, tt.want, c.Kind)
			assert.Equal(t, tt.want != KindNone, c.HasCustomHeader())
		})
	}
}

func TestTable_LookupReturnsFreshCodec(t *testing.T) {
	table, err := DefaultTable(DefaultPolicy())
	require.NoError(t, err)

	path := "/Game/Blueprints/Saves/Abiotic_CharacterSave.Abiotic_CharacterSave_C"
	first := table.Lookup(path)
	first.Version = 12

	second := table.Lookup(path)
	assert.Zero(t, second.Version)
}

func TestNewTable_Errors(t *testing.T) {
	tests := []struct {
		name  string
		decls []Declaration
	}{
		{
			name: "duplicate class path",
			decls: []Declaration{
				{ClassPath: "/Game/A.A_C", Kind: KindAbioticWorld},
				{ClassPath: "/Game/A.A_C", Kind: KindAbioticPlayer},
			},
		},
		{
			name:  "empty class path",
			decls: []Declaration{{ClassPath: "", Kind: KindAbioticWorld}},
		},
		{
			name:  "none kind",
			decls: []Declaration{{ClassPath: "/Game/A.A_C", Kind: KindNone}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(DefaultPolicy(), tt.decls...)
			assert.Error(t, err)
		})
	}
}

func TestTable_Entries(t *testing.T) {
	table, err := DefaultTable(DefaultPolicy())
	require.NoError(t, err)

	entries := table.Entries()
	require.Len(t, entries, len(DefaultDeclarations()))
	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].ClassPath, entries[i].ClassPath)
	}
}
