package animal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	got, err := ParseType("Cat")
	require.NoError(t, err)
	assert.Equal(t, TypeCat, got)

	_, err = ParseType("dragon")
	assert.Error(t, err)
}

func TestParseOption(t *testing.T) {
	opt, err := ParseOption(" Size:Large ")
	require.NoError(t, err)
	assert.Equal(t, Option("size:large"), opt)
	assert.Equal(t, "size", opt.Attribute())

	for _, bad := range []string{"large", ":large", "size:", ""} {
		_, err := ParseOption(bad)
		assert.Error(t, err, bad)
	}
}

func TestNewOptionSet_SortsAndDeduplicates(t *testing.T) {
	set, err := NewOptionSet([]string{"size:small", "age:senior", "SIZE:small"})
	require.NoError(t, err)

	assert.Equal(t, []string{"age:senior", "size:small"}, set.Strings())
	assert.True(t, set.Contains("size:small"))
	assert.False(t, set.Contains("size:large"))
}

func TestNewOptionSet_Empty(t *testing.T) {
	set, err := NewOptionSet(nil)
	require.NoError(t, err)
	assert.Empty(t, set)
	assert.Equal(t, []string{}, set.Strings())
}

func TestOptionSet_Missing(t *testing.T) {
	offered, err := NewOptionSet([]string{"size:small", "size:medium", "age:adult"})
	require.NoError(t, err)
	selected, err := NewOptionSet([]string{"size:small", "age:senior"})
	require.NoError(t, err)

	assert.Equal(t, []Option{"age:senior"}, offered.Missing(selected))
	assert.Empty(t, selected.Missing(OptionSet{}))
}
