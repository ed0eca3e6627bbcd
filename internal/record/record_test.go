package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EveryFieldIsPlaceholder(t *testing.T) {
	r := New()
	m := r.Map()
	require.Len(t, m, len(Header()))
	for _, name := range Header() {
		v, ok := m[name]
		assert.True(t, ok, name)
		assert.Equal(t, Placeholder, v, name)
	}
}

func TestSet_BlankKeepsPlaceholder(t *testing.T) {
	r := New()
	assert.False(t, r.Set(Summary, ""))
	assert.False(t, r.Set(Summary, " \n\t"))
	assert.Equal(t, Placeholder, r.Get(Summary))
	assert.False(t, r.Populated(Summary))

	assert.True(t, r.Set(Summary, "Builds crawlers"))
	assert.Equal(t, "Builds crawlers", r.Get(Summary))

	// a later blank read must not wipe an earlier value
	assert.False(t, r.Set(Summary, ""))
	assert.Equal(t, "Builds crawlers", r.Get(Summary))
}

func TestValues_ColumnOrder(t *testing.T) {
	r := New()
	r.Set(Name, "Ada Lovelace")
	r.Set(Location, "London")

	vals := r.Values()
	require.Len(t, vals, 15)
	assert.Equal(t, "Ada Lovelace", vals[0])
	assert.Equal(t, "London", vals[14])
	assert.Equal(t, Placeholder, vals[1])
}

func TestHeader(t *testing.T) {
	h := Header()
	assert.Equal(t, "Name", h[0])
	assert.Equal(t, "Experience/Previous Workplace", h[6])
	assert.Equal(t, "Feature Skills and Endorsement", h[8])

	// callers get a copy
	h[0] = "changed"
	assert.Equal(t, "Name", Header()[0])
}

func TestOutOfRangeField(t *testing.T) {
	r := New()
	assert.False(t, r.Set(Field(99), "x"))
	assert.Equal(t, Placeholder, r.Get(Field(-1)))
	assert.Equal(t, "Unknown", Field(99).String())
}
