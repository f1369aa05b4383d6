package workout

import (
	"math"
	"strconv"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequenceIDs() func() string {
	next := 0
	return func() string {
		next++
		return "ex-" + strconv.Itoa(next)
	}
}

func TestCatalog_Add(t *testing.T) {
	c := NewCatalog(nil, sequenceIDs())

	id, err := c.Add("  Burpees ", "🔥", 1.5)
	require.NoError(t, err)
	assert.Equal(t, "ex-1", id)

	ex, ok := c.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, Exercise{ID: "ex-1", Name: "Burpees", Icon: "🔥", Coefficient: 1.5}, ex)
	assert.Equal(t, 1, len(c.List()))
}

func TestCatalog_Add_Defaults(t *testing.T) {
	c := NewCatalog(nil, sequenceIDs())

	for i, coefficient := range []float64{0, -2, math.NaN(), math.Inf(1)} {
		id, err := c.Add("Gainage", "", coefficient)
		require.NoError(t, err, "case %d", i)

		ex, ok := c.Lookup(id)
		require.True(t, ok)
		assert.Equal(t, DefaultIcon, ex.Icon)
		assert.Equal(t, DefaultCoefficient, ex.Coefficient)
	}

	// same name is allowed several times
	assert.Equal(t, 4, len(c.List()))
}

func TestCatalog_Add_EmptyName(t *testing.T) {
	c := NewCatalog(DefaultExercises(), nil)

	id, err := c.Add("   ", "💪", 1)
	assert.ErrorIs(t, err, ErrInvalidExerciseName)
	assert.True(t, IsValidationErr(err))
	assert.Empty(t, id)
	assert.Equal(t, len(DefaultExercises()), len(c.List()))
}

func TestCatalog_TimestampIDsAreUnique(t *testing.T) {
	c := NewCatalog(nil, nil)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, err := c.Add(gofakeit.Word(), "", 1)
		require.NoError(t, err)
		require.False(t, seen[id], "duplicated id %s", id)
		seen[id] = true
	}
}

func TestCatalog_LookupUnknown(t *testing.T) {
	c := NewCatalog(DefaultExercises(), nil)

	_, ok := c.Lookup("does-not-exist")
	assert.False(t, ok)

	pompes, ok := c.Lookup("1")
	require.True(t, ok)
	assert.Equal(t, "Pompes", pompes.Name)
	assert.Equal(t, 1.2, pompes.Coefficient)
}

func TestCatalog_ListIsACopy(t *testing.T) {
	c := NewCatalog(DefaultExercises(), nil)

	list := c.List()
	list[0].Name = "changed"

	ex, _ := c.Lookup("1")
	assert.Equal(t, "Pompes", ex.Name)
}

func TestNewCatalog_FixesLoadedExercises(t *testing.T) {
	c := NewCatalog([]Exercise{
		{ID: "1", Name: "Pompes", Icon: "💪", Coefficient: 1.2},
		{ID: "2", Name: "Vélo", Icon: "", Coefficient: -0.5},
		{ID: "3", Name: "Course", Icon: "🏃", Coefficient: 0},
		{ID: "4", Name: "Squats", Icon: "🦵", Coefficient: math.Inf(1)},
	}, nil)

	pompes, _ := c.Lookup("1")
	assert.Equal(t, 1.2, pompes.Coefficient)

	velo, _ := c.Lookup("2")
	assert.Equal(t, DefaultCoefficient, velo.Coefficient)
	assert.Equal(t, DefaultIcon, velo.Icon)

	for _, id := range []string{"3", "4"} {
		ex, ok := c.Lookup(id)
		require.True(t, ok)
		assert.Equal(t, DefaultCoefficient, ex.Coefficient, id)
	}
}
