package game

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values(opts []Option) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Value)
	}
	return out
}

func TestShuffledOptions_IsPermutation(t *testing.T) {
	c := ExtendedCatalog()
	canonical := values(c.Options())

	for i := 0; i < 20; i++ {
		got := values(c.ShuffledOptions())
		assert.ElementsMatch(t, canonical, got)
	}

	// каталог не должен меняться после перемешиваний
	assert.Equal(t, canonical, values(c.Options()))
}

func TestShuffledOptions_ReturnsFreshSlice(t *testing.T) {
	c := ClassicCatalog()

	a := c.ShuffledOptions()
	a[0].Value = "mutated"

	assert.True(t, c.Has("rock"))
	assert.NotContains(t, values(c.Options()), "mutated")
}

func TestShuffledOptions_ChangesOrderEventually(t *testing.T) {
	c := ExtendedCatalog()
	canonical := values(c.Options())

	// вероятность 50 одинаковых перестановок из 5040 пренебрежимо мала
	for i := 0; i < 50; i++ {
		if !assert.ObjectsAreEqual(canonical, values(c.ShuffledOptions())) {
			return
		}
	}
	t.Fatal("shuffle never changed the order")
}

func TestNewCatalog_Validation(t *testing.T) {
	opts := []Option{{Value: "a"}, {Value: "b"}, {Value: "c"}}

	tests := []struct {
		name    string
		options []Option
		beats   Beats
	}{
		{"empty", nil, Beats{}},
		{"empty value", []Option{{Value: ""}}, Beats{}},
		{"duplicate", []Option{{Value: "a"}, {Value: "a"}}, Beats{}},
		{"missing pair", opts, Beats{"a": {"b": "x"}, "b": {"c": "x"}}},
		{"both win", opts, Beats{"a": {"b": "x", "c": "x"}, "b": {"a": "x", "c": "x"}}},
		{"self", opts, Beats{"a": {"a": "x", "b": "x"}, "b": {"c": "x"}, "c": {"a": "x"}}},
		{"unknown winner", opts, Beats{"z": {"a": "x"}}},
		{"unknown loser", opts, Beats{"a": {"z": "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog("test", tt.options, tt.beats)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestNewCatalog_ValidTournament(t *testing.T) {
	// пятиэлементное кольцо: каждый бьет два следующих
	vals := []string{"a", "b", "c", "d", "e"}
	var opts []Option
	beats := Beats{}
	for i, v := range vals {
		opts = append(opts, Option{Value: v})
		beats[v] = map[string]string{
			vals[(i+1)%5]: "бьет",
			vals[(i+2)%5]: "бьет",
		}
	}

	c, err := NewCatalog("ring5", opts, beats)
	require.NoError(t, err)
	assert.Equal(t, vals, values(c.Options()))
}

func TestNewCatalog_CopiesInput(t *testing.T) {
	opts := []Option{{Value: "rock"}, {Value: "paper"}}
	beats := Beats{"paper": {"rock": "накрывает"}}

	c, err := NewCatalog("test", opts, beats)
	require.NoError(t, err)

	opts[0].Value = "changed"
	beats["rock"] = map[string]string{"paper": "x"}

	assert.True(t, c.Has("rock"))
	_, ok := c.beat("rock", "paper")
	assert.False(t, ok)
}

func TestCatalogByName(t *testing.T) {
	c, err := CatalogByName("")
	require.NoError(t, err)
	assert.Equal(t, CatalogClassic, c.Name())

	c, err = CatalogByName(CatalogExtended)
	require.NoError(t, err)
	got := values(c.Options())
	sort.Strings(got)
	assert.Equal(t, []string{"computer", "cowboy", "paper", "rock", "scissors", "virus", "wumpus"}, got)

	_, err = CatalogByName("lizard-spock")
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}
