package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func player(id, choice string) Player {
	return Player{UserID: id, Name: id, Choice: choice}
}

func TestResolve_ClassicWins(t *testing.T) {
	e := NewEngine(ClassicCatalog())

	cases := []struct {
		winner, loser string
	}{
		{"rock", "scissors"},
		{"scissors", "paper"},
		{"paper", "rock"},
	}

	for _, tc := range cases {
		t.Run(tc.winner+"_vs_"+tc.loser, func(t *testing.T) {
			out, err := e.Resolve(player("alice", tc.winner), player("bob", tc.loser))
			require.NoError(t, err)
			require.NotNil(t, out.WinnerUserID)
			assert.Equal(t, "alice", *out.WinnerUserID)

			// обратный порядок дает противоположного победителя
			out, err = e.Resolve(player("alice", tc.loser), player("bob", tc.winner))
			require.NoError(t, err)
			require.NotNil(t, out.WinnerUserID)
			assert.Equal(t, "bob", *out.WinnerUserID)
		})
	}
}

func TestResolve_TieForEqualChoices(t *testing.T) {
	for _, c := range []*Catalog{ClassicCatalog(), ExtendedCatalog()} {
		e := NewEngine(c)
		for _, opt := range c.Options() {
			out, err := e.Resolve(player("alice", opt.Value), player("bob", opt.Value))
			require.NoError(t, err)
			assert.True(t, out.IsTie(), "%s/%s", c.Name(), opt.Value)
			assert.Nil(t, out.WinnerUserID)
			assert.Contains(t, out.Text, opt.Label)
		}
	}
}

func TestResolve_TextCarriesBothChoicesAndWinner(t *testing.T) {
	e := NewEngine(ClassicCatalog())

	out, err := e.Resolve(
		Player{UserID: "1", Name: "Алиса", Choice: "rock"},
		Player{UserID: "2", Name: "Боб", Choice: "scissors"},
	)
	require.NoError(t, err)

	assert.Contains(t, out.Text, "Алиса")
	assert.Contains(t, out.Text, "Боб")
	assert.Contains(t, out.Text, "Камень")
	assert.Contains(t, out.Text, "Ножницы")
	assert.Contains(t, out.Text, "разбивает")
	assert.Equal(t, "1", *out.WinnerUserID)
}

func TestResolve_NameFallsBackToUserID(t *testing.T) {
	e := NewEngine(ClassicCatalog())

	out, err := e.Resolve(
		Player{UserID: "42", Choice: "paper"},
		Player{UserID: "43", Choice: "paper"},
	)
	require.NoError(t, err)
	assert.Contains(t, out.Text, "42")
	assert.Contains(t, out.Text, "43")
}

func TestResolve_UnknownOption(t *testing.T) {
	e := NewEngine(ClassicCatalog())

	_, err := e.Resolve(player("alice", "lizard"), player("bob", "rock"))
	assert.ErrorIs(t, err, ErrUnknownOption)

	_, err = e.Resolve(player("alice", "rock"), player("bob", "spock"))
	assert.ErrorIs(t, err, ErrUnknownOption)
}

func TestResolve_ExtendedIsAntisymmetric(t *testing.T) {
	c := ExtendedCatalog()
	e := NewEngine(c)
	opts := c.Options()

	wins := make(map[string]int)
	for _, a := range opts {
		for _, b := range opts {
			if a.Value == b.Value {
				continue
			}
			ab, err := e.Resolve(player("a", a.Value), player("b", b.Value))
			require.NoError(t, err)
			ba, err := e.Resolve(player("a", b.Value), player("b", a.Value))
			require.NoError(t, err)

			require.NotNil(t, ab.WinnerUserID)
			require.NotNil(t, ba.WinnerUserID)
			assert.NotEqual(t, *ab.WinnerUserID, *ba.WinnerUserID, "%s vs %s", a.Value, b.Value)
			if *ab.WinnerUserID == "a" {
				wins[a.Value]++
			}
		}
	}

	// в турнире на семь вариантов каждый бьет ровно три других
	for _, opt := range opts {
		assert.Equal(t, 3, wins[opt.Value], opt.Value)
	}
}
