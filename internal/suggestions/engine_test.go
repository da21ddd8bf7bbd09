package suggestions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitlink/fitlink-backend/internal/events"
	"github.com/fitlink/fitlink-backend/internal/profiles"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func i64Ptr(n int64) *int64   { return &n }

func makeEvent(id int64, municipio string, categoria int64) *events.Event {
	ev := &events.Event{ID: id, Estado: events.EstadoActivo}
	if municipio != "" {
		ev.Municipio = strPtr(municipio)
	}
	if categoria != 0 {
		ev.Categoria = i64Ptr(categoria)
	}
	return ev
}

func makeProfile(id, municipio string, intereses []int64, nivel int) *profiles.Profile {
	p := &profiles.Profile{ID: id, Intereses: intereses}
	if municipio != "" {
		p.Municipio = strPtr(municipio)
	}
	if nivel != 0 {
		p.NivelHabilidad = intPtr(nivel)
	}
	return p
}

func TestSuggestEventsTiersAndReasons(t *testing.T) {
	subject := Subject{ID: "u-1", Municipio: strPtr("Chacao"), Intereses: []int64{5}}
	pool := []*events.Event{
		makeEvent(1, "Chacao", 5),  // locality + interest
		makeEvent(2, "Chacao", 9),  // locality only
		makeEvent(3, "Baruta", 5),  // interest only
		makeEvent(4, "Baruta", 9),  // neither
		makeEvent(5, "Chacao", 5),  // locality + interest again
	}

	got := SuggestEvents(subject, pool)

	require.Len(t, got, 4)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, ReasonMunicipioYCategoria, got[0].Reason)
	assert.Equal(t, int64(5), got[1].ID)
	assert.Equal(t, ReasonMunicipioYCategoria, got[1].Reason)
	assert.Equal(t, int64(2), got[2].ID)
	assert.Equal(t, ReasonMunicipio, got[2].Reason)
	assert.Equal(t, int64(3), got[3].ID)
	assert.Equal(t, ReasonCategoria, got[3].Reason)
}

func TestSuggestEventsTiersAreMutuallyExclusive(t *testing.T) {
	subject := Subject{ID: "u-1", Municipio: strPtr("Chacao"), Intereses: []int64{5, 9}}
	pool := []*events.Event{
		makeEvent(1, "Chacao", 5),
		makeEvent(2, "Chacao", 9),
		makeEvent(3, "Baruta", 5),
	}

	got := SuggestEvents(subject, pool)

	seen := make(map[int64]int)
	for _, s := range got {
		seen[s.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "event %d appeared %d times", id, n)
	}
}

func TestSuggestEventsEmptyCriteria(t *testing.T) {
	pool := []*events.Event{makeEvent(1, "Chacao", 5)}

	got := SuggestEvents(Subject{ID: "u-1"}, pool)

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSuggestEventsMunicipioOnlySubject(t *testing.T) {
	subject := Subject{ID: "u-1", Municipio: strPtr("Chacao")}
	pool := []*events.Event{
		makeEvent(1, "Chacao", 5),
		makeEvent(2, "Baruta", 5),
	}

	got := SuggestEvents(subject, pool)

	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, ReasonMunicipio, got[0].Reason)
}

func TestSuggestEventsUnsetMunicipioNeverMatches(t *testing.T) {
	subject := Subject{ID: "u-1", Intereses: []int64{5}}
	pool := []*events.Event{
		makeEvent(1, "", 5), // no municipio on either side
		makeEvent(2, "", 9),
	}

	got := SuggestEvents(subject, pool)

	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, ReasonCategoria, got[0].Reason)
}

func TestSuggestEventsCategoriaTierExcludesLocalityMatches(t *testing.T) {
	// An event in the subject's municipio that missed tier 1 (wrong
	// category) and was placed by tier 2 must not reappear; an unplaced
	// locality match must not leak into the categoria tier either.
	subject := Subject{Municipio: strPtr("Chacao"), Intereses: []int64{5}}
	pool := []*events.Event{
		makeEvent(1, "Chacao", 9),
	}

	got := SuggestEvents(subject, pool)

	require.Len(t, got, 1)
	assert.Equal(t, ReasonMunicipio, got[0].Reason)
}

func TestSuggestEventsPreservesPoolOrderWithinTier(t *testing.T) {
	subject := Subject{Municipio: strPtr("Chacao"), Intereses: []int64{5}}
	pool := []*events.Event{
		makeEvent(3, "Chacao", 5),
		makeEvent(1, "Chacao", 5),
		makeEvent(2, "Chacao", 5),
	}

	got := SuggestEvents(subject, pool)

	require.Len(t, got, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{got[0].ID, got[1].ID, got[2].ID})
}

func TestSuggestUsersFourTiers(t *testing.T) {
	subject := Subject{ID: "me", Municipio: strPtr("Chacao"), Intereses: []int64{5}, Nivel: intPtr(2)}
	pool := []*profiles.Profile{
		makeProfile("a", "Chacao", []int64{5}, 2), // municipio + interest + same level
		makeProfile("b", "Chacao", []int64{5}, 3), // municipio + interest, different level
		makeProfile("c", "Chacao", []int64{9}, 2), // municipio only
		makeProfile("d", "Baruta", []int64{5}, 2), // interest + level only
		makeProfile("e", "Baruta", []int64{9}, 1), // nothing shared
	}

	got := SuggestUsers(subject, pool)

	require.Len(t, got, 4)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, ReasonMunicipioYHabilidad, got[0].Reason)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, ReasonMunicipioYCategoria, got[1].Reason)
	assert.Equal(t, "c", got[2].ID)
	assert.Equal(t, ReasonMunicipio, got[2].Reason)
	assert.Equal(t, "d", got[3].ID)
	assert.Equal(t, ReasonHabilidad, got[3].Reason)
}

func TestSuggestUsersSkipsSubject(t *testing.T) {
	subject := Subject{ID: "me", Municipio: strPtr("Chacao"), Intereses: []int64{5}, Nivel: intPtr(2)}
	pool := []*profiles.Profile{
		makeProfile("me", "Chacao", []int64{5}, 2),
		makeProfile("a", "Chacao", []int64{5}, 2),
	}

	got := SuggestUsers(subject, pool)

	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestSuggestUsersHabilidadNeedsBothLevels(t *testing.T) {
	// Skill tier requires an exact level match with both sides set.
	subject := Subject{ID: "me", Intereses: []int64{5}, Nivel: nil}
	pool := []*profiles.Profile{
		makeProfile("a", "", []int64{5}, 2),
	}

	got := SuggestUsers(subject, pool)

	assert.Empty(t, got)
}

func TestSuggestUsersEmptyCriteria(t *testing.T) {
	got := SuggestUsers(Subject{ID: "me"}, []*profiles.Profile{
		makeProfile("a", "Chacao", []int64{5}, 2),
	})

	require.NotNil(t, got)
	assert.Empty(t, got)
}
