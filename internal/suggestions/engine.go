// internal/suggestions/engine.go
// Tiered suggestion ranking. Pure functions over already-fetched data: no
// queries happen here, and candidates arrive pre-filtered for eligibility.

package suggestions

import (
	"github.com/fitlink/fitlink-backend/internal/events"
	"github.com/fitlink/fitlink-backend/internal/profiles"
)

// Reason tags one suggestion with the tier that produced it, for client display.
type Reason string

const (
	ReasonMunicipioYCategoria Reason = "municipio_y_categoria"
	ReasonMunicipio           Reason = "municipio"
	ReasonCategoria           Reason = "categoria"
	ReasonMunicipioYHabilidad Reason = "municipio_y_habilidad"
	ReasonHabilidad           Reason = "habilidad"
)

// Subject is the profile the ranking is computed for.
type Subject struct {
	ID        string
	Municipio *string
	Intereses []int64
	Nivel     *int
}

// SubjectFromProfile projects a stored profile onto the ranking inputs.
func SubjectFromProfile(p *profiles.Profile) Subject {
	return Subject{
		ID:        p.ID,
		Municipio: p.Municipio,
		Intereses: p.Intereses,
		Nivel:     p.NivelHabilidad,
	}
}

type EventSuggestion struct {
	*events.Event
	Reason Reason `json:"suggestion_reason"`
}

type UserSuggestion struct {
	*profiles.Profile
	Reason Reason `json:"suggestion_reason"`
}

// SuggestEvents buckets the candidate pool into three mutually exclusive
// tiers: municipio+categoria, municipio only, categoria only. Tiers are
// concatenated in priority order; within a tier, pool order is preserved.
// A subject with neither municipio nor intereses gets an empty result.
func SuggestEvents(subject Subject, pool []*events.Event) []EventSuggestion {
	hasMunicipio := hasValue(subject.Municipio)
	interests := toSet(subject.Intereses)

	result := []EventSuggestion{}
	if !hasMunicipio && len(interests) == 0 {
		return result
	}

	// Membership in an earlier tier excludes a candidate from every later
	// one; the placed set is the single source of truth for that.
	placed := make(map[int64]struct{})

	if hasMunicipio && len(interests) > 0 {
		for _, ev := range pool {
			if municipioMatches(subject.Municipio, ev.Municipio) && categoriaMatches(interests, ev.Categoria) {
				placed[ev.ID] = struct{}{}
				result = append(result, EventSuggestion{Event: ev, Reason: ReasonMunicipioYCategoria})
			}
		}
	}

	if hasMunicipio {
		for _, ev := range pool {
			if _, done := placed[ev.ID]; done {
				continue
			}
			if municipioMatches(subject.Municipio, ev.Municipio) {
				placed[ev.ID] = struct{}{}
				result = append(result, EventSuggestion{Event: ev, Reason: ReasonMunicipio})
			}
		}
	}

	if len(interests) > 0 {
		for _, ev := range pool {
			if _, done := placed[ev.ID]; done {
				continue
			}
			// Locality matches only surface through the first two tiers.
			if municipioMatches(subject.Municipio, ev.Municipio) {
				continue
			}
			if categoriaMatches(interests, ev.Categoria) {
				placed[ev.ID] = struct{}{}
				result = append(result, EventSuggestion{Event: ev, Reason: ReasonCategoria})
			}
		}
	}

	return result
}

// SuggestUsers buckets other users into four tiers: municipio+habilidad
// (shared interest at the same skill level), municipio+categoria (shared
// interest), municipio only, and habilidad only.
func SuggestUsers(subject Subject, pool []*profiles.Profile) []UserSuggestion {
	hasMunicipio := hasValue(subject.Municipio)
	interests := toSet(subject.Intereses)

	result := []UserSuggestion{}
	if !hasMunicipio && len(interests) == 0 {
		return result
	}

	placed := make(map[string]struct{})

	type tier struct {
		reason  Reason
		enabled bool
		match   func(p *profiles.Profile) bool
	}

	sharesInterest := func(p *profiles.Profile) bool {
		return intersects(interests, p.Intereses)
	}
	sameNivel := func(p *profiles.Profile) bool {
		return subject.Nivel != nil && p.NivelHabilidad != nil && *subject.Nivel == *p.NivelHabilidad
	}
	sameMunicipio := func(p *profiles.Profile) bool {
		return municipioMatches(subject.Municipio, p.Municipio)
	}

	tiers := []tier{
		{ReasonMunicipioYHabilidad, hasMunicipio && len(interests) > 0, func(p *profiles.Profile) bool {
			return sameMunicipio(p) && sharesInterest(p) && sameNivel(p)
		}},
		{ReasonMunicipioYCategoria, hasMunicipio && len(interests) > 0, func(p *profiles.Profile) bool {
			return sameMunicipio(p) && sharesInterest(p)
		}},
		{ReasonMunicipio, hasMunicipio, sameMunicipio},
		{ReasonHabilidad, len(interests) > 0, func(p *profiles.Profile) bool {
			return sharesInterest(p) && sameNivel(p)
		}},
	}

	for _, t := range tiers {
		if !t.enabled {
			continue
		}
		for _, p := range pool {
			if p.ID == subject.ID {
				continue
			}
			if _, done := placed[p.ID]; done {
				continue
			}
			if t.match(p) {
				placed[p.ID] = struct{}{}
				result = append(result, UserSuggestion{Profile: p, Reason: t.reason})
			}
		}
	}

	return result
}

// Matching helpers. An unset municipio never matches another unset one.

func hasValue(s *string) bool {
	return s != nil && *s != ""
}

func municipioMatches(subject, candidate *string) bool {
	return hasValue(subject) && hasValue(candidate) && *subject == *candidate
}

func categoriaMatches(interests map[int64]struct{}, categoria *int64) bool {
	if categoria == nil {
		return false
	}
	_, ok := interests[*categoria]
	return ok
}

func toSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func intersects(set map[int64]struct{}, ids []int64) bool {
	for _, id := range ids {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
