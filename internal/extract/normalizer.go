package extract

import (
	"regexp"
	"strings"
)

var ws = regexp.MustCompile(`\s+`)

func CanonicalName(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.ReplaceAll(s, "_", " ")
	s = ws.ReplaceAllString(s, " ")
	return s
}

func NormalizeEntity(e ExtractedEntity) (ExtractedEntity, bool) {
	e.Name = CanonicalName(e.Name)
	e.EntityType = EntityType(strings.ToLower(strings.TrimSpace(string(e.EntityType))))
	if e.Name == "" {
		return ExtractedEntity{}, false
	}
	if !isEntityType(e.EntityType) {
		e.EntityType = EntityConcept
	}
	return e, true
}

func NormalizeRelation(r ExtractedRelation) (ExtractedRelation, bool) {
	r.Source = CanonicalName(r.Source)
	r.Target = CanonicalName(r.Target)
	r.RelationType = RelationType(strings.ToUpper(strings.TrimSpace(string(r.RelationType))))
	if r.Source == "" || r.Target == "" || r.Source == r.Target {
		return ExtractedRelation{}, false
	}
	if !isRelationType(r.RelationType) {
		r.RelationType = RelRelatedTo
	}
	return r, true
}

func isEntityType(x EntityType) bool {
	switch x {
	case EntityPerson, EntityOrganization, EntityProduct, EntityLocation, EntityConcept, EntityEvent:
		return true
	default:
		return false
	}
}

func isRelationType(x RelationType) bool {
	switch x {
	case RelRelatedTo, RelPartOf, RelWorksFor, RelLocatedIn, RelProduces, RelMentions, RelDependsOn, RelCompetesWith:
		return true
	default:
		return false
	}
}
