package extract

type EntityType string

const (
	EntityPerson       EntityType = "person"
	EntityOrganization EntityType = "organization"
	EntityProduct      EntityType = "product"
	EntityLocation     EntityType = "location"
	EntityConcept      EntityType = "concept"
	EntityEvent        EntityType = "event"
)

type RelationType string

const (
	RelRelatedTo    RelationType = "RELATED_TO"
	RelPartOf       RelationType = "PART_OF"
	RelWorksFor     RelationType = "WORKS_FOR"
	RelLocatedIn    RelationType = "LOCATED_IN"
	RelProduces     RelationType = "PRODUCES"
	RelMentions     RelationType = "MENTIONS"
	RelDependsOn    RelationType = "DEPENDS_ON"
	RelCompetesWith RelationType = "COMPETES_WITH"
)

type ExtractedEntity struct {
	Name       string     `json:"name"`
	EntityType EntityType `json:"type"`
}

type ExtractedRelation struct {
	Source       string       `json:"source"`
	Target       string       `json:"target"`
	RelationType RelationType `json:"relation"`
}

// ExtractionResult is the parsed output of one entity-extraction LLM call
// over a single chunk.
type ExtractionResult struct {
	Entities  []ExtractedEntity   `json:"entities"`
	Relations []ExtractedRelation `json:"relations"`
}

type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
