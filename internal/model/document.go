package model

// NoPIIFound is the summary reported for a document without findings
const NoPIIFound = "No PII found"

// EntityMatch is a single span reported by the analyzer or a pattern recognizer
type EntityMatch struct {
	EntityType string  `json:"entity_type"`
	Text       string  `json:"text"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Score      float64 `json:"score"` // 0..1
	Recognizer string  `json:"recognizer,omitempty"`
}

// Valid reports whether the span invariants hold
func (m EntityMatch) Valid() bool {
	return m.Start >= 0 && m.Start < m.End && m.Score >= 0 && m.Score <= 1
}

// Tier is a sensitivity tier for an entity type
type Tier string

const (
	TierConfidential Tier = "Confidential"
	TierPrivate      Tier = "Private"
	TierRestricted   Tier = "Restricted"
	TierOther        Tier = "Other" // Not in any static tier set
)

// Verdict is the document-level label handed to the stamping step
type Verdict string

const (
	VerdictConfidential Verdict = "Confidential"
	VerdictPrivate      Verdict = "Private"
	VerdictRestricted   Verdict = "Restricted"
	VerdictPublic       Verdict = "Public"
)

// EntityBucket is one entity type's findings within a tier
type EntityBucket struct {
	EntityType string   `json:"entity_type"`
	Count      int      `json:"count"`
	Values     []string `json:"values"`
}

// Categories groups entity buckets by tier
type Categories struct {
	Confidential []EntityBucket `json:"Confidential"`
	Private      []EntityBucket `json:"Private"`
	Restricted   []EntityBucket `json:"Restricted"`
	Other        []EntityBucket `json:"Other"`
}

// NewCategories returns categories with non-nil, empty buckets
func NewCategories() Categories {
	return Categories{
		Confidential: []EntityBucket{},
		Private:      []EntityBucket{},
		Restricted:   []EntityBucket{},
		Other:        []EntityBucket{},
	}
}

// CategorizedDocument is the per-document result of the regex detection path
type CategorizedDocument struct {
	FileName   string       `json:"file_name"`
	HasPII     string       `json:"has_pii"` // "yes" or "no"
	Summary    string       `json:"summary"`
	Findings   *FindingsMap `json:"findings"`
	Categories Categories   `json:"categories"`
	Verdict    Verdict      `json:"verdict"`
}

// LLM categorization keys
const (
	CategoryConfidential = "CONFIDENTIAL"
	CategoryPrivate      = "PRIVATE"
	CategoryRestricted   = "RESTRICTED"
)

// LLMCategorization is the LLM path's own three-way split
type LLMCategorization struct {
	Confidential *FindingsMap `json:"CONFIDENTIAL"`
	Private      *FindingsMap `json:"PRIVATE"`
	Restricted   *FindingsMap `json:"RESTRICTED"`
}

// NewLLMCategorization returns the all-empty categorization
func NewLLMCategorization() *LLMCategorization {
	return &LLMCategorization{
		Confidential: NewFindingsMap(),
		Private:      NewFindingsMap(),
		Restricted:   NewFindingsMap(),
	}
}

// Bucket returns the findings map for a category key, or nil if unknown
func (c *LLMCategorization) Bucket(category string) *FindingsMap {
	switch category {
	case CategoryConfidential:
		return c.Confidential
	case CategoryPrivate:
		return c.Private
	case CategoryRestricted:
		return c.Restricted
	}
	return nil
}

// IsEmpty reports whether no category holds any finding
func (c *LLMCategorization) IsEmpty() bool {
	return c.Confidential.IsEmpty() && c.Private.IsEmpty() && c.Restricted.IsEmpty()
}

// Flatten merges all three categories into one findings map
func (c *LLMCategorization) Flatten() *FindingsMap {
	out := NewFindingsMap()
	out.Merge(c.Confidential)
	out.Merge(c.Private)
	out.Merge(c.Restricted)
	return out
}

// Document is a unit of extracted text handed to the pipeline
type Document struct {
	FileName string `json:"file_name"`
	Text     string `json:"text"`
}
