package domain

// Publication is one award-winning project record as loaded from the data
// files, before chunking.
type Publication struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Title       string   `json:"title"`
	License     string   `json:"license"`
	Awards      []string `json:"awards"`
	Description string   `json:"publication_description"`
}

// Passage is one embedded chunk of a publication. Passages are produced by
// ingestion and are read-only afterwards.
type Passage struct {
	ID        string
	ProjectID string
	Title     string
	Text      string
	Awards    []string
	Embedding []float32
}

// Query is a parsed user request: free search text plus an optional award
// label extracted from the tag marker syntax.
type Query struct {
	Raw   string
	Text  string
	Award string
}

// HasAward reports whether the query constrains results to an award.
func (q Query) HasAward() bool {
	return q.Award != ""
}

// Candidate is a passage in flight through one retrieval call.
type Candidate struct {
	Passage      Passage
	Score        float64 // similarity to the query, higher is better
	MatchedAward string  // award that satisfied the filter, empty if none requested
	Selected     bool    // set by the diversity reranker
}

// Result is one entry of the final ordered result set handed to the
// generation layer.
type Result struct {
	ProjectID string  `json:"project_id"`
	Title     string  `json:"title"`
	Award     string  `json:"award,omitempty"`
	Text      string  `json:"text"`
	Score     float64 `json:"score"`
}
