package domain

// SearchMethod records which retrieval path produced a result set.
type SearchMethod string

// Search methods.
const (
	// SearchMethodVector means the vector similarity rows were returned.
	SearchMethodVector SearchMethod = "vector"

	// SearchMethodKeyword means only the keyword path ran (or nothing did,
	// for a blank query).
	SearchMethodKeyword SearchMethod = "keyword"

	// SearchMethodHybrid means a low-confidence vector result was replaced
	// by keyword fallback rows.
	SearchMethodHybrid SearchMethod = "vector+keyword"
)

// String returns the string representation.
func (m SearchMethod) String() string {
	return string(m)
}

// DonorMatch is one ranked donor in a search result.
type DonorMatch struct {
	// Donor is the matched donor projection.
	Donor DonorSummary

	// Similarity is the cosine similarity in [0,1] for vector matches,
	// nil for keyword matches.
	Similarity *float64
}

// DonorSearchResult is a ranked donor list plus diagnostics describing what
// the search actually did. The diagnostics must always reflect the path
// taken: a fallback result still reports the vector counts that triggered it.
type DonorSearchResult struct {
	// Donors is the ranked result list, capped at the search top-N.
	Donors []DonorMatch

	// Method records which retrieval path produced Donors.
	Method SearchMethod

	// VectorCount is the number of vector rows returned before the top-N cut.
	VectorCount int

	// BestSimilarity is the highest similarity among the kept vector rows,
	// nil when no vector row was seen.
	BestSimilarity *float64

	// Threshold is the similarity floor used for the vector lookup.
	Threshold float64
}
