package model

// Confidence is the qualitative coverage label of a score
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// BreakdownScale describes the range of the per-section scores
const BreakdownScale = "0 to 1 (higher is better)"

// ScoreResult is the final privacy evaluation of a record
type ScoreResult struct {
	Score       float64     `json:"privacy_score_1_to_10"`
	Confidence  Confidence  `json:"confidence"`
	Breakdown   Breakdown   `json:"breakdown"`
	Explanation Explanation `json:"explanation"`
}

// Breakdown holds the clamped section scores rounded to two decimals
type Breakdown struct {
	Scale        string  `json:"scale"`
	InRoom       float64 `json:"privacy_in_room"`
	BetweenRooms float64 `json:"privacy_between_rooms"`
	BetweenUnits float64 `json:"privacy_between_units"`
}

// Explanation lists the strengths and concerns in the order rules fired
type Explanation struct {
	Strengths []string `json:"strengths"`
	Concerns  []string `json:"concerns"`
}
