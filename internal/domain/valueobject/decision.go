package valueobject

import "fmt"

// Decision is the outcome of an underwriting run.
type Decision struct {
	value string
}

const (
	decisionApprove     = "approve"
	decisionConditional = "conditional"
	decisionDecline     = "decline"
)

var (
	DecisionApprove     = Decision{value: decisionApprove}
	DecisionConditional = Decision{value: decisionConditional}
	DecisionDecline     = Decision{value: decisionDecline}
)

var validDecisions = map[string]Decision{
	decisionApprove:     DecisionApprove,
	decisionConditional: DecisionConditional,
	decisionDecline:     DecisionDecline,
}

// NewDecision creates a Decision from a raw string.
func NewDecision(s string) (Decision, error) {
	v, ok := validDecisions[s]
	if !ok {
		return Decision{}, fmt.Errorf("invalid decision: %q", s)
	}
	return v, nil
}

func (d Decision) String() string            { return d.value }
func (d Decision) IsZero() bool              { return d.value == "" }
func (d Decision) Equal(other Decision) bool { return d.value == other.value }

// RiskRating is the categorical bucket derived from a risk score.
type RiskRating struct {
	value string
}

const (
	riskRatingLow          = "low"
	riskRatingMedium       = "medium"
	riskRatingHigh         = "high"
	riskRatingUnacceptable = "unacceptable"
)

var (
	RiskRatingLow          = RiskRating{value: riskRatingLow}
	RiskRatingMedium       = RiskRating{value: riskRatingMedium}
	RiskRatingHigh         = RiskRating{value: riskRatingHigh}
	RiskRatingUnacceptable = RiskRating{value: riskRatingUnacceptable}
)

var validRiskRatings = map[string]RiskRating{
	riskRatingLow:          RiskRatingLow,
	riskRatingMedium:       RiskRatingMedium,
	riskRatingHigh:         RiskRatingHigh,
	riskRatingUnacceptable: RiskRatingUnacceptable,
}

// NewRiskRating creates a RiskRating from a raw string.
func NewRiskRating(s string) (RiskRating, error) {
	v, ok := validRiskRatings[s]
	if !ok {
		return RiskRating{}, fmt.Errorf("invalid risk rating: %q", s)
	}
	return v, nil
}

// RiskRatingForScore buckets a score: low <= 20 < medium <= 50 < high <= 80 < unacceptable.
func RiskRatingForScore(score int) RiskRating {
	switch {
	case score <= 20:
		return RiskRatingLow
	case score <= 50:
		return RiskRatingMedium
	case score <= 80:
		return RiskRatingHigh
	default:
		return RiskRatingUnacceptable
	}
}

func (r RiskRating) String() string              { return r.value }
func (r RiskRating) IsZero() bool                { return r.value == "" }
func (r RiskRating) Equal(other RiskRating) bool { return r.value == other.value }
