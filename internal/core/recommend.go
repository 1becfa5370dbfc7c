package core

// RecommendationStatus classifies the spending tip for a user.
type RecommendationStatus string

const (
	StatusReduceSpending RecommendationStatus = "reduce_spending"
	StatusUnderControl   RecommendationStatus = "under_control"
	StatusNoData         RecommendationStatus = "no_data"
)

// Recommendation is the rule-based spending tip shown on the dashboard.
type Recommendation struct {
	Status  RecommendationStatus `json:"status"`
	Message string               `json:"message"`
}

// Recommend evaluates the spending rule against the most recent history
// entry for a user. A nil entry means the user has no uploads yet. The rule
// is a fixed decision table: debits above half the closing balance trigger
// the budgeting tip.
func Recommend(latest *HistoryEntry) Recommendation {
	if latest == nil {
		return Recommendation{
			Status:  StatusNoData,
			Message: "No transaction data available for recommendations.",
		}
	}
	if latest.TotalDebit > latest.TotalBalance*0.5 {
		return Recommendation{
			Status:  StatusReduceSpending,
			Message: "You are spending more than half of your balance. Consider budgeting your expenses.",
		}
	}
	return Recommendation{
		Status:  StatusUnderControl,
		Message: "Your spending is under control! Keep up the good work.",
	}
}
