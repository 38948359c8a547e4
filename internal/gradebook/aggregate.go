package gradebook

// Aggregate computes one LearnerResult per learner in the table, in
// first-seen learner order.
//
// For every entry:
//   - un-enriched entries and entries whose points possible is zero or not a
//     number are skipped;
//   - a late submission has LatePenaltyRate * points possible deducted;
//   - only submissions made on or before the due date count toward the
//     per-assignment ratio and the running totals.
//
// The penalized score of a late submission is therefore never reported.
// Avg is total score over total points possible, as a percentage, or 0
// when nothing counted.
func Aggregate(table *LearnerTable) []LearnerResult {
	results := make([]LearnerResult, 0, table.Len())

	for _, learnerID := range table.order {
		var totalScore, totalPossible float64
		scores := map[int]float64{}

		for _, e := range table.Entries(learnerID) {
			if !e.Enriched || !e.PointsPossible.Valid() {
				continue
			}
			possible := e.PointsPossible.Float64()
			score := e.Score

			if e.Late() {
				score -= LatePenaltyRate * possible
			}
			if !e.SubmittedAt.After(e.DueAt) {
				scores[e.AssignmentID] = score / possible
				totalScore += score
				totalPossible += possible
			}
		}

		var avg float64
		if totalPossible > 0 {
			avg = totalScore / totalPossible * 100
		}
		results = append(results, LearnerResult{ID: learnerID, Avg: avg, Scores: scores})
	}
	return results
}
