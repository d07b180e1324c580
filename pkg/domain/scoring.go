package domain

// ScoreResponses grades a set of responses against a quiz template. Every
// question contributes its weight to maxScore. A multiple-choice question
// earns its weight when the chosen index equals the authored answer; an open
// question auto-scores zero and is graded by mentor feedback outside the
// computed score. Responses referencing question indexes outside the template
// are ignored.
func ScoreResponses(quiz Quiz, responses []Response) (score, maxScore int) {
	for _, q := range quiz.Questions {
		maxScore += q.Weight
	}
	for _, r := range responses {
		if r.Question < 0 || r.Question >= len(quiz.Questions) {
			continue
		}
		q := quiz.Questions[r.Question]
		if q.Kind == QuestionMultipleChoice && r.Choice != nil && *r.Choice == q.Answer {
			score += q.Weight
		}
	}
	return score, maxScore
}
