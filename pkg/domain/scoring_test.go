package domain

import "testing"

func intPtr(v int) *int { return &v }

func sampleQuiz() Quiz {
	return Quiz{
		ID:    "quiz-test",
		Title: "Sample",
		Questions: []Question{
			{Prompt: "a", Kind: QuestionMultipleChoice, Options: []string{"x", "y"}, Answer: 1, Weight: 2},
			{Prompt: "b", Kind: QuestionMultipleChoice, Options: []string{"x", "y", "z"}, Answer: 0, Weight: 3},
			{Prompt: "c", Kind: QuestionOpen, Weight: 5},
		},
	}
}

func TestScoreResponsesAllCorrect(t *testing.T) {
	score, maxScore := ScoreResponses(sampleQuiz(), []Response{
		{Question: 0, Choice: intPtr(1)},
		{Question: 1, Choice: intPtr(0)},
		{Question: 2, Text: "free form"},
	})
	if maxScore != 10 {
		t.Fatalf("maxScore = %d, want 10", maxScore)
	}
	// Open questions never contribute to the computed score.
	if score != 5 {
		t.Fatalf("score = %d, want 5", score)
	}
}

func TestScoreResponsesWrongChoice(t *testing.T) {
	score, maxScore := ScoreResponses(sampleQuiz(), []Response{
		{Question: 0, Choice: intPtr(0)},
		{Question: 1, Choice: intPtr(0)},
	})
	if score != 3 || maxScore != 10 {
		t.Fatalf("got score=%d maxScore=%d, want 3/10", score, maxScore)
	}
}

func TestScoreResponsesNoResponses(t *testing.T) {
	score, maxScore := ScoreResponses(sampleQuiz(), nil)
	if score != 0 || maxScore != 10 {
		t.Fatalf("got score=%d maxScore=%d, want 0/10", score, maxScore)
	}
}

func TestScoreResponsesOutOfRangeIgnored(t *testing.T) {
	score, maxScore := ScoreResponses(sampleQuiz(), []Response{
		{Question: -1, Choice: intPtr(0)},
		{Question: 99, Choice: intPtr(0)},
		{Question: 1, Choice: intPtr(0)},
	})
	if score != 3 || maxScore != 10 {
		t.Fatalf("got score=%d maxScore=%d, want 3/10", score, maxScore)
	}
}

func TestScoreResponsesNilChoice(t *testing.T) {
	score, _ := ScoreResponses(sampleQuiz(), []Response{{Question: 0}})
	if score != 0 {
		t.Fatalf("score = %d, want 0 for a response without a choice", score)
	}
}
