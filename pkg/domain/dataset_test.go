package domain

import (
	"testing"
	"time"
)

func testDataset() Dataset {
	slug := "ana-souza"
	choice := 1
	submitted := time.Date(2025, time.February, 1, 12, 0, 0, 0, time.UTC)
	return Dataset{
		Users: []User{
			{Slug: "ana-souza", Name: "Ana Souza", Email: "ana.souza@example.com", Role: RoleIntern},
			{Slug: "mentor", Name: "Mentor", Email: "mentor@example.com", Role: RoleMentor},
		},
		QuizLibrary: []Quiz{{
			ID: "q1",
			Questions: []Question{
				{Prompt: "p", Kind: QuestionMultipleChoice, Options: []string{"a", "b"}, Answer: 0, Weight: 1},
			},
		}},
		QuizAssignments: []QuizAssignment{{
			Base:        Base{ID: "a1"},
			QuizID:      "q1",
			Slug:        "ana-souza",
			Status:      AssignmentSubmitted,
			Responses:   []Response{{Question: 0, Choice: &choice}},
			SubmittedAt: &submitted,
		}},
		ForumTopics: []ForumTopic{{
			Base:    Base{ID: "t1"},
			Slug:    "ana-souza",
			Title:   "topic",
			Replies: []ForumReply{{ID: "r1", Slug: "mentor", Body: "reply"}},
		}},
		Session: &slug,
	}
}

func TestCloneDoesNotAliasSlices(t *testing.T) {
	orig := testDataset()
	cp := orig.Clone()

	cp.Users[0].Name = "changed"
	cp.QuizLibrary[0].Questions[0].Options[0] = "changed"
	cp.QuizAssignments[0].Responses[0].Text = "changed"
	*cp.QuizAssignments[0].Responses[0].Choice = 9
	cp.ForumTopics[0].Replies[0].Body = "changed"
	*cp.Session = "someone-else"

	if orig.Users[0].Name != "Ana Souza" {
		t.Fatalf("user mutated through clone: %q", orig.Users[0].Name)
	}
	if orig.QuizLibrary[0].Questions[0].Options[0] != "a" {
		t.Fatalf("quiz option mutated through clone")
	}
	if got := *orig.QuizAssignments[0].Responses[0].Choice; got != 1 {
		t.Fatalf("response choice mutated through clone: %d", got)
	}
	if orig.ForumTopics[0].Replies[0].Body != "reply" {
		t.Fatalf("forum reply mutated through clone")
	}
	if *orig.Session != "ana-souza" {
		t.Fatalf("session mutated through clone: %q", *orig.Session)
	}
}

func TestCloneNilSession(t *testing.T) {
	ds := Dataset{}
	if cp := ds.Clone(); cp.Session != nil {
		t.Fatalf("expected nil session, got %q", *cp.Session)
	}
}

func TestUserBySlug(t *testing.T) {
	ds := testDataset()
	u, ok := ds.UserBySlug("mentor")
	if !ok || u.Role != RoleMentor {
		t.Fatalf("UserBySlug(mentor) = %+v, %v", u, ok)
	}
	if _, ok := ds.UserBySlug("nobody"); ok {
		t.Fatalf("expected miss for unknown slug")
	}
}

func TestQuizByID(t *testing.T) {
	ds := testDataset()
	if _, ok := ds.QuizByID("q1"); !ok {
		t.Fatalf("expected quiz q1")
	}
	if _, ok := ds.QuizByID("q404"); ok {
		t.Fatalf("expected miss for unknown quiz")
	}
}

func TestNotFoundErrorMessage(t *testing.T) {
	err := NotFoundError{Collection: CollectionUsers, ID: "ghost"}
	if err.Error() != "users ghost not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
