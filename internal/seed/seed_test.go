package seed

import (
	"reflect"
	"testing"

	"ascenda/pkg/domain"
)

func TestDatasetDeterministic(t *testing.T) {
	if !reflect.DeepEqual(Dataset(), Dataset()) {
		t.Fatalf("two seed calls produced different datasets")
	}
}

func TestDatasetUsers(t *testing.T) {
	ds := Dataset()
	if len(ds.Users) != 7 {
		t.Fatalf("users = %d, want 7", len(ds.Users))
	}
	mentors, interns := 0, 0
	for _, u := range ds.Users {
		switch u.Role {
		case domain.RoleMentor:
			mentors++
		case domain.RoleIntern:
			interns++
		default:
			t.Fatalf("unexpected role %q for %s", u.Role, u.Slug)
		}
	}
	if mentors != 1 || interns != 6 {
		t.Fatalf("got %d mentors and %d interns, want 1 and 6", mentors, interns)
	}
	mentor, ok := ds.UserBySlug(MentorSlug)
	if !ok || mentor.Role != domain.RoleMentor {
		t.Fatalf("mentor %s missing or misrole: %+v", MentorSlug, mentor)
	}
	lucas, ok := ds.UserBySlug("lucas-oliveira")
	if !ok {
		t.Fatalf("intern lucas-oliveira missing")
	}
	if lucas.Email != "lucas.oliveira@ascenda.com" || lucas.Password != "123456" {
		t.Fatalf("unexpected credentials for lucas: %s / %s", lucas.Email, lucas.Password)
	}
}

func TestDatasetUniqueIdentity(t *testing.T) {
	ds := Dataset()
	slugs := map[string]bool{}
	emails := map[string]bool{}
	for _, u := range ds.Users {
		if slugs[u.Slug] {
			t.Fatalf("duplicate slug %s", u.Slug)
		}
		if emails[u.Email] {
			t.Fatalf("duplicate email %s", u.Email)
		}
		slugs[u.Slug] = true
		emails[u.Email] = true
	}
}

func TestDatasetQuizLibrary(t *testing.T) {
	ds := Dataset()
	if len(ds.QuizLibrary) != 3 {
		t.Fatalf("quizzes = %d, want 3", len(ds.QuizLibrary))
	}
	for _, q := range ds.QuizLibrary {
		if len(q.Questions) == 0 {
			t.Fatalf("quiz %s has no questions", q.ID)
		}
		for i, question := range q.Questions {
			if question.Weight <= 0 {
				t.Fatalf("quiz %s question %d has weight %d", q.ID, i, question.Weight)
			}
			if question.Kind == domain.QuestionMultipleChoice {
				if question.Answer < 0 || question.Answer >= len(question.Options) {
					t.Fatalf("quiz %s question %d answer %d out of range", q.ID, i, question.Answer)
				}
			}
		}
	}
}

func TestDatasetPerInternContent(t *testing.T) {
	ds := Dataset()
	activities := map[string]int{}
	videos := map[string]int{}
	statuses := map[string]map[domain.ActivityStatus]int{}
	for _, a := range ds.Activities {
		activities[a.Slug]++
		if statuses[a.Slug] == nil {
			statuses[a.Slug] = map[domain.ActivityStatus]int{}
		}
		statuses[a.Slug][a.Status]++
	}
	for _, v := range ds.Videos {
		videos[v.Slug]++
	}
	for _, u := range ds.Users {
		if u.Role != domain.RoleIntern {
			continue
		}
		if activities[u.Slug] != 7 {
			t.Fatalf("%s has %d activities, want 7", u.Slug, activities[u.Slug])
		}
		if videos[u.Slug] != 8 {
			t.Fatalf("%s has %d videos, want 8", u.Slug, videos[u.Slug])
		}
		// 7 entries cycling done/in-progress/pending: 3/2/2.
		st := statuses[u.Slug]
		if st[domain.ActivityDone] != 3 || st[domain.ActivityInProgress] != 2 || st[domain.ActivityPending] != 2 {
			t.Fatalf("%s status mix = %v", u.Slug, st)
		}
	}
	if activities[MentorSlug] != 0 || videos[MentorSlug] != 0 {
		t.Fatalf("mentor should have no activities or videos")
	}
}

func TestDatasetForum(t *testing.T) {
	ds := Dataset()
	if len(ds.ForumTopics) != 3 {
		t.Fatalf("topics = %d, want 3", len(ds.ForumTopics))
	}
	for _, topic := range ds.ForumTopics {
		if len(topic.Replies) != 1 {
			t.Fatalf("topic %s has %d replies, want 1", topic.ID, len(topic.Replies))
		}
		if _, ok := ds.UserBySlug(topic.Slug); !ok {
			t.Fatalf("topic %s authored by unknown slug %s", topic.ID, topic.Slug)
		}
		if _, ok := ds.UserBySlug(topic.Replies[0].Slug); !ok {
			t.Fatalf("reply on %s authored by unknown slug %s", topic.ID, topic.Replies[0].Slug)
		}
	}
}

func TestDatasetRuntimeCollectionsEmpty(t *testing.T) {
	ds := Dataset()
	if len(ds.QuizAssignments) != 0 || len(ds.VideoProgress) != 0 ||
		len(ds.VacationRequests) != 0 || len(ds.Notifications) != 0 {
		t.Fatalf("runtime collections must seed empty")
	}
	if ds.Session != nil {
		t.Fatalf("session must seed nil, got %q", *ds.Session)
	}
}

func TestSlugify(t *testing.T) {
	if got := slugify("Lucas Oliveira"); got != "lucas-oliveira" {
		t.Fatalf("slugify = %q", got)
	}
	if got := emailFor("Beatriz Ferreira"); got != "beatriz.ferreira@ascenda.com" {
		t.Fatalf("emailFor = %q", got)
	}
}
