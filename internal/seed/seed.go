// Package seed produces the deterministic baseline dataset used for first-run
// initialization and for forced reseeds after a schema bump. It is pure: no
// I/O, no clock, no randomness, so two calls always return equal datasets.
package seed

import (
	"fmt"
	"time"

	"ascenda/pkg/domain"
)

// seedTime anchors every generated timestamp so the output stays deterministic.
var seedTime = time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

// MentorSlug identifies the single seeded mentor.
const MentorSlug = "mariana-costa"

// Dataset returns the baseline dataset: one mentor, six interns, the authored
// quiz library, 7 activities and 8 videos per intern, and three forum topics
// with one reply each. Assignments, video progress, vacation requests and
// notifications start empty; the session starts nil.
func Dataset() domain.Dataset {
	users := seedUsers()
	ds := domain.Dataset{
		Users:            users,
		QuizLibrary:      seedQuizzes(),
		QuizAssignments:  []domain.QuizAssignment{},
		Activities:       []domain.Activity{},
		Videos:           []domain.Video{},
		VideoProgress:    []domain.VideoProgress{},
		VacationRequests: []domain.VacationRequest{},
		ForumTopics:      seedTopics(),
		Notifications:    []domain.Notification{},
	}
	for _, u := range users {
		if u.Role != domain.RoleIntern {
			continue
		}
		ds.Activities = append(ds.Activities, seedActivities(u.Slug)...)
		ds.Videos = append(ds.Videos, seedVideos(u.Slug)...)
	}
	return ds
}

func seedUsers() []domain.User {
	mentor := domain.User{
		Slug:     MentorSlug,
		Name:     "Mariana Costa",
		Email:    "mariana.costa@ascenda.com",
		Password: "123456",
		Role:     domain.RoleMentor,
		Title:    "Engineering Mentor",
	}
	interns := []struct {
		name, team string
	}{
		{"Lucas Oliveira", "Platform"},
		{"Ana Souza", "Platform"},
		{"Pedro Santos", "Data"},
		{"Julia Lima", "Data"},
		{"Rafael Almeida", "Mobile"},
		{"Beatriz Ferreira", "Mobile"},
	}
	users := []domain.User{mentor}
	for _, it := range interns {
		slug := slugify(it.name)
		users = append(users, domain.User{
			Slug:      slug,
			Name:      it.name,
			Email:     emailFor(it.name),
			Password:  "123456",
			Role:      domain.RoleIntern,
			Team:      it.team,
			StartDate: seedTime.Format("2006-01-02"),
		})
	}
	return users
}

func seedQuizzes() []domain.Quiz {
	choice := func(prompt string, options []string, answer, weight int) domain.Question {
		return domain.Question{
			Prompt:  prompt,
			Kind:    domain.QuestionMultipleChoice,
			Options: options,
			Answer:  answer,
			Weight:  weight,
		}
	}
	open := func(prompt string, weight int) domain.Question {
		return domain.Question{Prompt: prompt, Kind: domain.QuestionOpen, Weight: weight}
	}
	return []domain.Quiz{
		{
			ID:          "quiz-1",
			Title:       "Onboarding basics",
			Description: "Company structure, tooling, and the first-week checklist.",
			Questions: []domain.Question{
				choice("Where do incident reports get filed?",
					[]string{"Email to your mentor", "The ops tracker", "The team chat"}, 1, 2),
				choice("Which branch do feature PRs target?",
					[]string{"main", "develop", "release"}, 0, 2),
				open("Describe the deploy flow in your own words.", 4),
			},
		},
		{
			ID:          "quiz-2",
			Title:       "Code review practices",
			Description: "What we expect from authors and reviewers.",
			Questions: []domain.Question{
				choice("A review comment you disagree with should be",
					[]string{"Ignored", "Discussed on the thread", "Escalated immediately"}, 1, 2),
				choice("Small PRs are preferred because they",
					[]string{"Merge faster and review better", "Avoid CI", "Skip QA"}, 0, 2),
				open("What makes a commit message useful six months later?", 4),
			},
		},
		{
			ID:          "quiz-3",
			Title:       "Security fundamentals",
			Description: "Handling credentials, data, and access requests.",
			Questions: []domain.Question{
				choice("Production credentials belong in",
					[]string{"The secrets manager", "A dotfile", "The wiki"}, 0, 3),
				choice("A customer data export request goes through",
					[]string{"Any engineer", "The privacy workflow", "Direct DB access"}, 1, 3),
			},
		},
	}
}

var activityTitles = [7]string{
	"Set up the local environment",
	"Read the architecture handbook",
	"Pair on a starter ticket",
	"Ship the first pull request",
	"Shadow an on-call shift",
	"Present a lightning talk",
	"Write a week-one retrospective",
}

func seedActivities(slug string) []domain.Activity {
	statuses := [3]domain.ActivityStatus{domain.ActivityDone, domain.ActivityInProgress, domain.ActivityPending}
	out := make([]domain.Activity, 0, len(activityTitles))
	for i, title := range activityTitles {
		out = append(out, domain.Activity{
			Base: domain.Base{
				ID:        fmt.Sprintf("activity-%s-%d", slug, i+1),
				CreatedAt: seedTime,
				UpdatedAt: seedTime,
			},
			Slug:   slug,
			Title:  title,
			Status: statuses[i%len(statuses)],
		})
	}
	return out
}

var videoTitles = [8]string{
	"Welcome to Ascenda",
	"Repository tour",
	"Branching and releases",
	"Observability 101",
	"Working with the design system",
	"Writing effective tests",
	"Incident response walkthrough",
	"Career ladder overview",
}

func seedVideos(slug string) []domain.Video {
	out := make([]domain.Video, 0, len(videoTitles))
	for i, title := range videoTitles {
		out = append(out, domain.Video{
			Base: domain.Base{
				ID:        fmt.Sprintf("video-%s-%d", slug, i+1),
				CreatedAt: seedTime,
				UpdatedAt: seedTime,
			},
			Slug:            slug,
			Title:           title,
			URL:             fmt.Sprintf("https://www.youtube.com/watch?v=ascenda-%02d", i+1),
			DurationSeconds: 300 + 60*i,
		})
	}
	return out
}

func seedTopics() []domain.ForumTopic {
	topics := []struct {
		id, slug, title, body, replySlug, replyBody string
	}{
		{
			"topic-1", "lucas-oliveira",
			"Best way to run the test suite locally?",
			"Full runs take ten minutes on my machine. Is there a shortcut for a single package?",
			MentorSlug,
			"Run the package path directly; the handbook's tooling chapter has the exact flags.",
		},
		{
			"topic-2", "ana-souza",
			"Lunch group for the Tuesday tech talk",
			"Anyone joining the streaming-systems talk? Thinking of grabbing lunch before.",
			"pedro-santos",
			"Count me in, meet at the lobby at noon.",
		},
		{
			"topic-3", MentorSlug,
			"Week 3 check-in reminder",
			"One-on-ones move to Thursday this week. Book a slot if you have not yet.",
			"julia-lima",
			"Booked, thanks for the heads up.",
		},
	}
	out := make([]domain.ForumTopic, 0, len(topics))
	for i, t := range topics {
		out = append(out, domain.ForumTopic{
			Base: domain.Base{
				ID:        t.id,
				CreatedAt: seedTime.Add(time.Duration(i) * time.Hour),
				UpdatedAt: seedTime.Add(time.Duration(i) * time.Hour),
			},
			Slug:  t.slug,
			Title: t.title,
			Body:  t.body,
			Replies: []domain.ForumReply{{
				ID:        fmt.Sprintf("reply-%d", i+1),
				Slug:      t.replySlug,
				Body:      t.replyBody,
				CreatedAt: seedTime.Add(time.Duration(i)*time.Hour + 30*time.Minute),
			}},
		})
	}
	return out
}

func slugify(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ':
			out = append(out, '-')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

func emailFor(name string) string {
	slug := slugify(name)
	local := make([]rune, 0, len(slug))
	for _, r := range slug {
		if r == '-' {
			local = append(local, '.')
			continue
		}
		local = append(local, r)
	}
	return string(local) + "@ascenda.com"
}
