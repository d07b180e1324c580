package store

import (
	"ascenda/pkg/domain"
)

// CurrentUser returns the resolved authenticated identity, or false when the
// session is absent or its slug no longer resolves.
func (s *Store) CurrentUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return domain.User{}, false
	}
	return *s.current, true
}

// Session returns the raw persisted session slug, resolved or not.
func (s *Store) Session() *string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Session == nil {
		return nil
	}
	slug := *s.state.Session
	return &slug
}

// Interns lists the intern users in seed order.
func (s *Store) Interns() []domain.User {
	return s.users.Filter(map[string]any{"role": string(domain.RoleIntern)}, ListOptions{})
}

// Mentor returns the seeded mentor.
func (s *Store) Mentor() (domain.User, bool) {
	mentors := s.users.Filter(map[string]any{"role": string(domain.RoleMentor)}, ListOptions{Limit: 1})
	if len(mentors) == 0 {
		return domain.User{}, false
	}
	return mentors[0], true
}

// QuizLibrary lists the authored quiz templates.
func (s *Store) QuizLibrary() []domain.Quiz {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Quiz(nil), s.state.QuizLibrary...)
}

// QuizByID resolves a quiz template.
func (s *Store) QuizByID(id string) (domain.Quiz, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.QuizByID(id)
}

// AssignmentsFor lists an intern's quiz assignments, most recent first.
func (s *Store) AssignmentsFor(slug string) []domain.QuizAssignment {
	return s.assignments.Filter(map[string]any{"slug": slug}, ListOptions{SortBy: "-createdAt"})
}

// RequestsFor lists an intern's vacation requests, most recent first.
func (s *Store) RequestsFor(slug string) []domain.VacationRequest {
	return s.vacations.Filter(map[string]any{"slug": slug}, ListOptions{SortBy: "-createdAt"})
}

// AllRequests lists every vacation request for the mentor's review queue.
func (s *Store) AllRequests() []domain.VacationRequest {
	return s.vacations.List(ListOptions{SortBy: "-createdAt"})
}

// AllTopics lists forum topics, newest first.
func (s *Store) AllTopics() []domain.ForumTopic {
	return s.topics.List(ListOptions{SortBy: "-createdAt"})
}

// ActivitiesFor lists an intern's onboarding activities in seed order.
func (s *Store) ActivitiesFor(slug string) []domain.Activity {
	return s.activities.Filter(map[string]any{"slug": slug}, ListOptions{})
}

// VideosFor lists an intern's learning-path videos in seed order.
func (s *Store) VideosFor(slug string) []domain.Video {
	return s.videos.Filter(map[string]any{"slug": slug}, ListOptions{})
}

// ProgressFor lists an intern's video progress records.
func (s *Store) ProgressFor(slug string) []domain.VideoProgress {
	return s.progress.Filter(map[string]any{"slug": slug}, ListOptions{})
}

// NotificationsFor lists a user's notifications, newest first.
func (s *Store) NotificationsFor(slug string) []domain.Notification {
	return s.notifications.Filter(map[string]any{"slug": slug}, ListOptions{SortBy: "-createdAt"})
}
