package store

import (
	"context"
	"errors"
	"time"

	"ascenda/pkg/domain"
)

// ErrInvalidCredentials is returned by Login when no user matches the
// submitted (email, password, role) triple. It is the only action-level error
// a correctly wired UI ever surfaces; every other failure path either degrades
// to a fresh dataset or comes back from the persistence layer.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Credentials identify a login attempt. Role must match the portal the user
// signs in from: the mentor app rejects intern credentials and vice versa.
type Credentials struct {
	Email    string
	Password string
	Role     domain.Role
}

// Login authenticates against the seeded user list, sets the session pointer,
// and persists. Passwords are compared verbatim; the portal models no real
// authentication.
func (s *Store) Login(ctx context.Context, creds Credentials) (domain.User, error) {
	var user domain.User
	err := s.instrument(ctx, "login", func(ctx context.Context) error {
		if err := s.ready(); err != nil {
			return err
		}
		s.mu.Lock()
		found := false
		for _, u := range s.state.Users {
			if u.Email == creds.Email && u.Password == creds.Password && u.Role == creds.Role {
				user = u
				found = true
				break
			}
		}
		if !found {
			s.mu.Unlock()
			return ErrInvalidCredentials
		}
		slug := user.Slug
		s.state.Session = &slug
		s.current = &user
		s.mu.Unlock()
		return s.flush(ctx)
	})
	return user, err
}

// Logout clears the in-memory identity and the session pointer, then
// persists.
func (s *Store) Logout(ctx context.Context) error {
	return s.instrument(ctx, "logout", func(ctx context.Context) error {
		if err := s.ready(); err != nil {
			return err
		}
		s.mu.Lock()
		s.state.Session = nil
		s.current = nil
		s.mu.Unlock()
		return s.flush(ctx)
	})
}

// AssignQuizInput names the quiz, the interns receiving it, and the deadline.
type AssignQuizInput struct {
	QuizID  string
	Slugs   []string
	DueDate time.Time
}

// AssignQuiz creates one pending assignment per slug.
func (s *Store) AssignQuiz(ctx context.Context, in AssignQuizInput) ([]domain.QuizAssignment, error) {
	var created []domain.QuizAssignment
	err := s.instrument(ctx, "assign_quiz", func(ctx context.Context) error {
		if err := s.ready(); err != nil {
			return err
		}
		if _, ok := s.QuizByID(in.QuizID); !ok {
			return domain.NotFoundError{Collection: domain.CollectionQuizLibrary, ID: in.QuizID}
		}
		for _, slug := range in.Slugs {
			a, err := s.assignments.Create(ctx, domain.QuizAssignment{
				QuizID:  in.QuizID,
				Slug:    slug,
				DueDate: in.DueDate,
				Status:  domain.AssignmentPending,
			})
			if err != nil {
				return err
			}
			created = append(created, a)
		}
		return nil
	})
	return created, err
}

// SubmitQuizInput carries an intern's responses for one assignment.
type SubmitQuizInput struct {
	AssignmentID string
	Responses    []domain.Response
	Feedback     string
}

// SubmitQuiz transitions a pending assignment to submitted, recording the
// responses and the computed score. The same record is updated in place; a
// submission never creates a second assignment.
func (s *Store) SubmitQuiz(ctx context.Context, in SubmitQuizInput) (domain.QuizAssignment, error) {
	var updated domain.QuizAssignment
	err := s.instrument(ctx, "submit_quiz", func(ctx context.Context) error {
		if err := s.ready(); err != nil {
			return err
		}
		a, ok := s.assignments.Get(in.AssignmentID)
		if !ok {
			return domain.NotFoundError{Collection: domain.CollectionQuizAssignments, ID: in.AssignmentID}
		}
		quiz, ok := s.QuizByID(a.QuizID)
		if !ok {
			return domain.NotFoundError{Collection: domain.CollectionQuizLibrary, ID: a.QuizID}
		}
		score, maxScore := domain.ScoreResponses(quiz, in.Responses)
		submittedAt := s.nowFn()
		var err error
		updated, err = s.assignments.Update(ctx, in.AssignmentID, func(rec *domain.QuizAssignment) {
			rec.Status = domain.AssignmentSubmitted
			rec.Responses = in.Responses
			rec.Feedback = in.Feedback
			rec.Score = score
			rec.MaxScore = maxScore
			rec.SubmittedAt = &submittedAt
		})
		return err
	})
	return updated, err
}

// VacationInput describes an intern's time-off request.
type VacationInput struct {
	Slug      string
	StartDate string
	EndDate   string
	Days      int
	Reason    string
}

// SubmitVacation files a pending vacation request.
func (s *Store) SubmitVacation(ctx context.Context, in VacationInput) (domain.VacationRequest, error) {
	var created domain.VacationRequest
	err := s.instrument(ctx, "submit_vacation", func(ctx context.Context) error {
		if err := s.ready(); err != nil {
			return err
		}
		var err error
		created, err = s.vacations.Create(ctx, domain.VacationRequest{
			Slug:      in.Slug,
			StartDate: in.StartDate,
			EndDate:   in.EndDate,
			Days:      in.Days,
			Reason:    in.Reason,
			Status:    domain.RequestPending,
		})
		return err
	})
	return created, err
}

// ResolveVacation moves a request to approved or denied.
func (s *Store) ResolveVacation(ctx context.Context, id string, status domain.RequestStatus) (domain.VacationRequest, error) {
	var updated domain.VacationRequest
	err := s.instrument(ctx, "resolve_vacation", func(ctx context.Context) error {
		if err := s.ready(); err != nil {
			return err
		}
		var err error
		updated, err = s.vacations.Update(ctx, id, func(rec *domain.VacationRequest) {
			rec.Status = status
		})
		return err
	})
	return updated, err
}

// TopicInput starts a forum thread.
type TopicInput struct {
	Slug  string
	Title string
	Body  string
}

// AddTopic creates a forum topic with no replies.
func (s *Store) AddTopic(ctx context.Context, in TopicInput) (domain.ForumTopic, error) {
	var created domain.ForumTopic
	err := s.instrument(ctx, "add_topic", func(ctx context.Context) error {
		if err := s.ready(); err != nil {
			return err
		}
		var err error
		created, err = s.topics.Create(ctx, domain.ForumTopic{
			Slug:    in.Slug,
			Title:   in.Title,
			Body:    in.Body,
			Replies: []domain.ForumReply{},
		})
		return err
	})
	return created, err
}

// CommentInput is one reply to an existing topic.
type CommentInput struct {
	Slug string
	Body string
}

// AddComment appends a reply to the topic.
func (s *Store) AddComment(ctx context.Context, topicID string, in CommentInput) (domain.ForumReply, error) {
	reply := domain.ForumReply{
		ID:        s.newID(),
		Slug:      in.Slug,
		Body:      in.Body,
		CreatedAt: s.nowFn(),
	}
	err := s.instrument(ctx, "add_comment", func(ctx context.Context) error {
		if err := s.ready(); err != nil {
			return err
		}
		_, err := s.topics.Update(ctx, topicID, func(rec *domain.ForumTopic) {
			rec.Replies = append(rec.Replies, reply)
		})
		return err
	})
	if err != nil {
		return domain.ForumReply{}, err
	}
	return reply, nil
}

// ProgressInput reports how far an intern has watched a video.
type ProgressInput struct {
	Slug      string
	VideoID   string
	Seconds   int
	Completed bool
}

// UpdateVideoProgress upserts the single progress record for the
// (slug, video) pair.
func (s *Store) UpdateVideoProgress(ctx context.Context, in ProgressInput) (domain.VideoProgress, error) {
	var result domain.VideoProgress
	err := s.instrument(ctx, "update_video_progress", func(ctx context.Context) error {
		if err := s.ready(); err != nil {
			return err
		}
		existing := s.progress.Filter(map[string]any{"slug": in.Slug, "videoId": in.VideoID}, ListOptions{Limit: 1})
		var err error
		if len(existing) > 0 {
			result, err = s.progress.Update(ctx, existing[0].ID, func(rec *domain.VideoProgress) {
				rec.Seconds = in.Seconds
				rec.Completed = in.Completed
			})
			return err
		}
		result, err = s.progress.Create(ctx, domain.VideoProgress{
			Slug:      in.Slug,
			VideoID:   in.VideoID,
			Seconds:   in.Seconds,
			Completed: in.Completed,
		})
		return err
	})
	return result, err
}

// AddNotification files a message for a user.
func (s *Store) AddNotification(ctx context.Context, slug, message string) (domain.Notification, error) {
	var created domain.Notification
	err := s.instrument(ctx, "add_notification", func(ctx context.Context) error {
		if err := s.ready(); err != nil {
			return err
		}
		var err error
		created, err = s.notifications.Create(ctx, domain.Notification{Slug: slug, Message: message})
		return err
	})
	return created, err
}

// MarkNotificationRead flips the read flag.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) (domain.Notification, error) {
	var updated domain.Notification
	err := s.instrument(ctx, "mark_notification_read", func(ctx context.Context) error {
		if err := s.ready(); err != nil {
			return err
		}
		var err error
		updated, err = s.notifications.Update(ctx, id, func(rec *domain.Notification) {
			rec.Read = true
		})
		return err
	})
	return updated, err
}
