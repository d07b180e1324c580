// Package domain defines the persisted dataset, its entity records, and the
// storage adapter contract used by the ascenda internship portal core.
package domain

import "time"

// Role identifies the portal profile a user logs in with.
type Role string

// Portal roles. The mentor dashboard is the "padrinho" app, interns use the
// "estagiario" app; both names are part of the persisted data contract.
const (
	RoleMentor Role = "padrinho"
	RoleIntern Role = "estagiario"
)

// Base contains the common fields of generated records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// User is a seeded portal identity. Users are keyed by slug; email is unique
// as well. Passwords are plaintext seed data compared verbatim at login; the
// portal has no real authentication backend and models none.
type User struct {
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      Role   `json:"role"`
	Team      string `json:"team,omitempty"`
	Title     string `json:"title,omitempty"`
	StartDate string `json:"startDate,omitempty"`
}

// QuestionKind discriminates quiz question variants.
type QuestionKind string

// Supported question kinds.
const (
	QuestionMultipleChoice QuestionKind = "multiple-choice"
	QuestionOpen           QuestionKind = "open"
)

// Question is one entry of a quiz template. Options and Answer are only
// meaningful for multiple-choice questions.
type Question struct {
	Prompt  string       `json:"prompt"`
	Kind    QuestionKind `json:"kind"`
	Options []string     `json:"options,omitempty"`
	Answer  int          `json:"answer,omitempty"`
	Weight  int          `json:"weight"`
}

// Quiz is an authored quiz template from the seeded library.
type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

// AssignmentStatus tracks the quiz assignment lifecycle.
type AssignmentStatus string

// Assignment lifecycle states. An assignment is created pending and
// transitions to submitted exactly once.
const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentSubmitted AssignmentStatus = "submitted"
)

// Response is an intern's answer to one quiz question, addressed by question
// index. Choice is set for multiple-choice questions, Text for open ones.
type Response struct {
	Question int    `json:"question"`
	Choice   *int   `json:"choice,omitempty"`
	Text     string `json:"text,omitempty"`
}

// QuizAssignment links one quiz to one intern. Responses, Score, MaxScore and
// SubmittedAt are populated on submission.
type QuizAssignment struct {
	Base
	QuizID      string           `json:"quizId"`
	Slug        string           `json:"slug"`
	DueDate     time.Time        `json:"dueDate"`
	Status      AssignmentStatus `json:"status"`
	Responses   []Response       `json:"responses,omitempty"`
	Feedback    string           `json:"feedback,omitempty"`
	Score       int              `json:"score"`
	MaxScore    int              `json:"maxScore"`
	SubmittedAt *time.Time       `json:"submittedAt,omitempty"`
}

// ActivityStatus tracks onboarding activity progress.
type ActivityStatus string

// Activity statuses, cycled by the seed generator.
const (
	ActivityDone       ActivityStatus = "done"
	ActivityInProgress ActivityStatus = "in-progress"
	ActivityPending    ActivityStatus = "pending"
)

// Activity is one onboarding task on an intern's board.
type Activity struct {
	Base
	Slug   string         `json:"slug"`
	Title  string         `json:"title"`
	Status ActivityStatus `json:"status"`
}

// Video is a learning-path video assigned to an intern.
type Video struct {
	Base
	Slug            string `json:"slug"`
	Title           string `json:"title"`
	URL             string `json:"url"`
	DurationSeconds int    `json:"durationSeconds"`
}

// VideoProgress records how far an intern has watched a video. One record per
// (slug, videoId) pair, upserted by the store.
type VideoProgress struct {
	Base
	Slug      string `json:"slug"`
	VideoID   string `json:"videoId"`
	Seconds   int    `json:"seconds"`
	Completed bool   `json:"completed"`
}

// RequestStatus tracks the vacation request lifecycle.
type RequestStatus string

// Vacation request statuses.
const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestDenied   RequestStatus = "denied"
)

// VacationRequest is an intern's time-off request reviewed by the mentor.
type VacationRequest struct {
	Base
	Slug      string        `json:"slug"`
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	Days      int           `json:"days"`
	Reason    string        `json:"reason,omitempty"`
	Status    RequestStatus `json:"status"`
}

// ForumReply is a reply nested inside its topic record.
type ForumReply struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// ForumTopic is a discussion thread with inline replies.
type ForumTopic struct {
	Base
	Slug    string       `json:"slug"`
	Title   string       `json:"title"`
	Body    string       `json:"body"`
	Replies []ForumReply `json:"replies"`
}

// Notification is a per-user message with a read flag.
type Notification struct {
	Base
	Slug    string `json:"slug"`
	Message string `json:"message"`
	Read    bool   `json:"read"`
}
