package domain

// SchemaVersion is the compiled schema stamp for the dataset as a whole. Any
// persisted stamp that differs invalidates every collection at once and forces
// a destructive reseed; there is no per-collection versioning or migration.
const SchemaVersion = 4

// Collection names as they appear in persisted storage. The transactional
// adapter uses them as table names, the flat adapter only inside the single
// serialized payload. Order matters: it is the replace order inside the
// transactional adapter's unit of work.
const (
	CollectionUsers            = "users"
	CollectionQuizLibrary      = "quizLibrary"
	CollectionQuizAssignments  = "quizAssignments"
	CollectionActivities       = "activities"
	CollectionVideos           = "videos"
	CollectionVideoProgress    = "videoProgress"
	CollectionVacationRequests = "vacationRequests"
	CollectionForumTopics      = "forumTopics"
	CollectionNotifications    = "notifications"
)

// Collections lists every persisted collection in replace order.
var Collections = []string{
	CollectionUsers,
	CollectionQuizLibrary,
	CollectionQuizAssignments,
	CollectionActivities,
	CollectionVideos,
	CollectionVideoProgress,
	CollectionVacationRequests,
	CollectionForumTopics,
	CollectionNotifications,
}

// Dataset is the root aggregate: every persisted collection plus the session
// pointer, versioned and replaced as one unit. The store owns the runtime
// instance exclusively; adapters own the on-disk representation exclusively.
type Dataset struct {
	Users            []User            `json:"users"`
	QuizLibrary      []Quiz            `json:"quizLibrary"`
	QuizAssignments  []QuizAssignment  `json:"quizAssignments"`
	Activities       []Activity        `json:"activities"`
	Videos           []Video           `json:"videos"`
	VideoProgress    []VideoProgress   `json:"videoProgress"`
	VacationRequests []VacationRequest `json:"vacationRequests"`
	ForumTopics      []ForumTopic      `json:"forumTopics"`
	Notifications    []Notification    `json:"notifications"`

	// Session is nil or the slug of the authenticated user. A slug that no
	// longer resolves to a user is treated as absent, never as an error.
	Session *string `json:"session"`
}

// Clone returns a deep copy so that a persisted snapshot cannot alias the
// store's live slices.
func (d Dataset) Clone() Dataset {
	cp := d
	cp.Users = append([]User(nil), d.Users...)
	cp.QuizLibrary = make([]Quiz, len(d.QuizLibrary))
	for i, q := range d.QuizLibrary {
		cp.QuizLibrary[i] = cloneQuiz(q)
	}
	cp.QuizAssignments = make([]QuizAssignment, len(d.QuizAssignments))
	for i, a := range d.QuizAssignments {
		cp.QuizAssignments[i] = cloneAssignment(a)
	}
	cp.Activities = append([]Activity(nil), d.Activities...)
	cp.Videos = append([]Video(nil), d.Videos...)
	cp.VideoProgress = append([]VideoProgress(nil), d.VideoProgress...)
	cp.VacationRequests = append([]VacationRequest(nil), d.VacationRequests...)
	cp.ForumTopics = make([]ForumTopic, len(d.ForumTopics))
	for i, t := range d.ForumTopics {
		cp.ForumTopics[i] = cloneTopic(t)
	}
	cp.Notifications = append([]Notification(nil), d.Notifications...)
	if d.Session != nil {
		s := *d.Session
		cp.Session = &s
	}
	return cp
}

func cloneQuiz(q Quiz) Quiz {
	cp := q
	cp.Questions = make([]Question, len(q.Questions))
	for i, question := range q.Questions {
		qc := question
		qc.Options = append([]string(nil), question.Options...)
		cp.Questions[i] = qc
	}
	return cp
}

func cloneAssignment(a QuizAssignment) QuizAssignment {
	cp := a
	cp.Responses = make([]Response, len(a.Responses))
	for i, r := range a.Responses {
		rc := r
		if r.Choice != nil {
			c := *r.Choice
			rc.Choice = &c
		}
		cp.Responses[i] = rc
	}
	if a.SubmittedAt != nil {
		t := *a.SubmittedAt
		cp.SubmittedAt = &t
	}
	return cp
}

func cloneTopic(t ForumTopic) ForumTopic {
	cp := t
	cp.Replies = append([]ForumReply(nil), t.Replies...)
	return cp
}

// UserBySlug resolves a slug to its user record.
func (d Dataset) UserBySlug(slug string) (User, bool) {
	for _, u := range d.Users {
		if u.Slug == slug {
			return u, true
		}
	}
	return User{}, false
}

// QuizByID resolves a quiz id against the library.
func (d Dataset) QuizByID(id string) (Quiz, bool) {
	for _, q := range d.QuizLibrary {
		if q.ID == id {
			return q, true
		}
	}
	return Quiz{}, false
}
