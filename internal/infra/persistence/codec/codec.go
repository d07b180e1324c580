// Package codec maps dataset collections to and from (id, JSON payload) rows
// shared by the row-oriented persistence adapters (sqlite, postgres).
package codec

import (
	"encoding/json"
	"fmt"

	"ascenda/pkg/domain"
)

// Row is one persisted record: its collection-scoped id plus the JSON payload.
type Row struct {
	ID      string
	Payload []byte
}

// Rows serializes one collection of the dataset in insertion order. Users are
// keyed by slug, quizzes by their template id, everything else by Base.ID.
func Rows(ds domain.Dataset, name string) ([]Row, error) {
	switch name {
	case domain.CollectionUsers:
		return marshalRows(ds.Users, func(u domain.User) string { return u.Slug })
	case domain.CollectionQuizLibrary:
		return marshalRows(ds.QuizLibrary, func(q domain.Quiz) string { return q.ID })
	case domain.CollectionQuizAssignments:
		return marshalRows(ds.QuizAssignments, func(a domain.QuizAssignment) string { return a.ID })
	case domain.CollectionActivities:
		return marshalRows(ds.Activities, func(a domain.Activity) string { return a.ID })
	case domain.CollectionVideos:
		return marshalRows(ds.Videos, func(v domain.Video) string { return v.ID })
	case domain.CollectionVideoProgress:
		return marshalRows(ds.VideoProgress, func(p domain.VideoProgress) string { return p.ID })
	case domain.CollectionVacationRequests:
		return marshalRows(ds.VacationRequests, func(r domain.VacationRequest) string { return r.ID })
	case domain.CollectionForumTopics:
		return marshalRows(ds.ForumTopics, func(t domain.ForumTopic) string { return t.ID })
	case domain.CollectionNotifications:
		return marshalRows(ds.Notifications, func(n domain.Notification) string { return n.ID })
	default:
		return nil, fmt.Errorf("unknown collection %s", name)
	}
}

// Assign decodes payloads into the matching collection of the dataset,
// preserving row order.
func Assign(ds *domain.Dataset, name string, payloads [][]byte) error {
	switch name {
	case domain.CollectionUsers:
		return unmarshalRows(payloads, &ds.Users)
	case domain.CollectionQuizLibrary:
		return unmarshalRows(payloads, &ds.QuizLibrary)
	case domain.CollectionQuizAssignments:
		return unmarshalRows(payloads, &ds.QuizAssignments)
	case domain.CollectionActivities:
		return unmarshalRows(payloads, &ds.Activities)
	case domain.CollectionVideos:
		return unmarshalRows(payloads, &ds.Videos)
	case domain.CollectionVideoProgress:
		return unmarshalRows(payloads, &ds.VideoProgress)
	case domain.CollectionVacationRequests:
		return unmarshalRows(payloads, &ds.VacationRequests)
	case domain.CollectionForumTopics:
		return unmarshalRows(payloads, &ds.ForumTopics)
	case domain.CollectionNotifications:
		return unmarshalRows(payloads, &ds.Notifications)
	default:
		return fmt.Errorf("unknown collection %s", name)
	}
}

func marshalRows[T any](items []T, id func(T) string) ([]Row, error) {
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		payload, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("encode record: %w", err)
		}
		rows = append(rows, Row{ID: id(item), Payload: payload})
	}
	return rows, nil
}

func unmarshalRows[T any](payloads [][]byte, out *[]T) error {
	items := make([]T, 0, len(payloads))
	for _, p := range payloads {
		var item T
		if err := json.Unmarshal(p, &item); err != nil {
			return fmt.Errorf("decode record: %w", err)
		}
		items = append(items, item)
	}
	*out = items
	return nil
}
