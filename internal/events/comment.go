package events

import (
	"fmt"
	"time"

	"github.com/anonto42/grace-notes/backend/internal/models"
	"github.com/anonto42/grace-notes/backend/internal/notifier"
	"github.com/googleapis/google-cloudevents-go/cloud/firestoredata"
)

// CommentPathPattern returns the document pattern of comments nested under
// the given posts collection.
func CommentPathPattern(postsCollection string) string {
	return postsCollection + "/{postId}/comments/{commentId}"
}

// DecodeCommentCreated turns a document-creation event into a dispatcher
// event. The post and comment IDs are taken from the document path. Events
// of another type, or that carry a previous document, are rejected with
// ErrNotCreated so edits never notify twice.
func DecodeCommentCreated(ev *DocumentEvent, pattern string) (notifier.CommentCreated, error) {
	if ev == nil || ev.Data.GetValue() == nil {
		return notifier.CommentCreated{}, ErrNoDocument
	}
	if !IsCreated(ev.Type) {
		return notifier.CommentCreated{}, fmt.Errorf("%w: %s", ErrNotCreated, ev.Type)
	}
	if old := ev.Data.GetOldValue(); old.GetName() != "" || len(old.GetFields()) > 0 {
		return notifier.CommentCreated{}, fmt.Errorf("%w: %s already existed", ErrNotCreated, old.GetName())
	}
	doc := ev.Data.GetValue()

	params, err := ParseDocumentPath(doc.GetName(), pattern)
	if err != nil {
		return notifier.CommentCreated{}, err
	}
	postID, commentID := params["postId"], params["commentId"]
	if postID == "" || commentID == "" {
		return notifier.CommentCreated{}, fmt.Errorf("pattern %q must capture postId and commentId", pattern)
	}

	fields := doc.GetFields()
	createdAt := timeField(fields, "createdAt")
	if createdAt.IsZero() && doc.GetCreateTime() != nil {
		createdAt = doc.GetCreateTime().AsTime()
	}

	return notifier.CommentCreated{
		PostID:    postID,
		CommentID: commentID,
		Comment: models.Comment{
			PostID:     fields["postId"].GetStringValue(),
			PostTitle:  fields["postTitle"].GetStringValue(),
			AuthorID:   fields["authorId"].GetStringValue(),
			AuthorName: fields["authorName"].GetStringValue(),
			Content:    fields["content"].GetStringValue(),
			CreatedAt:  createdAt,
		},
	}, nil
}

func timeField(fields map[string]*firestoredata.Value, name string) time.Time {
	if ts := fields[name].GetTimestampValue(); ts != nil {
		return ts.AsTime()
	}
	return time.Time{}
}
