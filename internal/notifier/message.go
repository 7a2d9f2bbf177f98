package notifier

import (
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"github.com/anonto42/grace-notes/backend/internal/models"
)

const (
	// NotificationTypeComment is the data.type tag the app routes on.
	NotificationTypeComment = "comment"

	commentTitle      = "새 댓글"
	commentBodyFormat = "%s님이 \"%s\"에 댓글을 남겼습니다"
	androidIcon       = "@mipmap/ic_launcher"
	androidColor      = "#9B7EBD"
	androidChannelID  = "comments"
	apnsSound         = "default"
	apnsBadge         = 1
)

// BuildCommentMessage builds the push sent to a post author when someone
// comments on their post.
func BuildCommentMessage(token, postID, commentID string, post *models.Post, comment models.Comment) *messaging.Message {
	badge := apnsBadge
	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: commentTitle,
			Body:  fmt.Sprintf(commentBodyFormat, comment.AuthorName, post.Title),
		},
		Data: map[string]string{
			"postId":    postID,
			"commentId": commentID,
			"type":      NotificationTypeComment,
		},
		Android: &messaging.AndroidConfig{
			Notification: &messaging.AndroidNotification{
				Icon:      androidIcon,
				Color:     androidColor,
				ChannelID: androidChannelID,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Badge: &badge,
					Sound: apnsSound,
				},
			},
		},
	}
}
