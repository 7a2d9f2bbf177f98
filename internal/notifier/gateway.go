package notifier

import (
	"context"

	"firebase.google.com/go/v4/messaging"
	"github.com/anonto42/grace-notes/backend/internal/models"
	"github.com/anonto42/grace-notes/backend/internal/repositories"
)

// Gateway is everything the dispatcher needs from the outside world: two
// lookups and one send. GetPost and GetUser return repositories.ErrNotFound
// when the document is absent.
type Gateway interface {
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	SendPush(ctx context.Context, msg *messaging.Message) (string, error)
}

// Sender delivers a push message. *messaging.Client satisfies it.
type Sender interface {
	Send(ctx context.Context, msg *messaging.Message) (string, error)
}

// SenderFunc adapts a function to Sender, e.g. SenderFunc(client.SendDryRun).
type SenderFunc func(ctx context.Context, msg *messaging.Message) (string, error)

// Send calls f(ctx, msg).
func (f SenderFunc) Send(ctx context.Context, msg *messaging.Message) (string, error) {
	return f(ctx, msg)
}

type platformGateway struct {
	posts  repositories.PostRepository
	users  repositories.UserRepository
	sender Sender
}

// NewGateway composes the post and user repositories with a push sender.
func NewGateway(posts repositories.PostRepository, users repositories.UserRepository, sender Sender) Gateway {
	return &platformGateway{posts: posts, users: users, sender: sender}
}

func (g *platformGateway) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	return g.posts.GetPostByID(ctx, postID)
}

func (g *platformGateway) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return g.users.GetUserByID(ctx, userID)
}

func (g *platformGateway) SendPush(ctx context.Context, msg *messaging.Message) (string, error) {
	return g.sender.Send(ctx, msg)
}
