package repositories

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/anonto42/grace-notes/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// PostRepository defines the read operations the notifier needs on posts
type PostRepository interface {
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
}

// FirestorePostRepository reads posts from a Firestore collection
type FirestorePostRepository struct {
	client     *firestore.Client
	collection string
}

// NewFirestorePostRepository creates a new FirestorePostRepository
func NewFirestorePostRepository(client *firestore.Client, collection string) *FirestorePostRepository {
	return &FirestorePostRepository{client: client, collection: collection}
}

// GetPostByID retrieves a post document by ID
func (r *FirestorePostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	snap, err := r.client.Collection(r.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}

	var post models.Post
	if err := snap.DataTo(&post); err != nil {
		return nil, fmt.Errorf("decode post %s: %w", id, err)
	}
	post.ID = snap.Ref.ID
	return &post, nil
}

// MongoPostRepository reads posts from the legacy MongoDB collection
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// GetPostByID retrieves a post by ID from MongoDB. Legacy posts are keyed by
// ObjectID; anything that is not a valid hex ObjectID is matched as a plain string.
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	var filter bson.M
	if objID, err := primitive.ObjectIDFromHex(id); err == nil {
		filter = bson.M{"_id": objID}
	} else {
		filter = bson.M{"_id": id}
	}

	var post models.Post
	if err := r.collection.FindOne(ctx, filter).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find post %s: %w", id, err)
	}
	post.ID = id
	return &post, nil
}
