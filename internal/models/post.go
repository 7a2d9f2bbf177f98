package models

// PostType is the category a community post is filed under.
type PostType string

const (
	PostTypeGeneral   PostType = "general"
	PostTypeQuestion  PostType = "question"
	PostTypeTestimony PostType = "testimony"
	PostTypePrayer    PostType = "prayer"
)

// Valid reports whether t is one of the known post categories.
func (t PostType) Valid() bool {
	switch t {
	case PostTypeGeneral, PostTypeQuestion, PostTypeTestimony, PostTypePrayer:
		return true
	}
	return false
}

// Post represents a community post. Posts live in the `community_posts` collection
// (or the legacy MongoDB `posts` collection) and are only ever read by this service.
type Post struct {
	ID       string   `json:"id" firestore:"-" bson:"-"`
	Title    string   `json:"title" firestore:"title" bson:"title"`
	AuthorID string   `json:"authorId" firestore:"authorId" bson:"authorId"`
	Type     PostType `json:"type" firestore:"type" bson:"type"`
}
