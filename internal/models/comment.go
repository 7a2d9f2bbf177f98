package models

import "time"

// Comment represents a comment document nested under a post
// (community_posts/{postId}/comments/{commentId}).
type Comment struct {
	PostID     string    `json:"postId" firestore:"postId"`
	PostTitle  string    `json:"postTitle" firestore:"postTitle"`
	AuthorID   string    `json:"authorId" firestore:"authorId"`
	AuthorName string    `json:"authorName" firestore:"authorName"`
	Content    string    `json:"content" firestore:"content"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt"`
}
