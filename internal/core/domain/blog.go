package domain

import "time"

// Blog is a single post. AuthorID is the owner used by CanMutate.
type Blog struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author_id"`
	Author    string    `json:"author,omitempty"`
	Tags      []string  `json:"tags"`
	Views     int64     `json:"views"`
	Likes     int64     `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Counter fields that can be incremented atomically on a blog.
const (
	FieldViews = "views"
	FieldLikes = "likes"
)

// CanMutate reports whether an actor may update or delete a resource owned by ownerID.
// Owners may always mutate their own resources; admins may mutate anything.
func CanMutate(actorID string, actorRole Role, ownerID string) bool {
	return actorID == ownerID || actorRole == RoleAdmin
}
