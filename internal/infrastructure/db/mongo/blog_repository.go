package mongo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/g6blog/blog-api/internal/core/domain"
	"github.com/g6blog/blog-api/internal/core/ports"
)

const collectionBlogs = "blogs"

type BlogRepository struct {
	col *mongo.Collection
}

func NewBlogRepository(db *mongo.Database) *BlogRepository {
	return &BlogRepository{col: db.Collection(collectionBlogs)}
}

type mongoBlog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	AuthorID  string             `bson:"author_id"`
	Author    string             `bson:"author,omitempty"`
	Tags      []string           `bson:"tags"`
	Views     int64              `bson:"views"`
	Likes     int64              `bson:"likes"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at,omitempty"`
}

func (mb *mongoBlog) toDomain() *domain.Blog {
	b := &domain.Blog{
		ID:        mb.ID.Hex(),
		Title:     mb.Title,
		Content:   mb.Content,
		AuthorID:  mb.AuthorID,
		Author:    mb.Author,
		Tags:      mb.Tags,
		Views:     mb.Views,
		Likes:     mb.Likes,
		CreatedAt: mb.CreatedAt.UTC(),
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if !mb.UpdatedAt.IsZero() {
		b.UpdatedAt = mb.UpdatedAt.UTC()
	}
	return b
}

// Create inserts a new blog document with zeroed counters.
func (r *BlogRepository) Create(ctx context.Context, b *domain.Blog) (*domain.Blog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	doc := mongoBlog{
		ID:        primitive.NewObjectID(),
		Title:     b.Title,
		Content:   b.Content,
		AuthorID:  b.AuthorID,
		Author:    b.Author,
		Tags:      tags,
		CreatedAt: b.CreatedAt,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert blog: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *BlogRepository) FindByID(ctx context.Context, id string) (*domain.Blog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBlogNotFound
	}

	var mb mongoBlog
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mb); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBlogNotFound
		}
		return nil, fmt.Errorf("find blog: %w", err)
	}
	return mb.toDomain(), nil
}

// Update sets the provided fields and returns the document as it is after the write.
func (r *BlogRepository) Update(ctx context.Context, id string, f ports.BlogFields) (*domain.Blog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBlogNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if f.Title != nil {
		set["title"] = *f.Title
	}
	if f.Content != nil {
		set["content"] = *f.Content
	}
	if f.Tags != nil {
		set["tags"] = f.Tags
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mb mongoBlog
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&mb); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBlogNotFound
		}
		return nil, fmt.Errorf("update blog: %w", err)
	}
	return mb.toDomain(), nil
}

func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrBlogNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBlogNotFound
	}
	return nil
}

// List returns one page of blogs, newest first, together with the total
// number of documents matching the filter.
func (r *BlogRepository) List(ctx context.Context, f ports.ListBlogsFilter) ([]*domain.Blog, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := listFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count blogs: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(listSkip(f)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find blogs: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoBlog
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode blogs: %w", err)
	}

	blogs := make([]*domain.Blog, 0, len(docs))
	for i := range docs {
		blogs = append(blogs, docs[i].toDomain())
	}
	return blogs, total, nil
}

// listSkip saturates at math.MaxInt64 instead of wrapping, so an oversized
// page yields an empty result rather than a negative skip.
func listSkip(f ports.ListBlogsFilter) int64 {
	if f.Page < 1 || f.Limit < 1 {
		return 0
	}
	pages, limit := int64(f.Page-1), int64(f.Limit)
	if pages > math.MaxInt64/limit {
		return math.MaxInt64
	}
	return pages * limit
}

func listFilter(f ports.ListBlogsFilter) bson.M {
	filter := bson.M{}
	if f.Search != "" {
		filter["$text"] = bson.M{"$search": f.Search}
	}
	if f.AuthorID != "" {
		filter["author_id"] = f.AuthorID
	}
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}
	return filter
}

// IncrementField atomically adds delta to one of the blog counters.
func (r *BlogRepository) IncrementField(ctx context.Context, id, field string, delta int64) error {
	if field != domain.FieldViews && field != domain.FieldLikes {
		return fmt.Errorf("increment %q: %w", field, domain.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrBlogNotFound
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return fmt.Errorf("increment %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBlogNotFound
	}
	return nil
}

// EnsureIndexes creates the text index used by search plus the author, tag
// and recency indexes used by listing.
func (r *BlogRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title", Value: "text"}, {Key: "content", Value: "text"}},
			Options: options.Index().SetName("blog_text"),
		},
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
