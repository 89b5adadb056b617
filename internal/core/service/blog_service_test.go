package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/g6blog/blog-api/internal/core/domain"
	"github.com/g6blog/blog-api/internal/core/ports"
)

type blogFixture struct {
	svc   *BlogService
	repo  *stubBlogRepo
	users *stubUserRepo
	idem  *stubIdempotencyStore
	views *stubViewRecorder
}

func newBlogFixture() *blogFixture {
	f := &blogFixture{
		repo:  newStubBlogRepo(),
		users: newStubUserRepo(),
		idem:  newStubIdempotencyStore(),
		views: &stubViewRecorder{},
	}
	f.users.add("owner", "olivia", domain.RoleUser)
	f.users.add("other", "oscar", domain.RoleUser)
	f.users.add("admin", "ada", domain.RoleAdmin)
	f.svc = NewBlogService(f.repo, f.users, f.idem, f.views, discardLogger)
	return f
}

var (
	ownerActor = domain.Principal{SubjectID: "owner", Role: domain.RoleUser}
	otherActor = domain.Principal{SubjectID: "other", Role: domain.RoleUser}
	adminActor = domain.Principal{SubjectID: "admin", Role: domain.RoleAdmin}
)

func (f *blogFixture) create(t *testing.T, actor domain.Principal, title string) *domain.Blog {
	t.Helper()
	res, err := f.svc.CreateBlog(context.Background(), actor, ports.CreateBlogInput{Title: title, Content: "body of " + title})
	if err != nil {
		t.Fatalf("create blog: %v", err)
	}
	return res.Blog
}

// ---------------------------------------------------------------------------
// CreateBlog
// ---------------------------------------------------------------------------

func TestBlogService_Create_Success(t *testing.T) {
	f := newBlogFixture()

	res, err := f.svc.CreateBlog(context.Background(), ownerActor, ports.CreateBlogInput{
		Title:   "  Hello  ",
		Content: "World",
		Tags:    []string{"Go", " go ", "", "mongo"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b := res.Blog
	if b.ID == "" || b.AuthorID != "owner" || b.Author != "olivia" {
		t.Fatalf("unexpected blog: %+v", b)
	}
	if b.Title != "Hello" {
		t.Errorf("expected trimmed title, got %q", b.Title)
	}
	if len(b.Tags) != 2 || b.Tags[0] != "go" || b.Tags[1] != "mongo" {
		t.Errorf("expected normalized tags, got %v", b.Tags)
	}
	if b.Likes != 0 || b.Views != 0 || b.CreatedAt.IsZero() {
		t.Errorf("unexpected counters/timestamps: %+v", b)
	}
	if res.AlreadyExisted {
		t.Error("expected AlreadyExisted=false for new blog")
	}
}

func TestBlogService_Create_Validation(t *testing.T) {
	f := newBlogFixture()

	_, err := f.svc.CreateBlog(context.Background(), ownerActor, ports.CreateBlogInput{Title: " ", Content: "x"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestBlogService_Create_AuthorLookupFailureIsNotFatal(t *testing.T) {
	f := newBlogFixture()

	res, err := f.svc.CreateBlog(context.Background(), domain.Principal{SubjectID: "ghost", Role: domain.RoleUser},
		ports.CreateBlogInput{Title: "t", Content: "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Blog.Author != "" || res.Blog.AuthorID != "ghost" {
		t.Fatalf("unexpected blog: %+v", res.Blog)
	}
}

func TestBlogService_Create_StoreFailure(t *testing.T) {
	f := newBlogFixture()
	f.repo.createErr = errors.New("write timeout")

	_, err := f.svc.CreateBlog(context.Background(), ownerActor, ports.CreateBlogInput{Title: "t", Content: "c", IdempotencyKey: "k1"})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if len(f.idem.released) != 1 {
		t.Fatalf("expected the idempotency claim to be released")
	}
}

func TestBlogService_Create_IdempotentReplay(t *testing.T) {
	f := newBlogFixture()
	in := ports.CreateBlogInput{Title: "t", Content: "c", IdempotencyKey: "key-1"}

	first, err := f.svc.CreateBlog(context.Background(), ownerActor, in)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := f.svc.CreateBlog(context.Background(), ownerActor, in)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}

	if !second.AlreadyExisted || second.Blog.ID != first.Blog.ID {
		t.Fatalf("expected replay of %s, got %+v", first.Blog.ID, second)
	}
	if len(f.repo.byID) != 1 {
		t.Fatalf("expected exactly one stored blog, got %d", len(f.repo.byID))
	}
}

func TestBlogService_Create_IdempotencyKeyScopedPerActor(t *testing.T) {
	f := newBlogFixture()
	in := ports.CreateBlogInput{Title: "t", Content: "c", IdempotencyKey: "key-1"}

	first, _ := f.svc.CreateBlog(context.Background(), ownerActor, in)
	second, err := f.svc.CreateBlog(context.Background(), otherActor, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.AlreadyExisted || second.Blog.ID == first.Blog.ID {
		t.Fatalf("another actor must not replay someone else's key")
	}
}

func TestBlogService_Create_InFlightKey(t *testing.T) {
	f := newBlogFixture()
	f.idem.keys["owner:key-1"] = ""

	_, err := f.svc.CreateBlog(context.Background(), ownerActor, ports.CreateBlogInput{Title: "t", Content: "c", IdempotencyKey: "key-1"})
	if !errors.Is(err, domain.ErrRequestInProgress) {
		t.Fatalf("expected ErrRequestInProgress, got %v", err)
	}
}

func TestBlogService_Create_IdempotencyStoreDownStillCreates(t *testing.T) {
	f := newBlogFixture()
	f.idem.claimErr = errors.New("redis down")

	res, err := f.svc.CreateBlog(context.Background(), ownerActor, ports.CreateBlogInput{Title: "t", Content: "c", IdempotencyKey: "key-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Blog.ID == "" {
		t.Fatalf("expected blog to be created")
	}
}

// ---------------------------------------------------------------------------
// GetBlog / ListBlogs / LikeBlog
// ---------------------------------------------------------------------------

func TestBlogService_Get_RecordsView(t *testing.T) {
	f := newBlogFixture()
	b := f.create(t, ownerActor, "t")

	got, err := f.svc.GetBlog(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != b.ID {
		t.Fatalf("wrong blog returned")
	}
	if len(f.views.views) != 1 || f.views.views[0] != b.ID {
		t.Fatalf("expected one recorded view, got %v", f.views.views)
	}
}

func TestBlogService_Get_NotFound(t *testing.T) {
	f := newBlogFixture()

	_, err := f.svc.GetBlog(context.Background(), "missing")
	if !errors.Is(err, domain.ErrBlogNotFound) {
		t.Fatalf("expected ErrBlogNotFound, got %v", err)
	}
	if len(f.views.views) != 0 {
		t.Fatalf("no view must be recorded for a missing blog")
	}
}

func TestBlogService_List_Pagination(t *testing.T) {
	f := newBlogFixture()
	for i := 0; i < 5; i++ {
		f.create(t, ownerActor, "post")
	}

	res, err := f.svc.ListBlogs(context.Background(), ports.ListBlogsInput{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 5 || res.TotalPages != 3 || res.Page != 2 || res.Limit != 2 {
		t.Fatalf("unexpected pagination: %+v", res)
	}
	if len(res.Items) != 2 || res.Items[0].ID != "blog-3" {
		t.Fatalf("unexpected page contents: %+v", res.Items)
	}
}

func TestBlogService_List_Defaults(t *testing.T) {
	f := newBlogFixture()

	res, err := f.svc.ListBlogs(context.Background(), ports.ListBlogsInput{Page: -1, Limit: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Page != 1 || res.Limit != defaultPageSize {
		t.Fatalf("expected defaults, got page=%d limit=%d", res.Page, res.Limit)
	}
	if res.Items == nil || res.TotalPages != 0 {
		t.Fatalf("expected empty non-nil page, got %+v", res)
	}

	res, _ = f.svc.ListBlogs(context.Background(), ports.ListBlogsInput{Limit: 1000})
	if res.Limit != maxPageSize {
		t.Fatalf("expected limit capped at %d, got %d", maxPageSize, res.Limit)
	}
}

func TestBlogService_List_RejectsPageBeyondLimit(t *testing.T) {
	f := newBlogFixture()

	_, err := f.svc.ListBlogs(context.Background(), ports.ListBlogsInput{Page: math.MaxInt, Limit: maxPageSize})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if f.repo.lastList != (ports.ListBlogsFilter{}) {
		t.Fatalf("repository must not be queried, got %+v", f.repo.lastList)
	}

	if _, err := f.svc.ListBlogs(context.Background(), ports.ListBlogsInput{Page: maxPage}); err != nil {
		t.Fatalf("page %d must be accepted: %v", maxPage, err)
	}
}

func TestBlogService_List_Filters(t *testing.T) {
	f := newBlogFixture()
	f.create(t, ownerActor, "golang tips")
	f.create(t, otherActor, "mongo tips")

	res, _ := f.svc.ListBlogs(context.Background(), ports.ListBlogsInput{AuthorID: "other", Search: " tips ", Tag: " GO "})
	if f.repo.lastList.AuthorID != "other" || f.repo.lastList.Search != "tips" || f.repo.lastList.Tag != "go" {
		t.Fatalf("filter not forwarded: %+v", f.repo.lastList)
	}
	if res.Total != 0 {
		t.Fatalf("expected no match for tag filter, got %d", res.Total)
	}

	res, _ = f.svc.ListBlogs(context.Background(), ports.ListBlogsInput{Search: "golang"})
	if res.Total != 1 || res.Items[0].AuthorID != "owner" {
		t.Fatalf("unexpected search result: %+v", res.Items)
	}
}

func TestBlogService_Like_IsUnconditional(t *testing.T) {
	f := newBlogFixture()
	b := f.create(t, ownerActor, "t")

	for i := 0; i < 3; i++ {
		if err := f.svc.LikeBlog(context.Background(), b.ID); err != nil {
			t.Fatalf("like: %v", err)
		}
	}

	stored := f.repo.byID[b.ID]
	if stored.Likes != 3 {
		t.Fatalf("expected 3 likes, got %d", stored.Likes)
	}
}

func TestBlogService_Like_NotFound(t *testing.T) {
	f := newBlogFixture()

	if err := f.svc.LikeBlog(context.Background(), "missing"); !errors.Is(err, domain.ErrBlogNotFound) {
		t.Fatalf("expected ErrBlogNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Mutation guard
// ---------------------------------------------------------------------------

func TestBlogService_Update_Owner(t *testing.T) {
	f := newBlogFixture()
	b := f.create(t, ownerActor, "old")

	updated, err := f.svc.UpdateBlog(context.Background(), ownerActor, b.ID, ports.UpdateBlogInput{Title: "new"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "new" || updated.Content != b.Content {
		t.Fatalf("expected partial update, got %+v", updated)
	}
}

func TestBlogService_Update_EmptyInputReturnsCurrent(t *testing.T) {
	f := newBlogFixture()
	b := f.create(t, ownerActor, "old")

	got, err := f.svc.UpdateBlog(context.Background(), ownerActor, b.ID, ports.UpdateBlogInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "old" {
		t.Fatalf("expected unchanged blog, got %+v", got)
	}
}

func TestBlogService_Update_BlankContentIsIgnored(t *testing.T) {
	f := newBlogFixture()
	b := f.create(t, ownerActor, "old")

	got, err := f.svc.UpdateBlog(context.Background(), ownerActor, b.ID, ports.UpdateBlogInput{Content: "  \n\t "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Content != b.Content || f.repo.byID[b.ID].Content != b.Content {
		t.Fatalf("blank content must not overwrite the post, got %q", got.Content)
	}
}

func TestBlogService_Update_Admin(t *testing.T) {
	f := newBlogFixture()
	b := f.create(t, ownerActor, "old")

	if _, err := f.svc.UpdateBlog(context.Background(), adminActor, b.ID, ports.UpdateBlogInput{Content: "moderated"}); err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
}

func TestBlogService_Update_Forbidden(t *testing.T) {
	f := newBlogFixture()
	b := f.create(t, ownerActor, "old")

	_, err := f.svc.UpdateBlog(context.Background(), otherActor, b.ID, ports.UpdateBlogInput{Title: "hijack"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if f.repo.byID[b.ID].Title != "old" {
		t.Fatalf("forbidden update must not reach the store")
	}
}

func TestBlogService_Update_NotFound(t *testing.T) {
	f := newBlogFixture()

	_, err := f.svc.UpdateBlog(context.Background(), adminActor, "missing", ports.UpdateBlogInput{Title: "x"})
	if !errors.Is(err, domain.ErrBlogNotFound) {
		t.Fatalf("expected ErrBlogNotFound, got %v", err)
	}
}

func TestBlogService_Delete(t *testing.T) {
	tests := []struct {
		name    string
		actor   domain.Principal
		wantErr error
	}{
		{name: "owner", actor: ownerActor},
		{name: "admin", actor: adminActor},
		{name: "other user", actor: otherActor, wantErr: domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBlogFixture()
			b := f.create(t, ownerActor, "t")

			err := f.svc.DeleteBlog(context.Background(), tt.actor, b.ID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			_, stillThere := f.repo.byID[b.ID]
			if (tt.wantErr == nil) == stillThere {
				t.Fatalf("unexpected store state: stillThere=%v", stillThere)
			}
		})
	}
}

func TestBlogService_Delete_NotFoundIsDistinctFromForbidden(t *testing.T) {
	f := newBlogFixture()

	err := f.svc.DeleteBlog(context.Background(), otherActor, "missing")
	if !errors.Is(err, domain.ErrBlogNotFound) || errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrBlogNotFound only, got %v", err)
	}
}

func TestAuthorizeMutation(t *testing.T) {
	if err := AuthorizeMutation(ownerActor, "owner"); err != nil {
		t.Fatalf("owner must be allowed: %v", err)
	}
	if err := AuthorizeMutation(adminActor, "owner"); err != nil {
		t.Fatalf("admin must be allowed: %v", err)
	}
	if err := AuthorizeMutation(otherActor, "owner"); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
