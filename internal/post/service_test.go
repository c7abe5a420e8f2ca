package post_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fkhayef/clubhub/internal/access"
	"github.com/fkhayef/clubhub/internal/identity"
	"github.com/fkhayef/clubhub/internal/member"
	"github.com/fkhayef/clubhub/internal/post"
	"github.com/fkhayef/clubhub/internal/store/memory"
)

type fixture struct {
	service *post.Service
	root    identity.Caller
	rui     identity.Caller
	ruiID   string
	zhou    identity.Caller
	guest   identity.Caller
}

func newFixture() *fixture {
	db := memory.New()
	root := db.AddMember(member.Member{Username: "root", FullName: "Club Admin", IsAdmin: true})
	rui := db.AddMember(member.Member{Username: "rui", FullName: "Rui Zheng"})
	zhou := db.AddMember(member.Member{Username: "zhou", FullName: "Zhou Min"})
	wxid := "wx-ann"

	return &fixture{
		service: post.NewService(db.Posts(), member.NewService(db.Members())),
		root:    identity.Caller{Identity: identity.Member{MemberID: root.ID}, IsAdmin: true},
		rui:     identity.Caller{Identity: identity.Member{MemberID: rui.ID}},
		ruiID:   rui.ID,
		zhou:    identity.Caller{Identity: identity.Member{MemberID: zhou.ID}},
		guest:   identity.Caller{Identity: identity.Guest{Wxid: wxid}, Wxid: &wxid},
	}
}

func (f *fixture) create(t *testing.T, req *post.CreatePostRequest) *post.Post {
	t.Helper()
	p, err := f.service.Create(context.Background(), f.rui, req)
	if err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return p
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello-world"},
		{"  Café  Crème ", "cafe-creme"},
		{"Meeting #42 -- recap", "meeting-42-recap"},
		{"演讲比赛", ""},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := post.Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCreate_DerivesUniqueSlugs(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p := f.create(t, &post.CreatePostRequest{Title: " Club Recap ", Content: "# Hi"})
	if p.Slug != "club-recap" || p.Title != "Club Recap" || p.AuthorID != f.ruiID {
		t.Fatalf("unexpected post: %+v", p)
	}
	if _, err := f.service.Create(ctx, f.zhou, &post.CreatePostRequest{Title: "Club recap!"}); !errors.Is(err, post.ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}

	cjk := f.create(t, &post.CreatePostRequest{Title: "演讲比赛"})
	if len(cjk.Slug) != len("post-")+8 {
		t.Fatalf("expected a generated slug, got %q", cjk.Slug)
	}

	if _, err := f.service.Create(ctx, f.rui, &post.CreatePostRequest{Title: "x", Slug: "!!"}); !errors.Is(err, post.ErrInvalidSlug) {
		t.Fatalf("expected ErrInvalidSlug, got %v", err)
	}
	if _, err := f.service.Create(ctx, f.rui, &post.CreatePostRequest{Title: "  "}); !errors.Is(err, post.ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if _, err := f.service.Create(ctx, f.guest, &post.CreatePostRequest{Title: "Hi"}); !errors.Is(err, access.ErrMembersOnly) {
		t.Fatalf("expected ErrMembersOnly, got %v", err)
	}
}

func TestPrivatePostsAreHiddenFromNonMembers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.create(t, &post.CreatePostRequest{Title: "Public", IsPublic: true})
	f.create(t, &post.CreatePostRequest{Title: "Board notes"})

	if _, err := f.service.Get(ctx, f.guest, "board-notes"); !errors.Is(err, post.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
	if _, err := f.service.Get(ctx, f.zhou, "board-notes"); err != nil {
		t.Fatalf("members read private posts, got %v", err)
	}

	posts, total, err := f.service.List(ctx, identity.AnonymousCaller(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(posts) != 1 || posts[0].Slug != "public" {
		t.Fatalf("expected only the public post, got %d: %+v", total, posts)
	}
	if _, total, _ := f.service.List(ctx, f.zhou, 1, 10); total != 2 {
		t.Fatalf("members see every post, got %d", total)
	}
}

func TestUpdateAndDelete_AuthorOrAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.create(t, &post.CreatePostRequest{Title: "Draft"})

	title := "Final"
	if _, err := f.service.Update(ctx, f.zhou, "draft", &post.UpdatePostRequest{Title: &title}); !errors.Is(err, access.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	slug := "Final Version"
	public := true
	p, err := f.service.Update(ctx, f.rui, "draft", &post.UpdatePostRequest{Title: &title, Slug: &slug, IsPublic: &public})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Title != "Final" || p.Slug != "final-version" || !p.IsPublic || p.Content != "" {
		t.Fatalf("unexpected post: %+v", p)
	}

	names, err := f.service.AuthorNames(ctx, p)
	if err != nil || names[f.ruiID] != "Rui Zheng" {
		t.Fatalf("expected the author's name, got %v, %v", names, err)
	}

	if err := f.service.Delete(ctx, f.zhou, "final-version"); !errors.Is(err, access.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := f.service.Delete(ctx, f.root, "final-version"); err != nil {
		t.Fatalf("admins may delete any post, got %v", err)
	}
	if _, err := f.service.Get(ctx, f.rui, "final-version"); !errors.Is(err, post.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}
