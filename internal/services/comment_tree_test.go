package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"redditcrawl/internal/models"
)

// flatComments 内存评论表，按 parent_id 查直接回复
type flatComments struct {
	mu      sync.Mutex
	rows    []models.Comment
	fetches int
	failOn  *uint
}

func (f *flatComments) add(id, postID uint, parent *uint, text string) uint {
	f.rows = append(f.rows, models.Comment{ID: id, PostID: postID, ParentID: parent, Text: text})
	return id
}

func (f *flatComments) FetchDirectComments(ctx context.Context, postID uint, parentID *uint) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if parentID != nil && f.failOn != nil && *parentID == *f.failOn {
		return nil, errors.New("store unavailable")
	}

	var out []models.Comment
	for _, c := range f.rows {
		if c.PostID != postID {
			continue
		}
		if parentID == nil && c.ParentID == nil {
			out = append(out, c)
		} else if parentID != nil && c.ParentID != nil && *c.ParentID == *parentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func ptr(id uint) *uint { return &id }

// newThread 帖子 1：R1(C1(G1), C2) R2(C3)
func newThread() *flatComments {
	f := &flatComments{}
	r1 := f.add(1, 1, nil, "R1")
	r2 := f.add(2, 1, nil, "R2")
	c1 := f.add(3, 1, ptr(r1), "C1")
	f.add(4, 1, ptr(r1), "C2")
	f.add(5, 1, ptr(r2), "C3")
	f.add(6, 1, ptr(c1), "G1")
	f.add(7, 2, nil, "other post")
	return f
}

func texts(nodes []models.CommentNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Text
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuildRootsOnly(t *testing.T) {
	store := newThread()
	tree, err := NewCommentTreeBuilder(store).Build(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if got := texts(tree); !equalStrings(got, []string{"R1", "R2"}) {
		t.Fatalf("Expected roots [R1 R2], got %v", got)
	}
	for _, n := range tree {
		if n.Replies == nil || len(n.Replies) != 0 {
			t.Errorf("Expected empty replies for %s, got %v", n.Text, n.Replies)
		}
	}
	if store.fetches != 1 {
		t.Errorf("Expected a single fetch for levels=1, got %d", store.fetches)
	}
}

func TestBuildTwoLevels(t *testing.T) {
	store := newThread()
	tree, err := NewCommentTreeBuilder(store).Build(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if got := texts(tree[0].Replies); !equalStrings(got, []string{"C1", "C2"}) {
		t.Errorf("Expected R1 replies [C1 C2], got %v", got)
	}
	if got := texts(tree[1].Replies); !equalStrings(got, []string{"C3"}) {
		t.Errorf("Expected R2 replies [C3], got %v", got)
	}
	// 孙评论不取
	if len(tree[0].Replies[0].Replies) != 0 {
		t.Errorf("Expected grandchildren omitted, got %v", tree[0].Replies[0].Replies)
	}
	if store.fetches != 3 {
		t.Errorf("Expected 3 fetches (roots + 2 children), got %d", store.fetches)
	}
}

func TestBuildStopsAtLeaves(t *testing.T) {
	store := newThread()
	tree, err := NewCommentTreeBuilder(store).Build(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	g := tree[0].Replies[0].Replies
	if got := texts(g); !equalStrings(got, []string{"G1"}) {
		t.Errorf("Expected grandchild G1, got %v", got)
	}
	// roots, R1, R2, C1, C2, C3, G1
	if store.fetches != 7 {
		t.Errorf("Expected 7 fetches, got %d", store.fetches)
	}
	if tree[0].TextHTML == "" {
		t.Error("Expected rendered text_html")
	}
}

func TestBuildEmptyPost(t *testing.T) {
	tree, err := NewCommentTreeBuilder(newThread()).Build(context.Background(), 99, 3)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if tree == nil || len(tree) != 0 {
		t.Errorf("Expected empty forest, got %v", tree)
	}
}

func TestBuildFailsWholeTree(t *testing.T) {
	store := newThread()
	store.failOn = ptr(3) // C1 的回复查询失败

	tree, err := NewCommentTreeBuilder(store).Build(context.Background(), 1, 3)
	if err == nil {
		t.Fatal("Expected error")
	}
	if tree != nil {
		t.Errorf("Expected no partial tree, got %v", tree)
	}
}

func TestBuildRejectsInvalidLevels(t *testing.T) {
	if _, err := NewCommentTreeBuilder(newThread()).Build(context.Background(), 1, 0); !errors.Is(err, ErrInvalidLevels) {
		t.Errorf("Expected ErrInvalidLevels, got %v", err)
	}
}
