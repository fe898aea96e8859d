package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"redditcrawl/internal/models"
	"redditcrawl/internal/storage"
)

// fakeStore 内存版 Gateway，记录每个名称的创建次数
type fakeStore struct {
	storage.Gateway

	mu          sync.Mutex
	nextID      uint
	users       map[string]uint
	subreddits  map[string]uint
	posts       []models.Post
	userCreates map[string]int
	subCreates  map[string]int
	lookups     int

	delay     time.Duration
	inFlight  atomic.Int32
	peak      atomic.Int32
	failTitle string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[string]uint),
		subreddits:  make(map[string]uint),
		userCreates: make(map[string]int),
		subCreates:  make(map[string]int),
	}
}

func (s *fakeStore) enter() func() {
	n := s.inFlight.Add(1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return func() { s.inFlight.Add(-1) }
}

func (s *fakeStore) CreateUser(ctx context.Context, username, password string) (uint, error) {
	defer s.enter()()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userCreates[username]++
	if _, ok := s.users[username]; ok {
		return 0, storage.ErrDuplicateUsername
	}
	s.nextID++
	s.users[username] = s.nextID
	return s.nextID, nil
}

func (s *fakeStore) UserIDByName(ctx context.Context, username string) (uint, error) {
	defer s.enter()()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	id, ok := s.users[username]
	if !ok {
		return 0, storage.ErrNotFound
	}
	return id, nil
}

func (s *fakeStore) CreateSubreddit(ctx context.Context, name, description string) (uint, error) {
	defer s.enter()()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subCreates[name]++
	if _, ok := s.subreddits[name]; ok {
		return 0, storage.ErrDuplicateSubreddit
	}
	s.nextID++
	s.subreddits[name] = s.nextID
	return s.nextID, nil
}

func (s *fakeStore) SubredditIDByName(ctx context.Context, name string) (uint, error) {
	defer s.enter()()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	id, ok := s.subreddits[name]
	if !ok {
		return 0, storage.ErrNotFound
	}
	return id, nil
}

func (s *fakeStore) CreatePost(ctx context.Context, subredditID, userID uint, title, url string) (uint, error) {
	defer s.enter()()
	s.mu.Lock()
	defer s.mu.Unlock()
	if title == s.failTitle {
		return 0, storage.ErrMissingSubreddit
	}
	s.nextID++
	s.posts = append(s.posts, models.Post{ID: s.nextID, SubredditID: subredditID, UserID: userID, Title: title, URL: url})
	return s.nextID, nil
}

func (s *fakeStore) postCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}
