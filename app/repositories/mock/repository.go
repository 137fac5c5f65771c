package mock

import (
	"context"
	"sort"
	"strings"
	"sync"

	"postboard/app/models"
	"postboard/app/repositories"
)

// Store is an in-memory repositories.Store for tests. Setting Err makes
// every call fail with it.
type Store struct {
	Err error

	mutex    sync.RWMutex
	posts    map[int64]*models.Post
	comments map[int64]*models.Comment
	users    map[int64]*models.User
	likes    map[int64]map[int64]bool
	nextID   map[string]int64
}

type PostRepository struct{ s *Store }
type CommentRepository struct{ s *Store }
type LikeRepository struct{ s *Store }
type UserRepository struct{ s *Store }

func NewStore() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.posts = make(map[int64]*models.Post)
	s.comments = make(map[int64]*models.Comment)
	s.users = make(map[int64]*models.User)
	s.likes = make(map[int64]map[int64]bool)
	s.nextID = make(map[string]int64)
}

func (s *Store) next(kind string) int64 {
	s.nextID[kind]++
	return s.nextID[kind]
}

func (s *Store) Posts() repositories.PostRepository       { return &PostRepository{s} }
func (s *Store) Comments() repositories.CommentRepository { return &CommentRepository{s} }
func (s *Store) Likes() repositories.LikeRepository       { return &LikeRepository{s} }
func (s *Store) Users() repositories.UserRepository       { return &UserRepository{s} }

func (s *Store) Clear(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.reset()
	return s.Err
}

func (s *Store) Close() error { return nil }

func (s *Store) author(id int64) models.User {
	if u, ok := s.users[id]; ok {
		return *u
	}
	return models.User{ID: id}
}

func (s *Store) view(p *models.Post, viewerID int64) *models.PostView {
	v := &models.PostView{
		Post:       *p,
		Author:     s.author(p.AuthorID),
		TotalLikes: len(s.likes[p.ID]),
		IsLiked:    viewerID > 0 && s.likes[p.ID][viewerID],
	}
	for _, c := range s.comments {
		if c.PostID == p.ID {
			v.TotalComments++
		}
	}
	return v
}

func (s *Store) matching(search string) []*models.Post {
	needle := strings.ToLower(search)
	var posts []*models.Post
	for _, p := range s.posts {
		if needle == "" ||
			strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Content), needle) {
			posts = append(posts, p)
		}
	}
	return posts
}

func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// PostRepository implementation
func (m *PostRepository) Create(ctx context.Context, post *models.Post) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()
	if m.s.Err != nil {
		return m.s.Err
	}

	post.ID = m.s.next("post")
	stored := *post
	m.s.posts[post.ID] = &stored
	return nil
}

func (m *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	if m.s.Err != nil {
		return nil, m.s.Err
	}

	post, exists := m.s.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *post
	return &cp, nil
}

func (m *PostRepository) View(ctx context.Context, id, viewerID int64) (*models.PostView, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	if m.s.Err != nil {
		return nil, m.s.Err
	}

	post, exists := m.s.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return m.s.view(post, viewerID), nil
}

func (m *PostRepository) Count(ctx context.Context, search string) (int, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	if m.s.Err != nil {
		return 0, m.s.Err
	}
	return len(m.s.matching(search)), nil
}

func (m *PostRepository) List(ctx context.Context, q repositories.PostQuery) ([]*models.PostView, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	if m.s.Err != nil {
		return nil, m.s.Err
	}

	posts := m.s.matching(q.Search)
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	views := []*models.PostView{}
	for _, p := range window(posts, q.Limit, q.Offset) {
		views = append(views, m.s.view(p, q.ViewerID))
	}
	return views, nil
}

func (m *PostRepository) Update(ctx context.Context, post *models.Post) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()
	if m.s.Err != nil {
		return m.s.Err
	}

	if _, exists := m.s.posts[post.ID]; !exists {
		return repositories.ErrNotFound
	}
	stored := *post
	m.s.posts[post.ID] = &stored
	return nil
}

func (m *PostRepository) Delete(ctx context.Context, id int64) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()
	if m.s.Err != nil {
		return m.s.Err
	}

	if _, exists := m.s.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.s.posts, id)
	delete(m.s.likes, id)
	for cid, c := range m.s.comments {
		if c.PostID == id {
			delete(m.s.comments, cid)
		}
	}
	return nil
}

// CommentRepository implementation
func (m *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()
	if m.s.Err != nil {
		return m.s.Err
	}

	if _, exists := m.s.posts[comment.PostID]; !exists {
		return repositories.ErrNotFound
	}
	comment.ID = m.s.next("comment")
	stored := *comment
	m.s.comments[comment.ID] = &stored
	return nil
}

func (m *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	if m.s.Err != nil {
		return nil, m.s.Err
	}

	comment, exists := m.s.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *comment
	return &cp, nil
}

func (m *CommentRepository) View(ctx context.Context, id int64) (*models.CommentView, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	if m.s.Err != nil {
		return nil, m.s.Err
	}

	comment, exists := m.s.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return &models.CommentView{Comment: *comment, Author: m.s.author(comment.AuthorID)}, nil
}

func (m *CommentRepository) CountByPost(ctx context.Context, postID int64) (int, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	if m.s.Err != nil {
		return 0, m.s.Err
	}

	count := 0
	for _, c := range m.s.comments {
		if c.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (m *CommentRepository) ListByPost(ctx context.Context, postID int64, limit, offset int) ([]*models.CommentView, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	if m.s.Err != nil {
		return nil, m.s.Err
	}

	var comments []*models.Comment
	for _, comment := range m.s.comments {
		if comment.PostID == postID {
			comments = append(comments, comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID < comments[j].ID
	})
	views := []*models.CommentView{}
	for _, c := range window(comments, limit, offset) {
		views = append(views, &models.CommentView{Comment: *c, Author: m.s.author(c.AuthorID)})
	}
	return views, nil
}

func (m *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()
	if m.s.Err != nil {
		return m.s.Err
	}

	if _, exists := m.s.comments[comment.ID]; !exists {
		return repositories.ErrNotFound
	}
	stored := *comment
	m.s.comments[comment.ID] = &stored
	return nil
}

func (m *CommentRepository) Delete(ctx context.Context, id int64) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()
	if m.s.Err != nil {
		return m.s.Err
	}

	if _, exists := m.s.comments[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.s.comments, id)
	return nil
}

// LikeRepository implementation
func (m *LikeRepository) Toggle(ctx context.Context, postID, userID int64) (bool, int, error) {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()
	if m.s.Err != nil {
		return false, 0, m.s.Err
	}

	if _, exists := m.s.posts[postID]; !exists {
		return false, 0, repositories.ErrNotFound
	}
	likers := m.s.likes[postID]
	if likers == nil {
		likers = make(map[int64]bool)
		m.s.likes[postID] = likers
	}
	if likers[userID] {
		delete(likers, userID)
		return false, len(likers), nil
	}
	likers[userID] = true
	return true, len(likers), nil
}

func (m *LikeRepository) Count(ctx context.Context, postID int64) (int, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	if m.s.Err != nil {
		return 0, m.s.Err
	}
	return len(m.s.likes[postID]), nil
}

func (m *LikeRepository) IsLiked(ctx context.Context, postID, userID int64) (bool, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	if m.s.Err != nil {
		return false, m.s.Err
	}
	return m.s.likes[postID][userID], nil
}

// UserRepository implementation
func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()
	if m.s.Err != nil {
		return m.s.Err
	}

	for _, u := range m.s.users {
		if u.Username == user.Username {
			return repositories.ErrDuplicate
		}
	}
	user.ID = m.s.next("user")
	stored := *user
	m.s.users[user.ID] = &stored
	return nil
}

func (m *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	if m.s.Err != nil {
		return nil, m.s.Err
	}

	user, exists := m.s.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (m *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	if m.s.Err != nil {
		return nil, m.s.Err
	}

	for _, u := range m.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}
