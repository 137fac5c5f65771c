package services

import (
	"context"
	"fmt"
	"strings"

	"postboard/app/models"
	"postboard/app/pagination"
	"postboard/app/repositories"
)

// DefaultSearchLimit caps SearchPosts when no limit is configured.
const DefaultSearchLimit = 10

// PostService handles business logic for blog posts
type PostService struct {
	store       repositories.Store
	searchLimit int
}

// PostPage is one page of the post listing.
type PostPage struct {
	Posts  []*models.PostView
	Search string
	Page   pagination.Page
}

// PostDetail is a post with its whole comment thread.
type PostDetail struct {
	Post     *models.PostView
	Comments []*models.CommentView
}

// NewPostService creates a new PostService
func NewPostService(store repositories.Store, searchLimit int) *PostService {
	if searchLimit < 1 {
		searchLimit = DefaultSearchLimit
	}
	return &PostService{
		store:       store,
		searchLimit: searchLimit,
	}
}

// ListPosts returns one page of posts, newest first, filtered by search when it
// is non-empty. Unlike SearchPosts the query is used as given, spaces included.
func (s *PostService) ListPosts(ctx context.Context, viewer *models.User, search string, page, pageSize int) (*PostPage, error) {
	total, err := s.store.Posts().Count(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}
	pg := pagination.New(total, pageSize).Page(page)

	posts, err := s.store.Posts().List(ctx, repositories.PostQuery{
		Search:   search,
		ViewerID: viewerID(viewer),
		Limit:    pg.Limit(),
		Offset:   pg.Offset(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return &PostPage{Posts: posts, Search: search, Page: pg}, nil
}

// SearchPosts returns at most searchLimit matching posts, newest first. A blank query matches nothing.
func (s *PostService) SearchPosts(ctx context.Context, viewer *models.User, query string) ([]*models.PostView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*models.PostView{}, nil
	}

	posts, err := s.store.Posts().List(ctx, repositories.PostQuery{
		Search:   query,
		ViewerID: viewerID(viewer),
		Limit:    s.searchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}
	return posts, nil
}

// GetPost retrieves a post by ID with its comments
func (s *PostService) GetPost(ctx context.Context, viewer *models.User, id int64) (*PostDetail, error) {
	post, err := s.store.Posts().View(ctx, id, viewerID(viewer))
	if err != nil {
		return nil, translate(err)
	}

	comments, err := s.store.Comments().ListByPost(ctx, id, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}

	return &PostDetail{Post: post, Comments: comments}, nil
}

// CreatePost creates a new blog post authored by viewer
func (s *PostService) CreatePost(ctx context.Context, viewer *models.User, in models.PostInput) (*models.PostView, error) {
	if viewer == nil {
		return nil, ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}

	post := &models.Post{
		Title:    in.Title,
		Content:  in.Content,
		AuthorID: viewer.ID,
	}
	post.BeforeCreate()
	if err := post.Validate(); err != nil {
		return nil, invalid(err)
	}

	if err := s.store.Posts().Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return s.view(ctx, post.ID, viewer)
}

// UpdatePost replaces the title and content of a post owned by viewer
func (s *PostService) UpdatePost(ctx context.Context, viewer *models.User, id int64, in models.PostInput) (*models.PostView, error) {
	post, err := s.owned(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}

	post.Apply(in)
	if err := s.store.Posts().Update(ctx, post); err != nil {
		return nil, translate(err)
	}
	return s.view(ctx, post.ID, viewer)
}

// DeletePost deletes a post owned by viewer together with its comments and likes
func (s *PostService) DeletePost(ctx context.Context, viewer *models.User, id int64) error {
	if _, err := s.owned(ctx, viewer, id); err != nil {
		return err
	}
	return translate(s.store.Posts().Delete(ctx, id))
}

// owned loads a post and checks that viewer wrote it.
func (s *PostService) owned(ctx context.Context, viewer *models.User, id int64) (*models.Post, error) {
	if viewer == nil {
		return nil, ErrUnauthorized
	}
	post, err := s.store.Posts().GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if !post.IsAuthoredBy(viewer) {
		return nil, ErrForbidden
	}
	return post, nil
}

func (s *PostService) view(ctx context.Context, id int64, viewer *models.User) (*models.PostView, error) {
	view, err := s.store.Posts().View(ctx, id, viewerID(viewer))
	if err != nil {
		return nil, translate(err)
	}
	return view, nil
}
