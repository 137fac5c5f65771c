package services

import (
	"context"
	"fmt"

	"postboard/app/models"
	"postboard/app/pagination"
	"postboard/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	store             repositories.Store
	placementPageSize int
}

// CommentPage is one page of a post's comments.
type CommentPage struct {
	Comments []*models.CommentView
	Page     pagination.Page
}

// Placement tells a client where a new comment landed.
type Placement struct {
	TotalComments int
	TargetPage    int
}

// NewCommentService creates a new CommentService. placementPageSize is the page
// size used to compute the page a new comment lands on.
func NewCommentService(store repositories.Store, placementPageSize int) *CommentService {
	if placementPageSize < 1 {
		placementPageSize = pagination.DefaultPageSize
	}
	return &CommentService{
		store:             store,
		placementPageSize: placementPageSize,
	}
}

// ListComments returns one page of a post's comments, oldest first
func (s *CommentService) ListComments(ctx context.Context, postID int64, page, pageSize int) (*CommentPage, error) {
	if _, err := s.store.Posts().GetByID(ctx, postID); err != nil {
		return nil, translate(err)
	}

	total, err := s.store.Comments().CountByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	pg := pagination.New(total, pageSize).Page(page)

	comments, err := s.store.Comments().ListByPost(ctx, postID, pg.Limit(), pg.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return &CommentPage{Comments: comments, Page: pg}, nil
}

// CreateComment adds a comment by viewer to a post and reports where it landed
func (s *CommentService) CreateComment(ctx context.Context, viewer *models.User, postID int64, in models.CommentInput) (*models.CommentView, *Placement, error) {
	if viewer == nil {
		return nil, nil, ErrUnauthorized
	}
	post, err := s.store.Posts().GetByID(ctx, postID)
	if err != nil {
		return nil, nil, translate(err)
	}
	if err := in.Validate(); err != nil {
		return nil, nil, invalid(err)
	}

	comment := &models.Comment{AuthorID: viewer.ID, Text: in.Text}
	if err := comment.SetPost(post); err != nil {
		return nil, nil, err
	}
	comment.BeforeCreate()
	if err := comment.Validate(); err != nil {
		return nil, nil, invalid(err)
	}

	if err := s.store.Comments().Create(ctx, comment); err != nil {
		return nil, nil, translate(err)
	}

	total, err := s.store.Comments().CountByPost(ctx, postID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count comments: %w", err)
	}
	view, err := s.store.Comments().View(ctx, comment.ID)
	if err != nil {
		return nil, nil, translate(err)
	}

	placement := &Placement{
		TotalComments: total,
		TargetPage:    pagination.New(total, s.placementPageSize).PageOf(total),
	}
	return view, placement, nil
}

// EditComment replaces the text of a comment written by viewer
func (s *CommentService) EditComment(ctx context.Context, viewer *models.User, id int64, in models.CommentInput) (*models.CommentView, error) {
	comment, err := s.owned(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}

	comment.Edit(in.Text)
	if err := s.store.Comments().Update(ctx, comment); err != nil {
		return nil, translate(err)
	}
	view, err := s.store.Comments().View(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return view, nil
}

// DeleteComment removes a comment written by viewer
func (s *CommentService) DeleteComment(ctx context.Context, viewer *models.User, id int64) error {
	if _, err := s.owned(ctx, viewer, id); err != nil {
		return err
	}
	return translate(s.store.Comments().Delete(ctx, id))
}

func (s *CommentService) owned(ctx context.Context, viewer *models.User, id int64) (*models.Comment, error) {
	if viewer == nil {
		return nil, ErrUnauthorized
	}
	comment, err := s.store.Comments().GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if !comment.IsAuthoredBy(viewer) {
		return nil, ErrForbidden
	}
	return comment, nil
}
