package services

import (
	"context"

	"postboard/app/models"
	"postboard/app/repositories"
)

// LikeService toggles likes on posts.
type LikeService struct {
	likes repositories.LikeRepository
}

// LikeResult is the state of the viewer's like after a toggle.
type LikeResult struct {
	IsLiked    bool
	TotalLikes int
}

func NewLikeService(store repositories.Store) *LikeService {
	return &LikeService{likes: store.Likes()}
}

// Toggle likes the post if viewer has not liked it yet, otherwise removes the like.
func (s *LikeService) Toggle(ctx context.Context, viewer *models.User, postID int64) (*LikeResult, error) {
	if viewer == nil {
		return nil, ErrUnauthorized
	}
	liked, total, err := s.likes.Toggle(ctx, postID, viewer.ID)
	if err != nil {
		return nil, translate(err)
	}
	return &LikeResult{IsLiked: liked, TotalLikes: total}, nil
}
