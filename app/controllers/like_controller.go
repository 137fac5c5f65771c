package controllers

import (
	"net/http"

	"postboard/app/auth"
	"postboard/app/services"
)

// LikeController handles like toggles
type LikeController struct {
	likes *services.LikeService
}

func NewLikeController(likes *services.LikeService) *LikeController {
	return &LikeController{likes: likes}
}

// Toggle likes or unlikes the post for the current user
func (lc *LikeController) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, r, err)
		return
	}

	res, err := lc.likes.Toggle(r.Context(), auth.UserFromContext(r.Context()), id)
	if err != nil {
		sendError(w, r, err)
		return
	}

	message := "Post unliked"
	if res.IsLiked {
		message = "Post liked"
	}
	sendJSON(w, http.StatusOK, envelope{
		"is_liked":    res.IsLiked,
		"total_likes": res.TotalLikes,
		"message":     message,
	})
}
