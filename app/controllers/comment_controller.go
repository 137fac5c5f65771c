package controllers

import (
	"net/http"

	"postboard/app/auth"
	"postboard/app/models"
	"postboard/app/pagination"
	"postboard/app/services"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	comments *services.CommentService
	settings Settings
}

// NewCommentController creates a new CommentController
func NewCommentController(comments *services.CommentService, settings Settings) *CommentController {
	return &CommentController{comments: comments, settings: settings}
}

// Index lists a page of a post's comments
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	cc.list(w, r, cc.settings.CommentsPageSize)
}

// More lists a page of a post's comments sized for incremental loading
func (cc *CommentController) More(w http.ResponseWriter, r *http.Request) {
	cc.list(w, r, cc.settings.CommentsLoadMorePageSize)
}

func (cc *CommentController) list(w http.ResponseWriter, r *http.Request, pageSize int) {
	postID, err := pathID(r, "post_id")
	if err != nil {
		sendError(w, r, err)
		return
	}

	page, err := cc.comments.ListComments(r.Context(), postID, pagination.ParseNumber(r.URL.Query().Get("page")), pageSize)
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, envelope{
		"comments":   newComments(page.Comments),
		"pagination": newPagination(page.Page),
	})
}

// Create handles adding a comment to a post
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "post_id")
	if err != nil {
		sendError(w, r, err)
		return
	}
	viewer := auth.UserFromContext(r.Context())
	if viewer == nil {
		sendError(w, r, services.ErrUnauthorized)
		return
	}
	var in models.CommentInput
	if err := decodeJSON(w, r, &in); err != nil {
		sendError(w, r, err)
		return
	}

	comment, placement, err := cc.comments.CreateComment(r.Context(), viewer, postID, in)
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendJSON(w, http.StatusCreated, envelope{
		"message":        "Comment added successfully!",
		"comment":        newComment(comment),
		"total_comments": placement.TotalComments,
		"target_page":    placement.TargetPage,
	})
}

// Update handles editing the text of a comment
func (cc *CommentController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, r, err)
		return
	}
	viewer := auth.UserFromContext(r.Context())
	if viewer == nil {
		sendError(w, r, services.ErrUnauthorized)
		return
	}
	var in models.CommentInput
	if err := decodeJSON(w, r, &in); err != nil {
		sendError(w, r, err)
		return
	}

	comment, err := cc.comments.EditComment(r.Context(), viewer, id, in)
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, envelope{
		"message": "Comment updated successfully!",
		"comment": newComment(comment),
	})
}

// Delete handles removing a comment
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, r, err)
		return
	}

	if err := cc.comments.DeleteComment(r.Context(), auth.UserFromContext(r.Context()), id); err != nil {
		sendError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, envelope{"message": "Comment deleted successfully!"})
}
