package controllers

import (
	"fmt"
	"net/http"

	"postboard/app/auth"
	"postboard/app/models"
	"postboard/app/pagination"
	"postboard/app/services"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	posts    *services.PostService
	settings Settings
}

// NewPostController creates a new PostController
func NewPostController(posts *services.PostService, settings Settings) *PostController {
	return &PostController{posts: posts, settings: settings}
}

// Index lists posts, newest first, filtered by ?search= and paged by ?page=
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := pc.posts.ListPosts(r.Context(), auth.UserFromContext(r.Context()),
		q.Get("search"), pagination.ParseNumber(q.Get("page")), pc.settings.PostsPageSize)
	if err != nil {
		sendError(w, r, err)
		return
	}

	sendJSON(w, http.StatusOK, envelope{
		"posts":        newPostSummaries(page.Posts, pc.settings.PreviewWords),
		"search_query": page.Search,
		"pagination":   newPagination(page.Page),
	})
}

// Search returns the newest posts matching ?q=, capped
func (pc *PostController) Search(w http.ResponseWriter, r *http.Request) {
	results, err := pc.posts.SearchPosts(r.Context(), auth.UserFromContext(r.Context()), r.URL.Query().Get("q"))
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, envelope{"results": newPostSummaries(results, pc.settings.PreviewWords)})
}

// Show returns a single post with its comments
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, r, err)
		return
	}

	detail, err := pc.posts.GetPost(r.Context(), auth.UserFromContext(r.Context()), id)
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, envelope{
		"post": newPostDetail(detail.Post, detail.Comments, pc.settings.PreviewWords),
	})
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	viewer := auth.UserFromContext(r.Context())
	if viewer == nil {
		sendError(w, r, services.ErrUnauthorized)
		return
	}
	var in models.PostInput
	if err := decodeJSON(w, r, &in); err != nil {
		sendError(w, r, err)
		return
	}

	post, err := pc.posts.CreatePost(r.Context(), viewer, in)
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendJSON(w, http.StatusCreated, envelope{
		"message":      "Post created successfully!",
		"post":         newPostDetail(post, nil, pc.settings.PreviewWords),
		"redirect_url": fmt.Sprintf("/posts/%d", post.ID),
	})
}

// Update handles replacing the title and content of a post
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
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
	var in models.PostInput
	if err := decodeJSON(w, r, &in); err != nil {
		sendError(w, r, err)
		return
	}

	post, err := pc.posts.UpdatePost(r.Context(), viewer, id, in)
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, envelope{
		"message": "Post updated successfully!",
		"post":    newPostDetail(post, nil, pc.settings.PreviewWords),
	})
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, r, err)
		return
	}

	if err := pc.posts.DeletePost(r.Context(), auth.UserFromContext(r.Context()), id); err != nil {
		sendError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, envelope{"message": "Post deleted successfully!"})
}
