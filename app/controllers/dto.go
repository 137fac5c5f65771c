package controllers

import (
	"time"

	"postboard/app/models"
	"postboard/app/pagination"
	"postboard/app/render"
)

// PostSummary is a post as shown in listings and search results.
type PostSummary struct {
	ID                 int64     `json:"id"`
	Title              string    `json:"title"`
	ContentPreview     string    `json:"content_preview"`
	AuthorID           int64     `json:"author_id"`
	Author             string    `json:"author"`
	AuthorFullName     string    `json:"author_full_name"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	CreatedAtFormatted string    `json:"created_at_formatted"`
	CreatedDate        string    `json:"created_date"`
	CreatedSince       string    `json:"created_since"`
	TotalLikes         int       `json:"total_likes"`
	TotalComments      int       `json:"total_comments"`
	IsLiked            bool      `json:"is_liked"`
}

// PostDetail is a full post with its rendered body and comment thread.
type PostDetail struct {
	PostSummary
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html"`
	Comments    []Comment `json:"comments"`
}

// Comment is a comment with its author.
type Comment struct {
	ID                 int64     `json:"id"`
	PostID             int64     `json:"post_id"`
	Text               string    `json:"text"`
	AuthorID           int64     `json:"author_id"`
	Author             string    `json:"author"`
	AuthorFullName     string    `json:"author_full_name"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	CreatedAtFormatted string    `json:"created_at_formatted"`
	CreatedSince       string    `json:"created_since"`
}

// Pagination describes the page a listing returned.
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
	TotalCount  int  `json:"total_count"`
	PageSize    int  `json:"page_size"`
}

// User is the public part of an account.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

func newPostSummary(v *models.PostView, previewWords int) PostSummary {
	return PostSummary{
		ID:                 v.ID,
		Title:              v.Title,
		ContentPreview:     render.Preview(v.Content, previewWords),
		AuthorID:           v.AuthorID,
		Author:             v.Author.Username,
		AuthorFullName:     v.Author.FullName(),
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
		CreatedAtFormatted: v.CreatedAt.Format(render.DateTimeLayout),
		CreatedDate:        v.CreatedAt.Format(render.DateLayout),
		CreatedSince:       render.Since(v.CreatedAt),
		TotalLikes:         v.TotalLikes,
		TotalComments:      v.TotalComments,
		IsLiked:            v.IsLiked,
	}
}

func newPostSummaries(views []*models.PostView, previewWords int) []PostSummary {
	out := make([]PostSummary, 0, len(views))
	for _, v := range views {
		out = append(out, newPostSummary(v, previewWords))
	}
	return out
}

func newPostDetail(v *models.PostView, comments []*models.CommentView, previewWords int) PostDetail {
	return PostDetail{
		PostSummary: newPostSummary(v, previewWords),
		Content:     v.Content,
		ContentHTML: render.Markdown(v.Content),
		Comments:    newComments(comments),
	}
}

func newComment(v *models.CommentView) Comment {
	return Comment{
		ID:                 v.ID,
		PostID:             v.PostID,
		Text:               v.Text,
		AuthorID:           v.AuthorID,
		Author:             v.Author.Username,
		AuthorFullName:     v.Author.FullName(),
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
		CreatedAtFormatted: v.CreatedAt.Format(render.DateTimeLayout),
		CreatedSince:       render.Since(v.CreatedAt),
	}
}

func newComments(views []*models.CommentView) []Comment {
	out := make([]Comment, 0, len(views))
	for _, v := range views {
		out = append(out, newComment(v))
	}
	return out
}

func newPagination(pg pagination.Page) Pagination {
	return Pagination{
		CurrentPage: pg.Number,
		TotalPages:  pg.TotalPages,
		HasNext:     pg.HasNext(),
		HasPrevious: pg.HasPrevious(),
		TotalCount:  pg.TotalCount,
		PageSize:    pg.Size,
	}
}

func newUser(u *models.User) User {
	return User{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		CreatedAt: u.CreatedAt,
	}
}
