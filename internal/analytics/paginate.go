package analytics

import (
	"errors"

	"github.com/bankpulse/dashboard-api/internal/models"
)

const (
	// CombinedPageSize is used when posts and comments are served together
	CombinedPageSize = 50
	// SinglePageSize is used for the posts-only and comments-only views
	SinglePageSize = 25
)

// ErrInvalidPage is returned for page numbers below 1
var ErrInvalidPage = errors.New("page number must be positive")

// TotalPages is ceil(total/perPage)
func TotalPages(total, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// pageItems slices the conceptual concatenation posts ++ comments. When a
// page starts inside the posts it is topped up from the head of the comments;
// once the posts are exhausted the comments offset is start-len(posts).
func pageItems(posts, comments []models.Record, page, perPage int) []models.Record {
	items := make([]models.Record, 0, perPage)
	if page > TotalPages(len(posts)+len(comments), perPage) {
		return items
	}

	start := (page - 1) * perPage
	end := start + perPage

	if start < len(posts) {
		items = append(items, posts[start:min(end, len(posts))]...)
	}

	if len(items) < perPage {
		remaining := perPage - len(items)
		commentsStart := max(0, start-len(posts))
		if commentsStart < len(comments) {
			items = append(items, comments[commentsStart:min(commentsStart+remaining, len(comments))]...)
		}
	}

	return items
}

func paginate(posts, comments []models.Record, page, perPage int) (models.Page, error) {
	if page < 1 {
		return models.Page{}, ErrInvalidPage
	}

	totalPages := TotalPages(len(posts)+len(comments), perPage)
	return models.Page{
		Items: pageItems(posts, comments, page, perPage),
		Pagination: models.Pagination{
			CurrentPage:   page,
			TotalPages:    totalPages,
			NumberOfPages: totalPages,
			ItemsPerPage:  perPage,
		},
	}, nil
}

// PaginateCombined pages over all posts followed by all comments
func PaginateCombined(posts, comments []models.Record, page, perPage int) (models.Page, error) {
	p, err := paginate(posts, comments, page, perPage)
	if err != nil {
		return p, err
	}
	totalPosts, totalComments := len(posts), len(comments)
	p.Pagination.TotalPosts = &totalPosts
	p.Pagination.TotalComments = &totalComments
	return p, nil
}

// PaginatePosts pages over posts only
func PaginatePosts(posts []models.Record, page, perPage int) (models.Page, error) {
	p, err := paginate(posts, nil, page, perPage)
	if err != nil {
		return p, err
	}
	totalPosts := len(posts)
	p.Pagination.TotalPosts = &totalPosts
	return p, nil
}

// PaginateComments pages over comments only
func PaginateComments(comments []models.Record, page, perPage int) (models.Page, error) {
	p, err := paginate(nil, comments, page, perPage)
	if err != nil {
		return p, err
	}
	totalComments := len(comments)
	p.Pagination.TotalComments = &totalComments
	return p, nil
}
