package pagination

import (
	"strconv"
)

const MaxSize = 100

// PageRequest is a 1-based page request.
type PageRequest struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// NewPageRequest clamps page to >= 1 and size to 1..MaxSize (defaultSize when unset).
func NewPageRequest(page, size, defaultSize int) PageRequest {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return PageRequest{Page: page, Size: size}
}

// FromQuery parses raw page/size query values, ignoring malformed ones.
func FromQuery(page, size string, defaultSize int) PageRequest {
	p, _ := strconv.Atoi(page)
	s, _ := strconv.Atoi(size)
	return NewPageRequest(p, s, defaultSize)
}

func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.Size
}

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
	HasNext       bool  `json:"has_next"`
	HasPrev       bool  `json:"has_prev"`
}

func NewPage[T any](content []T, total int64, req PageRequest) Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if req.Size > 0 {
		totalPages = int(total / int64(req.Size))
		if total%int64(req.Size) > 0 {
			totalPages++
		}
	}

	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		HasNext:       req.Page < totalPages,
		HasPrev:       req.Page > 1,
	}
}
