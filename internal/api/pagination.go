package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// pageParams is the page/size query pair on list endpoints. Page is
// 1-based.
type pageParams struct {
	Page int
	Size int
}

func parsePageParams(c *gin.Context) pageParams {
	params := pageParams{Page: 1, Size: defaultPageSize}
	if raw := c.Query("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			params.Page = page
		}
	}
	if raw := c.Query("size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			params.Size = size
		}
	}
	if params.Size > maxPageSize {
		params.Size = maxPageSize
	}
	return params
}

// pagedResponse is the envelope for paginated list endpoints.
type pagedResponse struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
}

// paginate slices one page out of items and wraps it in the envelope.
func paginate[T any](items []T, params pageParams) pagedResponse {
	total := len(items)
	start := (params.Page - 1) * params.Size
	if start > total {
		start = total
	}
	end := start + params.Size
	if end > total {
		end = total
	}
	return pagedResponse{
		Items: items[start:end],
		Total: total,
		Page:  params.Page,
		Size:  params.Size,
	}
}
