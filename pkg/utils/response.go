package utils

import (
	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint answers with, so the frontend
// always parses the same shape.
type Response struct {
	Status     bool        `json:"status"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func APIResponse(c *gin.Context, code int, status bool, message string, data interface{}) {
	c.JSON(code, Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

func APIResponsePaged(c *gin.Context, code int, message string, data interface{}, p Pagination) {
	c.JSON(code, Response{
		Status:     true,
		Message:    message,
		Data:       data,
		Pagination: &p,
	})
}

// NewPagination fills in total_pages from the row count.
func NewPagination(page, limit int, total int64) Pagination {
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}
