package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestStringToUint64(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"42", 42},
		{"0", 0},
		{"", 0},
		{"abc", 0},
		{"-1", 0},
	}
	for _, tt := range tests {
		if got := StringToUint64(tt.in); got != tt.want {
			t.Errorf("StringToUint64(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query  string
		page   int
		limit  int
		offset int
	}{
		{"", 1, 20, 0},
		{"page=3&limit=10", 3, 10, 20},
		{"page=0&limit=0", 1, 20, 0},
		{"page=2&limit=500", 2, 20, 20},
		{"page=abc", 1, 20, 0},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/?"+tt.query, nil)

		page, limit, offset := PageParams(c)
		if page != tt.page || limit != tt.limit || offset != tt.offset {
			t.Errorf("PageParams(%q) = (%d, %d, %d), want (%d, %d, %d)",
				tt.query, page, limit, offset, tt.page, tt.limit, tt.offset)
		}
	}
}
