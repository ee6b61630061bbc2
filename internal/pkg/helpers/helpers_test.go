package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestPaginate(t *testing.T) {
	items := make([]int, 30)
	for i := range items {
		items[i] = i
	}

	tests := []struct {
		name      string
		page      int
		wantLen   int
		wantFirst int
		wantPage  int
		wantPages int
	}{
		{"first page", 1, 12, 0, 1, 3},
		{"last partial page", 3, 6, 24, 3, 3},
		{"page below one", 0, 12, 0, 1, 3},
		{"page beyond end", 9, 0, -1, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, info := Paginate(items, tt.page, 12)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if tt.wantFirst >= 0 && got[0] != tt.wantFirst {
				t.Errorf("first = %d, want %d", got[0], tt.wantFirst)
			}
			if info.CurrentPage != tt.wantPage || info.TotalPages != tt.wantPages || info.TotalItems != 30 {
				t.Errorf("info = %+v", info)
			}
		})
	}
}

func TestPaginateEmpty(t *testing.T) {
	got, info := Paginate([]string{}, 1, 12)
	if len(got) != 0 || info.TotalPages != 1 || info.CurrentPage != 1 {
		t.Errorf("got %v, %+v", got, info)
	}
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query string
		page  int
		size  int
	}{
		{"", 1, 12},
		{"?page=2&size=5", 2, 5},
		{"?page=-1&size=500", 1, 12},
		{"?page=abc", 1, 12},
	}

	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/explorer"+tt.query, nil)
		page, size := ParsePaginationParams(c, 12)
		if page != tt.page || size != tt.size {
			t.Errorf("%q: got (%d,%d), want (%d,%d)", tt.query, page, size, tt.page, tt.size)
		}
	}
}
