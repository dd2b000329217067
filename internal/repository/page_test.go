package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"malagahomes_backend/internal/model"
)

func fetchedRows(n int) []model.Property {
	rows := make([]model.Property, n)
	for i := range rows {
		rows[i] = model.Property{ID: fmt.Sprintf("prop-%d", i)}
	}
	return rows
}

func TestBuildPage(t *testing.T) {
	tests := []struct {
		name     string
		fetched  int
		page     int
		pageSize int
		wantLen  int
		wantPrev bool
		wantNext bool
	}{
		{"first page of many", 5, 0, 4, 4, false, true},
		{"middle page", 5, 1, 4, 4, true, true},
		{"last full page", 4, 2, 4, 4, true, false},
		{"last partial page", 2, 2, 4, 2, true, false},
		{"only page", 3, 0, 4, 3, false, false},
		{"empty", 0, 0, 4, 0, false, false},
		{"empty past the end", 0, 7, 4, 0, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildPage(fetchedRows(tt.fetched), tt.page, tt.pageSize)

			assert.Len(t, got.Properties, tt.wantLen)
			assert.Equal(t, tt.wantPrev, got.Prev)
			assert.Equal(t, tt.wantNext, got.Next)
			assert.Equal(t, tt.page, got.Page)
		})
	}
}

// Ten listings with a page size of four paginate into 4, 4, 2.
func TestBuildPageWalksTenRows(t *testing.T) {
	pageSize := 4

	page0 := buildPage(fetchedRows(5), 0, pageSize)
	assert.False(t, page0.Prev)
	assert.True(t, page0.Next)
	assert.Len(t, page0.Properties, 4)

	page2 := buildPage(fetchedRows(2), 2, pageSize)
	assert.True(t, page2.Prev)
	assert.False(t, page2.Next)
	assert.Len(t, page2.Properties, 2)
}
