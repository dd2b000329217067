package repository

import "malagahomes_backend/internal/model"

// Page is one public listing page plus its navigation flags.
type Page struct {
	Prev       bool             `json:"prev"`
	Page       int              `json:"page"`
	Next       bool             `json:"next"`
	Properties []model.Property `json:"properties"`
}

// buildPage turns a fetch of up to pageSize+1 rows into a page: the extra
// row only signals that a next page exists and is trimmed off.
func buildPage(fetched []model.Property, page, pageSize int) *Page {
	next := len(fetched) > pageSize
	if next {
		fetched = fetched[:pageSize]
	}

	return &Page{
		Prev:       page >= 1,
		Page:       page,
		Next:       next,
		Properties: fetched,
	}
}
