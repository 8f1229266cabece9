package domain

import (
	"math"
	"time"
)

// BaseModel is the common base struct for all domain models.
// It replaces gorm.Model to avoid the implicit soft delete behavior of DeletedAt.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetID returns the primary key.
func (m BaseModel) GetID() uint {
	return m.ID
}

// PaginationOptions is the request side of pagination. Zero values mean unset.
// Page/PageSize take precedence over Skip/Take when both are supplied.
type PaginationOptions struct {
	Page     int
	PageSize int
	Skip     int
	Take     int
}

// Window resolves the options to an offset and limit.
// ok is false when neither form was supplied.
func (p PaginationOptions) Window() (skip, take int, ok bool) {
	if p.Page > 0 && p.PageSize > 0 {
		return (p.Page - 1) * p.PageSize, p.PageSize, true
	}
	if p.Skip > 0 || p.Take > 0 {
		return p.Skip, p.Take, true
	}
	return 0, 0, false
}

// PaginationResult describes one page of a collection.
type PaginationResult struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Page is a page of records together with its pagination metadata.
type Page[T any] struct {
	Data       []T              `json:"data"`
	Pagination PaginationResult `json:"pagination"`
}

// NewPaginationResult builds the result metadata for a page.
func NewPaginationResult(page, pageSize int, total int64) PaginationResult {
	return PaginationResult{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: TotalPages(total, pageSize),
	}
}

// TotalPages returns ceil(total/pageSize), or 0 when pageSize is not positive.
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(pageSize)))
}
