package repository

import (
	"context"

	"github.com/ErlanBelekov/student-gifts/internal/domain"
)

type ListGiftsInput struct {
	Filters domain.Filters
	Sort    domain.Sort
	Limit   int
	Offset  int
}

type SearchGiftsInput struct {
	Input  string // case-insensitive substring of the title; empty matches all
	Sort   domain.Sort
	Limit  int
	Offset int
}

type GiftRepository interface {
	CreateMany(ctx context.Context, gifts []domain.Gift) (int64, error)
	Count(ctx context.Context) (int, error)
	// List and Search return one page of gifts plus the total number of
	// matches across all pages.
	List(ctx context.Context, input ListGiftsInput) ([]domain.Gift, int, error)
	Search(ctx context.Context, input SearchGiftsInput) ([]domain.Gift, int, error)
}
