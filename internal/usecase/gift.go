package usecase

import (
	"context"

	"github.com/ErlanBelekov/student-gifts/internal/domain"
	"github.com/ErlanBelekov/student-gifts/internal/metrics"
	"github.com/ErlanBelekov/student-gifts/internal/repository"
)

const (
	// DefaultPageSize fits a whole seeded catalog on the first page.
	DefaultPageSize = 20

	// MaxPage bounds page numbers so offsets stay far from overflow.
	MaxPage = 100_000
)

type TokenVerifier interface {
	Verify(raw string) (string, error)
}

type GiftUsecase struct {
	gifts    repository.GiftRepository
	users    repository.UserRepository
	tokens   TokenVerifier
	pageSize int
}

func NewGiftUsecase(gifts repository.GiftRepository, users repository.UserRepository, tokens TokenVerifier, pageSize int) *GiftUsecase {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &GiftUsecase{gifts: gifts, users: users, tokens: tokens, pageSize: pageSize}
}

// GetGifts lists one page of gifts matching the comma-separated filters.
// Pages are 1-based; anything below 1 is treated as 1 and anything above
// MaxPage as MaxPage.
func (u *GiftUsecase) GetGifts(ctx context.Context, tok string, raw domain.RawFilters, page int, sort domain.Sort) (*domain.GiftPage, error) {
	if _, err := u.tokens.Verify(tok); err != nil {
		return nil, err
	}

	page = normalizePage(page)
	gifts, total, err := u.gifts.List(ctx, repository.ListGiftsInput{
		Filters: domain.SerializeFilters(raw),
		Sort:    sort,
		Limit:   u.pageSize,
		Offset:  (page - 1) * u.pageSize,
	})
	if err != nil {
		return nil, err
	}
	metrics.GiftQueriesTotal.WithLabelValues("list").Inc()

	return &domain.GiftPage{Gifts: gifts, TotalCount: total, Page: page}, nil
}

// SearchGifts matches input against gift titles, case-insensitively.
func (u *GiftUsecase) SearchGifts(ctx context.Context, tok, input string, page int, sort domain.Sort) (*domain.GiftPage, error) {
	if _, err := u.tokens.Verify(tok); err != nil {
		return nil, err
	}

	page = normalizePage(page)
	gifts, total, err := u.gifts.Search(ctx, repository.SearchGiftsInput{
		Input:  input,
		Sort:   sort,
		Limit:  u.pageSize,
		Offset: (page - 1) * u.pageSize,
	})
	if err != nil {
		return nil, err
	}
	metrics.GiftQueriesTotal.WithLabelValues("search").Inc()

	return &domain.GiftPage{Gifts: gifts, TotalCount: total, Page: page}, nil
}

// GetUser returns the profile of the token's owner.
func (u *GiftUsecase) GetUser(ctx context.Context, tok, emailAddr string) (*domain.User, error) {
	if err := u.authorize(tok, emailAddr); err != nil {
		return nil, err
	}
	return u.users.GetByEmail(ctx, emailAddr)
}

// ClaimGift records giftID as claimed by the token's owner. Claiming the
// same gift again succeeds without change.
func (u *GiftUsecase) ClaimGift(ctx context.Context, tok, emailAddr, giftID string) (err error) {
	defer func() { metrics.GiftClaimsTotal.WithLabelValues(metrics.Outcome(err)).Inc() }()

	if err = u.authorize(tok, emailAddr); err != nil {
		return err
	}
	return u.users.ClaimGift(ctx, emailAddr, giftID)
}

// authorize verifies tok and checks it was issued to emailAddr.
func (u *GiftUsecase) authorize(tok, emailAddr string) error {
	owner, err := u.tokens.Verify(tok)
	if err != nil {
		return err
	}
	if owner != emailAddr {
		return domain.NewService(domain.ReasonInvalidToken, domain.ServiceDetails{
			Type:        domain.ServiceInternal,
			ServiceName: "GiftUsecase",
			System:      "Auth",
			Reason:      domain.ReasonInvalidToken,
			Value:       "token owner does not match requested user",
		}).With("email", emailAddr)
	}
	return nil
}

func normalizePage(page int) int {
	return min(max(page, 1), MaxPage)
}
