package usecase_test

import (
	"context"
	"math"
	"slices"
	"testing"

	"github.com/ErlanBelekov/student-gifts/internal/domain"
	"github.com/ErlanBelekov/student-gifts/internal/repository"
	"github.com/ErlanBelekov/student-gifts/internal/seed"
	"github.com/ErlanBelekov/student-gifts/internal/usecase"
)

type fakeGiftRepo struct {
	list   func(ctx context.Context, in repository.ListGiftsInput) ([]domain.Gift, int, error)
	search func(ctx context.Context, in repository.SearchGiftsInput) ([]domain.Gift, int, error)
}

func (r *fakeGiftRepo) CreateMany(context.Context, []domain.Gift) (int64, error) {
	return 0, nil
}

func (r *fakeGiftRepo) Count(context.Context) (int, error) {
	return 0, nil
}

func (r *fakeGiftRepo) List(ctx context.Context, in repository.ListGiftsInput) ([]domain.Gift, int, error) {
	return r.list(ctx, in)
}

func (r *fakeGiftRepo) Search(ctx context.Context, in repository.SearchGiftsInput) ([]domain.Gift, int, error) {
	return r.search(ctx, in)
}

func TestGetGifts_SerializesFiltersAndPages(t *testing.T) {
	var got repository.ListGiftsInput
	repo := &fakeGiftRepo{list: func(_ context.Context, in repository.ListGiftsInput) ([]domain.Gift, int, error) {
		got = in
		return []domain.Gift{{ID: "g-1"}}, 25, nil
	}}
	tokens := newTokens(t)
	tok, _ := tokens.Create(testEmail)

	uc := usecase.NewGiftUsecase(repo, newFakeUserRepo(), tokens, 10)
	page, err := uc.GetGifts(context.Background(), tok, domain.RawFilters{Channels: "online,instore", Category: "All"}, 3, domain.SortEndingSoon)
	if err != nil {
		t.Fatalf("GetGifts: %v", err)
	}

	if !slices.Equal(got.Filters.Channels, []string{"online", "instore"}) {
		t.Errorf("channels = %v", got.Filters.Channels)
	}
	if len(got.Filters.Types) != 0 || got.Filters.HasCategory() {
		t.Errorf("unexpected restrictions: %+v", got.Filters)
	}
	if got.Limit != 10 || got.Offset != 20 || got.Sort != domain.SortEndingSoon {
		t.Errorf("paging = %+v", got)
	}
	if page.TotalCount != 25 || page.Page != 3 || len(page.Gifts) != 1 {
		t.Errorf("page = %+v", page)
	}
}

func TestGetGifts_PageDefaultsToOne(t *testing.T) {
	var offset = -1
	repo := &fakeGiftRepo{list: func(_ context.Context, in repository.ListGiftsInput) ([]domain.Gift, int, error) {
		offset = in.Offset
		return []domain.Gift{}, 0, nil
	}}
	tokens := newTokens(t)
	tok, _ := tokens.Create(testEmail)

	page, err := usecase.NewGiftUsecase(repo, newFakeUserRepo(), tokens, 0).
		GetGifts(context.Background(), tok, domain.RawFilters{}, 0, domain.SortNewIn)
	if err != nil {
		t.Fatalf("GetGifts: %v", err)
	}
	if offset != 0 || page.Page != 1 {
		t.Errorf("offset = %d, page = %d", offset, page.Page)
	}
}

// pagingGiftRepo serves a fixed catalog and honours Limit and Offset.
func pagingGiftRepo(catalog []domain.Gift) *fakeGiftRepo {
	return &fakeGiftRepo{list: func(_ context.Context, in repository.ListGiftsInput) ([]domain.Gift, int, error) {
		if in.Offset < 0 || in.Limit < 0 {
			return nil, 0, domain.NewService("negative paging", domain.ServiceDetails{Type: domain.ServiceExternal})
		}
		start := min(in.Offset, len(catalog))
		end := min(start+in.Limit, len(catalog))
		return catalog[start:end], len(catalog), nil
	}}
}

func TestGetGifts_DefaultPageHoldsWholeSeededCatalog(t *testing.T) {
	tokens := newTokens(t)
	tok, _ := tokens.Create(testEmail)

	largest := 0
	for s := uint64(1); s <= 30; s++ {
		catalog := seed.NewGenerator(s).Gifts()
		largest = max(largest, len(catalog))

		uc := usecase.NewGiftUsecase(pagingGiftRepo(catalog), newFakeUserRepo(), tokens, usecase.DefaultPageSize)
		page, err := uc.GetGifts(context.Background(), tok, domain.RawFilters{}, 0, domain.SortNewIn)
		if err != nil {
			t.Fatalf("seed %d: GetGifts: %v", s, err)
		}
		if len(page.Gifts) != len(catalog) || page.TotalCount != len(catalog) {
			t.Fatalf("seed %d: got %d of %d gifts", s, len(page.Gifts), len(catalog))
		}
	}
	if largest <= 12 {
		t.Fatalf("no catalog above 12 gifts generated (largest %d)", largest)
	}
}

func TestGetGifts_HugePageIsEmptyNotNegativeOffset(t *testing.T) {
	tokens := newTokens(t)
	tok, _ := tokens.Create(testEmail)
	uc := usecase.NewGiftUsecase(pagingGiftRepo(seed.NewGenerator(1).Gifts()), newFakeUserRepo(), tokens, 100)

	for _, p := range []int{math.MaxInt, math.MaxInt / 100, usecase.MaxPage + 1} {
		page, err := uc.GetGifts(context.Background(), tok, domain.RawFilters{}, p, domain.SortNewIn)
		if err != nil {
			t.Fatalf("page %d: %v", p, err)
		}
		if len(page.Gifts) != 0 || page.Page != usecase.MaxPage {
			t.Errorf("page %d: got %d gifts on page %d", p, len(page.Gifts), page.Page)
		}
	}
}

func TestGiftOperations_RejectInvalidToken(t *testing.T) {
	repo := &fakeGiftRepo{
		list: func(context.Context, repository.ListGiftsInput) ([]domain.Gift, int, error) {
			t.Fatal("repository reached with invalid token")
			return nil, 0, nil
		},
		search: func(context.Context, repository.SearchGiftsInput) ([]domain.Gift, int, error) {
			t.Fatal("repository reached with invalid token")
			return nil, 0, nil
		},
	}
	uc := usecase.NewGiftUsecase(repo, newFakeUserRepo(), newTokens(t), 12)
	ctx := context.Background()

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := uc.GetGifts(ctx, tok, domain.RawFilters{}, 1, domain.SortNewIn)
		assertInvalidToken(t, err)
		_, err = uc.SearchGifts(ctx, tok, "pizza", 1, domain.SortNewIn)
		assertInvalidToken(t, err)
		_, err = uc.GetUser(ctx, tok, testEmail)
		assertInvalidToken(t, err)
		assertInvalidToken(t, uc.ClaimGift(ctx, tok, testEmail, "g-1"))
	}
}

func TestGetUserAndClaim_RequireTokenOwner(t *testing.T) {
	users := newFakeUserRepo()
	users.hashes[testEmail] = "h"
	users.hashes["bob@uni.ac.uk"] = "h"
	tokens := newTokens(t)
	annTok, _ := tokens.Create(testEmail)

	uc := usecase.NewGiftUsecase(&fakeGiftRepo{}, users, tokens, 12)
	ctx := context.Background()

	_, err := uc.GetUser(ctx, annTok, "bob@uni.ac.uk")
	assertInvalidToken(t, err)
	assertInvalidToken(t, uc.ClaimGift(ctx, annTok, "bob@uni.ac.uk", "g-1"))
}

func TestClaimGift_Idempotent(t *testing.T) {
	users := newFakeUserRepo()
	users.hashes[testEmail] = "h"
	tokens := newTokens(t)
	tok, _ := tokens.Create(testEmail)

	uc := usecase.NewGiftUsecase(&fakeGiftRepo{}, users, tokens, 12)
	ctx := context.Background()

	for range 2 {
		if err := uc.ClaimGift(ctx, tok, testEmail, "g-1"); err != nil {
			t.Fatalf("ClaimGift: %v", err)
		}
	}

	u, err := uc.GetUser(ctx, tok, testEmail)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if len(u.ClaimedGifts) != 1 || u.ClaimedGifts[0].ID != "g-1" {
		t.Errorf("claimed = %+v", u.ClaimedGifts)
	}
}

func TestSearchGifts_PassesInput(t *testing.T) {
	var got repository.SearchGiftsInput
	repo := &fakeGiftRepo{search: func(_ context.Context, in repository.SearchGiftsInput) ([]domain.Gift, int, error) {
		got = in
		return []domain.Gift{{Title: "Free Pizza Slice"}}, 1, nil
	}}
	tokens := newTokens(t)
	tok, _ := tokens.Create(testEmail)

	page, err := usecase.NewGiftUsecase(repo, newFakeUserRepo(), tokens, 12).
		SearchGifts(context.Background(), tok, "pizza", 1, domain.SortNewIn)
	if err != nil {
		t.Fatalf("SearchGifts: %v", err)
	}
	if got.Input != "pizza" || got.Limit != 12 || got.Offset != 0 {
		t.Errorf("search input = %+v", got)
	}
	if page.TotalCount != 1 {
		t.Errorf("total = %d", page.TotalCount)
	}
}

func assertInvalidToken(t *testing.T, err error) {
	t.Helper()
	if !domain.HasReason(err, domain.ReasonInvalidToken) {
		t.Fatalf("err = %v, want Invalid token", err)
	}
}
