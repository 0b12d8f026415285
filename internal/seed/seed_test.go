package seed

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/ErlanBelekov/student-gifts/internal/domain"
	"github.com/ErlanBelekov/student-gifts/internal/repository"
)

func TestGenerator_Gifts(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		gifts := NewGenerator(seed).Gifts()

		if len(gifts) < len(stores) || len(gifts) > maxGifts {
			t.Fatalf("seed %d: got %d gifts", seed, len(gifts))
		}

		perStore := map[string]int{}
		for _, g := range gifts {
			perStore[g.BrandTitle]++

			if !slices.Contains(titles, g.Title) {
				t.Errorf("seed %d: unknown title %q", seed, g.Title)
			}
			if !slices.Contains([]string{domain.ChannelOnline, domain.ChannelInstore}, g.Channel) {
				t.Errorf("seed %d: channel %q", seed, g.Channel)
			}
			if !slices.Contains([]string{domain.StatusNewIn, domain.StatusEndingSoon}, g.Status) {
				t.Errorf("seed %d: status %q", seed, g.Status)
			}
			if !strings.HasPrefix(g.BrandLogoURL, "/logos/") || !strings.HasPrefix(g.ImageURL, "/images/") {
				t.Errorf("seed %d: urls %q %q", seed, g.BrandLogoURL, g.ImageURL)
			}
			if !strings.Contains(g.Description, g.BrandTitle) || g.Terms == "" {
				t.Errorf("seed %d: description %q terms %q", seed, g.Description, g.Terms)
			}
		}

		for _, s := range stores {
			if n := perStore[s.Title]; n < 1 || n > maxPerStore {
				t.Errorf("seed %d: store %s has %d gifts", seed, s.Title, n)
			}
		}
	}
}

func TestGenerator_CategoryFollowsStore(t *testing.T) {
	want := map[string]string{}
	for _, s := range stores {
		want[s.Title] = s.Category
	}
	for _, g := range NewGenerator(7).Gifts() {
		if g.Category != want[g.BrandTitle] {
			t.Errorf("%s: category %q, want %q", g.BrandTitle, g.Category, want[g.BrandTitle])
		}
	}
}

func TestGenerator_SameSeedSameCatalog(t *testing.T) {
	a := NewGenerator(42).Gifts()
	b := NewGenerator(42).Gifts()
	if !slices.Equal(a, b) {
		t.Error("same seed produced different catalogs")
	}
}

type fakeGiftRepo struct {
	count   int
	countFn func() (int, error)
	created []domain.Gift
}

func (r *fakeGiftRepo) CreateMany(_ context.Context, gifts []domain.Gift) (int64, error) {
	r.created = append(r.created, gifts...)
	return int64(len(gifts)), nil
}

func (r *fakeGiftRepo) Count(context.Context) (int, error) {
	if r.countFn != nil {
		return r.countFn()
	}
	return r.count, nil
}

func (r *fakeGiftRepo) List(context.Context, repository.ListGiftsInput) ([]domain.Gift, int, error) {
	return nil, 0, nil
}

func (r *fakeGiftRepo) Search(context.Context, repository.SearchGiftsInput) ([]domain.Gift, int, error) {
	return nil, 0, nil
}

func TestSeedIfEmpty(t *testing.T) {
	ctx := context.Background()

	t.Run("empty catalog is seeded", func(t *testing.T) {
		repo := &fakeGiftRepo{}
		n, err := NewSeeder(repo, NewGenerator(1), slog.Default()).SeedIfEmpty(ctx)
		if err != nil {
			t.Fatalf("SeedIfEmpty: %v", err)
		}
		if n == 0 || int(n) != len(repo.created) {
			t.Errorf("n = %d, created = %d", n, len(repo.created))
		}
	})

	t.Run("existing catalog is left alone", func(t *testing.T) {
		repo := &fakeGiftRepo{count: 3}
		n, err := NewSeeder(repo, NewGenerator(1), slog.Default()).SeedIfEmpty(ctx)
		if err != nil {
			t.Fatalf("SeedIfEmpty: %v", err)
		}
		if n != 0 || len(repo.created) != 0 {
			t.Errorf("n = %d, created = %d", n, len(repo.created))
		}
	})

	t.Run("count failure", func(t *testing.T) {
		boom := errors.New("boom")
		repo := &fakeGiftRepo{countFn: func() (int, error) { return 0, boom }}
		_, err := NewSeeder(repo, NewGenerator(1), slog.Default()).SeedIfEmpty(ctx)
		if !errors.Is(err, boom) {
			t.Errorf("err = %v, want boom", err)
		}
	})
}
