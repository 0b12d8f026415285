package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/student-gifts/internal/domain"
	"github.com/ErlanBelekov/student-gifts/internal/repository"
	"github.com/jackc/pgx/v5"
)

const giftColumns = `g.id::text, g.title, g.category, g.description, g.terms, g.brand_title,
		       g.brand_logo_url, g.image_url, g.type, g.channel, g.status`

type GiftRepository struct {
	db DBTX
}

func NewGiftRepository(db DBTX) *GiftRepository {
	return &GiftRepository{db: db}
}

// CreateMany bulk-inserts gifts with COPY. Gift IDs are generated by the
// database, so any ID on the input is ignored.
func (r *GiftRepository) CreateMany(ctx context.Context, gifts []domain.Gift) (int64, error) {
	n, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"gifts"},
		[]string{"title", "category", "description", "terms", "brand_title",
			"brand_logo_url", "image_url", "type", "channel", "status"},
		pgx.CopyFromSlice(len(gifts), func(i int) ([]any, error) {
			g := gifts[i]
			return []any{g.Title, g.Category, g.Description, g.Terms, g.BrandTitle,
				g.BrandLogoURL, g.ImageURL, g.Type, g.Channel, g.Status}, nil
		}),
	)
	if err != nil {
		return 0, queryFailed("Failed to insert gifts", "gifts.create_many", err)
	}
	return n, nil
}

func (r *GiftRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM gifts`).Scan(&n); err != nil {
		return 0, queryFailed("Failed to count gifts", "gifts.count", err)
	}
	return n, nil
}

func (r *GiftRepository) List(ctx context.Context, input repository.ListGiftsInput) ([]domain.Gift, int, error) {
	var (
		args  []any
		where []string
	)

	f := input.Filters
	if len(f.Channels) > 0 {
		args = append(args, f.Channels)
		where = append(where, fmt.Sprintf("g.channel = ANY($%d)", len(args)))
	}
	if len(f.Types) > 0 {
		args = append(args, f.Types)
		where = append(where, fmt.Sprintf("g.type = ANY($%d)", len(args)))
	}
	if len(f.BrandTitles) > 0 {
		args = append(args, f.BrandTitles)
		where = append(where, fmt.Sprintf("g.brand_title = ANY($%d)", len(args)))
	}
	if f.HasCategory() {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("g.category = $%d", len(args)))
	}

	return r.page(ctx, "gifts.list", where, args, input.Sort, input.Limit, input.Offset)
}

func (r *GiftRepository) Search(ctx context.Context, input repository.SearchGiftsInput) ([]domain.Gift, int, error) {
	var (
		args  []any
		where []string
	)

	if term := strings.TrimSpace(input.Input); term != "" {
		args = append(args, "%"+escapeLike(term)+"%")
		where = append(where, fmt.Sprintf(`g.title ILIKE $%d ESCAPE '\'`, len(args)))
	}

	return r.page(ctx, "gifts.search", where, args, input.Sort, input.Limit, input.Offset)
}

// page runs the total count and the page query for the same WHERE clause.
func (r *GiftRepository) page(ctx context.Context, path string, where []string, args []any, sort domain.Sort, limit, offset int) ([]domain.Gift, int, error) {
	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM gifts g `+clause, args...).Scan(&total); err != nil {
		return nil, 0, queryFailed("Failed to count gifts", path, err)
	}
	if total == 0 {
		return []domain.Gift{}, 0, nil
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM gifts g
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		giftColumns, clause, orderBy(sort), len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, queryFailed("Failed to list gifts", path, err)
	}
	gifts, err := collectGifts(rows)
	if err != nil {
		return nil, 0, queryFailed("Failed to list gifts", path, err)
	}
	return gifts, total, nil
}

// NEW_IN sorts after ENDING_SOON alphabetically, so DESC puts new gifts first.
func orderBy(s domain.Sort) string {
	if s == domain.SortEndingSoon {
		return "g.status ASC, g.title ASC, g.id ASC"
	}
	return "g.status DESC, g.title ASC, g.id ASC"
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func collectGifts(rows pgx.Rows) ([]domain.Gift, error) {
	defer rows.Close()

	gifts := []domain.Gift{}
	for rows.Next() {
		g, err := scanGift(rows)
		if err != nil {
			return nil, err
		}
		gifts = append(gifts, g)
	}
	return gifts, rows.Err()
}

func scanGift(row rowScanner) (domain.Gift, error) {
	var g domain.Gift
	err := row.Scan(
		&g.ID, &g.Title, &g.Category, &g.Description, &g.Terms, &g.BrandTitle,
		&g.BrandLogoURL, &g.ImageURL, &g.Type, &g.Channel, &g.Status,
	)
	if err != nil {
		return domain.Gift{}, fmt.Errorf("scan gift: %w", err)
	}
	return g, nil
}
