package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/country-pulse/country-ratings/internal/domain"
)

// RatingsRepository persists country rating records and answers the
// grouping queries behind the statistics endpoints. Records are append-only:
// there is no update or delete.
type RatingsRepository struct {
	db DB
}

const statsColumns = `
    country_slug,
    COUNT(*)::int8 AS count,
    ROUND(AVG(rating)::numeric, 3)::float8 AS avg
`

// Insert stores one validated submission and returns the assigned record ID.
func (r *RatingsRepository) Insert(ctx context.Context, sub domain.RatingSubmission) (string, error) {
	const query = `
        INSERT INTO country_ratings (id, country_slug, rating, user_id, comment)
        VALUES ($1,$2,$3,$4,$5)
    `

	id := uuid.New().String()
	if _, err := r.db.Exec(ctx, query, id, sub.CountrySlug, sub.Rating, sub.UserID, sub.Comment); err != nil {
		return "", classifyWriteErr("insert rating", err)
	}
	return id, nil
}

// StatsAll returns per-country rating statistics for every country with at
// least one record, ordered by average descending with slug ascending as the
// tie-break. A positive limit caps the result size; zero or negative limits
// impose no truncation.
//
// Rounding happens database-side: ROUND on numeric rounds half away from
// zero, which is the documented contract for the 3-decimal averages.
func (r *RatingsRepository) StatsAll(ctx context.Context, limit int) ([]domain.CountryStats, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM country_ratings
        GROUP BY country_slug
        ORDER BY avg DESC, country_slug ASC
    `, statsColumns)

	var args []any
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, classifyAggregateErr("stats all countries", err)
	}
	defer rows.Close()

	stats := make([]domain.CountryStats, 0)
	for rows.Next() {
		var cs domain.CountryStats
		if err := rows.Scan(&cs.CountrySlug, &cs.Count, &cs.Avg); err != nil {
			return nil, classifyAggregateErr("stats all countries", err)
		}
		stats = append(stats, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyAggregateErr("stats all countries", err)
	}
	return stats, nil
}

// StatsBySlug returns the rating statistics for a single normalized slug.
// A slug with no records yields CountryStats{CountrySlug: slug} with zero
// count and zero average; that is a valid answer, not an error.
func (r *RatingsRepository) StatsBySlug(ctx context.Context, slug string) (domain.CountryStats, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM country_ratings
        WHERE country_slug = $1
        GROUP BY country_slug
    `, statsColumns)

	var cs domain.CountryStats
	err := r.db.QueryRow(ctx, query, slug).Scan(&cs.CountrySlug, &cs.Count, &cs.Avg)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CountryStats{CountrySlug: slug}, nil
		}
		return domain.CountryStats{}, classifyAggregateErr("stats by slug", err)
	}
	return cs, nil
}
