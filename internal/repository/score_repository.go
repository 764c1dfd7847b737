package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sedhub/tender-insight-api/internal/scoring"
)

// scoreRepository implements ScoreRepository over Postgres. The
// score_results table is append-only; there are deliberately no UPDATE or
// DELETE statements in this file.
type scoreRepository struct {
	db dbExecutor
}

// NewScoreRepository creates a new score ledger repository
func NewScoreRepository(db dbExecutor) ScoreRepository {
	return &scoreRepository{db: db}
}

// Append records a scoring result and returns its assigned ID
func (r *scoreRepository) Append(ctx context.Context, result *scoring.Result) (uuid.UUID, error) {
	breakdownJSON, err := json.Marshal(result.Breakdown)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal score breakdown: %w", err)
	}

	id := uuid.New()
	query := `
		INSERT INTO score_results (id, profile_id, tenant_id, category, overall_score, breakdown, tier, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.ExecContext(ctx, query,
		id, result.ProfileID, result.TenantID, string(result.Category),
		result.OverallScore, breakdownJSON, string(result.Tier), result.ComputedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to append score result: %w", err)
	}

	result.ID = id
	return id, nil
}

// Latest returns the most recent result for a profile, optionally narrowed
// to one category.
func (r *scoreRepository) Latest(ctx context.Context, profileID uuid.UUID, category scoring.TenderCategory) (*scoring.Result, error) {
	query := `
		SELECT id, profile_id, tenant_id, category, overall_score, breakdown, tier, computed_at
		FROM score_results
		WHERE profile_id = $1 AND ($2 = '' OR category = $2)
		ORDER BY computed_at DESC
		LIMIT 1
	`

	result, err := scanScore(r.db.QueryRowContext(ctx, query, profileID, string(category)))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// History returns results ordered by computation time descending
func (r *scoreRepository) History(ctx context.Context, profileID uuid.UUID, category scoring.TenderCategory, limit int) ([]scoring.Result, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, profile_id, tenant_id, category, overall_score, breakdown, tier, computed_at
		FROM score_results
		WHERE profile_id = $1 AND ($2 = '' OR category = $2)
		ORDER BY computed_at DESC
		LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, profileID, string(category), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query score history: %w", err)
	}
	defer rows.Close()

	var results []scoring.Result
	for rows.Next() {
		var (
			result        scoring.Result
			categoryStr   string
			tier          string
			breakdownJSON []byte
			computedAt    time.Time
		)
		err := rows.Scan(&result.ID, &result.ProfileID, &result.TenantID, &categoryStr,
			&result.OverallScore, &breakdownJSON, &tier, &computedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan score result: %w", err)
		}

		if err := json.Unmarshal(breakdownJSON, &result.Breakdown); err != nil {
			return nil, fmt.Errorf("failed to unmarshal score breakdown: %w", err)
		}
		result.Category = scoring.TenderCategory(categoryStr)
		result.Tier = scoring.ReadinessTier(tier)
		result.ComputedAt = computedAt

		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate score history: %w", err)
	}

	return results, nil
}

func scanScore(row *sql.Row) (*scoring.Result, error) {
	var (
		result        scoring.Result
		category      string
		tier          string
		breakdownJSON []byte
	)

	err := row.Scan(&result.ID, &result.ProfileID, &result.TenantID, &category,
		&result.OverallScore, &breakdownJSON, &tier, &result.ComputedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get score result: %w", err)
	}

	if err := json.Unmarshal(breakdownJSON, &result.Breakdown); err != nil {
		return nil, fmt.Errorf("failed to unmarshal score breakdown: %w", err)
	}
	result.Category = scoring.TenderCategory(category)
	result.Tier = scoring.ReadinessTier(tier)

	return &result, nil
}
