package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
)

// InsertSchedulingResult 只保存最终结果，不保存迭代过程
func (r *Repository) InsertSchedulingResult(result *domain.SchedulingResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO scheduling_results (
			rating_table_id,
			generations,
			population_size,
			elite_count,
			crossover_rate,
			mutation_rate,
			random_seed,
			total_rating
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, version
	`

	args := []any{
		result.RatingTableID,
		result.Generations,
		result.PopulationSize,
		result.EliteCount,
		result.CrossoverRate,
		result.MutationRate,
		result.RandomSeed,
		result.TotalRating,
	}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&result.ID, &result.CreatedAt, &result.Version); err != nil {
		return err
	}

	for slot, program := range result.Schedule {
		query := `
			INSERT INTO scheduling_result_slots (scheduling_result_id, slot_index, program_name)
			VALUES ($1, $2, $3)
		`
		if _, err := tx.ExecContext(ctx, query, result.ID, slot, program); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// 返回的结果中 Slots 为空，需要调用方根据时段配置生成
func (r *Repository) GetSchedulingResultByID(id int64) (*domain.SchedulingResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			sr.rating_table_id,
			sr.generations,
			sr.population_size,
			sr.elite_count,
			sr.crossover_rate,
			sr.mutation_rate,
			sr.random_seed,
			sr.total_rating,
			sr.created_at,
			sr.version,
			srs.program_name
		FROM scheduling_results sr
		LEFT JOIN scheduling_result_slots srs ON sr.id = srs.scheduling_result_id
		WHERE sr.id = $1
		ORDER BY srs.slot_index
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := &domain.SchedulingResult{
		ID:       id,
		Schedule: make([]string, 0),
	}
	found := false

	for rows.Next() {
		var program sql.NullString

		dst := []any{
			&result.RatingTableID,
			&result.Generations,
			&result.PopulationSize,
			&result.EliteCount,
			&result.CrossoverRate,
			&result.MutationRate,
			&result.RandomSeed,
			&result.TotalRating,
			&result.CreatedAt,
			&result.Version,
			&program,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		found = true

		if !program.Valid {
			continue
		}
		result.Schedule = append(result.Schedule, program.String)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 还需要处理没有结果的情况
	if !found {
		return nil, sql.ErrNoRows
	}

	return result, nil
}

// GetAllSchedulingResultsByRatingTableID 只返回结果的元数据，不包含排班表
func (r *Repository) GetAllSchedulingResultsByRatingTableID(ratingTableID int64) ([]*domain.SchedulingResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			id,
			generations,
			population_size,
			elite_count,
			crossover_rate,
			mutation_rate,
			random_seed,
			total_rating,
			created_at,
			version
		FROM scheduling_results
		WHERE rating_table_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.dbpool.QueryContext(ctx, query, ratingTableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]*domain.SchedulingResult, 0)
	for rows.Next() {
		result := &domain.SchedulingResult{
			RatingTableID: ratingTableID,
		}
		dst := []any{
			&result.ID,
			&result.Generations,
			&result.PopulationSize,
			&result.EliteCount,
			&result.CrossoverRate,
			&result.MutationRate,
			&result.RandomSeed,
			&result.TotalRating,
			&result.CreatedAt,
			&result.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
