package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
)

func (r *Repository) CreateRatingTable(table *domain.RatingTable) error {
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
		INSERT INTO rating_tables (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, table.Name, table.Description).Scan(&table.ID, &table.CreatedAt, &table.Version); err != nil {
		return err
	}

	for position, program := range table.Programs {
		query := `
			INSERT INTO rating_table_programs (rating_table_id, name, position)
			VALUES ($1, $2, $3)
			RETURNING id
		`

		var programID int64
		if err := tx.QueryRowContext(ctx, query, table.ID, program.Name, position).Scan(&programID); err != nil {
			return err
		}

		for slot, rating := range program.Ratings {
			query := `
				INSERT INTO program_ratings (program_id, slot_index, rating)
				VALUES ($1, $2, $3)
			`
			if _, err := tx.ExecContext(ctx, query, programID, slot, rating); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllRatingTables() ([]*domain.RatingTableMeta, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT rt.id, rt.name, rt.description, COUNT(rtp.id), rt.created_at
		FROM rating_tables rt
		LEFT JOIN rating_table_programs rtp ON rt.id = rtp.rating_table_id
		GROUP BY rt.id
		ORDER BY rt.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metas := make([]*domain.RatingTableMeta, 0)
	for rows.Next() {
		meta := &domain.RatingTableMeta{}
		dst := []any{&meta.ID, &meta.Name, &meta.Description, &meta.ProgramCount, &meta.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		metas = append(metas, meta)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return metas, nil
}

func (r *Repository) GetRatingTable(id int64) (*domain.RatingTable, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			rt.name,
			rt.description,
			rt.created_at,
			rt.version,
			rtp.id,
			rtp.name,
			pr.rating
		FROM rating_tables rt
		LEFT JOIN rating_table_programs rtp ON rt.id = rtp.rating_table_id
		LEFT JOIN program_ratings pr ON rtp.id = pr.program_id
		WHERE rt.id = $1
		ORDER BY rtp.position, pr.slot_index
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := &domain.RatingTable{
		ID:       id,
		Programs: make([]domain.ProgramRating, 0),
	}
	found := false
	indexMap := make(map[int64]int) // programID -> 在 table.Programs 中的下标

	for rows.Next() {
		var row struct {
			ProgramID   sql.NullInt64
			ProgramName sql.NullString
			Rating      sql.NullFloat64
		}

		dst := []any{
			&table.Name,
			&table.Description,
			&table.CreatedAt,
			&table.Version,
			&row.ProgramID,
			&row.ProgramName,
			&row.Rating,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		found = true

		// 如果 programID 为空，则表示这个评分表不存在任何节目
		if !row.ProgramID.Valid {
			continue
		}

		idx, exists := indexMap[row.ProgramID.Int64]
		if !exists {
			table.Programs = append(table.Programs, domain.ProgramRating{
				Name:    row.ProgramName.String,
				Ratings: make([]float64, 0),
			})
			idx = len(table.Programs) - 1
			indexMap[row.ProgramID.Int64] = idx
		}

		if !row.Rating.Valid {
			continue
		}

		table.Programs[idx].Ratings = append(table.Programs[idx].Ratings, row.Rating.Float64)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, sql.ErrNoRows
	}

	return table, nil
}

func (r *Repository) DeleteRatingTable(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	// 节目、评分以及排班结果都通过外键级联删除
	query := `
		DELETE FROM rating_tables WHERE id = $1
	`
	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
