package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"AplusBackend/internal/domain"
	"AplusBackend/internal/ports"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"

	plansTable     = "study_plans"
	materialsTable = "plan_materials"
)

// SQLRepository persists study plans and extracted materials.
type SQLRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	now     func() time.Time
}

var (
	_ ports.StudyPlanRepository = (*SQLRepository)(nil)
	_ ports.MaterialRepository  = (*SQLRepository)(nil)
)

// NewSQLRepository wires a sql.DB opened with driver.
func NewSQLRepository(db *sql.DB, driver string) *SQLRepository {
	return &SQLRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholderFor(driver)),
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func placeholderFor(driver string) sq.PlaceholderFormat {
	if driver == DriverSQLite {
		return sq.Question
	}
	return sq.Dollar
}

// Create inserts a plan inside a transaction and returns the stored row.
func (r *SQLRepository) Create(ctx context.Context, draft domain.StudyPlanDraft) (plan domain.StudyPlan, err error) {
	if r.db == nil {
		return domain.StudyPlan{}, errors.New("database is not configured")
	}

	createdAt := r.now()
	query, args, err := r.builder.
		Insert(plansTable).
		Columns("plan_name", "plan_description", "created_at").
		Values(draft.Name, nullable(draft.Description), createdAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return domain.StudyPlan{}, fmt.Errorf("build insert plan: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.StudyPlan{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var id int64
	if err = tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return domain.StudyPlan{}, fmt.Errorf("insert plan: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return domain.StudyPlan{}, fmt.Errorf("commit plan: %w", err)
	}

	return domain.StudyPlan{
		ID:          id,
		Name:        draft.Name,
		Description: draft.Description,
		CreatedAt:   createdAt,
	}, nil
}

// List returns all plans, newest first.
func (r *SQLRepository) List(ctx context.Context) ([]domain.StudyPlan, error) {
	if r.db == nil {
		return nil, errors.New("database is not configured")
	}

	query, args, err := r.builder.
		Select("id", "plan_name", "plan_description", "created_at").
		From(plansTable).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list plans: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	plans := []domain.StudyPlan{}
	for rows.Next() {
		var (
			plan domain.StudyPlan
			desc sql.NullString
		)
		if err := rows.Scan(&plan.ID, &plan.Name, &desc, &plan.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plan.Description = desc.String
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return plans, nil
}

// SaveMaterial records one extracted item for a plan.
func (r *SQLRepository) SaveMaterial(ctx context.Context, material domain.Material) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Insert(materialsTable).
		Columns("plan_id", "kind", "source", "artifact_url", "text_length", "created_at").
		Values(material.PlanID, string(material.Kind), material.Source, nullable(material.ArtifactURL), material.TextLength, r.now()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert material: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
