package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"

	"AplusBackend/internal/domain"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// every pooled connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := EnsureSchema(context.Background(), db, DriverSQLite); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return db
}

func TestSQLRepositoryRoundTripSQLite(t *testing.T) {
	t.Parallel()

	db := openSQLite(t)
	repo := NewSQLRepository(db, DriverSQLite)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	first, err := repo.Create(ctx, domain.StudyPlanDraft{Name: "Calculus", Description: "Limits and derivatives"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := repo.Create(ctx, domain.StudyPlanDraft{Name: "Physics"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.ID == 0 || second.ID <= first.ID {
		t.Fatalf("unexpected ids: %d, %d", first.ID, second.ID)
	}

	plans, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(plans))
	}
	if plans[0].Name != "Physics" || plans[0].Description != "" {
		t.Fatalf("expected newest plan first, got %+v", plans[0])
	}
	if plans[1].Description != "Limits and derivatives" {
		t.Fatalf("unexpected description: %+v", plans[1])
	}
	if !plans[1].CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("created_at mismatch: %v vs %v", plans[1].CreatedAt, first.CreatedAt)
	}
}

func TestSaveMaterialSQLite(t *testing.T) {
	t.Parallel()

	db := openSQLite(t)
	repo := NewSQLRepository(db, DriverSQLite)

	err := repo.SaveMaterial(context.Background(), domain.Material{
		PlanID:      99,
		Kind:        domain.KindWeb,
		Source:      "https://example.org",
		ArtifactURL: "",
		TextLength:  120,
	})
	if err != nil {
		t.Fatalf("SaveMaterial: %v", err)
	}

	var (
		count int
		url   sql.NullString
	)
	if err := db.QueryRow(`SELECT COUNT(*), MAX(artifact_url) FROM plan_materials WHERE plan_id = 99`).Scan(&count, &url); err != nil {
		t.Fatalf("query: %v", err)
	}
	if count != 1 || url.Valid {
		t.Fatalf("unexpected row: count=%d url=%v", count, url)
	}
}

func TestCreatePostgresUsesDollarPlaceholders(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewSQLRepository(db, DriverPostgres)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO study_plans (plan_name,plan_description,created_at) VALUES ($1,$2,$3) RETURNING id",
	)).
		WithArgs("Algebra", "Groups", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	plan, err := repo.Create(context.Background(), domain.StudyPlanDraft{Name: "Algebra", Description: "Groups"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if plan.ID != 7 || plan.Name != "Algebra" {
		t.Fatalf("unexpected plan: %+v", plan)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateRollsBackOnError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewSQLRepository(db, DriverPostgres)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO study_plans").WillReturnError(errors.New("relation does not exist"))
	mock.ExpectRollback()

	if _, err := repo.Create(context.Background(), domain.StudyPlanDraft{Name: "x"}); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListScansNullDescription(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, plan_name, plan_description, created_at FROM study_plans ORDER BY created_at DESC, id DESC",
	)).WillReturnRows(sqlmock.NewRows([]string{"id", "plan_name", "plan_description", "created_at"}).
		AddRow(2, "B", nil, now).
		AddRow(1, "A", "desc", now.Add(-time.Hour)))

	plans, err := NewSQLRepository(db, DriverPostgres).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(plans) != 2 || plans[0].Description != "" || plans[1].Description != "desc" {
		t.Fatalf("unexpected plans: %+v", plans)
	}
}

func TestNilDatabase(t *testing.T) {
	t.Parallel()

	repo := NewSQLRepository(nil, DriverPostgres)
	if _, err := repo.Create(context.Background(), domain.StudyPlanDraft{Name: "x"}); err == nil {
		t.Fatal("expected error without database")
	}
	if err := repo.SaveMaterial(context.Background(), domain.Material{}); err != nil {
		t.Fatalf("SaveMaterial without database must be a no-op: %v", err)
	}
}
