package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"plan-editor/internal/editor/models"
)

// ============================================================
// SQLite Repository
// ============================================================

var ErrPlanNotFound = errors.New("plan not found")

// fixed width so updated_at sorts as text
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init запускает миграции.
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	if err := r.runMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// SavePlan сохраняет снимок плана, создавая id при необходимости.
func (r *Repository) SavePlan(ctx context.Context, plan models.Plan) (models.Plan, error) {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.Segments == nil {
		plan.Segments = []models.Segment{}
	}
	plan.UpdatedAt = time.Now().UTC()

	segments, err := json.Marshal(plan.Segments)
	if err != nil {
		return models.Plan{}, fmt.Errorf("encode segments: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO plans (id, name, scale, segments, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            scale = excluded.scale,
            segments = excluded.segments,
            updated_at = excluded.updated_at
    `, plan.ID, plan.Name, plan.Scale, string(segments), plan.UpdatedAt.Format(timeLayout))
	if err != nil {
		return models.Plan{}, fmt.Errorf("save plan %s: %w", plan.ID, err)
	}
	return plan, nil
}

func (r *Repository) GetPlan(ctx context.Context, id string) (models.Plan, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, scale, segments, updated_at
        FROM plans
        WHERE id = ?
    `, id)

	plan, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Plan{}, fmt.Errorf("plan %s: %w", id, ErrPlanNotFound)
		}
		return models.Plan{}, err
	}
	return plan, nil
}

// ListPlans возвращает планы, начиная с последних изменённых.
func (r *Repository) ListPlans(ctx context.Context) ([]models.Plan, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, scale, segments, updated_at
        FROM plans
        ORDER BY updated_at DESC, id
    `)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	plans := []models.Plan{}
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func (r *Repository) DeletePlan(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete plan %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("plan %s: %w", id, ErrPlanNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlan(row scanner) (models.Plan, error) {
	var (
		plan      models.Plan
		segments  string
		updatedAt string
	)
	if err := row.Scan(&plan.ID, &plan.Name, &plan.Scale, &segments, &updatedAt); err != nil {
		return models.Plan{}, err
	}
	if err := json.Unmarshal([]byte(segments), &plan.Segments); err != nil {
		return models.Plan{}, fmt.Errorf("decode segments of %s: %w", plan.ID, err)
	}
	t, err := time.Parse(timeLayout, updatedAt)
	if err != nil {
		return models.Plan{}, fmt.Errorf("decode updated_at of %s: %w", plan.ID, err)
	}
	plan.UpdatedAt = t
	return plan, nil
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
