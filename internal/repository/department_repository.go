package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tcheflux/helpdesk/internal/domain"
)

// DepartmentRepository manages department persistence.
type DepartmentRepository interface {
	// Resolve returns the department id for an area name, inserting the
	// row when absent. The upsert is a single atomic statement so two
	// concurrent resolves of the same area both get the same id.
	Resolve(ctx context.Context, area string) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Department, error)
	List(ctx context.Context) ([]domain.Department, error)
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository builds the repository.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

func (r *departmentRepository) Resolve(ctx context.Context, area string) (int64, error) {
	// The no-op DO UPDATE makes RETURNING yield the existing row on conflict.
	const query = `
        INSERT INTO departamento (areas) VALUES ($1)
        ON CONFLICT (areas) DO UPDATE SET areas = EXCLUDED.areas
        RETURNING coddepto`
	var id int64
	if err := r.pool.QueryRow(ctx, query, area).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *departmentRepository) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	const query = `SELECT coddepto, areas FROM departamento WHERE coddepto=$1`
	var dept domain.Department
	if err := r.pool.QueryRow(ctx, query, id).Scan(&dept.CodDepto, &dept.Area); err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	const query = `SELECT coddepto, areas FROM departamento ORDER BY areas`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Department
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.CodDepto, &dept.Area); err != nil {
			return nil, err
		}
		result = append(result, dept)
	}
	return result, rows.Err()
}
