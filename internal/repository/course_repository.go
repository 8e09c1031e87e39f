package repository

import (
	"context"
	"fmt"

	"github.com/evlasenko/tutor_market/internal/model"
	"github.com/evlasenko/tutor_market/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CourseRepository читает курсы и их цепочку владения
// (курс -> филиал -> компания). Ядру нужна только read-сторона.
type CourseRepository struct {
	db *base.Repository
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: base.NewRepository(pool)}
}

const courseColumns = `id, branch_id, teacher_id, name, description, created_at, deleted_at`

// GetByID получает курс по ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	var c model.Course
	err := r.db.DB(ctx).QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.BranchID,
		&c.TeacherID,
		&c.Name,
		&c.Description,
		&c.CreatedAt,
		&c.DeletedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	return &c, nil
}

// GetByIDs получает курсы по списку ID
func (r *CourseRepository) GetByIDs(ctx context.Context, ids []int64) ([]*model.Course, error) {
	if len(ids) == 0 {
		return []*model.Course{}, nil
	}

	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = ANY($1)`

	rows, err := r.db.DB(ctx).Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get courses by ids: %w", err)
	}
	defer rows.Close()

	var courses []*model.Course
	for rows.Next() {
		var c model.Course
		err := rows.Scan(
			&c.ID,
			&c.BranchID,
			&c.TeacherID,
			&c.Name,
			&c.Description,
			&c.CreatedAt,
			&c.DeletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}

	return courses, nil
}

// BranchesByIDs получает филиалы по списку ID
func (r *CourseRepository) BranchesByIDs(ctx context.Context, ids []int64) ([]*model.Branch, error) {
	if len(ids) == 0 {
		return []*model.Branch{}, nil
	}

	query := `
		SELECT id, company_id, name, is_verified, created_at, deleted_at
		FROM branches
		WHERE id = ANY($1)
	`

	rows, err := r.db.DB(ctx).Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get branches by ids: %w", err)
	}
	defer rows.Close()

	var branches []*model.Branch
	for rows.Next() {
		var b model.Branch
		err := rows.Scan(
			&b.ID,
			&b.CompanyID,
			&b.Name,
			&b.IsVerified,
			&b.CreatedAt,
			&b.DeletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		branches = append(branches, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate branches: %w", err)
	}

	return branches, nil
}

// CompaniesByIDs получает компании по списку ID
func (r *CourseRepository) CompaniesByIDs(ctx context.Context, ids []int64) ([]*model.Company, error) {
	if len(ids) == 0 {
		return []*model.Company{}, nil
	}

	query := `
		SELECT id, name, is_verified, created_at, deleted_at
		FROM companies
		WHERE id = ANY($1)
	`

	rows, err := r.db.DB(ctx).Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get companies by ids: %w", err)
	}
	defer rows.Close()

	var companies []*model.Company
	for rows.Next() {
		var c model.Company
		err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.IsVerified,
			&c.CreatedAt,
			&c.DeletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}

	return companies, nil
}
