package repository

import (
	"context"
	"fmt"

	"github.com/evlasenko/tutor_market/internal/model"
	"github.com/evlasenko/tutor_market/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EnrollmentRepository struct {
	db *base.Repository
}

func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: base.NewRepository(pool)}
}

// Create создает запись о зачислении
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	query := `
		INSERT INTO enrollments (student_id, course_id, assignment_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (student_id, course_id) DO UPDATE SET assignment_id = EXCLUDED.assignment_id
		RETURNING id, created_at
	`

	err := r.db.DB(ctx).QueryRow(
		ctx, query,
		e.StudentID,
		e.CourseID,
		e.AssignmentID,
	).Scan(&e.ID, &e.CreatedAt)

	if err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}

	return nil
}

// GetByAssignmentID получает зачисление по связанной связи student_course
func (r *EnrollmentRepository) GetByAssignmentID(ctx context.Context, assignmentID int64) (*model.Enrollment, error) {
	query := `
		SELECT id, student_id, course_id, assignment_id, created_at
		FROM enrollments
		WHERE assignment_id = $1
	`

	var e model.Enrollment
	err := r.db.DB(ctx).QueryRow(ctx, query, assignmentID).Scan(
		&e.ID,
		&e.StudentID,
		&e.CourseID,
		&e.AssignmentID,
		&e.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get enrollment: %w", err)
	}

	return &e, nil
}
