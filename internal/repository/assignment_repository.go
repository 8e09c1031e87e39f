package repository

import (
	"context"
	"fmt"

	"github.com/evlasenko/tutor_market/internal/apperr"
	"github.com/evlasenko/tutor_market/internal/model"
	"github.com/evlasenko/tutor_market/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AssignmentRepository struct {
	db *base.Repository
}

func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{db: base.NewRepository(pool)}
}

const assignmentColumns = `id, owner_id, subject_id, kind, branch_role, is_active, created_at, deleted_at`

// CreateOrReactivate создаёт связь или включает обратно неактивную строку той
// же тройки (owner, subject, kind). Гонку двух одновременных создании решает
// уникальный индекс: если активная строка уже есть, вернётся Conflict.
func (r *AssignmentRepository) CreateOrReactivate(ctx context.Context, a *model.Assignment) error {
	query := `
		INSERT INTO assignments (owner_id, subject_id, kind, branch_role, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (owner_id, subject_id, kind)
		DO UPDATE SET is_active = TRUE, deleted_at = NULL, branch_role = EXCLUDED.branch_role
		WHERE assignments.is_active = FALSE
		RETURNING ` + assignmentColumns

	err := r.db.DB(ctx).QueryRow(
		ctx, query,
		a.OwnerID,
		a.SubjectID,
		a.Kind,
		a.BranchRole,
	).Scan(
		&a.ID,
		&a.OwnerID,
		&a.SubjectID,
		&a.Kind,
		&a.BranchRole,
		&a.IsActive,
		&a.CreatedAt,
		&a.DeletedAt,
	)

	if err != nil {
		// пустой результат означает, что активная строка уже существует
		if base.IsNotFound(err) {
			return apperr.Newf(apperr.KindConflict,
				"assignment already active: owner=%d subject=%d kind=%s", a.OwnerID, a.SubjectID, a.Kind)
		}
		return fmt.Errorf("create assignment: %w", err)
	}

	return nil
}

// GetByID получает связь по ID
func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (*model.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1`

	var a model.Assignment
	err := r.db.DB(ctx).QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.OwnerID,
		&a.SubjectID,
		&a.Kind,
		&a.BranchRole,
		&a.IsActive,
		&a.CreatedAt,
		&a.DeletedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}

	return &a, nil
}

// SetActive включает или выключает связь. Выключение проставляет deleted_at,
// включение очищает его. Повторный вызов в том же состоянии безопасен.
func (r *AssignmentRepository) SetActive(ctx context.Context, id int64, active bool) (*model.Assignment, error) {
	query := `
		UPDATE assignments
		SET is_active = $2,
		    deleted_at = CASE WHEN $2 THEN NULL ELSE now() END
		WHERE id = $1
		RETURNING ` + assignmentColumns

	var a model.Assignment
	err := r.db.DB(ctx).QueryRow(ctx, query, id, active).Scan(
		&a.ID,
		&a.OwnerID,
		&a.SubjectID,
		&a.Kind,
		&a.BranchRole,
		&a.IsActive,
		&a.CreatedAt,
		&a.DeletedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("set assignment active: %w", err)
	}

	return &a, nil
}

// Exists проверяет наличие связи для тройки (owner, subject, kind)
func (r *AssignmentRepository) Exists(ctx context.Context, ownerID, subjectID int64, kind model.AssignmentKind, activeOnly bool) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM assignments
			WHERE owner_id = $1 AND subject_id = $2 AND kind = $3
			  AND ($4 = FALSE OR is_active)
		)
	`

	var exists bool
	err := r.db.DB(ctx).QueryRow(ctx, query, ownerID, subjectID, kind, activeOnly).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check assignment exists: %w", err)
	}

	return exists, nil
}

// ActiveOwnerIDs получает владельцев активных связей данного subject
// (например, всех учителей ассистента)
func (r *AssignmentRepository) ActiveOwnerIDs(ctx context.Context, subjectID int64, kind model.AssignmentKind) ([]int64, error) {
	query := `
		SELECT owner_id
		FROM assignments
		WHERE subject_id = $1 AND kind = $2 AND is_active
		ORDER BY created_at DESC
	`

	rows, err := r.db.DB(ctx).Query(ctx, query, subjectID, kind)
	if err != nil {
		return nil, fmt.Errorf("get active owner ids: %w", err)
	}
	defer rows.Close()

	var ownerIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan owner id: %w", err)
		}
		ownerIDs = append(ownerIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate owner ids: %w", err)
	}

	return ownerIDs, nil
}

// ListSubjectIDs постранично получает subject_id активных связей владельцев
// (например, студентов учителя или набора учителей)
func (r *AssignmentRepository) ListSubjectIDs(ctx context.Context, ownerIDs []int64, kind model.AssignmentKind, limit, offset int) ([]int64, int64, error) {
	if len(ownerIDs) == 0 {
		return []int64{}, 0, nil
	}

	countQuery := `
		SELECT COUNT(DISTINCT subject_id)
		FROM assignments
		WHERE owner_id = ANY($1) AND kind = $2 AND is_active
	`

	var total int64
	if err := r.db.DB(ctx).QueryRow(ctx, countQuery, ownerIDs, kind).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count subject ids: %w", err)
	}

	query := `
		SELECT subject_id
		FROM assignments
		WHERE owner_id = ANY($1) AND kind = $2 AND is_active
		GROUP BY subject_id
		ORDER BY MIN(created_at) DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.DB(ctx).Query(ctx, query, ownerIDs, kind, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list subject ids: %w", err)
	}
	defer rows.Close()

	var subjectIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, 0, fmt.Errorf("scan subject id: %w", err)
		}
		subjectIDs = append(subjectIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate subject ids: %w", err)
	}

	return subjectIDs, total, nil
}

// ListOwnerIDs постранично получает owner_id активных связей subject
// (например, учителей студента)
func (r *AssignmentRepository) ListOwnerIDs(ctx context.Context, subjectID int64, kind model.AssignmentKind, limit, offset int) ([]int64, int64, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM assignments
		WHERE subject_id = $1 AND kind = $2 AND is_active
	`

	var total int64
	if err := r.db.DB(ctx).QueryRow(ctx, countQuery, subjectID, kind).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count owner ids: %w", err)
	}

	query := `
		SELECT owner_id
		FROM assignments
		WHERE subject_id = $1 AND kind = $2 AND is_active
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.DB(ctx).Query(ctx, query, subjectID, kind, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list owner ids: %w", err)
	}
	defer rows.Close()

	var ownerIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, 0, fmt.Errorf("scan owner id: %w", err)
		}
		ownerIDs = append(ownerIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate owner ids: %w", err)
	}

	return ownerIDs, total, nil
}
