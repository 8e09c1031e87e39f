package repository

import (
	"context"
	"fmt"

	"github.com/evlasenko/tutor_market/internal/model"
	"github.com/evlasenko/tutor_market/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StudentProfileRepository struct {
	db *base.Repository
}

func NewStudentProfileRepository(pool *pgxpool.Pool) *StudentProfileRepository {
	return &StudentProfileRepository{db: base.NewRepository(pool)}
}

// GetByMemberID получает профиль студента
func (r *StudentProfileRepository) GetByMemberID(ctx context.Context, memberID int64) (*model.StudentProfile, error) {
	query := `
		SELECT member_id, school, grade, birth_date, parent_name, parent_phone, created_at
		FROM student_profiles
		WHERE member_id = $1
	`

	var p model.StudentProfile
	err := r.db.DB(ctx).QueryRow(ctx, query, memberID).Scan(
		&p.MemberID,
		&p.School,
		&p.Grade,
		&p.BirthDate,
		&p.ParentName,
		&p.ParentPhone,
		&p.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get student profile: %w", err)
	}

	return &p, nil
}

// GetByMemberIDs получает профили студентов по списку ID
func (r *StudentProfileRepository) GetByMemberIDs(ctx context.Context, memberIDs []int64) ([]*model.StudentProfile, error) {
	if len(memberIDs) == 0 {
		return []*model.StudentProfile{}, nil
	}

	query := `
		SELECT member_id, school, grade, birth_date, parent_name, parent_phone, created_at
		FROM student_profiles
		WHERE member_id = ANY($1)
	`

	rows, err := r.db.DB(ctx).Query(ctx, query, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("get student profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*model.StudentProfile
	for rows.Next() {
		var p model.StudentProfile
		err := rows.Scan(
			&p.MemberID,
			&p.School,
			&p.Grade,
			&p.BirthDate,
			&p.ParentName,
			&p.ParentPhone,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan student profile: %w", err)
		}
		profiles = append(profiles, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate student profiles: %w", err)
	}

	return profiles, nil
}
