package repository

import (
	"context"
	"fmt"

	"github.com/evlasenko/tutor_market/internal/model"
	"github.com/evlasenko/tutor_market/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MemberRepository читает участников. Хранилище участников внешнее по
// отношению к ядру: здесь только чтение идентичности и роли.
type MemberRepository struct {
	db *base.Repository
}

func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{db: base.NewRepository(pool)}
}

// GetByID получает участника по ID
func (r *MemberRepository) GetByID(ctx context.Context, id int64) (*model.Member, error) {
	query := `
		SELECT id, name, phone, role, created_at, deleted_at
		FROM members
		WHERE id = $1
	`

	var m model.Member
	err := r.db.DB(ctx).QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.Name,
		&m.Phone,
		&m.Role,
		&m.CreatedAt,
		&m.DeletedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get member: %w", err)
	}

	return &m, nil
}

// GetByIDs получает участников по списку ID
func (r *MemberRepository) GetByIDs(ctx context.Context, ids []int64) ([]*model.Member, error) {
	if len(ids) == 0 {
		return []*model.Member{}, nil
	}

	query := `
		SELECT id, name, phone, role, created_at, deleted_at
		FROM members
		WHERE id = ANY($1)
	`

	rows, err := r.db.DB(ctx).Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get members by ids: %w", err)
	}
	defer rows.Close()

	var members []*model.Member
	for rows.Next() {
		var m model.Member
		err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.Phone,
			&m.Role,
			&m.CreatedAt,
			&m.DeletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}

	return members, nil
}
