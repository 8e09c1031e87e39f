package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/evlasenko/tutor_market/internal/model"
	"github.com/evlasenko/tutor_market/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RequestRepository struct {
	db *base.Repository
}

func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{db: base.NewRepository(pool)}
}

const requestColumns = `id, public_id, kind, initiator_id, target_id, owner_id, status, message, processed_by, processed_at, created_at`

func scanRequest(row interface{ Scan(dest ...any) error }) (*model.RelationRequest, error) {
	var req model.RelationRequest
	err := row.Scan(
		&req.ID,
		&req.PublicID,
		&req.Kind,
		&req.InitiatorID,
		&req.TargetID,
		&req.OwnerID,
		&req.Status,
		&req.Message,
		&req.ProcessedBy,
		&req.ProcessedAt,
		&req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Create создает заявку
func (r *RequestRepository) Create(ctx context.Context, req *model.RelationRequest) error {
	query := `
		INSERT INTO relation_requests (public_id, kind, initiator_id, target_id, owner_id, status, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.DB(ctx).QueryRow(
		ctx, query,
		req.PublicID,
		req.Kind,
		req.InitiatorID,
		req.TargetID,
		req.OwnerID,
		req.Status,
		req.Message,
	).Scan(&req.ID, &req.CreatedAt)

	if err != nil {
		return fmt.Errorf("create relation request: %w", err)
	}

	return nil
}

// GetByPublicID получает заявку по внешнему идентификатору
func (r *RequestRepository) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*model.RelationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM relation_requests WHERE public_id = $1`

	req, err := scanRequest(r.db.DB(ctx).QueryRow(ctx, query, publicID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get relation request: %w", err)
	}

	return req, nil
}

// ExistsForTarget проверяет, есть ли заявка инициатора к цели в одном из статусов
func (r *RequestRepository) ExistsForTarget(ctx context.Context, initiatorID, targetID int64, kind model.RequestKind, statuses []model.RequestStatus) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM relation_requests
			WHERE initiator_id = $1 AND target_id = $2 AND kind = $3 AND status = ANY($4)
		)
	`

	var exists bool
	err := r.db.DB(ctx).QueryRow(ctx, query, initiatorID, targetID, kind, statuses).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check request exists: %w", err)
	}

	return exists, nil
}

// MarkProcessed переводит pending-заявку в терминальный статус.
// Возвращает false, если заявка уже не pending (кто-то успел раньше).
func (r *RequestRepository) MarkProcessed(ctx context.Context, id int64, status model.RequestStatus, actorID int64, at time.Time) (bool, error) {
	query := `
		UPDATE relation_requests
		SET status = $2, processed_by = $3, processed_at = $4
		WHERE id = $1 AND status = $5
	`

	tag, err := r.db.DB(ctx).Exec(ctx, query, id, status, actorID, at, model.RequestStatusPending)
	if err != nil {
		return false, fmt.Errorf("mark request processed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// RequestFilter параметры поиска заявок
type RequestFilter struct {
	OwnerIDs    []int64 // пустой срез = без ограничения по владельцу
	InitiatorID *int64
	Statuses    []model.RequestStatus
	Keyword     *string // уже нормализован: без пробелов по краям, не пустой
	Limit       int
	Offset      int
}

// Search постранично ищет заявки. Keyword сравнивается без учёта регистра с
// именем и телефоном инициатора и со школой из его профиля студента.
func (r *RequestRepository) Search(ctx context.Context, f RequestFilter) ([]*model.RelationRequest, int64, error) {
	where := `WHERE 1=1`
	args := []any{}

	if len(f.OwnerIDs) > 0 {
		args = append(args, f.OwnerIDs)
		where += fmt.Sprintf(" AND r.owner_id = ANY($%d)", len(args))
	}
	if f.InitiatorID != nil {
		args = append(args, *f.InitiatorID)
		where += fmt.Sprintf(" AND r.initiator_id = $%d", len(args))
	}
	if len(f.Statuses) > 0 {
		args = append(args, f.Statuses)
		where += fmt.Sprintf(" AND r.status = ANY($%d)", len(args))
	}

	join := ""
	if f.Keyword != nil {
		join = `
		JOIN members m ON m.id = r.initiator_id
		LEFT JOIN student_profiles sp ON sp.member_id = r.initiator_id`
		args = append(args, "%"+*f.Keyword+"%")
		n := len(args)
		where += fmt.Sprintf(
			" AND (m.name ILIKE $%d OR m.phone ILIKE $%d OR sp.school ILIKE $%d OR sp.parent_phone ILIKE $%d)",
			n, n, n, n)
	}

	countQuery := `SELECT COUNT(*) FROM relation_requests r` + join + ` ` + where

	var total int64
	if err := r.db.DB(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count relation requests: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`
		SELECT r.id, r.public_id, r.kind, r.initiator_id, r.target_id, r.owner_id,
		       r.status, r.message, r.processed_by, r.processed_at, r.created_at
		FROM relation_requests r%s
		%s
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $%d OFFSET $%d
	`, join, where, len(args)-1, len(args))

	rows, err := r.db.DB(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search relation requests: %w", err)
	}
	defer rows.Close()

	var requests []*model.RelationRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan relation request: %w", err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate relation requests: %w", err)
	}

	return requests, total, nil
}
