package service

import (
	"context"
	"fmt"

	"github.com/evlasenko/tutor_market/internal/apperr"
	"github.com/evlasenko/tutor_market/internal/model"
	"go.uber.org/zap"
)

// DelegationStore чтение связей для проверки делегирования
type DelegationStore interface {
	Exists(ctx context.Context, ownerID, subjectID int64, kind model.AssignmentKind, activeOnly bool) (bool, error)
	ActiveOwnerIDs(ctx context.Context, subjectID int64, kind model.AssignmentKind) ([]int64, error)
}

// Authorizer решает, может ли действующее лицо работать в домене учителя
type Authorizer interface {
	Authorize(ctx context.Context, actorID int64, role model.Role, teacherID int64) error
	DelegatedTeacherIDs(ctx context.Context, assistantID int64) ([]int64, error)
}

// DelegationResolver единая точка авторизации операций, ограниченных доменом
// учителя: сам учитель допускается всегда, ассистент — только при активной
// связи teacher_assistant, все остальные получают Forbidden.
type DelegationResolver struct {
	assignments DelegationStore
	logger      *zap.Logger
}

func NewDelegationResolver(assignments DelegationStore, logger *zap.Logger) *DelegationResolver {
	return &DelegationResolver{
		assignments: assignments,
		logger:      logger,
	}
}

// Authorize проверяет право действовать в домене учителя teacherID
func (r *DelegationResolver) Authorize(ctx context.Context, actorID int64, role model.Role, teacherID int64) error {
	// учитель в собственном домене допускается безусловно
	if actorID == teacherID {
		return nil
	}

	if role == model.RoleAssistant {
		delegated, err := r.assignments.Exists(ctx, teacherID, actorID, model.AssignmentTeacherAssistant, true)
		if err != nil {
			return fmt.Errorf("check delegation: %w", err)
		}
		if delegated {
			return nil
		}
	}

	r.logger.Warn("Authorization denied",
		zap.Int64("actor_id", actorID),
		zap.String("role", string(role)),
		zap.Int64("teacher_id", teacherID),
	)

	return apperr.Newf(apperr.KindForbidden, "actor %d may not act for teacher %d", actorID, teacherID)
}

// DelegatedTeacherIDs возвращает всех учителей, за которых может действовать
// ассистент. Пустой список — не ошибка: вызывающие просто получают пустую
// выборку.
func (r *DelegationResolver) DelegatedTeacherIDs(ctx context.Context, assistantID int64) ([]int64, error) {
	ids, err := r.assignments.ActiveOwnerIDs(ctx, assistantID, model.AssignmentTeacherAssistant)
	if err != nil {
		return nil, fmt.Errorf("get delegated teacher ids: %w", err)
	}

	return ids, nil
}
