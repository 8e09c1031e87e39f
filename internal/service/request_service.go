package service

import (
	"context"
	"strings"
	"time"

	"github.com/evlasenko/tutor_market/internal/apperr"
	"github.com/evlasenko/tutor_market/internal/model"
	"github.com/evlasenko/tutor_market/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestStore хранилище заявок
type RequestStore interface {
	Create(ctx context.Context, req *model.RelationRequest) error
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*model.RelationRequest, error)
	ExistsForTarget(ctx context.Context, initiatorID, targetID int64, kind model.RequestKind, statuses []model.RequestStatus) (bool, error)
	MarkProcessed(ctx context.Context, id int64, status model.RequestStatus, actorID int64, at time.Time) (bool, error)
	Search(ctx context.Context, f repository.RequestFilter) ([]*model.RelationRequest, int64, error)
}

// RequestPolicy настройки движка заявок.
// RejectedBlocksNew: отклонённая заявка блокирует повторную к той же цели.
// Исторически так вели себя оба вида заявок; теперь это явная настройка.
type RequestPolicy struct {
	RejectedBlocksNew bool
}

// DefaultRequestPolicy исторические настройки
func DefaultRequestPolicy() RequestPolicy {
	return RequestPolicy{RejectedBlocksNew: true}
}

func (p RequestPolicy) blockingStatuses() []model.RequestStatus {
	statuses := []model.RequestStatus{
		model.RequestStatusPending,
		model.RequestStatusApproved,
	}
	if p.RejectedBlocksNew {
		statuses = append(statuses, model.RequestStatusRejected)
	}
	return statuses
}

// RequestService движок заявок: один конечный автомат
// pending -> {approved, rejected, cancelled}, параметризованный
// разновидностью цели через TargetResolver
type RequestService struct {
	requests    RequestStore
	assignments AssignmentStore
	enrollments EnrollmentStore
	schedule    ScheduleSideEffects
	members     MemberGetter
	resolvers   map[model.RequestKind]TargetResolver
	authz       Authorizer
	assembler   *ViewAssembler
	tx          TxRunner
	policy      RequestPolicy
	logger      *zap.Logger
}

func NewRequestService(
	requests RequestStore,
	assignments AssignmentStore,
	enrollments EnrollmentStore,
	schedule ScheduleSideEffects,
	members MemberGetter,
	authz Authorizer,
	assembler *ViewAssembler,
	tx TxRunner,
	policy RequestPolicy,
	logger *zap.Logger,
	resolvers ...TargetResolver,
) *RequestService {
	byKind := make(map[model.RequestKind]TargetResolver, len(resolvers))
	for _, r := range resolvers {
		byKind[r.Kind()] = r
	}

	return &RequestService{
		requests:    requests,
		assignments: assignments,
		enrollments: enrollments,
		schedule:    schedule,
		members:     members,
		resolvers:   byKind,
		authz:       authz,
		assembler:   assembler,
		tx:          tx,
		policy:      policy,
		logger:      logger,
	}
}

func (s *RequestService) resolver(kind model.RequestKind) (TargetResolver, error) {
	r, ok := s.resolvers[kind]
	if !ok {
		return nil, apperr.Newf(apperr.KindBadRequest, "unknown request kind %q", kind)
	}
	return r, nil
}

// Create создаёт заявку. Все проверки идут строго до записи: валидность цели,
// отсутствие дубликата заявки и отсутствие уже активной связи.
func (s *RequestService) Create(ctx context.Context, initiatorID int64, kind model.RequestKind, targetID int64, message string) (*RequestView, error) {
	if targetID <= 0 {
		return nil, apperr.New(apperr.KindBadRequest, "target id is required")
	}

	// заявки подают только живые студенты; проверяем до любой записи
	initiator, err := s.members.GetByID(ctx, initiatorID)
	if err != nil {
		return nil, err
	}
	if initiator == nil || !initiator.IsAlive() {
		return nil, apperr.Newf(apperr.KindNotFound, "member %d not found", initiatorID)
	}
	if initiator.Role != model.RoleStudent {
		return nil, apperr.Newf(apperr.KindForbidden, "role %q may not create requests", initiator.Role)
	}

	resolver, err := s.resolver(kind)
	if err != nil {
		return nil, err
	}

	rt, err := resolver.Resolve(ctx, initiatorID, targetID)
	if err != nil {
		return nil, err
	}

	blocked, err := s.requests.ExistsForTarget(ctx, initiatorID, targetID, kind, s.policy.blockingStatuses())
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, apperr.Newf(apperr.KindConflict, "request from %d to target %d already exists", initiatorID, targetID)
	}

	linked, err := s.assignments.Exists(ctx, rt.AssignmentOwnerID, rt.AssignmentSubjectID, rt.AssignmentKind, true)
	if err != nil {
		return nil, err
	}
	if linked {
		return nil, apperr.Newf(apperr.KindConflict, "active assignment between %d and %d already exists", rt.AssignmentOwnerID, rt.AssignmentSubjectID)
	}

	req := &model.RelationRequest{
		PublicID:    uuid.New(),
		Kind:        kind,
		InitiatorID: initiatorID,
		TargetID:    targetID,
		OwnerID:     rt.OwnerID,
		Status:      model.RequestStatusPending,
		Message:     strings.TrimSpace(message),
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info("Relation request created",
		zap.String("request_id", req.PublicID.String()),
		zap.String("kind", string(kind)),
		zap.Int64("initiator_id", initiatorID),
		zap.Int64("target_id", targetID),
	)

	return s.view(ctx, req)
}

// ListParams параметры списка заявок
type ListParams struct {
	Statuses []model.RequestStatus
	Keyword  string
	Page     PageRequest
}

// List постранично выдаёт заявки в зоне видимости действующего лица:
// учитель видит заявки на себя, ассистент - на всех делегировавших ему
// учителей, студент - свои собственные, админ - все
func (s *RequestService) List(ctx context.Context, actorID int64, role model.Role, p ListParams) (*RequestPage, error) {
	page := p.Page.Normalize()

	statuses := p.Statuses
	if len(statuses) == 0 {
		statuses = []model.RequestStatus{model.RequestStatusPending}
	}
	for _, st := range statuses {
		if !st.Valid() {
			return nil, apperr.Newf(apperr.KindBadRequest, "unknown request status %q", st)
		}
	}

	filter := repository.RequestFilter{
		Statuses: statuses,
		Keyword:  NormalizeKeyword(p.Keyword),
		Limit:    page.Limit(),
		Offset:   page.Offset(),
	}

	switch role {
	case model.RoleTeacher:
		filter.OwnerIDs = []int64{actorID}
	case model.RoleAssistant:
		teacherIDs, err := s.authz.DelegatedTeacherIDs(ctx, actorID)
		if err != nil {
			return nil, err
		}
		// ассистент без делегирований получает пустую страницу, не ошибку
		if len(teacherIDs) == 0 {
			return &RequestPage{Items: []*RequestView{}, Page: page.Page, PerPage: page.PerPage}, nil
		}
		filter.OwnerIDs = teacherIDs
	case model.RoleStudent:
		filter.InitiatorID = &actorID
	case model.RoleAdmin:
		// без ограничения по владельцу
	default:
		return nil, apperr.Newf(apperr.KindForbidden, "role %q may not list requests", role)
	}

	rows, total, err := s.requests.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	views, err := s.assembler.RequestViews(ctx, rows)
	if err != nil {
		return nil, err
	}

	return &RequestPage{
		Items:   views,
		Total:   total,
		Page:    page.Page,
		PerPage: page.PerPage,
	}, nil
}

// Cancel отзывает заявку. Разрешено только инициатору и только из pending.
func (s *RequestService) Cancel(ctx context.Context, actorID int64, publicID uuid.UUID) (*RequestView, error) {
	req, err := s.get(ctx, publicID)
	if err != nil {
		return nil, err
	}

	if req.InitiatorID != actorID {
		return nil, apperr.New(apperr.KindForbidden, "only the initiator may cancel a request")
	}
	if !req.IsPending() {
		return nil, apperr.Newf(apperr.KindInvalidState, "request %s is %s, not pending", publicID, req.Status)
	}

	now := time.Now()
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.markProcessed(ctx, req, model.RequestStatusCancelled, actorID, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Relation request cancelled",
		zap.String("request_id", publicID.String()),
		zap.Int64("initiator_id", actorID),
	)

	return s.view(ctx, req)
}

// Approve одобряет заявку: переводит её в approved и в той же транзакции
// создаёт связь, а для записи на курс - ещё и зачисление с первым занятием
func (s *RequestService) Approve(ctx context.Context, actorID int64, role model.Role, publicID uuid.UUID) (*RequestView, error) {
	req, err := s.get(ctx, publicID)
	if err != nil {
		return nil, err
	}

	if err := s.authz.Authorize(ctx, actorID, role, req.OwnerID); err != nil {
		return nil, err
	}
	if !req.IsPending() {
		return nil, apperr.Newf(apperr.KindInvalidState, "request %s is %s, not pending", publicID, req.Status)
	}

	resolver, err := s.resolver(req.Kind)
	if err != nil {
		return nil, err
	}
	rt, err := resolver.Resolve(ctx, req.InitiatorID, req.TargetID)
	if err != nil {
		return nil, err
	}

	// повторная проверка на момент одобрения; окончательное слово за
	// уникальным индексом внутри CreateOrReactivate
	linked, err := s.assignments.Exists(ctx, rt.AssignmentOwnerID, rt.AssignmentSubjectID, rt.AssignmentKind, true)
	if err != nil {
		return nil, err
	}
	if linked {
		return nil, apperr.Newf(apperr.KindConflict, "active assignment between %d and %d already exists", rt.AssignmentOwnerID, rt.AssignmentSubjectID)
	}

	now := time.Now()
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.markProcessed(ctx, req, model.RequestStatusApproved, actorID, now); err != nil {
			return err
		}

		a := &model.Assignment{
			OwnerID:   rt.AssignmentOwnerID,
			SubjectID: rt.AssignmentSubjectID,
			Kind:      rt.AssignmentKind,
		}
		if err := s.assignments.CreateOrReactivate(ctx, a); err != nil {
			return err
		}

		if req.Kind == model.RequestKindCourseEnrollment {
			e := &model.Enrollment{
				StudentID:    req.InitiatorID,
				CourseID:     rt.CourseID,
				AssignmentID: a.ID,
			}
			if err := s.enrollments.Create(ctx, e); err != nil {
				return err
			}
			if err := s.schedule.OnEnrollmentEnabled(ctx, e.ID, e.CourseID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Relation request approved",
		zap.String("request_id", publicID.String()),
		zap.Int64("actor_id", actorID),
		zap.Int64("initiator_id", req.InitiatorID),
		zap.Int64("owner_id", req.OwnerID),
	)

	return s.view(ctx, req)
}

// Reject отклоняет заявку; связь не создаётся
func (s *RequestService) Reject(ctx context.Context, actorID int64, role model.Role, publicID uuid.UUID) (*RequestView, error) {
	req, err := s.get(ctx, publicID)
	if err != nil {
		return nil, err
	}

	if err := s.authz.Authorize(ctx, actorID, role, req.OwnerID); err != nil {
		return nil, err
	}
	if !req.IsPending() {
		return nil, apperr.Newf(apperr.KindInvalidState, "request %s is %s, not pending", publicID, req.Status)
	}

	now := time.Now()
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.markProcessed(ctx, req, model.RequestStatusRejected, actorID, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Relation request rejected",
		zap.String("request_id", publicID.String()),
		zap.Int64("actor_id", actorID),
	)

	return s.view(ctx, req)
}

func (s *RequestService) get(ctx context.Context, publicID uuid.UUID) (*model.RelationRequest, error) {
	req, err := s.requests.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "request %s not found", publicID)
	}
	return req, nil
}

// markProcessed переводит заявку в терминальный статус с защитой от гонки:
// строка обновляется только из pending
func (s *RequestService) markProcessed(ctx context.Context, req *model.RelationRequest, status model.RequestStatus, actorID int64, at time.Time) error {
	ok, err := s.requests.MarkProcessed(ctx, req.ID, status, actorID, at)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Newf(apperr.KindInvalidState, "request %s is no longer pending", req.PublicID)
	}

	req.Status = status
	req.ProcessedBy = &actorID
	req.ProcessedAt = &at
	return nil
}

func (s *RequestService) view(ctx context.Context, req *model.RelationRequest) (*RequestView, error) {
	views, err := s.assembler.RequestViews(ctx, []*model.RelationRequest{req})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}
