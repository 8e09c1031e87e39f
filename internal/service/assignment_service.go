package service

import (
	"context"
	"fmt"
	"time"

	"github.com/evlasenko/tutor_market/internal/apperr"
	"github.com/evlasenko/tutor_market/internal/model"
	"go.uber.org/zap"
)

// AssignmentStore хранилище связей
type AssignmentStore interface {
	CreateOrReactivate(ctx context.Context, a *model.Assignment) error
	GetByID(ctx context.Context, id int64) (*model.Assignment, error)
	SetActive(ctx context.Context, id int64, active bool) (*model.Assignment, error)
	Exists(ctx context.Context, ownerID, subjectID int64, kind model.AssignmentKind, activeOnly bool) (bool, error)
}

// EnrollmentStore хранилище записей о зачислении
type EnrollmentStore interface {
	Create(ctx context.Context, e *model.Enrollment) error
	GetByAssignmentID(ctx context.Context, assignmentID int64) (*model.Enrollment, error)
}

// CourseReader чтение одного курса
type CourseReader interface {
	GetByID(ctx context.Context, id int64) (*model.Course, error)
}

// ScheduleSideEffects внешний коллаборатор планирования: вызывается при
// включении/выключении связи студент-курс
type ScheduleSideEffects interface {
	OnEnrollmentEnabled(ctx context.Context, enrollmentID, courseID int64) error
	OnEnrollmentDisabled(ctx context.Context, enrollmentID int64, asOf time.Time) error
}

// TxRunner выполняет функцию в одной единице работы
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AssignmentService реестр связей: долговечные many-to-many рёбра с мягким
// переключением active/inactive вместо удаления
type AssignmentService struct {
	assignments AssignmentStore
	enrollments EnrollmentStore
	courses     CourseReader
	schedule    ScheduleSideEffects
	authz       Authorizer
	tx          TxRunner
	logger      *zap.Logger
}

func NewAssignmentService(
	assignments AssignmentStore,
	enrollments EnrollmentStore,
	courses CourseReader,
	schedule ScheduleSideEffects,
	authz Authorizer,
	tx TxRunner,
	logger *zap.Logger,
) *AssignmentService {
	return &AssignmentService{
		assignments: assignments,
		enrollments: enrollments,
		courses:     courses,
		schedule:    schedule,
		authz:       authz,
		tx:          tx,
		logger:      logger,
	}
}

// Create создаёт связь. Если неактивная строка той же тройки уже есть, она
// включается обратно с сохранением идентичности; активная строка — Conflict.
func (s *AssignmentService) Create(ctx context.Context, ownerID, subjectID int64, kind model.AssignmentKind, branchRole string) (*model.Assignment, error) {
	if !kind.Valid() {
		return nil, apperr.Newf(apperr.KindBadRequest, "unknown assignment kind %q", kind)
	}
	if branchRole != "" && kind != model.AssignmentTeacherBranch {
		return nil, apperr.New(apperr.KindBadRequest, "branch role is only valid for teacher_branch assignments")
	}
	if kind == model.AssignmentTeacherBranch && branchRole == "" {
		branchRole = model.BranchRoleStaff
	}

	a := &model.Assignment{
		OwnerID:    ownerID,
		SubjectID:  subjectID,
		Kind:       kind,
		BranchRole: branchRole,
	}

	if err := s.assignments.CreateOrReactivate(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("Assignment created",
		zap.Int64("assignment_id", a.ID),
		zap.Int64("owner_id", ownerID),
		zap.Int64("subject_id", subjectID),
		zap.String("kind", string(kind)),
	)

	return a, nil
}

// Exists проверяет наличие связи; состояние не меняет
func (s *AssignmentService) Exists(ctx context.Context, ownerID, subjectID int64, kind model.AssignmentKind, activeOnly bool) (bool, error) {
	return s.assignments.Exists(ctx, ownerID, subjectID, kind, activeOnly)
}

// SetActive идемпотентно переключает связь. Повтор в том же состоянии просто
// возвращает текущее состояние, побочные эффекты срабатывают только при
// реальном переходе.
func (s *AssignmentService) SetActive(ctx context.Context, assignmentID int64, active bool) (*model.Assignment, error) {
	a, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "assignment %d not found", assignmentID)
	}

	return s.apply(ctx, a, active)
}

// SetActiveAs переключает связь от имени действующего лица с проверкой
// делегирования. Для связи студент-курс авторизация идёт через учителя курса.
func (s *AssignmentService) SetActiveAs(ctx context.Context, actorID int64, role model.Role, assignmentID int64, active bool) (*model.Assignment, error) {
	a, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "assignment %d not found", assignmentID)
	}

	teacherID := a.OwnerID
	if a.Kind == model.AssignmentStudentCourse {
		course, err := s.courses.GetByID(ctx, a.SubjectID)
		if err != nil {
			return nil, err
		}
		if course == nil {
			return nil, apperr.Newf(apperr.KindNotFound, "referential mismatch: course %d of assignment %d", a.SubjectID, a.ID)
		}
		teacherID = course.TeacherID
	}

	if err := s.authz.Authorize(ctx, actorID, role, teacherID); err != nil {
		return nil, err
	}

	return s.apply(ctx, a, active)
}

func (s *AssignmentService) apply(ctx context.Context, a *model.Assignment, active bool) (*model.Assignment, error) {
	// нет перехода - нет побочных эффектов
	if a.IsActive == active {
		return a, nil
	}

	var updated *model.Assignment
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.assignments.SetActive(ctx, a.ID, active)
		if err != nil {
			return err
		}
		if updated == nil {
			return apperr.Newf(apperr.KindNotFound, "assignment %d not found", a.ID)
		}

		if a.Kind == model.AssignmentStudentCourse {
			return s.runScheduleHooks(ctx, updated)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Assignment toggled",
		zap.Int64("assignment_id", updated.ID),
		zap.String("kind", string(updated.Kind)),
		zap.Bool("active", updated.IsActive),
	)

	return updated, nil
}

func (s *AssignmentService) runScheduleHooks(ctx context.Context, a *model.Assignment) error {
	e, err := s.enrollments.GetByAssignmentID(ctx, a.ID)
	if err != nil {
		return err
	}
	if e == nil {
		return apperr.Newf(apperr.KindNotFound, "referential mismatch: enrollment of assignment %d", a.ID)
	}

	if a.IsActive {
		if err := s.schedule.OnEnrollmentEnabled(ctx, e.ID, e.CourseID); err != nil {
			return fmt.Errorf("schedule on enable: %w", err)
		}
		return nil
	}

	asOf := time.Now()
	if a.DeletedAt != nil {
		asOf = *a.DeletedAt
	}
	if err := s.schedule.OnEnrollmentDisabled(ctx, e.ID, asOf); err != nil {
		return fmt.Errorf("schedule on disable: %w", err)
	}
	return nil
}
