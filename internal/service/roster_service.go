package service

import (
	"context"

	"github.com/evlasenko/tutor_market/internal/apperr"
	"github.com/evlasenko/tutor_market/internal/model"
	"go.uber.org/zap"
)

// RosterStore постраничное чтение активных связей
type RosterStore interface {
	ListSubjectIDs(ctx context.Context, ownerIDs []int64, kind model.AssignmentKind, limit, offset int) ([]int64, int64, error)
	ListOwnerIDs(ctx context.Context, subjectID int64, kind model.AssignmentKind, limit, offset int) ([]int64, int64, error)
}

// RosterService read-сторона связей: списки студентов учителя и учителей
// студента, собранные ассемблером
type RosterService struct {
	assignments RosterStore
	authz       Authorizer
	assembler   *ViewAssembler
	logger      *zap.Logger
}

func NewRosterService(assignments RosterStore, authz Authorizer, assembler *ViewAssembler, logger *zap.Logger) *RosterService {
	return &RosterService{
		assignments: assignments,
		authz:       authz,
		assembler:   assembler,
		logger:      logger,
	}
}

// ListStudents выдаёт студентов учителя. Ассистент видит студентов всех
// делегировавших ему учителей; пустой набор делегирований - пустая страница.
func (s *RosterService) ListStudents(ctx context.Context, actorID int64, role model.Role, p PageRequest) (*StudentPage, error) {
	page := p.Normalize()

	var teacherIDs []int64
	switch role {
	case model.RoleTeacher:
		teacherIDs = []int64{actorID}
	case model.RoleAssistant:
		ids, err := s.authz.DelegatedTeacherIDs(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return &StudentPage{Items: []*StudentSummary{}, Page: page.Page, PerPage: page.PerPage}, nil
		}
		teacherIDs = ids
	default:
		return nil, apperr.Newf(apperr.KindForbidden, "role %q may not list a roster", role)
	}

	studentIDs, total, err := s.assignments.ListSubjectIDs(ctx, teacherIDs, model.AssignmentTeacherStudent, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}

	items, err := s.assembler.StudentSummaries(ctx, studentIDs)
	if err != nil {
		return nil, err
	}

	return &StudentPage{
		Items:   items,
		Total:   total,
		Page:    page.Page,
		PerPage: page.PerPage,
	}, nil
}

// ListTeachers выдаёт учителей студента
func (s *RosterService) ListTeachers(ctx context.Context, studentID int64, p PageRequest) (*TeacherPage, error) {
	page := p.Normalize()

	teacherIDs, total, err := s.assignments.ListOwnerIDs(ctx, studentID, model.AssignmentTeacherStudent, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}

	items, err := s.assembler.MemberSummaries(ctx, teacherIDs)
	if err != nil {
		return nil, err
	}

	return &TeacherPage{
		Items:   items,
		Total:   total,
		Page:    page.Page,
		PerPage: page.PerPage,
	}, nil
}
