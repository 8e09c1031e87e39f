package service

import (
	"context"

	"github.com/evlasenko/tutor_market/internal/apperr"
	"github.com/evlasenko/tutor_market/internal/model"
)

// MemberGetter чтение одного участника
type MemberGetter interface {
	GetByID(ctx context.Context, id int64) (*model.Member, error)
}

// ResolvedTarget результат разбора цели заявки: кто отвечает за решение и
// какую связь создаст одобрение
type ResolvedTarget struct {
	OwnerID             int64 // учитель, принимающий решение
	AssignmentOwnerID   int64
	AssignmentSubjectID int64
	AssignmentKind      model.AssignmentKind
	CourseID            int64 // только для записи на курс
}

// TargetResolver отличает разновидности заявок: движок один, разбор и
// валидация цели подставляются на каждый вид
type TargetResolver interface {
	Kind() model.RequestKind
	Resolve(ctx context.Context, initiatorID, targetID int64) (*ResolvedTarget, error)
}

// TeacherLinkResolver цель - учитель, одобрение создаёт связь teacher_student
type TeacherLinkResolver struct {
	members MemberGetter
}

func NewTeacherLinkResolver(members MemberGetter) *TeacherLinkResolver {
	return &TeacherLinkResolver{members: members}
}

func (r *TeacherLinkResolver) Kind() model.RequestKind {
	return model.RequestKindTeacherLink
}

func (r *TeacherLinkResolver) Resolve(ctx context.Context, initiatorID, targetID int64) (*ResolvedTarget, error) {
	if targetID == initiatorID {
		return nil, apperr.New(apperr.KindBadRequest, "cannot request a link to yourself")
	}

	m, err := r.members.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if m == nil || !m.IsAlive() || m.Role != model.RoleTeacher {
		return nil, apperr.Newf(apperr.KindNotFound, "teacher %d not found", targetID)
	}

	return &ResolvedTarget{
		OwnerID:             targetID,
		AssignmentOwnerID:   targetID,
		AssignmentSubjectID: initiatorID,
		AssignmentKind:      model.AssignmentTeacherStudent,
	}, nil
}

// CourseEnrollmentResolver цель - курс; отвечающий учитель разрешается
// транзитивно через курс, одобрение создаёт связь student_course
type CourseEnrollmentResolver struct {
	courses CourseReader
}

func NewCourseEnrollmentResolver(courses CourseReader) *CourseEnrollmentResolver {
	return &CourseEnrollmentResolver{courses: courses}
}

func (r *CourseEnrollmentResolver) Kind() model.RequestKind {
	return model.RequestKindCourseEnrollment
}

func (r *CourseEnrollmentResolver) Resolve(ctx context.Context, initiatorID, targetID int64) (*ResolvedTarget, error) {
	c, err := r.courses.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if c == nil || !c.IsAlive() {
		return nil, apperr.Newf(apperr.KindNotFound, "course %d not found", targetID)
	}

	return &ResolvedTarget{
		OwnerID:             c.TeacherID,
		AssignmentOwnerID:   initiatorID,
		AssignmentSubjectID: targetID,
		AssignmentKind:      model.AssignmentStudentCourse,
		CourseID:            targetID,
	}, nil
}
