package service

import (
	"context"
	"testing"

	"github.com/evlasenko/tutor_market/internal/apperr"
	"github.com/evlasenko/tutor_market/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentService_Create(t *testing.T) {
	env := newTestEnv(t)

	a, err := env.assignSvc.Create(context.Background(), teacherID, studentID, model.AssignmentTeacherStudent, "")
	require.NoError(t, err)
	assert.NotZero(t, a.ID)
	assert.True(t, a.IsActive)
	assert.Equal(t, teacherID, a.OwnerID)
	assert.Equal(t, studentID, a.SubjectID)
}

func TestAssignmentService_Create_UnknownKind(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.assignSvc.Create(context.Background(), teacherID, studentID, "mentor", "")
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
}

func TestAssignmentService_Create_BranchRoleRules(t *testing.T) {
	env := newTestEnv(t)

	// роль в филиале допустима только для teacher_branch
	_, err := env.assignSvc.Create(context.Background(), teacherID, studentID, model.AssignmentTeacherStudent, model.BranchRoleManager)
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))

	a, err := env.assignSvc.Create(context.Background(), teacherID, branchID, model.AssignmentTeacherBranch, "")
	require.NoError(t, err)
	assert.Equal(t, model.BranchRoleStaff, a.BranchRole)
}

func TestAssignmentService_Create_ActiveDuplicateConflict(t *testing.T) {
	env := newTestEnv(t)
	env.link(t, teacherID, studentID)

	_, err := env.assignSvc.Create(context.Background(), teacherID, studentID, model.AssignmentTeacherStudent, "")
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestAssignmentService_Create_ReactivatesKeepingIdentity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	orig := env.link(t, teacherID, studentID)
	_, err := env.assignSvc.SetActive(ctx, orig.ID, false)
	require.NoError(t, err)

	a, err := env.assignSvc.Create(ctx, teacherID, studentID, model.AssignmentTeacherStudent, "")
	require.NoError(t, err)
	assert.Equal(t, orig.ID, a.ID, "reactivation must keep the original row")
	assert.True(t, a.IsActive)
	assert.Nil(t, a.DeletedAt)
}

func TestAssignmentService_SetActive_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.assignSvc.SetActive(context.Background(), 999, false)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestAssignmentService_SetActive_NoopHasNoSideEffects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, err := env.assignSvc.Create(ctx, studentID, courseID, model.AssignmentStudentCourse, "")
	require.NoError(t, err)

	got, err := env.assignSvc.SetActive(ctx, a.ID, true)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.Zero(t, env.tx.calls, "no transition means no transaction")
	assert.Empty(t, env.schedule.calls)
}

func TestAssignmentService_SetActive_DisableStudentCourse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, err := env.assignSvc.Create(ctx, studentID, courseID, model.AssignmentStudentCourse, "")
	require.NoError(t, err)
	e := &model.Enrollment{StudentID: studentID, CourseID: courseID, AssignmentID: a.ID}
	require.NoError(t, env.enrollments.Create(ctx, e))

	got, err := env.assignSvc.SetActive(ctx, a.ID, false)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.NotNil(t, got.DeletedAt)

	require.Len(t, env.schedule.calls, 1)
	assert.False(t, env.schedule.calls[0].enabled)
	assert.Equal(t, e.ID, env.schedule.calls[0].enrollmentID)
	assert.Equal(t, 1, env.tx.calls)
}

func TestAssignmentService_SetActive_ReenableStudentCourse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, err := env.assignSvc.Create(ctx, studentID, courseID, model.AssignmentStudentCourse, "")
	require.NoError(t, err)
	e := &model.Enrollment{StudentID: studentID, CourseID: courseID, AssignmentID: a.ID}
	require.NoError(t, env.enrollments.Create(ctx, e))

	_, err = env.assignSvc.SetActive(ctx, a.ID, false)
	require.NoError(t, err)
	_, err = env.assignSvc.SetActive(ctx, a.ID, true)
	require.NoError(t, err)

	require.Len(t, env.schedule.calls, 2)
	assert.True(t, env.schedule.calls[1].enabled)
	assert.Equal(t, courseID, env.schedule.calls[1].courseID)
}

func TestAssignmentService_SetActive_StudentCourseWithoutEnrollment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, err := env.assignSvc.Create(ctx, studentID, courseID, model.AssignmentStudentCourse, "")
	require.NoError(t, err)

	_, err = env.assignSvc.SetActive(ctx, a.ID, false)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestAssignmentService_SetActive_TeacherStudentSkipsSchedule(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.link(t, teacherID, studentID)

	got, err := env.assignSvc.SetActive(ctx, a.ID, false)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Empty(t, env.schedule.calls)
}

func TestAssignmentService_SetActiveAs_CourseTeacherDomain(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// авторизация связи студент-курс идёт через учителя курса
	a, err := env.assignSvc.Create(ctx, studentID, courseID, model.AssignmentStudentCourse, "")
	require.NoError(t, err)
	e := &model.Enrollment{StudentID: studentID, CourseID: courseID, AssignmentID: a.ID}
	require.NoError(t, env.enrollments.Create(ctx, e))

	_, err = env.assignSvc.SetActiveAs(ctx, assistantID, model.RoleAssistant, a.ID, false)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	env.delegate(t, teacherID, assistantID)

	got, err := env.assignSvc.SetActiveAs(ctx, assistantID, model.RoleAssistant, a.ID, false)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestAssignmentService_SetActiveAs_OwnerDomain(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.link(t, teacherID, studentID)

	_, err := env.assignSvc.SetActiveAs(ctx, teacher2ID, model.RoleTeacher, a.ID, false)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	got, err := env.assignSvc.SetActiveAs(ctx, teacherID, model.RoleTeacher, a.ID, false)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestAssignmentService_Exists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.link(t, teacherID, studentID)

	ok, err := env.assignSvc.Exists(ctx, teacherID, studentID, model.AssignmentTeacherStudent, true)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = env.assignSvc.SetActive(ctx, a.ID, false)
	require.NoError(t, err)

	ok, err = env.assignSvc.Exists(ctx, teacherID, studentID, model.AssignmentTeacherStudent, true)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = env.assignSvc.Exists(ctx, teacherID, studentID, model.AssignmentTeacherStudent, false)
	require.NoError(t, err)
	assert.True(t, ok, "inactive row still exists without the activeOnly filter")
}
