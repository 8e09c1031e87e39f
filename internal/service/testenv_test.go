package service

import (
	"context"
	"testing"
	"time"

	"github.com/evlasenko/tutor_market/internal/model"
	"go.uber.org/zap"
)

// Общая площадка для сервисных тестов: два учителя, студент с профилем,
// ассистент и небольшой каталог из одной компании с проверенным филиалом.
const (
	teacherID   = int64(1)
	studentID   = int64(2)
	assistantID = int64(3)
	adminID     = int64(4)
	teacher2ID  = int64(5)
	student2ID  = int64(6)

	courseID  = int64(10)
	course2ID = int64(11)
	branchID  = int64(20)
	companyID = int64(30)
)

type testEnv struct {
	members     *fakeMembers
	profiles    *fakeProfiles
	catalog     *fakeCatalog
	assignments *fakeAssignments
	enrollments *fakeEnrollments
	requests    *fakeRequests
	schedule    *fakeSchedule
	tx          *fakeTx

	authz      *DelegationResolver
	assembler  *ViewAssembler
	requestSvc *RequestService
	assignSvc  *AssignmentService
	rosterSvc  *RosterService
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithPolicy(t, DefaultRequestPolicy())
}

func newTestEnvWithPolicy(t *testing.T, policy RequestPolicy) *testEnv {
	t.Helper()

	now := time.Now()

	env := &testEnv{
		members: &fakeMembers{items: map[int64]*model.Member{
			teacherID:   {ID: teacherID, Name: "Anna Petrova", Phone: "+79990000001", Role: model.RoleTeacher, CreatedAt: now},
			studentID:   {ID: studentID, Name: "Boris Ivanov", Phone: "+79990000002", Role: model.RoleStudent, CreatedAt: now},
			assistantID: {ID: assistantID, Name: "Vera Sidorova", Phone: "+79990000003", Role: model.RoleAssistant, CreatedAt: now},
			adminID:     {ID: adminID, Name: "Admin", Role: model.RoleAdmin, CreatedAt: now},
			teacher2ID:  {ID: teacher2ID, Name: "Grigory Orlov", Phone: "+79990000005", Role: model.RoleTeacher, CreatedAt: now},
			student2ID:  {ID: student2ID, Name: "Dina Smirnova", Phone: "+79990000006", Role: model.RoleStudent, CreatedAt: now},
		}},
		profiles: &fakeProfiles{items: map[int64]*model.StudentProfile{
			studentID:  {MemberID: studentID, School: "School 57", Grade: "9", ParentName: "Ivan Ivanov", ParentPhone: "+79990000012", CreatedAt: now},
			student2ID: {MemberID: student2ID, School: "Lyceum 2", Grade: "10", ParentName: "Olga Smirnova", ParentPhone: "+79990000016", CreatedAt: now},
		}},
		catalog: &fakeCatalog{
			courses: map[int64]*model.Course{
				courseID:  {ID: courseID, BranchID: branchID, TeacherID: teacherID, Name: "Algebra", Description: "OGE prep", CreatedAt: now},
				course2ID: {ID: course2ID, BranchID: branchID, TeacherID: teacher2ID, Name: "Physics", CreatedAt: now},
			},
			branches: map[int64]*model.Branch{
				branchID: {ID: branchID, CompanyID: companyID, Name: "Center", IsVerified: true, CreatedAt: now},
			},
			companies: map[int64]*model.Company{
				companyID: {ID: companyID, Name: "Tutor House", IsVerified: true, CreatedAt: now},
			},
		},
		assignments: &fakeAssignments{},
		enrollments: &fakeEnrollments{},
		requests:    &fakeRequests{},
		schedule:    &fakeSchedule{},
		tx:          &fakeTx{},
	}

	env.requests.members = env.members
	env.requests.profiles = env.profiles

	logger := zap.NewNop()

	env.authz = NewDelegationResolver(env.assignments, logger)
	env.assembler = NewViewAssembler(env.members, env.profiles, env.catalog)
	env.assignSvc = NewAssignmentService(
		env.assignments, env.enrollments, env.catalog, env.schedule, env.authz, env.tx, logger)
	env.requestSvc = NewRequestService(
		env.requests, env.assignments, env.enrollments, env.schedule, env.members, env.authz, env.assembler, env.tx,
		policy, logger,
		NewTeacherLinkResolver(env.members),
		NewCourseEnrollmentResolver(env.catalog),
	)
	env.rosterSvc = NewRosterService(env.assignments, env.authz, env.assembler, logger)

	return env
}

// delegate выдаёт ассистенту активное делегирование от учителя
func (e *testEnv) delegate(t *testing.T, teacher, assistant int64) *model.Assignment {
	t.Helper()

	a := &model.Assignment{OwnerID: teacher, SubjectID: assistant, Kind: model.AssignmentTeacherAssistant}
	if err := e.assignments.CreateOrReactivate(context.Background(), a); err != nil {
		t.Fatalf("delegate: %v", err)
	}
	return a
}

// link создаёт активную связь учитель-студент
func (e *testEnv) link(t *testing.T, teacher, student int64) *model.Assignment {
	t.Helper()

	a := &model.Assignment{OwnerID: teacher, SubjectID: student, Kind: model.AssignmentTeacherStudent}
	if err := e.assignments.CreateOrReactivate(context.Background(), a); err != nil {
		t.Fatalf("link: %v", err)
	}
	return a
}
