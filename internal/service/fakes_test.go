package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/evlasenko/tutor_market/internal/apperr"
	"github.com/evlasenko/tutor_market/internal/model"
	"github.com/evlasenko/tutor_market/internal/repository"
	"github.com/google/uuid"
)

// In-memory фейки хранилищ. Счётчики вызовов нужны тестам ассемблера:
// он обязан делать ровно один батч-запрос на вид сущности.

type fakeAssignments struct {
	nextID int64
	items  []*model.Assignment
}

func (f *fakeAssignments) find(ownerID, subjectID int64, kind model.AssignmentKind) *model.Assignment {
	for _, a := range f.items {
		if a.OwnerID == ownerID && a.SubjectID == subjectID && a.Kind == kind {
			return a
		}
	}
	return nil
}

func (f *fakeAssignments) CreateOrReactivate(_ context.Context, a *model.Assignment) error {
	if ex := f.find(a.OwnerID, a.SubjectID, a.Kind); ex != nil {
		if ex.IsActive {
			return apperr.Newf(apperr.KindConflict,
				"assignment already active: owner=%d subject=%d kind=%s", a.OwnerID, a.SubjectID, a.Kind)
		}
		ex.IsActive = true
		ex.DeletedAt = nil
		if a.BranchRole != "" {
			ex.BranchRole = a.BranchRole
		}
		*a = *ex
		return nil
	}

	f.nextID++
	a.ID = f.nextID
	a.IsActive = true
	a.CreatedAt = time.Now()
	stored := *a
	f.items = append(f.items, &stored)
	return nil
}

func (f *fakeAssignments) GetByID(_ context.Context, id int64) (*model.Assignment, error) {
	for _, a := range f.items {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeAssignments) SetActive(_ context.Context, id int64, active bool) (*model.Assignment, error) {
	for _, a := range f.items {
		if a.ID != id {
			continue
		}
		a.IsActive = active
		if active {
			a.DeletedAt = nil
		} else {
			now := time.Now()
			a.DeletedAt = &now
		}
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeAssignments) Exists(_ context.Context, ownerID, subjectID int64, kind model.AssignmentKind, activeOnly bool) (bool, error) {
	a := f.find(ownerID, subjectID, kind)
	if a == nil {
		return false, nil
	}
	return !activeOnly || a.IsActive, nil
}

func (f *fakeAssignments) ActiveOwnerIDs(_ context.Context, subjectID int64, kind model.AssignmentKind) ([]int64, error) {
	var ids []int64
	for _, a := range f.items {
		if a.SubjectID == subjectID && a.Kind == kind && a.IsActive {
			ids = append(ids, a.OwnerID)
		}
	}
	return ids, nil
}

func (f *fakeAssignments) ListSubjectIDs(_ context.Context, ownerIDs []int64, kind model.AssignmentKind, limit, offset int) ([]int64, int64, error) {
	owners := make(map[int64]struct{}, len(ownerIDs))
	for _, id := range ownerIDs {
		owners[id] = struct{}{}
	}

	var ids []int64
	for _, a := range f.items {
		if _, ok := owners[a.OwnerID]; ok && a.Kind == kind && a.IsActive {
			ids = append(ids, a.SubjectID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	total := int64(len(ids))
	if offset >= len(ids) {
		return []int64{}, total, nil
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[offset:end], total, nil
}

func (f *fakeAssignments) ListOwnerIDs(_ context.Context, subjectID int64, kind model.AssignmentKind, limit, offset int) ([]int64, int64, error) {
	var ids []int64
	for _, a := range f.items {
		if a.SubjectID == subjectID && a.Kind == kind && a.IsActive {
			ids = append(ids, a.OwnerID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	total := int64(len(ids))
	if offset >= len(ids) {
		return []int64{}, total, nil
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[offset:end], total, nil
}

type fakeEnrollments struct {
	nextID int64
	items  []*model.Enrollment
}

func (f *fakeEnrollments) Create(_ context.Context, e *model.Enrollment) error {
	f.nextID++
	e.ID = f.nextID
	e.CreatedAt = time.Now()
	stored := *e
	f.items = append(f.items, &stored)
	return nil
}

func (f *fakeEnrollments) GetByAssignmentID(_ context.Context, assignmentID int64) (*model.Enrollment, error) {
	for _, e := range f.items {
		if e.AssignmentID == assignmentID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

type scheduleCall struct {
	enrollmentID int64
	courseID     int64
	enabled      bool
}

type fakeSchedule struct {
	calls []scheduleCall
}

func (f *fakeSchedule) OnEnrollmentEnabled(_ context.Context, enrollmentID, courseID int64) error {
	f.calls = append(f.calls, scheduleCall{enrollmentID: enrollmentID, courseID: courseID, enabled: true})
	return nil
}

func (f *fakeSchedule) OnEnrollmentDisabled(_ context.Context, enrollmentID int64, _ time.Time) error {
	f.calls = append(f.calls, scheduleCall{enrollmentID: enrollmentID, enabled: false})
	return nil
}

type fakeRequests struct {
	nextID int64
	items  []*model.RelationRequest

	// для поиска по ключевому слову и проверки переданного фильтра
	members    *fakeMembers
	profiles   *fakeProfiles
	lastFilter *repository.RequestFilter
}

func (f *fakeRequests) Create(_ context.Context, req *model.RelationRequest) error {
	f.nextID++
	req.ID = f.nextID
	req.CreatedAt = time.Now()
	stored := *req
	f.items = append(f.items, &stored)
	return nil
}

func (f *fakeRequests) GetByPublicID(_ context.Context, publicID uuid.UUID) (*model.RelationRequest, error) {
	for _, r := range f.items {
		if r.PublicID == publicID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRequests) ExistsForTarget(_ context.Context, initiatorID, targetID int64, kind model.RequestKind, statuses []model.RequestStatus) (bool, error) {
	for _, r := range f.items {
		if r.InitiatorID != initiatorID || r.TargetID != targetID || r.Kind != kind {
			continue
		}
		for _, st := range statuses {
			if r.Status == st {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeRequests) MarkProcessed(_ context.Context, id int64, status model.RequestStatus, actorID int64, at time.Time) (bool, error) {
	for _, r := range f.items {
		if r.ID != id {
			continue
		}
		if r.Status != model.RequestStatusPending {
			return false, nil
		}
		r.Status = status
		r.ProcessedBy = &actorID
		r.ProcessedAt = &at
		return true, nil
	}
	return false, nil
}

// matchKeyword повторяет ILIKE-поиск по инициатору: имя, телефон, школа и
// телефон родителя из профиля
func (f *fakeRequests) matchKeyword(initiatorID int64, keyword string) bool {
	needle := strings.ToLower(keyword)

	var haystack []string
	if f.members != nil {
		if m, ok := f.members.items[initiatorID]; ok {
			haystack = append(haystack, m.Name, m.Phone)
		}
	}
	if f.profiles != nil {
		if p, ok := f.profiles.items[initiatorID]; ok {
			haystack = append(haystack, p.School, p.ParentPhone)
		}
	}

	for _, s := range haystack {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

func (f *fakeRequests) Search(_ context.Context, fl repository.RequestFilter) ([]*model.RelationRequest, int64, error) {
	f.lastFilter = &fl

	owners := make(map[int64]struct{}, len(fl.OwnerIDs))
	for _, id := range fl.OwnerIDs {
		owners[id] = struct{}{}
	}
	statuses := make(map[model.RequestStatus]struct{}, len(fl.Statuses))
	for _, st := range fl.Statuses {
		statuses[st] = struct{}{}
	}

	var matched []*model.RelationRequest
	for _, r := range f.items {
		if len(owners) > 0 {
			if _, ok := owners[r.OwnerID]; !ok {
				continue
			}
		}
		if fl.InitiatorID != nil && r.InitiatorID != *fl.InitiatorID {
			continue
		}
		if len(statuses) > 0 {
			if _, ok := statuses[r.Status]; !ok {
				continue
			}
		}
		if fl.Keyword != nil && !f.matchKeyword(r.InitiatorID, *fl.Keyword) {
			continue
		}
		cp := *r
		matched = append(matched, &cp)
	}

	total := int64(len(matched))
	if fl.Offset >= len(matched) {
		return []*model.RelationRequest{}, total, nil
	}
	end := fl.Offset + fl.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[fl.Offset:end], total, nil
}

type fakeMembers struct {
	items map[int64]*model.Member
	calls int
}

func (f *fakeMembers) GetByID(_ context.Context, id int64) (*model.Member, error) {
	m, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMembers) GetByIDs(_ context.Context, ids []int64) ([]*model.Member, error) {
	f.calls++
	var members []*model.Member
	for _, id := range ids {
		if m, ok := f.items[id]; ok {
			cp := *m
			members = append(members, &cp)
		}
	}
	return members, nil
}

type fakeProfiles struct {
	items map[int64]*model.StudentProfile
	calls int
}

func (f *fakeProfiles) GetByMemberIDs(_ context.Context, memberIDs []int64) ([]*model.StudentProfile, error) {
	f.calls++
	var profiles []*model.StudentProfile
	for _, id := range memberIDs {
		if p, ok := f.items[id]; ok {
			cp := *p
			profiles = append(profiles, &cp)
		}
	}
	return profiles, nil
}

type fakeCatalog struct {
	courses   map[int64]*model.Course
	branches  map[int64]*model.Branch
	companies map[int64]*model.Company

	courseCalls  int
	branchCalls  int
	companyCalls int
}

func (f *fakeCatalog) GetByID(_ context.Context, id int64) (*model.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCatalog) GetByIDs(_ context.Context, ids []int64) ([]*model.Course, error) {
	f.courseCalls++
	var courses []*model.Course
	for _, id := range ids {
		if c, ok := f.courses[id]; ok {
			cp := *c
			courses = append(courses, &cp)
		}
	}
	return courses, nil
}

func (f *fakeCatalog) BranchesByIDs(_ context.Context, ids []int64) ([]*model.Branch, error) {
	f.branchCalls++
	var branches []*model.Branch
	for _, id := range ids {
		if b, ok := f.branches[id]; ok {
			cp := *b
			branches = append(branches, &cp)
		}
	}
	return branches, nil
}

func (f *fakeCatalog) CompaniesByIDs(_ context.Context, ids []int64) ([]*model.Company, error) {
	f.companyCalls++
	var companies []*model.Company
	for _, id := range ids {
		if c, ok := f.companies[id]; ok {
			cp := *c
			companies = append(companies, &cp)
		}
	}
	return companies, nil
}

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}
