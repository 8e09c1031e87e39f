package service

import (
	"context"
	"fmt"

	"github.com/evlasenko/tutor_market/internal/apperr"
	"github.com/evlasenko/tutor_market/internal/model"
)

// MemberReader батч-чтение участников
type MemberReader interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*model.Member, error)
}

// ProfileReader батч-чтение профилей студентов
type ProfileReader interface {
	GetByMemberIDs(ctx context.Context, memberIDs []int64) ([]*model.StudentProfile, error)
}

// CatalogReader батч-чтение каталога курсов и цепочки владения
type CatalogReader interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*model.Course, error)
	BranchesByIDs(ctx context.Context, ids []int64) ([]*model.Branch, error)
	CompaniesByIDs(ctx context.Context, ids []int64) ([]*model.Company, error)
}

// ViewAssembler собирает страницы строк в полные представления за
// фиксированное число батч-запросов: по одному на вид сущности, независимо
// от размера страницы. Порядок исходных строк сохраняется. Отсутствие
// сущности, на которую ссылается строка, — жёсткая ошибка целостности,
// строка никогда не выбрасывается молча.
type ViewAssembler struct {
	members  MemberReader
	profiles ProfileReader
	catalog  CatalogReader
}

func NewViewAssembler(members MemberReader, profiles ProfileReader, catalog CatalogReader) *ViewAssembler {
	return &ViewAssembler{
		members:  members,
		profiles: profiles,
		catalog:  catalog,
	}
}

func distinct(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (a *ViewAssembler) memberMap(ctx context.Context, ids []int64) (map[int64]*model.Member, error) {
	members, err := a.members.GetByIDs(ctx, distinct(ids))
	if err != nil {
		return nil, fmt.Errorf("fetch members: %w", err)
	}

	byID := make(map[int64]*model.Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	return byID, nil
}

func (a *ViewAssembler) profileMap(ctx context.Context, memberIDs []int64) (map[int64]*model.StudentProfile, error) {
	profiles, err := a.profiles.GetByMemberIDs(ctx, distinct(memberIDs))
	if err != nil {
		return nil, fmt.Errorf("fetch student profiles: %w", err)
	}

	byID := make(map[int64]*model.StudentProfile, len(profiles))
	for _, p := range profiles {
		byID[p.MemberID] = p
	}
	return byID, nil
}

// courseCardMap собирает карточки курсов, разворачивая цепочку
// курс -> филиал -> компания уровень за уровнем
func (a *ViewAssembler) courseCardMap(ctx context.Context, courseIDs []int64, audience Audience) (map[int64]*CourseCard, error) {
	courses, err := a.catalog.GetByIDs(ctx, distinct(courseIDs))
	if err != nil {
		return nil, fmt.Errorf("fetch courses: %w", err)
	}

	branchIDs := make([]int64, 0, len(courses))
	for _, c := range courses {
		branchIDs = append(branchIDs, c.BranchID)
	}

	branches, err := a.catalog.BranchesByIDs(ctx, distinct(branchIDs))
	if err != nil {
		return nil, fmt.Errorf("fetch branches: %w", err)
	}
	branchByID := make(map[int64]*model.Branch, len(branches))
	companyIDs := make([]int64, 0, len(branches))
	for _, b := range branches {
		branchByID[b.ID] = b
		companyIDs = append(companyIDs, b.CompanyID)
	}

	companies, err := a.catalog.CompaniesByIDs(ctx, distinct(companyIDs))
	if err != nil {
		return nil, fmt.Errorf("fetch companies: %w", err)
	}
	companyByID := make(map[int64]*model.Company, len(companies))
	for _, c := range companies {
		companyByID[c.ID] = c
	}

	cards := make(map[int64]*CourseCard, len(courses))
	for _, c := range courses {
		branch, ok := branchByID[c.BranchID]
		if !ok {
			return nil, apperr.Newf(apperr.KindNotFound, "referential mismatch: branch %d of course %d", c.BranchID, c.ID)
		}
		company, ok := companyByID[branch.CompanyID]
		if !ok {
			return nil, apperr.Newf(apperr.KindNotFound, "referential mismatch: company %d of branch %d", branch.CompanyID, branch.ID)
		}

		if audience == AudiencePublic {
			if !c.IsAlive() || !branch.IsPublishable() || !company.IsPublishable() {
				return nil, apperr.Newf(apperr.KindForbidden, "course %d is not publicly visible", c.ID)
			}
		}

		cards[c.ID] = &CourseCard{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			BranchID:    branch.ID,
			BranchName:  branch.Name,
			CompanyName: company.Name,
		}
	}

	return cards, nil
}

// RequestViews собирает страницу заявок в обогащённые представления
func (a *ViewAssembler) RequestViews(ctx context.Context, requests []*model.RelationRequest) ([]*RequestView, error) {
	if len(requests) == 0 {
		return []*RequestView{}, nil
	}

	var memberIDs, initiatorIDs, courseIDs []int64
	for _, req := range requests {
		memberIDs = append(memberIDs, req.InitiatorID, req.OwnerID)
		initiatorIDs = append(initiatorIDs, req.InitiatorID)
		if req.ProcessedBy != nil {
			memberIDs = append(memberIDs, *req.ProcessedBy)
		}
		if req.Kind == model.RequestKindCourseEnrollment {
			courseIDs = append(courseIDs, req.TargetID)
		}
	}

	memberByID, err := a.memberMap(ctx, memberIDs)
	if err != nil {
		return nil, err
	}

	profileByID, err := a.profileMap(ctx, initiatorIDs)
	if err != nil {
		return nil, err
	}

	var cardByID map[int64]*CourseCard
	if len(courseIDs) > 0 {
		// заявки видят только владелец и его ассистенты, гейт публичности не нужен
		cardByID, err = a.courseCardMap(ctx, courseIDs, AudienceOwner)
		if err != nil {
			return nil, err
		}
	}

	views := make([]*RequestView, 0, len(requests))
	for _, req := range requests {
		initiator, ok := memberByID[req.InitiatorID]
		if !ok {
			return nil, apperr.Newf(apperr.KindNotFound, "referential mismatch: initiator %d of request %s", req.InitiatorID, req.PublicID)
		}
		profile, ok := profileByID[req.InitiatorID]
		if !ok {
			return nil, apperr.Newf(apperr.KindNotFound, "referential mismatch: profile of student %d", req.InitiatorID)
		}
		owner, ok := memberByID[req.OwnerID]
		if !ok {
			return nil, apperr.Newf(apperr.KindNotFound, "referential mismatch: owner %d of request %s", req.OwnerID, req.PublicID)
		}

		view := &RequestView{
			ID:          req.PublicID,
			Kind:        req.Kind,
			Status:      req.Status,
			Message:     req.Message,
			Initiator:   newStudentSummary(initiator, profile),
			Owner:       newMemberSummary(owner),
			ProcessedAt: req.ProcessedAt,
			CreatedAt:   req.CreatedAt,
		}

		if req.ProcessedBy != nil {
			processor, ok := memberByID[*req.ProcessedBy]
			if !ok {
				return nil, apperr.Newf(apperr.KindNotFound, "referential mismatch: processor %d of request %s", *req.ProcessedBy, req.PublicID)
			}
			view.ProcessedBy = newMemberSummary(processor)
		}

		if req.Kind == model.RequestKindCourseEnrollment {
			card, ok := cardByID[req.TargetID]
			if !ok {
				return nil, apperr.Newf(apperr.KindNotFound, "referential mismatch: course %d of request %s", req.TargetID, req.PublicID)
			}
			view.Course = card
		}

		views = append(views, view)
	}

	return views, nil
}

// StudentSummaries собирает карточки студентов в порядке переданных ID
func (a *ViewAssembler) StudentSummaries(ctx context.Context, memberIDs []int64) ([]*StudentSummary, error) {
	if len(memberIDs) == 0 {
		return []*StudentSummary{}, nil
	}

	memberByID, err := a.memberMap(ctx, memberIDs)
	if err != nil {
		return nil, err
	}

	profileByID, err := a.profileMap(ctx, memberIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]*StudentSummary, 0, len(memberIDs))
	for _, id := range memberIDs {
		m, ok := memberByID[id]
		if !ok {
			return nil, apperr.Newf(apperr.KindNotFound, "referential mismatch: member %d", id)
		}
		p, ok := profileByID[id]
		if !ok {
			return nil, apperr.Newf(apperr.KindNotFound, "referential mismatch: profile of student %d", id)
		}
		summaries = append(summaries, newStudentSummary(m, p))
	}

	return summaries, nil
}

// MemberSummaries собирает карточки участников в порядке переданных ID
func (a *ViewAssembler) MemberSummaries(ctx context.Context, memberIDs []int64) ([]*MemberSummary, error) {
	if len(memberIDs) == 0 {
		return []*MemberSummary{}, nil
	}

	memberByID, err := a.memberMap(ctx, memberIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]*MemberSummary, 0, len(memberIDs))
	for _, id := range memberIDs {
		m, ok := memberByID[id]
		if !ok {
			return nil, apperr.Newf(apperr.KindNotFound, "referential mismatch: member %d", id)
		}
		summaries = append(summaries, newMemberSummary(m))
	}

	return summaries, nil
}

// CourseCards собирает карточки курсов с учётом аудитории
func (a *ViewAssembler) CourseCards(ctx context.Context, courses []*model.Course, audience Audience) ([]*CourseCard, error) {
	if len(courses) == 0 {
		return []*CourseCard{}, nil
	}

	courseIDs := make([]int64, 0, len(courses))
	for _, c := range courses {
		courseIDs = append(courseIDs, c.ID)
	}

	cardByID, err := a.courseCardMap(ctx, courseIDs, audience)
	if err != nil {
		return nil, err
	}

	cards := make([]*CourseCard, 0, len(courses))
	for _, c := range courses {
		card, ok := cardByID[c.ID]
		if !ok {
			return nil, apperr.Newf(apperr.KindNotFound, "referential mismatch: course %d", c.ID)
		}
		cards = append(cards, card)
	}

	return cards, nil
}
