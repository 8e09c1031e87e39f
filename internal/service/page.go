package service

import "strings"

// Пагинация: индекс страницы 0-based
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// PageRequest параметры страницы
type PageRequest struct {
	Page    int
	PerPage int
}

// Normalize приводит параметры к допустимым значениям
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Limit размер страницы
func (p PageRequest) Limit() int {
	return p.PerPage
}

// Offset смещение от начала выборки
func (p PageRequest) Offset() int {
	return p.Page * p.PerPage
}

// NormalizeKeyword обрезает пробелы; пустая строка означает "без фильтра"
func NormalizeKeyword(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// RequestPage страница заявок с обогащёнными представлениями
type RequestPage struct {
	Items   []*RequestView `json:"items"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

// StudentPage страница студентов
type StudentPage struct {
	Items   []*StudentSummary `json:"items"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}

// TeacherPage страница учителей
type TeacherPage struct {
	Items   []*MemberSummary `json:"items"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}
