// Package schedule реализует побочные эффекты планирования при
// включении/выключении записи студента на курс. Ядро отношений работает
// с ним только через интерфейс service.ScheduleSideEffects.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/evlasenko/tutor_market/internal/model"
	"github.com/evlasenko/tutor_market/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Сколько времени даём до первого занятия при зачислении
const defaultFirstLessonLead = 7 * 24 * time.Hour

type Service struct {
	db     *base.Repository
	logger *zap.Logger
}

func NewService(pool *pgxpool.Pool, logger *zap.Logger) *Service {
	return &Service{db: base.NewRepository(pool), logger: logger}
}

// OnEnrollmentEnabled заводит первое запланированное занятие для зачисления
func (s *Service) OnEnrollmentEnabled(ctx context.Context, enrollmentID, courseID int64) error {
	query := `
		INSERT INTO lessons (enrollment_id, course_id, start_time, status)
		VALUES ($1, $2, $3, $4)
	`

	startTime := time.Now().Add(defaultFirstLessonLead)
	_, err := s.db.DB(ctx).Exec(ctx, query, enrollmentID, courseID, startTime, model.LessonStatusScheduled)
	if err != nil {
		return fmt.Errorf("seed lesson: %w", err)
	}

	s.logger.Info("Lesson seeded for enrollment",
		zap.Int64("enrollment_id", enrollmentID),
		zap.Int64("course_id", courseID),
		zap.Time("start_time", startTime),
	)

	return nil
}

// OnEnrollmentDisabled отменяет будущие занятия зачисления
func (s *Service) OnEnrollmentDisabled(ctx context.Context, enrollmentID int64, asOf time.Time) error {
	query := `
		UPDATE lessons
		SET status = $3
		WHERE enrollment_id = $1 AND start_time > $2 AND status = $4
	`

	tag, err := s.db.DB(ctx).Exec(ctx, query, enrollmentID, asOf, model.LessonStatusCanceled, model.LessonStatusScheduled)
	if err != nil {
		return fmt.Errorf("cancel future lessons: %w", err)
	}

	s.logger.Info("Future lessons canceled for enrollment",
		zap.Int64("enrollment_id", enrollmentID),
		zap.Int64("canceled", tag.RowsAffected()),
	)

	return nil
}
