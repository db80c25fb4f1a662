package application

import (
	"context"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/krida-hq/krida-backend/internal/domain/entity"
	"github.com/krida-hq/krida-backend/internal/domain/repository"
	"github.com/krida-hq/krida-backend/internal/metrics"
	"github.com/krida-hq/krida-backend/pkg/apperr"
	"github.com/krida-hq/krida-backend/pkg/helpers"
)

// CoachKPIs is the on-demand KPI snapshot for a coach's dashboard. It is
// derived, never persisted. AttendanceRatePct is nil when no schedule
// requests exist in the trailing 30 days: "undefined", not zero.
type CoachKPIs struct {
	AchievementsApproved  int  `json:"achievements_approved"`
	AchievementsPending   int  `json:"achievements_pending"`
	RegPending            int  `json:"reg_pending"`
	RegConfirmed          int  `json:"reg_confirmed"`
	UpcomingSessions7d    int  `json:"upcoming_sessions_7d"`
	ActivePlayersThisWeek int  `json:"active_players_this_week"`
	AttendanceRatePct     *int `json:"attendance_rate_pct"`
}

// ReportService composes read-only store queries into coach KPI snapshots.
// The sub-queries run against whatever the store holds at the moment each
// one executes; minor skew between counts is acceptable for a dashboard.
type ReportService struct {
	Achievements  repository.AchievementRepository
	Registrations repository.RegistrationRepository
	Schedules     repository.ScheduleRepository
	Redis         *redis.Client
	Logger        *logrus.Logger
	CacheTTL      time.Duration
	Now           func() time.Time
}

func NewReportService(ach repository.AchievementRepository, reg repository.RegistrationRepository, sched repository.ScheduleRepository, rdb *redis.Client, logger *logrus.Logger, cacheTTL time.Duration) *ReportService {
	return &ReportService{
		Achievements:  ach,
		Registrations: reg,
		Schedules:     sched,
		Redis:         rdb,
		Logger:        logger,
		CacheTTL:      cacheTTL,
		Now:           time.Now,
	}
}

func kpiCacheKey(coachID string) string {
	return "kpi:coach:" + coachID
}

// ComputeCoachKPIs builds the KPI snapshot for the calling coach, scoped to
// players in the coach's sport. Snapshots are cached briefly in Redis.
func (s *ReportService) ComputeCoachKPIs(ctx context.Context, caller Identity) (*CoachKPIs, error) {
	if !canListPending(caller) {
		return nil, apperr.Forbidden("only a coach with a sport affiliation can view reports")
	}

	if s.Redis != nil && s.CacheTTL > 0 {
		var cached CoachKPIs
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, kpiCacheKey(caller.ID), &cached); err == nil && ok {
			return &cached, nil
		}
	}

	k := &CoachKPIs{}
	now := s.Now()
	var err error

	if k.AchievementsApproved, err = s.Achievements.CountBySportAndStatus(ctx, caller.Sport, entity.StatusApproved); err != nil {
		return nil, s.fail("approved achievement count failed", err, caller)
	}
	if k.AchievementsPending, err = s.Achievements.CountBySportAndStatus(ctx, caller.Sport, entity.StatusPending); err != nil {
		return nil, s.fail("pending achievement count failed", err, caller)
	}
	if k.RegPending, err = s.Registrations.CountBySportAndStatus(ctx, caller.Sport, entity.RegistrationPending); err != nil {
		return nil, s.fail("pending registration count failed", err, caller)
	}
	if k.RegConfirmed, err = s.Registrations.CountBySportAndStatus(ctx, caller.Sport, entity.RegistrationConfirmed); err != nil {
		return nil, s.fail("confirmed registration count failed", err, caller)
	}
	if k.UpcomingSessions7d, err = s.Schedules.CountSessionsBetween(ctx, caller.ID, now, now.AddDate(0, 0, 7)); err != nil {
		return nil, s.fail("upcoming session count failed", err, caller)
	}
	if k.ActivePlayersThisWeek, err = s.Schedules.CountDistinctRequesters(ctx, caller.ID, now.AddDate(0, 0, -7)); err != nil {
		return nil, s.fail("active player count failed", err, caller)
	}

	total, approved, err := s.Schedules.CountRequestsSince(ctx, caller.ID, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, s.fail("attendance count failed", err, caller)
	}
	if total > 0 {
		pct := int(math.Round(100 * float64(approved) / float64(total)))
		k.AttendanceRatePct = &pct
	}

	metrics.KPISnapshots.Inc()
	if s.Redis != nil && s.CacheTTL > 0 {
		if err := helpers.RedisSetJSON(ctx, s.Redis, kpiCacheKey(caller.ID), k, s.CacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("coach_id", caller.ID).Warn("kpi cache write failed")
		}
	}
	return k, nil
}

func (s *ReportService) fail(msg string, err error, caller Identity) error {
	if s.Logger != nil {
		helpers.LogError(s.Logger, msg, err, logrus.Fields{"coach_id": caller.ID, "sport": caller.Sport})
	}
	return apperr.Internal(err)
}
