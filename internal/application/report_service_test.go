package application

import (
	"context"
	"testing"
	"time"

	"github.com/krida-hq/krida-backend/internal/domain/entity"
	"github.com/krida-hq/krida-backend/pkg/apperr"
)

type fakeRegistrationRepo struct {
	pending, confirmed int
	sports             []string
}

func (f *fakeRegistrationRepo) CountBySportAndStatus(ctx context.Context, sport string, status entity.RegistrationStatus) (int, error) {
	f.sports = append(f.sports, sport)
	if status == entity.RegistrationPending {
		return f.pending, nil
	}
	return f.confirmed, nil
}

type fakeScheduleRepo struct {
	sessions          int
	requesters        int
	requestsTotal     int
	requestsApproved  int
	sessionsFrom      time.Time
	sessionsTo        time.Time
	requestersSince   time.Time
	requestsSinceSeen time.Time
	coachIDs          []string
}

func (f *fakeScheduleRepo) CountSessionsBetween(ctx context.Context, coachID string, from, to time.Time) (int, error) {
	f.coachIDs = append(f.coachIDs, coachID)
	f.sessionsFrom, f.sessionsTo = from, to
	return f.sessions, nil
}

func (f *fakeScheduleRepo) CountDistinctRequesters(ctx context.Context, coachID string, since time.Time) (int, error) {
	f.coachIDs = append(f.coachIDs, coachID)
	f.requestersSince = since
	return f.requesters, nil
}

func (f *fakeScheduleRepo) CountRequestsSince(ctx context.Context, coachID string, since time.Time) (int, int, error) {
	f.coachIDs = append(f.coachIDs, coachID)
	f.requestsSinceSeen = since
	return f.requestsTotal, f.requestsApproved, nil
}

func newTestReportService(reg *fakeRegistrationRepo, sched *fakeScheduleRepo) *ReportService {
	achRepo := newFakeAchievementRepo()
	svc := NewReportService(achRepo, reg, sched, nil, nil, 0)
	svc.Now = func() time.Time { return time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC) }
	return svc
}

func TestComputeCoachKPIsRequiresCoachWithSport(t *testing.T) {
	svc := newTestReportService(&fakeRegistrationRepo{}, &fakeScheduleRepo{})

	tests := []struct {
		name   string
		caller Identity
	}{
		{"player", player},
		{"coach without sport", Identity{ID: "c9", Role: entity.RoleCoach}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ComputeCoachKPIs(context.Background(), tt.caller)
			if apperr.KindOf(err) != apperr.KindForbidden {
				t.Fatalf("err = %v, want forbidden", err)
			}
		})
	}
}

// No schedule requests in the trailing 30 days means the attendance rate is
// undefined, not 0%.
func TestAttendanceRateNilWhenNoRequests(t *testing.T) {
	sched := &fakeScheduleRepo{requestsTotal: 0, requestsApproved: 0}
	svc := newTestReportService(&fakeRegistrationRepo{}, sched)

	k, err := svc.ComputeCoachKPIs(context.Background(), cricketer)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if k.AttendanceRatePct != nil {
		t.Fatalf("attendance_rate_pct = %d, want nil", *k.AttendanceRatePct)
	}
}

func TestAttendanceRateRounding(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		approved int
		want     int
	}{
		{"two thirds rounds up", 3, 2, 67},
		{"one third rounds down", 3, 1, 33},
		{"all approved", 4, 4, 100},
		{"none approved", 5, 0, 0},
		{"exact half", 2, 1, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := &fakeScheduleRepo{requestsTotal: tt.total, requestsApproved: tt.approved}
			svc := newTestReportService(&fakeRegistrationRepo{}, sched)

			k, err := svc.ComputeCoachKPIs(context.Background(), cricketer)
			if err != nil {
				t.Fatalf("compute: %v", err)
			}
			if k.AttendanceRatePct == nil {
				t.Fatal("attendance_rate_pct = nil, want a value")
			}
			if *k.AttendanceRatePct != tt.want {
				t.Fatalf("attendance_rate_pct = %d, want %d", *k.AttendanceRatePct, tt.want)
			}
		})
	}
}

func TestComputeCoachKPIsWindowsAndScope(t *testing.T) {
	reg := &fakeRegistrationRepo{pending: 2, confirmed: 5}
	sched := &fakeScheduleRepo{sessions: 3, requesters: 4, requestsTotal: 10, requestsApproved: 9}
	svc := newTestReportService(reg, sched)

	k, err := svc.ComputeCoachKPIs(context.Background(), cricketer)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if k.RegPending != 2 || k.RegConfirmed != 5 || k.UpcomingSessions7d != 3 || k.ActivePlayersThisWeek != 4 {
		t.Fatalf("unexpected counts: %+v", k)
	}

	now := svc.Now()
	if !sched.sessionsFrom.Equal(now) || !sched.sessionsTo.Equal(now.AddDate(0, 0, 7)) {
		t.Fatalf("session window = [%v, %v), want [now, now+7d)", sched.sessionsFrom, sched.sessionsTo)
	}
	if !sched.requestersSince.Equal(now.AddDate(0, 0, -7)) {
		t.Fatalf("active player window since = %v, want now-7d", sched.requestersSince)
	}
	if !sched.requestsSinceSeen.Equal(now.AddDate(0, 0, -30)) {
		t.Fatalf("attendance window since = %v, want now-30d", sched.requestsSinceSeen)
	}

	for _, sport := range reg.sports {
		if sport != cricketer.Sport {
			t.Fatalf("registration count scoped to %q, want %q", sport, cricketer.Sport)
		}
	}
	for _, id := range sched.coachIDs {
		if id != cricketer.ID {
			t.Fatalf("schedule count scoped to coach %q, want %q", id, cricketer.ID)
		}
	}
}
