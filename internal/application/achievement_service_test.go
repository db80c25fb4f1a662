package application

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/krida-hq/krida-backend/internal/domain/entity"
	"github.com/krida-hq/krida-backend/internal/domain/repository"
	"github.com/krida-hq/krida-backend/pkg/apperr"
)

type fakeAchievementRepo struct {
	records map[string]*entity.Achievement
	nextID  int
	now     time.Time
}

func newFakeAchievementRepo() *fakeAchievementRepo {
	return &fakeAchievementRepo{
		records: map[string]*entity.Achievement{},
		now:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeAchievementRepo) Create(ctx context.Context, a *entity.Achievement) error {
	f.nextID++
	a.ID = "ach-" + strconv.Itoa(f.nextID)
	a.CreatedAt = f.now
	a.UpdatedAt = f.now
	cp := *a
	f.records[a.ID] = &cp
	return nil
}

func (f *fakeAchievementRepo) GetByID(ctx context.Context, id string) (*entity.Achievement, error) {
	a, ok := f.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAchievementRepo) ListByOwner(ctx context.Context, ownerID string) ([]entity.Achievement, error) {
	out := []entity.Achievement{}
	for _, a := range f.records {
		if a.OwnerID == ownerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAchievementRepo) ListBySportAndStatus(ctx context.Context, sport string, status entity.AchievementStatus) ([]entity.AchievementWithOwner, error) {
	out := []entity.AchievementWithOwner{}
	for _, a := range f.records {
		if a.Sport == sport && a.Status == status {
			out = append(out, entity.AchievementWithOwner{Achievement: *a, OwnerName: "owner of " + a.OwnerID})
		}
	}
	return out, nil
}

func (f *fakeAchievementRepo) Update(ctx context.Context, a *entity.Achievement) error {
	if _, ok := f.records[a.ID]; !ok {
		return repository.ErrNotFound
	}
	a.UpdatedAt = f.now.Add(time.Minute)
	cp := *a
	f.records[a.ID] = &cp
	return nil
}

func (f *fakeAchievementRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeAchievementRepo) CountBySportAndStatus(ctx context.Context, sport string, status entity.AchievementStatus) (int, error) {
	n := 0
	for _, a := range f.records {
		if a.Sport == sport && a.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeAchievementRepo) ListUpdatedSince(ctx context.Context, since time.Time) ([]entity.Achievement, error) {
	out := []entity.Achievement{}
	for _, a := range f.records {
		if !a.UpdatedAt.Before(since) {
			out = append(out, *a)
		}
	}
	return out, nil
}

var _ repository.AchievementRepository = (*fakeAchievementRepo)(nil)

var (
	player      = Identity{ID: "p1", Name: "Priya", Role: entity.RolePlayer, Sport: "cricket"}
	otherPlayer = Identity{ID: "p2", Name: "Rahul", Role: entity.RolePlayer, Sport: "cricket"}
	cricketer   = Identity{ID: "c1", Name: "Coach Kapil", Role: entity.RoleCoach, Sport: "cricket"}
	footballer  = Identity{ID: "c2", Name: "Coach Bhutia", Role: entity.RoleCoach, Sport: "football"}
)

func newTestService(repo *fakeAchievementRepo) *AchievementService {
	svc := NewAchievementService(repo, nil, nil, "", nil, "", nil)
	svc.Now = func() time.Time { return time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC) }
	return svc
}

func mustCreate(t *testing.T, svc *AchievementService, caller Identity, title, sport string) *entity.Achievement {
	t.Helper()
	a, err := svc.Create(context.Background(), caller, CreateAchievementInput{
		Title: title,
		Date:  time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Sport: sport,
		Venue: "Delhi",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return a
}

func TestCreateStartsPending(t *testing.T) {
	svc := newTestService(newFakeAchievementRepo())

	a, err := svc.Create(context.Background(), player, CreateAchievementInput{
		Title: "State Champion",
		Date:  time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Sport: "cricket",
		Venue: "Delhi",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Status != entity.StatusPending {
		t.Fatalf("status = %s, want PENDING", a.Status)
	}
	if a.OwnerID != player.ID {
		t.Fatalf("owner = %s, want %s", a.OwnerID, player.ID)
	}
	if a.ID == "" || a.CreatedAt.IsZero() {
		t.Fatal("expected store-assigned id and created_at")
	}
	if a.DecisionReason != nil || a.VerifiedByID != nil || a.VerifiedAt != nil {
		t.Fatal("verification fields must be unset on creation")
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newFakeAchievementRepo())
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   CreateAchievementInput
	}{
		{"missing title", CreateAchievementInput{Date: date, Sport: "cricket", Venue: "Delhi"}},
		{"missing date", CreateAchievementInput{Title: "t", Sport: "cricket", Venue: "Delhi"}},
		{"missing sport", CreateAchievementInput{Title: "t", Date: date, Venue: "Delhi"}},
		{"missing venue", CreateAchievementInput{Title: "t", Date: date, Sport: "cricket"}},
		{"blank title", CreateAchievementInput{Title: "   ", Date: date, Sport: "cricket", Venue: "Delhi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), player, tt.in)
			if apperr.KindOf(err) != apperr.KindValidation {
				t.Fatalf("err = %v, want validation error", err)
			}
		})
	}
}

func TestVerifyApprove(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newTestService(repo)
	a := mustCreate(t, svc, player, "State Champion", "cricket")

	got, err := svc.Verify(context.Background(), cricketer, a.ID, entity.StatusApproved, "")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.Status != entity.StatusApproved {
		t.Fatalf("status = %s, want APPROVED", got.Status)
	}
	if got.VerifiedByID == nil || *got.VerifiedByID != cricketer.ID {
		t.Fatalf("verified_by_id = %v, want %s", got.VerifiedByID, cricketer.ID)
	}
	if got.VerifiedByName == nil || *got.VerifiedByName != cricketer.Name {
		t.Fatalf("verified_by_name = %v, want %s", got.VerifiedByName, cricketer.Name)
	}
	if got.VerifiedAt == nil || !got.VerifiedAt.Equal(svc.Now()) {
		t.Fatalf("verified_at = %v, want %v", got.VerifiedAt, svc.Now())
	}
	if got.DecisionReason != nil {
		t.Fatalf("decision_reason = %v, want nil on approval", *got.DecisionReason)
	}
}

func TestVerifyRejectSetsReason(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newTestService(repo)
	a := mustCreate(t, svc, player, "State Champion", "cricket")

	got, err := svc.Verify(context.Background(), cricketer, a.ID, entity.StatusRejected, "no proof attached")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.Status != entity.StatusRejected {
		t.Fatalf("status = %s, want REJECTED", got.Status)
	}
	if got.DecisionReason == nil || *got.DecisionReason != "no proof attached" {
		t.Fatalf("decision_reason = %v, want the rejection reason", got.DecisionReason)
	}
}

// A rejected achievement can be re-verified; re-approval must clear the
// prior rejection reason so reason-is-set holds exactly for REJECTED.
func TestReVerifyClearsReason(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newTestService(repo)
	a := mustCreate(t, svc, player, "State Champion", "cricket")

	if _, err := svc.Verify(context.Background(), cricketer, a.ID, entity.StatusRejected, "blurry photo"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	got, err := svc.Verify(context.Background(), cricketer, a.ID, entity.StatusApproved, "")
	if err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	if got.Status != entity.StatusApproved {
		t.Fatalf("status = %s, want APPROVED", got.Status)
	}
	if got.DecisionReason != nil {
		t.Fatalf("decision_reason = %q, want nil after re-approval", *got.DecisionReason)
	}
}

func TestVerifyAuthorization(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newTestService(repo)
	a := mustCreate(t, svc, player, "State Champion", "cricket")

	coachNoSport := Identity{ID: "c3", Name: "New Coach", Role: entity.RoleCoach}

	tests := []struct {
		name   string
		caller Identity
		id     string
	}{
		{"sport mismatch", footballer, a.ID},
		{"not a coach", player, a.ID},
		{"coach without sport", coachNoSport, a.ID},
		{"missing achievement", cricketer, "ach-999"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(context.Background(), tt.caller, tt.id, entity.StatusApproved, "")
			if apperr.KindOf(err) != apperr.KindForbidden {
				t.Fatalf("err = %v, want forbidden", err)
			}
		})
	}

	// the record is untouched after all failed attempts
	got, _ := repo.GetByID(context.Background(), a.ID)
	if got.Status != entity.StatusPending {
		t.Fatalf("status = %s, want PENDING after failed verifications", got.Status)
	}
	if got.VerifiedByID != nil {
		t.Fatal("verified_by_id must stay unset after failed verifications")
	}
}

func TestVerifyBadDecision(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newTestService(repo)
	a := mustCreate(t, svc, player, "State Champion", "cricket")

	_, err := svc.Verify(context.Background(), cricketer, a.ID, entity.StatusPending, "")
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestDeleteApprovedConflict(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newTestService(repo)
	a := mustCreate(t, svc, player, "State Champion", "cricket")
	if _, err := svc.Verify(context.Background(), cricketer, a.ID, entity.StatusApproved, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}

	err := svc.Delete(context.Background(), player, a.ID)
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("err = %v, want conflict", err)
	}
	if _, getErr := repo.GetByID(context.Background(), a.ID); getErr != nil {
		t.Fatal("approved record must still exist")
	}
}

func TestDeletePendingAndRejected(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newTestService(repo)

	pending := mustCreate(t, svc, player, "Pending one", "cricket")
	rejected := mustCreate(t, svc, player, "Rejected one", "cricket")
	if _, err := svc.Verify(context.Background(), cricketer, rejected.ID, entity.StatusRejected, "nope"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	for _, id := range []string{pending.ID, rejected.ID} {
		if err := svc.Delete(context.Background(), player, id); err != nil {
			t.Fatalf("delete %s: %v", id, err)
		}
		if _, err := repo.GetByID(context.Background(), id); err == nil {
			t.Fatalf("record %s should be gone", id)
		}
	}
}

// Foreign-owner and missing-record failures must be indistinguishable: same
// status, same message.
func TestOwnershipCollapsesToNotFound(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newTestService(repo)
	a := mustCreate(t, svc, player, "State Champion", "cricket")

	title := "hijacked"
	_, foreignErr := svc.Update(context.Background(), otherPlayer, a.ID, UpdateAchievementInput{Title: &title})
	_, missingErr := svc.Update(context.Background(), otherPlayer, "ach-999", UpdateAchievementInput{Title: &title})

	if apperr.HTTPStatus(foreignErr) != 404 || apperr.HTTPStatus(missingErr) != 404 {
		t.Fatalf("statuses = %d / %d, want 404 / 404", apperr.HTTPStatus(foreignErr), apperr.HTTPStatus(missingErr))
	}
	if apperr.PublicMessage(foreignErr) != apperr.PublicMessage(missingErr) {
		t.Fatalf("messages differ: %q vs %q", apperr.PublicMessage(foreignErr), apperr.PublicMessage(missingErr))
	}

	got, _ := repo.GetByID(context.Background(), a.ID)
	if got.Title != "State Champion" {
		t.Fatal("foreign update must not mutate the record")
	}
}

func TestUpdateApprovedConflict(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newTestService(repo)
	a := mustCreate(t, svc, player, "State Champion", "cricket")
	if _, err := svc.Verify(context.Background(), cricketer, a.ID, entity.StatusApproved, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}

	title := "Edited"
	_, err := svc.Update(context.Background(), player, a.ID, UpdateAchievementInput{Title: &title})
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("err = %v, want conflict", err)
	}
}

// Editing a rejected achievement patches fields but does not resubmit: the
// status and rejection reason stay as the coach left them.
func TestUpdateRejectedKeepsDecision(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newTestService(repo)
	a := mustCreate(t, svc, player, "State Champion", "cricket")
	if _, err := svc.Verify(context.Background(), cricketer, a.ID, entity.StatusRejected, "wrong venue"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	venue := "Mumbai"
	got, err := svc.Update(context.Background(), player, a.ID, UpdateAchievementInput{Venue: &venue})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Venue != "Mumbai" {
		t.Fatalf("venue = %s, want Mumbai", got.Venue)
	}
	if got.Status != entity.StatusRejected {
		t.Fatalf("status = %s, want REJECTED to survive the edit", got.Status)
	}
	if got.DecisionReason == nil || *got.DecisionReason != "wrong venue" {
		t.Fatalf("decision_reason = %v, want untouched", got.DecisionReason)
	}
}

func TestUpdatePatchesOnlyProvidedFields(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newTestService(repo)
	a := mustCreate(t, svc, player, "State Champion", "cricket")

	desc := "won the U-19 final"
	got, err := svc.Update(context.Background(), player, a.ID, UpdateAchievementInput{Description: &desc})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Description != desc {
		t.Fatalf("description = %q, want %q", got.Description, desc)
	}
	if got.Title != "State Champion" || got.Sport != "cricket" || got.Venue != "Delhi" {
		t.Fatal("unprovided fields must be unchanged")
	}
	if !got.UpdatedAt.After(a.UpdatedAt) {
		t.Fatal("updated_at must be refreshed")
	}
}

func TestListPendingForCoach(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newTestService(repo)

	cricketPending := mustCreate(t, svc, player, "Cricket pending", "cricket")
	mustCreate(t, svc, player, "Football pending", "football")
	approved := mustCreate(t, svc, otherPlayer, "Cricket approved", "cricket")
	if _, err := svc.Verify(context.Background(), cricketer, approved.ID, entity.StatusApproved, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}

	out, err := svc.ListPendingForCoach(context.Background(), cricketer)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d records, want 1", len(out))
	}
	if out[0].ID != cricketPending.ID {
		t.Fatalf("got %s, want %s", out[0].ID, cricketPending.ID)
	}
	if out[0].Status != entity.StatusPending || out[0].Sport != "cricket" {
		t.Fatalf("record outside coach scope: status=%s sport=%s", out[0].Status, out[0].Sport)
	}
	if out[0].OwnerName == "" {
		t.Fatal("pending records must carry the owner's display name")
	}

	if _, err := svc.ListPendingForCoach(context.Background(), player); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("player listing pending: err = %v, want forbidden", err)
	}
	noSport := Identity{ID: "c9", Role: entity.RoleCoach}
	if _, err := svc.ListPendingForCoach(context.Background(), noSport); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("sportless coach listing pending: err = %v, want forbidden", err)
	}
}

func TestListMine(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newTestService(repo)

	for i := 0; i < 3; i++ {
		mustCreate(t, svc, player, fmt.Sprintf("Title %d", i), "cricket")
	}
	mustCreate(t, svc, otherPlayer, "Someone else's", "cricket")

	out, err := svc.ListMine(context.Background(), player)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d records, want 3", len(out))
	}
	for _, a := range out {
		if a.OwnerID != player.ID {
			t.Fatalf("record %s owned by %s leaked into ListMine", a.ID, a.OwnerID)
		}
	}
}
