package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/krida-hq/krida-backend/internal/domain/entity"
	"github.com/krida-hq/krida-backend/internal/domain/repository"
	"github.com/krida-hq/krida-backend/internal/metrics"
	"github.com/krida-hq/krida-backend/pkg/apperr"
	"github.com/krida-hq/krida-backend/pkg/helpers"
)

// Not-found and foreign-owner failures share this message so a caller
// cannot tell whether someone else's record exists.
const msgAchievementNotFound = "achievement not found"

// msgVerifyNotPermitted covers every verification precondition failure:
// wrong role, no sport, sport mismatch, missing record.
const msgVerifyNotPermitted = "achievement not found in your sport or you are not permitted to verify it"

// AchievementService owns the achievement lifecycle: create, owner edits,
// deletion, and coach verification. It is the only code path that moves an
// achievement's status.
type AchievementService struct {
	Repo      repository.AchievementRepository
	Logger    *logrus.Logger
	ES        *elasticsearch.Client
	ESIndex   string
	GCS       *storage.Client
	GCSBucket string
	Pub       *helpers.RabbitPublisher
	Now       func() time.Time
}

func NewAchievementService(repo repository.AchievementRepository, logger *logrus.Logger, es *elasticsearch.Client, esIndex string, gcs *storage.Client, gcsBucket string, pub *helpers.RabbitPublisher) *AchievementService {
	return &AchievementService{
		Repo:      repo,
		Logger:    logger,
		ES:        es,
		ESIndex:   esIndex,
		GCS:       gcs,
		GCSBucket: gcsBucket,
		Pub:       pub,
		Now:       time.Now,
	}
}

type CreateAchievementInput struct {
	Title       string
	Date        time.Time
	Sport       string
	Venue       string
	Description string
	ProofURL    string
}

// Create submits a new achievement claim for the caller. New records always
// start PENDING.
func (s *AchievementService) Create(ctx context.Context, caller Identity, in CreateAchievementInput) (*entity.Achievement, error) {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return nil, apperr.Validation("title is required")
	case in.Date.IsZero():
		return nil, apperr.Validation("date is required")
	case strings.TrimSpace(in.Sport) == "":
		return nil, apperr.Validation("sport is required")
	case strings.TrimSpace(in.Venue) == "":
		return nil, apperr.Validation("venue is required")
	}

	a := &entity.Achievement{
		OwnerID:     caller.ID,
		Title:       strings.TrimSpace(in.Title),
		Date:        in.Date,
		Sport:       strings.TrimSpace(in.Sport),
		Venue:       strings.TrimSpace(in.Venue),
		Description: in.Description,
		ProofURL:    in.ProofURL,
		Status:      entity.StatusPending,
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		s.logErr("achievement create failed", err, logrus.Fields{"owner_id": caller.ID})
		return nil, apperr.Internal(err)
	}

	metrics.AchievementsCreated.Inc()
	s.index(ctx, a)
	return a, nil
}

// UpdateAchievementInput carries the owner-editable fields; nil means
// "leave unchanged".
type UpdateAchievementInput struct {
	Title       *string
	Date        *time.Time
	Sport       *string
	Venue       *string
	Description *string
}

// Update applies an owner edit. Approved records are immutable to their
// owner. Editing a rejected record does not move it back to PENDING; the
// owner asks for re-verification separately.
func (s *AchievementService) Update(ctx context.Context, caller Identity, id string, in UpdateAchievementInput) (*entity.Achievement, error) {
	a, err := s.getOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if a.Status == entity.StatusApproved {
		return nil, apperr.Conflict("cannot edit an approved achievement")
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, apperr.Validation("title cannot be empty")
		}
		a.Title = strings.TrimSpace(*in.Title)
	}
	if in.Date != nil {
		if in.Date.IsZero() {
			return nil, apperr.Validation("date cannot be empty")
		}
		a.Date = *in.Date
	}
	if in.Sport != nil {
		if strings.TrimSpace(*in.Sport) == "" {
			return nil, apperr.Validation("sport cannot be empty")
		}
		a.Sport = strings.TrimSpace(*in.Sport)
	}
	if in.Venue != nil {
		if strings.TrimSpace(*in.Venue) == "" {
			return nil, apperr.Validation("venue cannot be empty")
		}
		a.Venue = strings.TrimSpace(*in.Venue)
	}
	if in.Description != nil {
		a.Description = *in.Description
	}

	if err := s.Repo.Update(ctx, a); err != nil {
		s.logErr("achievement update failed", err, logrus.Fields{"achievement_id": id})
		return nil, apperr.Internal(err)
	}
	s.index(ctx, a)
	return a, nil
}

// Delete removes the caller's achievement. Approved achievements can never
// be deleted.
func (s *AchievementService) Delete(ctx context.Context, caller Identity, id string) error {
	a, err := s.getOwned(ctx, caller, id)
	if err != nil {
		return err
	}
	if a.Status == entity.StatusApproved {
		return apperr.Conflict("cannot delete an approved achievement")
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		s.logErr("achievement delete failed", err, logrus.Fields{"achievement_id": id})
		return apperr.Internal(err)
	}
	s.removeFromIndex(ctx, id)
	return nil
}

// Verify records a coach's decision. It is the sole path that moves status
// away from PENDING: APPROVED clears any prior rejection reason, REJECTED
// records the given reason. VerifiedBy/VerifiedAt are stamped to the acting
// coach and now. Concurrent decisions are last-write-wins.
func (s *AchievementService) Verify(ctx context.Context, caller Identity, id string, decision entity.AchievementStatus, reason string) (*entity.Achievement, error) {
	if decision != entity.StatusApproved && decision != entity.StatusRejected {
		return nil, apperr.Validation("decision must be APPROVED or REJECTED")
	}
	if !canListPending(caller) {
		return nil, apperr.Forbidden(msgVerifyNotPermitted)
	}

	a, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Forbidden(msgVerifyNotPermitted)
		}
		s.logErr("achievement lookup failed", err, logrus.Fields{"achievement_id": id})
		return nil, apperr.Internal(err)
	}
	if !canVerify(caller, a) {
		return nil, apperr.Forbidden(msgVerifyNotPermitted)
	}

	now := s.Now()
	a.Status = decision
	if decision == entity.StatusRejected {
		a.DecisionReason = &reason
	} else {
		a.DecisionReason = nil
	}
	a.VerifiedByID = &caller.ID
	a.VerifiedByName = &caller.Name
	a.VerifiedAt = &now

	if err := s.Repo.Update(ctx, a); err != nil {
		s.logErr("achievement verify failed", err, logrus.Fields{"achievement_id": id})
		return nil, apperr.Internal(err)
	}

	metrics.Verifications.WithLabelValues(string(decision)).Inc()
	s.index(ctx, a)
	s.publishDecision(ctx, a, caller)
	return a, nil
}

// ListMine returns the caller's achievements, newest first.
func (s *AchievementService) ListMine(ctx context.Context, caller Identity) ([]entity.Achievement, error) {
	out, err := s.Repo.ListByOwner(ctx, caller.ID)
	if err != nil {
		s.logErr("achievement list failed", err, logrus.Fields{"owner_id": caller.ID})
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// ListPendingForCoach returns the pending achievements in the coach's
// sport, newest first, annotated with owner names.
func (s *AchievementService) ListPendingForCoach(ctx context.Context, caller Identity) ([]entity.AchievementWithOwner, error) {
	if !canListPending(caller) {
		return nil, apperr.Forbidden("only a coach with a sport affiliation can list pending achievements")
	}
	out, err := s.Repo.ListBySportAndStatus(ctx, caller.Sport, entity.StatusPending)
	if err != nil {
		s.logErr("pending list failed", err, logrus.Fields{"coach_id": caller.ID, "sport": caller.Sport})
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// AttachProof uploads a proof file to GCS and stores its URL on the
// achievement. Same ownership and immutability rules as Update.
func (s *AchievementService) AttachProof(ctx context.Context, caller Identity, id string, r io.Reader, filename, contentType string) (*entity.Achievement, error) {
	a, err := s.getOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if a.Status == entity.StatusApproved {
		return nil, apperr.Conflict("cannot edit an approved achievement")
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, apperr.Internal(errors.New("object storage not configured"))
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("proofs", a.OwnerID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		s.logErr("proof upload failed", err, logrus.Fields{"achievement_id": id})
		return nil, apperr.Internal(err)
	}

	a.ProofURL = url
	if err := s.Repo.Update(ctx, a); err != nil {
		s.logErr("achievement update failed", err, logrus.Fields{"achievement_id": id})
		return nil, apperr.Internal(err)
	}
	s.index(ctx, a)
	return a, nil
}

// getOwned fetches the record and enforces ownership. Missing records and
// records owned by someone else come back with the same not-found-shaped
// error.
func (s *AchievementService) getOwned(ctx context.Context, caller Identity, id string) (*entity.Achievement, error) {
	a, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound(msgAchievementNotFound)
		}
		s.logErr("achievement lookup failed", err, logrus.Fields{"achievement_id": id})
		return nil, apperr.Internal(err)
	}
	if !isOwner(caller, a) {
		return nil, apperr.Ownership(msgAchievementNotFound)
	}
	return a, nil
}

func (s *AchievementService) publishDecision(ctx context.Context, a *entity.Achievement, coach Identity) {
	if s.Pub == nil {
		return
	}
	ev := DecisionEvent{
		AchievementID: a.ID,
		Title:         a.Title,
		OwnerID:       a.OwnerID,
		Decision:      string(a.Status),
		CoachName:     coach.Name,
		DecidedAt:     *a.VerifiedAt,
	}
	if a.DecisionReason != nil {
		ev.Reason = *a.DecisionReason
	}
	if err := s.Pub.PublishJSON(ctx, ev); err != nil {
		s.logErr("decision event publish failed", err, logrus.Fields{"achievement_id": a.ID})
	}
}

func (s *AchievementService) logErr(msg string, err error, fields logrus.Fields) {
	if s.Logger == nil {
		return
	}
	helpers.LogError(s.Logger, msg, err, fields)
}
