package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/krida-hq/krida-backend/internal/domain/entity"
	"github.com/krida-hq/krida-backend/internal/domain/repository"
	"github.com/krida-hq/krida-backend/pkg/apperr"
	"github.com/krida-hq/krida-backend/pkg/helpers"
)

// UserService is the identity and role provider: registration, credential
// checks, token issuance, session bookkeeping, and profile updates.
type UserService struct {
	Repo       repository.UserRepository
	JWT        *helpers.JWTManager
	Redis      *redis.Client
	Logger     *logrus.Logger
	SessionTTL time.Duration
}

func NewUserService(repo repository.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, sessionTTL time.Duration) *UserService {
	return &UserService{Repo: repo, JWT: jwt, Redis: rdb, Logger: logger, SessionTTL: sessionTTL}
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     entity.Role
	Sport    string
}

// Register creates a user account. Sport is optional for players; a coach
// without a sport can log in but cannot verify anything until one is set.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if in.Role != entity.RolePlayer && in.Role != entity.RoleCoach {
		return nil, apperr.Validation("role must be player or coach")
	}
	if existing, err := s.Repo.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, apperr.Conflict("email already registered")
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logErr("user lookup failed", err, logrus.Fields{"email": in.Email})
		return nil, apperr.Internal(err)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	u := &entity.User{
		Email:    in.Email,
		Password: hash,
		Name:     in.Name,
		Role:     in.Role,
		Sport:    in.Sport,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		s.logErr("user create failed", err, logrus.Fields{"email": in.Email})
		return nil, apperr.Internal(err)
	}
	return u, nil
}

// Authenticate validates email/password and returns the user without
// issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, apperr.Unauthenticated("invalid credentials")
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, apperr.Unauthenticated("invalid credentials")
	}
	return u, nil
}

// IssueTokens generates the access/refresh pair and records a session hash
// in Redis carrying the fields the auth middleware resolves identity from.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID)
	if err != nil {
		s.logErr("generate access token failed", err, logrus.Fields{"user_id": u.ID})
		return TokenPair{}, apperr.Internal(err)
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID)
	if err != nil {
		s.logErr("generate refresh token failed", err, logrus.Fields{"user_id": u.ID})
		return TokenPair{}, apperr.Internal(err)
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"role":       string(u.Role),
			"sport":      u.Sport,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, s.SessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh rotates the token pair for a valid refresh token.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, apperr.Unauthenticated("invalid refresh token")
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, apperr.Unauthenticated("invalid refresh token")
	}
	return s.IssueTokens(ctx, u)
}

// Logout drops the caller's session.
func (s *UserService) Logout(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, sessionKey(userID)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		s.logErr("profile lookup failed", err, logrus.Fields{"user_id": userID})
		return nil, apperr.Internal(err)
	}
	return u, nil
}

type UpdateProfileInput struct {
	Name      string
	Sport     string
	AvatarURL string
}

// UpdateProfile applies non-empty fields and refreshes the session hash so
// role/sport scoping stays current without a DB read per request.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Sport != "" {
		u.Sport = in.Sport
	}
	if in.AvatarURL != "" {
		u.AvatarURL = in.AvatarURL
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		s.logErr("profile update failed", err, logrus.Fields{"user_id": userID})
		return nil, apperr.Internal(err)
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"name":       u.Name,
			"sport":      u.Sport,
			"updated_at": nowRFC3339(),
		})
		if ttl, tErr := s.Redis.TTL(ctx, key).Result(); tErr == nil && ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		if _, pErr := pipe.Exec(ctx); pErr != nil && s.Logger != nil {
			s.Logger.WithError(pErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return u, nil
}

func (s *UserService) logErr(msg string, err error, fields logrus.Fields) {
	if s.Logger == nil {
		return
	}
	helpers.LogError(s.Logger, msg, err, fields)
}
