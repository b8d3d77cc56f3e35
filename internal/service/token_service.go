package service

import (
	"context"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/token-service/internal/auth"
	"github.com/spec-kit/token-service/internal/config"
	"github.com/spec-kit/token-service/internal/directory"
	"github.com/spec-kit/token-service/internal/domain"
	"github.com/spec-kit/token-service/internal/events"
	"github.com/spec-kit/token-service/internal/store"
	"github.com/spec-kit/token-service/pkg/util"
)

// IssuedToken is the client-facing result of token issuance. It never
// carries the password, email or raw username.
type IssuedToken struct {
	Token       string
	ExpiresAt   time.Time
	DisplayName string
}

// TokenPolicy holds optional hooks applied while building claims. Nil
// fields fall back to the defaults: notBefore equals issuedAt and expiry
// is the configured TTL from the current clock.
type TokenPolicy struct {
	NotBefore  func(notBefore time.Time) time.Time
	ExpiresAt  func(now time.Time) time.Time
	BeforeSign func(claims *auth.Claims)
}

// TokenDependencies encapsulates collaborator requirements for the token service.
type TokenDependencies struct {
	Directory  directory.UserDirectory
	Tracking   store.TrackingStore
	Dispatcher events.Dispatcher
	Clock      auth.Clock
	Logger     *zap.Logger
	Policy     TokenPolicy
}

// TokenService implements the token lifecycle: issue, validate, regenerate
// and revoke. It owns no persistent state; claims live only for the
// duration of a request and revocation state lives in the tracking store.
type TokenService struct {
	codec           *auth.TokenCodec
	directory       directory.UserDirectory
	tracking        store.TrackingStore
	dispatcher      events.Dispatcher
	clock           auth.Clock
	logger          *zap.Logger
	policy          TokenPolicy
	issuer          string
	ttl             time.Duration
	trackingEnabled bool
}

// NewTokenService builds the service.
func NewTokenService(cfg config.Config, deps TokenDependencies) *TokenService {
	clock := deps.Clock
	if clock == nil {
		clock = auth.SystemClock()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenService{
		codec:           auth.NewTokenCodec(cfg.Auth.Secret, clock),
		directory:       deps.Directory,
		tracking:        deps.Tracking,
		dispatcher:      deps.Dispatcher,
		clock:           clock,
		logger:          logger,
		policy:          deps.Policy,
		issuer:          cfg.Auth.Issuer,
		ttl:             cfg.Auth.TokenTTL(),
		trackingEnabled: cfg.Tracking.Enabled,
	}
}

// Codec exposes the underlying codec for tests and diagnostics.
func (s *TokenService) Codec() *auth.TokenCodec {
	return s.codec
}

// Generate authenticates the credentials and issues a signed token. The
// secret is checked before the directory is consulted so that a
// misconfigured server never leaks whether credentials would have
// succeeded. When tracking is enabled the tracking record is created
// before signing; a store failure aborts issuance.
func (s *TokenService) Generate(ctx context.Context, username, password, userAgent string) (*IssuedToken, error) {
	if !s.codec.Configured() {
		return nil, util.NewBadConfig()
	}

	user, err := s.directory.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	notBefore := s.notBefore(now)
	expiresAt := s.expiresAt(now)

	subject := auth.Subject{User: auth.UserRef{ID: user.ID}}
	if s.trackingEnabled {
		trackingID := uuid.NewString()
		record := &domain.TrackingRecord{
			ID:        trackingID,
			UserID:    user.ID,
			Username:  user.Username,
			UserAgent: userAgent,
			Status:    domain.TrackingStatusActive,
			CreatedAt: now,
		}
		if err := s.tracking.Create(ctx, record); err != nil {
			if err == store.ErrConflict {
				return nil, util.NewStoreConflict(err)
			}
			return nil, util.NewStoreError(err)
		}
		subject.User.TrackingID = trackingID
	}

	claims := &auth.Claims{
		Data: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(notBefore),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if s.policy.BeforeSign != nil {
		s.policy.BeforeSign(claims)
	}

	token, err := s.codec.Encode(claims)
	if err != nil {
		// No token without its tracking record and no orphaned record
		// without its token: unwind the create before reporting.
		if subject.Tracked() {
			if delErr := s.tracking.Delete(ctx, subject.User.TrackingID); delErr != nil {
				s.logger.Warn("failed to unwind tracking record",
					zap.String("tracking_id", subject.User.TrackingID),
					zap.Error(delErr))
			}
		}
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:       events.EventTokenIssued,
		UserID:     user.ID,
		TrackingID: subject.User.TrackingID,
		Payload: events.TokenIssuedPayload{
			Username:  user.Username,
			UserAgent: userAgent,
			ExpiresAt: expiresAt,
			Tracked:   subject.Tracked(),
		},
	})

	return &IssuedToken{
		Token:       token,
		ExpiresAt:   expiresAt,
		DisplayName: user.DisplayName,
	}, nil
}

// Validate runs the full check sequence over a bearer Authorization header
// and returns the decoded claims. Checks run in a fixed order and
// short-circuit on the first failure: header presence, header shape,
// secret, signature and temporal claims, issuer, user id, tracking id,
// tracking record status.
func (s *TokenService) Validate(ctx context.Context, authorization string) (*auth.Claims, error) {
	token, err := auth.BearerToken(authorization)
	if err != nil {
		return nil, err
	}

	if !s.codec.Configured() {
		return nil, util.NewBadConfig()
	}

	claims, err := s.codec.Decode(token)
	if err != nil {
		return nil, err
	}

	if claims.Issuer != s.issuer {
		return nil, util.NewBadIssuer()
	}
	if claims.Data.User.ID == 0 {
		return nil, util.NewMissingUserID()
	}
	if s.trackingEnabled && !claims.Data.Tracked() {
		return nil, util.NewMissingTrackingID()
	}

	// A tracking id, when present, is always checked against the store,
	// even if tracking has since been turned off. Absence of the record
	// is the revocation.
	if claims.Data.Tracked() {
		record, err := s.tracking.Find(ctx, claims.Data.User.TrackingID)
		if err != nil {
			if err == store.ErrNotFound {
				return nil, util.NewTokenRevoked()
			}
			return nil, util.NewStoreError(err)
		}
		if !record.Active() {
			return nil, util.NewTokenRevoked()
		}
	}

	return claims, nil
}

// Regenerate issues a replacement token with extended expiry for a still
// valid token, without re-submitting credentials. The full validation
// sequence runs first and its failures propagate unchanged. The new token
// reuses the user id and tracking id, is marked as extended, and keeps the
// original issuedAt/notBefore while expiry is recomputed from the current
// clock. The old token stays valid until its own expiry; revoking the
// shared tracking id is the only way to invalidate both.
func (s *TokenService) Regenerate(ctx context.Context, authorization string) (*IssuedToken, error) {
	claims, err := s.Validate(ctx, authorization)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	expiresAt := s.expiresAt(now)
	notBefore := claims.NotBefore.Time
	if s.policy.NotBefore != nil {
		notBefore = s.policy.NotBefore(notBefore)
	}

	next := &auth.Claims{
		Data: auth.Subject{
			User:     claims.Data.User,
			Extended: true,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  claims.IssuedAt,
			NotBefore: jwt.NewNumericDate(notBefore),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if s.policy.BeforeSign != nil {
		s.policy.BeforeSign(next)
	}

	token, err := s.codec.Encode(next)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:       events.EventTokenRegenerated,
		UserID:     next.Data.User.ID,
		TrackingID: next.Data.User.TrackingID,
		Payload:    events.TokenRegeneratedPayload{ExpiresAt: expiresAt},
	})

	return &IssuedToken{Token: token, ExpiresAt: expiresAt}, nil
}

// Revoke deletes the tracking record named by the token, immediately
// invalidating every token that carries its id. The signature must still
// verify but expiry is deliberately not enforced, so stale records of
// already-expired tokens can be cleaned up. Deleting an absent record is
// an idempotent success.
func (s *TokenService) Revoke(ctx context.Context, authorization string) error {
	token, err := auth.BearerToken(authorization)
	if err != nil {
		return err
	}

	if !s.codec.Configured() {
		return util.NewBadConfig()
	}

	claims, err := s.codec.DecodeSignatureOnly(token)
	if err != nil {
		return err
	}
	if !claims.Data.Tracked() {
		return util.NewMissingTrackingID()
	}

	if err := s.tracking.Delete(ctx, claims.Data.User.TrackingID); err != nil {
		return util.NewStoreError(err)
	}

	expired := claims.ExpiresAt != nil && s.clock.Now().After(claims.ExpiresAt.Time)
	s.publish(ctx, events.Event{
		Type:       events.EventTokenRevoked,
		UserID:     claims.Data.User.ID,
		TrackingID: claims.Data.User.TrackingID,
		Payload:    events.TokenRevokedPayload{Expired: expired},
	})
	return nil
}

// InvalidateUser deletes every tracking record owned by the user, revoking
// all of their outstanding tracked tokens at once. Called when a password
// changes.
func (s *TokenService) InvalidateUser(ctx context.Context, userID int64) (int64, error) {
	deleted, err := s.tracking.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, util.NewStoreError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventUserInvalidated,
		UserID:  userID,
		Payload: events.UserInvalidatedPayload{RecordsDeleted: deleted},
	})
	return deleted, nil
}

func (s *TokenService) notBefore(issuedAt time.Time) time.Time {
	if s.policy.NotBefore != nil {
		return s.policy.NotBefore(issuedAt)
	}
	return issuedAt
}

func (s *TokenService) expiresAt(now time.Time) time.Time {
	if s.policy.ExpiresAt != nil {
		return s.policy.ExpiresAt(now)
	}
	return now.Add(s.ttl)
}

func (s *TokenService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.clock.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
