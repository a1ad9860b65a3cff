// Package common defines shared constants and sentinel errors used across
// the portal server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Profile provisioning errors.
	ErrorNoUser      = errors.New("no authenticated user")
	ErrorMissingRole = errors.New("missing role")
	ErrorRead        = errors.New("read error")
	ErrorInsert      = errors.New("insert error")

	// Review workflow errors. ErrorNotify means the decision was persisted
	// but the outbound notification failed; callers must surface it as
	// "saved, not notified" rather than a full failure.
	ErrorPersist          = errors.New("persist error")
	ErrorNotify           = errors.New("notify error")
	ErrorDecisionInFlight = errors.New("decision already in flight")

	// Change-feed errors.
	ErrorSubscription = errors.New("subscription error")

	// Validation errors.
	ErrorInvalidRole       = errors.New("invalid role")
	ErrorInvalidDecision   = errors.New("invalid decision")
	ErrorInvalidSubmission = errors.New("invalid submission")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
