package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"eventhub/internal/model"
	"eventhub/internal/util"
	"eventhub/pkg/metrics"
)

// DefaultTokenTTL is the lifetime of a one-click decision link.
const DefaultTokenTTL = 72 * time.Hour

// DecisionApplier applies a token-bound catering decision. Implemented
// by the catering service, which translates the token kind into the
// approval status it carries.
type DecisionApplier interface {
	ApplyTokenDecision(ctx context.Context, deciderID, eventID int64, tokenType string) error
}

// TokenService issues and resolves single-use action tokens. Resolution
// marks the token used before applying the side effect, so a concurrent
// double-resolution can never apply the decision twice.
type TokenService struct {
	tokens    TokenStore
	events    EventStore
	decisions DecisionApplier
	logger    *zap.Logger
}

func NewTokenService(tokens TokenStore, events EventStore, logger *zap.Logger) *TokenService {
	return &TokenService{
		tokens: tokens,
		events: events,
		logger: logger,
	}
}

// BindDecisions wires the decision applier. Separate from the
// constructor because the catering service and the token service
// reference each other: tokens carry catering decisions, and catering
// submission mints tokens.
func (s *TokenService) BindDecisions(decisions DecisionApplier) {
	s.decisions = decisions
}

// Issue creates a random, globally unique token bound to an actor, an
// event, and a decision kind. A zero ttl selects the default 72 hours.
func (s *TokenService) Issue(ctx context.Context, eventID, userID int64, decisionType string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	t := &model.ActionToken{
		Token:     util.GenerateOpaqueToken(),
		Type:      decisionType,
		EventID:   eventID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.tokens.Create(ctx, t); err != nil {
		return "", err
	}
	return t.Token, nil
}

// ResolveResult describes a successful resolution for the confirmation
// page.
type ResolveResult struct {
	Decision   string
	EventID    int64
	EventTitle string
}

// Resolve consumes a token exactly once and applies its decision using
// the bound actor. Outcomes are distinguished so the caller can render
// distinct copy for invalid, expired, and already-used links.
func (s *TokenService) Resolve(ctx context.Context, token string) (*ResolveResult, error) {
	t, err := s.tokens.FindByToken(ctx, token)
	if errors.Is(err, ErrNotFound) {
		metrics.TokensResolved.WithLabelValues("not_found").Inc()
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	// Expiry wins over usedAt: an expired link reads as expired even if
	// someone already clicked it.
	if time.Now().After(t.ExpiresAt) {
		metrics.TokensResolved.WithLabelValues("expired").Inc()
		return nil, ErrTokenExpired
	}
	if t.UsedAt != nil {
		metrics.TokensResolved.WithLabelValues("already_used").Inc()
		return nil, ErrTokenAlreadyUsed
	}

	// Mark used before acting. The store compare-and-sets on a null
	// usedAt, so exactly one of two racing resolutions proceeds.
	ok, err := s.tokens.MarkUsed(ctx, t.ID, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		metrics.TokensResolved.WithLabelValues("already_used").Inc()
		return nil, ErrTokenAlreadyUsed
	}

	if err := s.decisions.ApplyTokenDecision(ctx, t.UserID, t.EventID, t.Type); err != nil {
		s.logger.Error("Failed to apply token decision",
			zap.Int64("event_id", t.EventID),
			zap.String("decision", t.Type),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.TokensResolved.WithLabelValues("applied").Inc()
	s.logger.Info("Action token resolved",
		zap.Int64("event_id", t.EventID),
		zap.String("decision", t.Type),
		zap.Int64("user_id", t.UserID),
	)

	result := &ResolveResult{
		Decision: t.Type,
		EventID:  t.EventID,
	}
	if event, err := s.events.FindByID(ctx, t.EventID); err == nil {
		result.EventTitle = event.Title
	}
	return result, nil
}
