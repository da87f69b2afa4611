package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Policy decides when a cached credential may be used instead of asking the
// source provider again.
type Policy string

const (
	// PolicyDiscard deletes any cached credential before every lookup, so each
	// run authenticates from scratch. Nothing is written back.
	PolicyDiscard Policy = "discard"
	// PolicyReuse returns a cached credential younger than MaxAge that was
	// issued for the current source configuration. Other caches are deleted
	// and refreshed from the source.
	PolicyReuse Policy = "reuse"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyDiscard, "":
		return PolicyDiscard, nil
	case PolicyReuse:
		return PolicyReuse, nil
	default:
		return "", fmt.Errorf("unknown auth cache policy %q (want %q or %q)", s, PolicyDiscard, PolicyReuse)
	}
}

// CachingProvider wraps a source provider with a token store.
type CachingProvider struct {
	source Provider
	store  TokenStore
	policy Policy
	maxAge time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func NewCachingProvider(source Provider, store TokenStore, policy Policy, maxAge time.Duration, logger *zap.Logger) *CachingProvider {
	return &CachingProvider{
		source: source,
		store:  store,
		policy: policy,
		maxAge: maxAge,
		logger: logger,
		now:    time.Now,
	}
}

func (p *CachingProvider) Credential(ctx context.Context) (Credential, error) {
	if p.policy != PolicyReuse {
		if err := p.store.Clear(); err != nil {
			return Credential{}, err
		}
		p.logger.Info("Removed cached credential to force new authentication")

		cred, err := p.source.Credential(ctx)
		if err != nil {
			return Credential{}, fmt.Errorf("failed to obtain credential: %w", err)
		}
		return cred, nil
	}

	cached, err := p.store.Load()
	if err == nil && p.fresh(cached) {
		p.logger.Debug("Reusing cached credential",
			zap.Time("obtained_at", cached.ObtainedAt))
		return cached, nil
	}
	if err != nil && !errors.Is(err, ErrNoCachedCredential) {
		p.logger.Warn("Ignoring unreadable token cache", zap.Error(err))
	}
	if err := p.store.Clear(); err != nil {
		return Credential{}, err
	}

	cred, err := p.source.Credential(ctx)
	if err != nil {
		return Credential{}, fmt.Errorf("failed to obtain credential: %w", err)
	}
	cred.Source = p.identity()

	if err := p.store.Save(cred); err != nil {
		// The credential is still usable for this run.
		p.logger.Warn("Failed to cache credential", zap.Error(err))
	}

	return cred, nil
}

// identity names the source configuration, or "" when the source cannot.
func (p *CachingProvider) identity() string {
	if id, ok := p.source.(Identifier); ok {
		return id.Identity()
	}
	return ""
}

// fresh reports whether cred was issued for the current source
// configuration less than maxAge ago.
func (p *CachingProvider) fresh(cred Credential) bool {
	if cred.Key == "" || cred.URL == "" || cred.ObtainedAt.IsZero() {
		return false
	}
	if cred.Source != p.identity() {
		p.logger.Info("Cached credential belongs to a different configuration")
		return false
	}
	return p.now().Sub(cred.ObtainedAt) < p.maxAge
}
