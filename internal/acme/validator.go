package acme

import (
	"context"
	"errors"
	"time"

	domainerr "github.com/litewave/dnsproof/internal/domain"
	"github.com/litewave/dnsproof/internal/infrastructure/logger"
	"github.com/litewave/dnsproof/internal/providers/dns"
)

// Validator proves control of domains by publishing dns-01 challenge
// records and asking the CA to verify them.
//
// An immediate verification races DNS propagation and is expected to fail
// some of the time, so an invalid authorization is treated as transient:
// the validator republishes and retries, pacing each retry by the total
// time the previous attempts took rather than a fixed backoff table. There
// is no attempt cap; the loop exits only on success, a fatal error, or
// cancellation.
type Validator struct {
	ca  ChallengeService
	dns dns.Provider
}

func NewValidator(ca ChallengeService, provider dns.Provider) *Validator {
	return &Validator{ca: ca, dns: provider}
}

// ValidateOrder validates every pending authorization of the order in turn.
func (v *Validator) ValidateOrder(ctx context.Context, order *Order) error {
	for _, authzURL := range order.AuthzURLs {
		authz, err := v.ca.Authorization(ctx, authzURL)
		if err != nil {
			return err
		}
		if authz.Valid {
			continue
		}
		if err := v.ValidateAuthorization(ctx, authz.URI, authz.Domain); err != nil {
			return domainerr.WrapEntity("authorization", authz.Domain, err)
		}
	}
	return nil
}

// ValidateAuthorization runs the publish/validate/cleanup loop for one
// domain's authorization until the CA accepts it.
func (v *Validator) ValidateAuthorization(ctx context.Context, authzURL, domain string) error {
	recordName := ChallengeDomain(domain)

	var validationDelay time.Duration
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()

		ch, err := v.ca.DNSChallenge(ctx, authzURL)
		if err != nil {
			return err
		}
		txtValue, err := v.ca.DNSTXTValue(ch.Token)
		if err != nil {
			return err
		}

		record, err := v.dns.AddTXTRecord(ctx, recordName, txtValue)
		if err != nil {
			return domainerr.WrapOp("publish challenge record", err)
		}

		attemptErr := v.attempt(ctx, ch, authzURL, validationDelay)

		// Cleanup runs exactly once per published record, detached from
		// cancellation so a context that fires mid-attempt still releases
		// the record. Its error surfaces unless a fatal validation error
		// already decides the outcome.
		cleanupErr := v.dns.RemoveTXTRecord(context.WithoutCancel(ctx), record)

		switch {
		case attemptErr == nil:
			if cleanupErr != nil {
				return domainerr.WrapOp("remove challenge record", cleanupErr)
			}
			logger.Info("domain ownership validated", "domain", domain)
			return nil

		case errors.Is(attemptErr, domainerr.ErrAuthorizationInvalid):
			if cleanupErr != nil {
				return domainerr.WrapOp("remove challenge record", cleanupErr)
			}
			validationDelay += time.Since(start)
			logger.Info("authorization invalid, assuming propagation delay and retrying",
				"domain", domain, "next_delay", validationDelay)

		default:
			if cleanupErr != nil {
				logger.Warn("challenge record cleanup failed", "domain", domain, "error", cleanupErr)
			}
			return attemptErr
		}
	}
}

// attempt waits out the accumulated propagation delay, then asks the CA to
// verify the published record and waits for the authorization to settle.
func (v *Validator) attempt(ctx context.Context, ch *Challenge, authzURL string, delay time.Duration) error {
	if delay > 0 {
		logger.Debug("waiting for DNS propagation", "delay", delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	if err := v.ca.Validate(ctx, ch); err != nil {
		return err
	}
	return v.ca.WaitAuthorization(ctx, authzURL)
}
