package dns

import (
	"errors"
	"fmt"
	"net"
	"strings"

	domainerr "github.com/litewave/dnsproof/internal/domain"
)

// ChallengeTTL is the TTL for published challenge records. They live for
// one validation attempt, so the shortest broadly supported value is used.
const ChallengeTTL = 120

// SubDomainName returns the record name relative to rootDomain: "@" at the
// zone apex, the stripped prefix for a strict subdomain, and an error
// wrapping domain.ErrDomainOutOfZone for anything else.
func SubDomainName(fullDomain, rootDomain string) (string, error) {
	if fullDomain == rootDomain {
		return "@", nil
	}
	suffix := "." + rootDomain
	if strings.HasSuffix(fullDomain, suffix) {
		return strings.TrimSuffix(fullDomain, suffix), nil
	}
	return "", fmt.Errorf("%w: %s is not %s or a subdomain of it", domainerr.ErrDomainOutOfZone, fullDomain, rootDomain)
}

func FullDomainName(subDomain, rootDomain string) string {
	if subDomain == "@" || subDomain == "" {
		return rootDomain
	}
	return subDomain + "." + rootDomain
}

func checkRecordArgs(domainName, txtValue string) error {
	if domainName == "" {
		return domainerr.RequiredField("domain name")
	}
	if txtValue == "" {
		return domainerr.RequiredField("txt value")
	}
	return nil
}

// IsRetryableError reports whether a provider error looks transient.
// Used by callers that wrap provider operations with retry; input,
// out-of-zone, and not-found errors are never retryable.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errs, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range errs.Unwrap() {
			if IsRetryableError(e) {
				return true
			}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"timeout",
		"connection reset",
		"connection refused",
		"rate limit",
		"too many requests",
		"service unavailable",
		"internal server error",
		"bad gateway",
		"gateway timeout",
	} {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
