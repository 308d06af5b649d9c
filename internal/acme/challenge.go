// Package acme drives DNS-01 domain-ownership validation against an ACME
// certificate authority.
package acme

import (
	"context"
	"strings"
)

// Challenge is the CA-issued dns-01 challenge for one authorization.
type Challenge struct {
	Token string
	URI   string
}

// Authorization is the CA-side record of one domain's validation within
// an order. Domain keeps the "*." prefix for wildcard identifiers.
type Authorization struct {
	URI    string
	Domain string
	Valid  bool
}

// Order groups the authorizations requested for one set of domains.
type Order struct {
	URI       string
	AuthzURLs []string
}

// ChallengeService is the surface of the certificate authority the
// validator depends on. Implementations must report an "authorization
// invalid" outcome from WaitAuthorization as an error wrapping
// domain.ErrAuthorizationInvalid so the validator can distinguish it from
// fatal failures.
type ChallengeService interface {
	// Authorization fetches the current state of the authorization at url.
	Authorization(ctx context.Context, url string) (*Authorization, error)

	// DNSChallenge returns the dns-01 challenge offered by the
	// authorization at authzURL.
	DNSChallenge(ctx context.Context, authzURL string) (*Challenge, error)

	// DNSTXTValue computes the TXT record content proving possession of
	// the account key for the given challenge token.
	DNSTXTValue(token string) (string, error)

	// Validate tells the CA the challenge record is in place.
	Validate(ctx context.Context, ch *Challenge) error

	// WaitAuthorization polls the authorization until it settles.
	WaitAuthorization(ctx context.Context, authzURL string) error
}

// ChallengeDomain returns the name of the TXT record proving control of
// domain. Wildcards validate at the base name: *.example.com and
// example.com share _acme-challenge.example.com.
func ChallengeDomain(domain string) string {
	return "_acme-challenge." + strings.TrimPrefix(domain, "*.")
}
