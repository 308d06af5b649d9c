package acme

import (
	"context"
	"crypto"
	"errors"
	"fmt"

	domainerr "github.com/litewave/dnsproof/internal/domain"
	"golang.org/x/crypto/acme"
)

const LetsEncryptProductionURL = "https://acme-v02.api.letsencrypt.org/directory"

// Client adapts golang.org/x/crypto/acme to the ChallengeService contract.
// The ACME protocol mechanics (nonces, JWS, polling) stay inside the
// library; this type only selects challenges and classifies outcomes.
type Client struct {
	inner *acme.Client
}

func NewClient(directoryURL string, accountKey crypto.Signer) (*Client, error) {
	if directoryURL == "" {
		return nil, domainerr.RequiredField("directory url")
	}
	if accountKey == nil {
		return nil, domainerr.RequiredField("account key")
	}
	return &Client{
		inner: &acme.Client{
			Key:          accountKey,
			DirectoryURL: directoryURL,
		},
	}, nil
}

// Register creates the ACME account for the configured key. An account
// that already exists is not an error.
func (c *Client) Register(ctx context.Context, email string) error {
	account := &acme.Account{}
	if email != "" {
		account.Contact = []string{"mailto:" + email}
	}

	_, err := c.inner.Register(ctx, account, acme.AcceptTOS)
	if err != nil {
		if errors.Is(err, acme.ErrAccountAlreadyExists) {
			return nil
		}
		var ae *acme.Error
		if errors.As(err, &ae) && ae.StatusCode == 409 {
			return nil
		}
		return domainerr.WrapOp("register account", err)
	}
	return nil
}

// NewOrder requests authorizations for the given domains.
func (c *Client) NewOrder(ctx context.Context, domains []string) (*Order, error) {
	if len(domains) == 0 {
		return nil, domainerr.RequiredField("domains")
	}
	order, err := c.inner.AuthorizeOrder(ctx, acme.DomainIDs(domains...))
	if err != nil {
		return nil, domainerr.WrapOp("create order", err)
	}
	return &Order{URI: order.URI, AuthzURLs: order.AuthzURLs}, nil
}

// Authorization fetches the authorization at url, restoring the "*."
// prefix for wildcard identifiers so callers see the name they ordered.
func (c *Client) Authorization(ctx context.Context, url string) (*Authorization, error) {
	authz, err := c.inner.GetAuthorization(ctx, url)
	if err != nil {
		return nil, domainerr.WrapOp("get authorization", err)
	}

	domain := authz.Identifier.Value
	if authz.Wildcard {
		domain = "*." + domain
	}
	return &Authorization{
		URI:    url,
		Domain: domain,
		Valid:  authz.Status == acme.StatusValid,
	}, nil
}

func (c *Client) DNSChallenge(ctx context.Context, authzURL string) (*Challenge, error) {
	authz, err := c.inner.GetAuthorization(ctx, authzURL)
	if err != nil {
		return nil, domainerr.WrapOp("get authorization", err)
	}

	for _, ch := range authz.Challenges {
		if ch.Type == "dns-01" {
			return &Challenge{Token: ch.Token, URI: ch.URI}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domainerr.ErrChallengeUnavailable, authz.Identifier.Value)
}

func (c *Client) DNSTXTValue(token string) (string, error) {
	value, err := c.inner.DNS01ChallengeRecord(token)
	if err != nil {
		return "", domainerr.WrapOp("compute challenge record", err)
	}
	return value, nil
}

func (c *Client) Validate(ctx context.Context, ch *Challenge) error {
	_, err := c.inner.Accept(ctx, &acme.Challenge{URI: ch.URI, Token: ch.Token, Type: "dns-01"})
	if err != nil {
		return domainerr.WrapOp("accept challenge", err)
	}
	return nil
}

// WaitAuthorization blocks until the authorization settles. An invalid
// outcome is reported as domain.ErrAuthorizationInvalid; the validator
// treats that as a DNS propagation race and retries.
func (c *Client) WaitAuthorization(ctx context.Context, authzURL string) error {
	_, err := c.inner.WaitAuthorization(ctx, authzURL)
	if err != nil {
		var authzErr *acme.AuthorizationError
		if errors.As(err, &authzErr) {
			return fmt.Errorf("%w: %v", domainerr.ErrAuthorizationInvalid, err)
		}
		return domainerr.WrapOp("wait authorization", err)
	}
	return nil
}
