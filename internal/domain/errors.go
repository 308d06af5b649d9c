package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyValue          = errors.New("empty value")
	ErrRequired            = errors.New("required field missing")
	ErrMissingSecret       = errors.New("missing secret reference")
	ErrMissingCredential   = errors.New("missing credential")
	ErrUnsupportedProvider = errors.New("unsupported provider type")

	ErrConfigReadFailed  = errors.New("config read failed")
	ErrConfigParseFailed = errors.New("config parse failed")

	ErrDomainOutOfZone   = errors.New("domain not within provider zone")
	ErrDNSRecordNotFound = errors.New("DNS record not found")

	ErrAuthorizationInvalid = errors.New("authorization invalid")
	ErrChallengeUnavailable = errors.New("no dns-01 challenge offered")
	ErrAccountKeyInvalid    = errors.New("account key invalid")
)

func RequiredField(field string) error {
	return fmt.Errorf("%w: %s", ErrRequired, field)
}

func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

func WrapEntity(entity, name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s[%s]: %w", entity, name, err)
}
