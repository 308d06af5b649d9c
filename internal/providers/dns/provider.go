// Package dns abstracts the DNS hosting backends used to publish
// dns-01 challenge records.
package dns

import "context"

// TXTRecordContext identifies a record published through AddTXTRecord.
// It deliberately carries no backend record id: RemoveTXTRecord must be
// able to locate the record again from the name/value pair alone.
type TXTRecordContext struct {
	DomainName string
	TXTValue   string
}

// Provider is the capability set a DNS backend must offer for challenge
// publishing. Implementations must be safe for concurrent use; they never
// retry on their own.
type Provider interface {
	Name() string

	// AddTXTRecord creates a TXT record at domainName with the given
	// content and a short TTL. Each call creates a new record.
	AddTXTRecord(ctx context.Context, domainName, txtValue string) (TXTRecordContext, error)

	// RemoveTXTRecord deletes the record identified by the context,
	// locating it by name and value. Returns an error wrapping
	// domain.ErrDNSRecordNotFound when no such record exists.
	RemoveTXTRecord(ctx context.Context, record TXTRecordContext) error
}
