package dns

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cloudflare/cloudflare-go/v2"
	cfdns "github.com/cloudflare/cloudflare-go/v2/dns"
	"github.com/cloudflare/cloudflare-go/v2/option"
	"github.com/cloudflare/cloudflare-go/v2/zones"
	domainerr "github.com/litewave/dnsproof/internal/domain"
	"github.com/litewave/dnsproof/internal/infrastructure/logger"
)

// CloudflareProvider publishes TXT records in a single Cloudflare zone.
// The zone's registered name is looked up once and cached for the life of
// the provider; a zone never changes its root name.
type CloudflareProvider struct {
	client *cloudflare.Client
	zoneID string

	mu         sync.Mutex
	rootDomain string
}

// NewCloudflareProvider validates the credentials eagerly so a
// misconfigured provider fails at startup, not on first use. Extra request
// options are passed through to the underlying client (tests inject a base
// URL this way).
func NewCloudflareProvider(apiToken, zoneID string, opts ...option.RequestOption) (*CloudflareProvider, error) {
	if apiToken == "" {
		return nil, domainerr.RequiredField("api token")
	}
	if zoneID == "" {
		return nil, domainerr.RequiredField("zone id")
	}

	clientOpts := append([]option.RequestOption{option.WithAPIToken(apiToken)}, opts...)
	return &CloudflareProvider{
		client: cloudflare.NewClient(clientOpts...),
		zoneID: zoneID,
	}, nil
}

func (p *CloudflareProvider) Name() string {
	return "cloudflare"
}

// RootDomain returns the zone's registered name, fetching it on first use.
// The lookup is single-flighted under the mutex so concurrent validators
// sharing one provider trigger at most one zone-detail request.
func (p *CloudflareProvider) RootDomain(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rootDomain != "" {
		return p.rootDomain, nil
	}

	zone, err := p.client.Zones.Get(ctx, zones.ZoneGetParams{
		ZoneID: cloudflare.F(p.zoneID),
	})
	if err != nil {
		return "", wrapAPIError("get zone", err)
	}

	p.rootDomain = zone.Name
	logger.Debug("resolved zone root domain", "provider", "cloudflare", "zone_id", p.zoneID, "root", p.rootDomain)
	return p.rootDomain, nil
}

func (p *CloudflareProvider) relativeName(ctx context.Context, domainName string) (string, error) {
	root, err := p.RootDomain(ctx)
	if err != nil {
		return "", err
	}
	return SubDomainName(domainName, root)
}

func (p *CloudflareProvider) AddTXTRecord(ctx context.Context, domainName, txtValue string) (TXTRecordContext, error) {
	if err := checkRecordArgs(domainName, txtValue); err != nil {
		return TXTRecordContext{}, err
	}

	name, err := p.relativeName(ctx, domainName)
	if err != nil {
		return TXTRecordContext{}, err
	}

	logger.Debug("creating TXT record", "provider", "cloudflare", "domain", domainName, "name", name)

	_, err = p.client.DNS.Records.New(ctx, cfdns.RecordNewParams{
		ZoneID: cloudflare.F(p.zoneID),
		Record: cfdns.TXTRecordParam{
			Name:    cloudflare.F(name),
			Type:    cloudflare.F(cfdns.TXTRecordTypeTXT),
			Content: cloudflare.F(txtValue),
			TTL:     cloudflare.F(cfdns.TTL(ChallengeTTL)),
		},
	})
	if err != nil {
		logger.Error("failed to create TXT record", "domain", domainName, "error", err)
		return TXTRecordContext{}, wrapAPIError("create record", err)
	}

	logger.Info("TXT record created", "provider", "cloudflare", "domain", domainName)
	return TXTRecordContext{DomainName: domainName, TXTValue: txtValue}, nil
}

func (p *CloudflareProvider) RemoveTXTRecord(ctx context.Context, record TXTRecordContext) error {
	if err := checkRecordArgs(record.DomainName, record.TXTValue); err != nil {
		return err
	}

	name, err := p.relativeName(ctx, record.DomainName)
	if err != nil {
		return err
	}

	// The context carries no record id, so the record is located again by
	// name and content. First match wins when duplicates exist.
	recordID := ""
	pager := p.client.DNS.Records.ListAutoPaging(ctx, cfdns.RecordListParams{
		ZoneID:  cloudflare.F(p.zoneID),
		Type:    cloudflare.F(cfdns.RecordListParamsTypeTXT),
		Name:    cloudflare.F(name),
		Content: cloudflare.F(record.TXTValue),
	})
	for pager.Next() {
		recordID = pager.Current().ID
		break
	}
	if err := pager.Err(); err != nil {
		return wrapAPIError("list records", err)
	}
	if recordID == "" {
		return fmt.Errorf("%w: no TXT record for %s with the published value", domainerr.ErrDNSRecordNotFound, record.DomainName)
	}

	_, err = p.client.DNS.Records.Delete(ctx, recordID, cfdns.RecordDeleteParams{
		ZoneID: cloudflare.F(p.zoneID),
	})
	if err != nil {
		logger.Error("failed to delete TXT record", "domain", record.DomainName, "record_id", recordID, "error", err)
		return wrapAPIError("delete record", err)
	}

	logger.Info("TXT record deleted", "provider", "cloudflare", "domain", record.DomainName, "record_id", recordID)
	return nil
}

// wrapAPIError keeps the backend status code visible in the error chain;
// the response body is already part of the SDK error's message.
func wrapAPIError(op string, err error) error {
	var apierr *cloudflare.Error
	if errors.As(err, &apierr) {
		return fmt.Errorf("%s: status %d: %w", op, apierr.StatusCode, err)
	}
	return domainerr.WrapOp(op, err)
}
