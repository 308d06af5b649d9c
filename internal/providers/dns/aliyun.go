package dns

import (
	"context"
	"fmt"

	alidns "github.com/alibabacloud-go/alidns-20150109/v4/client"
	openapi "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	"github.com/alibabacloud-go/tea/tea"
	domainerr "github.com/litewave/dnsproof/internal/domain"
	"github.com/litewave/dnsproof/internal/infrastructure/logger"
)

// AliyunProvider publishes TXT records through Alibaba Cloud DNS. The API
// is keyed by the registered domain name rather than a zone id, so the
// root domain is part of the configuration instead of being looked up.
// The SDK's request path carries no context, so cancellation is honored
// before each call rather than propagated into it.
type AliyunProvider struct {
	client     *alidns.Client
	rootDomain string
}

func NewAliyunProvider(accessKeyID, accessKeySecret, rootDomain string) (*AliyunProvider, error) {
	if accessKeyID == "" {
		return nil, domainerr.RequiredField("access key id")
	}
	if accessKeySecret == "" {
		return nil, domainerr.RequiredField("access key secret")
	}
	if rootDomain == "" {
		return nil, domainerr.RequiredField("root domain")
	}

	config := &openapi.Config{
		AccessKeyId:     tea.String(accessKeyID),
		AccessKeySecret: tea.String(accessKeySecret),
	}
	config.Endpoint = tea.String("dns.aliyuncs.com")
	client, err := alidns.NewClient(config)
	if err != nil {
		return nil, domainerr.WrapOp("create aliyun dns client", err)
	}
	return &AliyunProvider{client: client, rootDomain: rootDomain}, nil
}

func (p *AliyunProvider) Name() string {
	return "aliyun"
}

func (p *AliyunProvider) AddTXTRecord(ctx context.Context, domainName, txtValue string) (TXTRecordContext, error) {
	if err := ctx.Err(); err != nil {
		return TXTRecordContext{}, err
	}
	if err := checkRecordArgs(domainName, txtValue); err != nil {
		return TXTRecordContext{}, err
	}

	rr, err := SubDomainName(domainName, p.rootDomain)
	if err != nil {
		return TXTRecordContext{}, err
	}

	req := &alidns.AddDomainRecordRequest{
		DomainName: tea.String(p.rootDomain),
		RR:         tea.String(rr),
		Type:       tea.String("TXT"),
		Value:      tea.String(txtValue),
		TTL:        tea.Int64(ChallengeTTL),
	}
	if _, err := p.client.AddDomainRecord(req); err != nil {
		logger.Error("failed to create TXT record", "provider", "aliyun", "domain", domainName, "error", err)
		return TXTRecordContext{}, domainerr.WrapOp("create record", err)
	}

	logger.Info("TXT record created", "provider", "aliyun", "domain", domainName)
	return TXTRecordContext{DomainName: domainName, TXTValue: txtValue}, nil
}

func (p *AliyunProvider) RemoveTXTRecord(ctx context.Context, record TXTRecordContext) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkRecordArgs(record.DomainName, record.TXTValue); err != nil {
		return err
	}

	rr, err := SubDomainName(record.DomainName, p.rootDomain)
	if err != nil {
		return err
	}

	req := &alidns.DescribeDomainRecordsRequest{
		DomainName: tea.String(p.rootDomain),
		RRKeyWord:  tea.String(rr),
		Type:       tea.String("TXT"),
	}
	resp, err := p.client.DescribeDomainRecords(req)
	if err != nil {
		return domainerr.WrapOp("list records", err)
	}

	recordID := ""
	if resp.Body != nil && resp.Body.DomainRecords != nil {
		for _, r := range resp.Body.DomainRecords.Record {
			if tea.StringValue(r.RR) == rr && tea.StringValue(r.Value) == record.TXTValue {
				recordID = tea.StringValue(r.RecordId)
				break
			}
		}
	}
	if recordID == "" {
		return fmt.Errorf("%w: no TXT record for %s with the published value", domainerr.ErrDNSRecordNotFound, record.DomainName)
	}

	if _, err := p.client.DeleteDomainRecord(&alidns.DeleteDomainRecordRequest{
		RecordId: tea.String(recordID),
	}); err != nil {
		logger.Error("failed to delete TXT record", "provider", "aliyun", "domain", record.DomainName, "record_id", recordID, "error", err)
		return domainerr.WrapOp("delete record", err)
	}

	logger.Info("TXT record deleted", "provider", "aliyun", "domain", record.DomainName, "record_id", recordID)
	return nil
}
