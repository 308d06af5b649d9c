package dns

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	tcerrors "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/errors"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
	dnspod "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/dnspod/v20210323"

	domainerr "github.com/litewave/dnsproof/internal/domain"
	"github.com/litewave/dnsproof/internal/infrastructure/logger"
)

// TencentProvider publishes TXT records through Tencent Cloud DNSPod.
// Like Aliyun, the API is domain-keyed, so the root domain comes from
// configuration.
type TencentProvider struct {
	client     *dnspod.Client
	rootDomain string
}

func NewTencentProvider(secretID, secretKey, rootDomain string) (*TencentProvider, error) {
	if secretID == "" {
		return nil, domainerr.RequiredField("secret id")
	}
	if secretKey == "" {
		return nil, domainerr.RequiredField("secret key")
	}
	if rootDomain == "" {
		return nil, domainerr.RequiredField("root domain")
	}

	credential := common.NewCredential(secretID, secretKey)
	cpf := profile.NewClientProfile()
	cpf.HttpProfile.Endpoint = "dnspod.tencentcloudapi.com"
	client, err := dnspod.NewClient(credential, "", cpf)
	if err != nil {
		return nil, domainerr.WrapOp("create tencent dns client", err)
	}
	return &TencentProvider{client: client, rootDomain: rootDomain}, nil
}

func (p *TencentProvider) Name() string {
	return "tencent"
}

func (p *TencentProvider) AddTXTRecord(ctx context.Context, domainName, txtValue string) (TXTRecordContext, error) {
	if err := checkRecordArgs(domainName, txtValue); err != nil {
		return TXTRecordContext{}, err
	}

	sub, err := SubDomainName(domainName, p.rootDomain)
	if err != nil {
		return TXTRecordContext{}, err
	}

	req := dnspod.NewCreateRecordRequest()
	req.Domain = common.StringPtr(p.rootDomain)
	req.SubDomain = common.StringPtr(sub)
	req.RecordType = common.StringPtr("TXT")
	req.RecordLine = common.StringPtr("默认")
	req.Value = common.StringPtr(txtValue)
	req.TTL = common.Uint64Ptr(ChallengeTTL)

	if _, err := p.client.CreateRecordWithContext(ctx, req); err != nil {
		logger.Error("failed to create TXT record", "provider", "tencent", "domain", domainName, "error", err)
		return TXTRecordContext{}, domainerr.WrapOp("create record", err)
	}

	logger.Info("TXT record created", "provider", "tencent", "domain", domainName)
	return TXTRecordContext{DomainName: domainName, TXTValue: txtValue}, nil
}

// isTencentNoRecord matches DNSPod's "no records under this subdomain"
// response, which the API reports as an error rather than an empty list.
func isTencentNoRecord(err error) bool {
	var sdkErr *tcerrors.TencentCloudSDKError
	return errors.As(err, &sdkErr) && sdkErr.Code == "ResourceNotFound.NoDataOfRecord"
}

func (p *TencentProvider) RemoveTXTRecord(ctx context.Context, record TXTRecordContext) error {
	if err := checkRecordArgs(record.DomainName, record.TXTValue); err != nil {
		return err
	}

	sub, err := SubDomainName(record.DomainName, p.rootDomain)
	if err != nil {
		return err
	}

	req := dnspod.NewDescribeRecordListRequest()
	req.Domain = common.StringPtr(p.rootDomain)
	req.Subdomain = common.StringPtr(sub)
	req.RecordType = common.StringPtr("TXT")

	resp, err := p.client.DescribeRecordListWithContext(ctx, req)
	if err != nil {
		if isTencentNoRecord(err) {
			return fmt.Errorf("%w: no TXT record for %s with the published value", domainerr.ErrDNSRecordNotFound, record.DomainName)
		}
		return domainerr.WrapOp("list records", err)
	}

	var recordID *uint64
	if resp.Response != nil {
		for _, r := range resp.Response.RecordList {
			if r.Value != nil && *r.Value == record.TXTValue {
				recordID = r.RecordId
				break
			}
		}
	}
	if recordID == nil {
		return fmt.Errorf("%w: no TXT record for %s with the published value", domainerr.ErrDNSRecordNotFound, record.DomainName)
	}

	delReq := dnspod.NewDeleteRecordRequest()
	delReq.Domain = common.StringPtr(p.rootDomain)
	delReq.RecordId = common.Uint64Ptr(*recordID)
	if _, err := p.client.DeleteRecordWithContext(ctx, delReq); err != nil {
		logger.Error("failed to delete TXT record", "provider", "tencent", "domain", record.DomainName,
			"record_id", strconv.FormatUint(*recordID, 10), "error", err)
		return domainerr.WrapOp("delete record", err)
	}

	logger.Info("TXT record deleted", "provider", "tencent", "domain", record.DomainName,
		"record_id", strconv.FormatUint(*recordID, 10))
	return nil
}
