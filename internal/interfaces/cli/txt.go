package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/litewave/dnsproof/internal/domain/retry"
	"github.com/litewave/dnsproof/internal/providers/dns"
)

var txtCmd = &cobra.Command{
	Use:   "txt",
	Short: "Manual TXT record operations",
	Long:  "Add and remove TXT records directly through the configured DNS provider.",
}

var txtAddCmd = &cobra.Command{
	Use:   "add <domain> <value>",
	Short: "Add a TXT record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTXTAdd(args[0], args[1])
	},
}

var txtRemoveCmd = &cobra.Command{
	Use:   "remove <domain> <value>",
	Short: "Remove a TXT record located by domain and value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTXTRemove(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(txtCmd)
	txtCmd.AddCommand(txtAddCmd)
	txtCmd.AddCommand(txtRemoveCmd)
}

// The provider itself never retries; transient transport failures are
// retried here, at the caller.

func runTXTAdd(domain, value string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	record, err := retry.DoWithResult(ctx, func() (dns.TXTRecordContext, error) {
		return provider.AddTXTRecord(ctx, domain, value)
	}, retry.WithIsRetryable(dns.IsRetryableError))
	if err != nil {
		return err
	}

	fmt.Printf("added TXT record for %s\n", record.DomainName)
	return nil
}

func runTXTRemove(domain, value string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	err = retry.Do(ctx, func() error {
		return provider.RemoveTXTRecord(ctx, dns.TXTRecordContext{DomainName: domain, TXTValue: value})
	}, retry.WithIsRetryable(dns.IsRetryableError))
	if err != nil {
		return err
	}

	fmt.Printf("removed TXT record for %s\n", domain)
	return nil
}
