package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/litewave/dnsproof/internal/acme"
	"github.com/litewave/dnsproof/internal/infrastructure/logger"
)

var validateCmd = &cobra.Command{
	Use:   "validate <domain>...",
	Short: "Prove control of domains via dns-01 challenges",
	Long:  "Create an ACME order for the given domains and validate every authorization by publishing dns-01 TXT records.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(args)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(domains []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	client, err := buildACMEClient(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := client.Register(ctx, cfg.ACME.Email); err != nil {
		return err
	}

	order, err := client.NewOrder(ctx, domains)
	if err != nil {
		return err
	}
	logger.Info("order created", "domains", domains, "authorizations", len(order.AuthzURLs))

	validator := acme.NewValidator(client, provider)
	if err := validator.ValidateOrder(ctx, order); err != nil {
		return err
	}

	fmt.Printf("validated ownership of %v\n", domains)
	return nil
}
