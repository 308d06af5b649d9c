package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	ConfigPath  string
	ShowVersion bool
)

var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "dnsproof",
	Short: "DNS-01 domain-ownership validation tool",
	Long:  "Dnsproof proves control of domains by publishing ACME dns-01 challenge records through a DNS provider and asking the certificate authority to verify them.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if ShowVersion {
			fmt.Println(Version)
			os.Exit(0)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&ConfigPath, "config", "c", "dnsproof.yaml", "Configuration file")
	rootCmd.PersistentFlags().BoolVarP(&ShowVersion, "version", "v", false, "Show version information")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
