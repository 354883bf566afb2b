package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"primerdesign/api/models"
)

var (
	verbose bool
	timeout time.Duration
	output  string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "primers",
	Short: "Design and check PCR primer pairs from the shell",
	Long: `primers runs the primer design engine locally.

Available subcommands:
  design  - Design ranked primer pairs for a gene, Ensembl id or sequence
  analyze - Report the metrics of a single oligo
  job     - Fetch a batch design job from a running service`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "yaml", "Output format: yaml or json")

	rootCmd.AddCommand(designCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(jobCmd)
}

// loadConfig reads the same environment as the service.
func loadConfig() (*models.Config, error) {
	_ = godotenv.Load()

	var cfg models.Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newLogger() (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
