package main

import (
	"github.com/spf13/cobra"

	"github.com/tbourn/go-invoice-backend/internal/config"
	"github.com/tbourn/go-invoice-backend/internal/sysutil"
	"github.com/tbourn/go-invoice-backend/internal/vision"
)

var rootCmd = &cobra.Command{
	Use:   "invoicer",
	Short: "Turn chat screenshots into invoices",
	Long: `invoicer extracts invoice data from chat screenshots with a vision model
and renders the result as PDF, HTML or XLSX.

Configuration is read from the environment (and a local .env file).
GEMINI_API_KEY is required for serve and extract.`,
	Version:      GitRelease,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment, configures logging and checks that a
// provider key is present.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty)
	return cfg, cfg.RequireVision()
}

func newVisionClient(cfg config.Config) *vision.Client {
	return vision.NewClient(vision.Config{
		APIKey:            cfg.Vision.APIKey,
		BaseURL:           cfg.Vision.BaseURL,
		Model:             cfg.Vision.Model,
		Temperature:       cfg.Vision.Temperature,
		Timeout:           cfg.Vision.Timeout,
		MaxDimension:      cfg.Vision.MaxDimension,
		RequestsPerSecond: cfg.Vision.RPS,
	})
}
