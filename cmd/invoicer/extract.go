package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-invoice-backend/internal/services"
)

var extractCmd = &cobra.Command{
	Use:   "extract IMAGE [IMAGE...]",
	Short: "Extract an invoice from local screenshots",
	Long: `Run the extraction pipeline over local image files and print the
validated invoice record as JSON. Images are sent in argument order.
No rate limit applies.

Example:
  invoicer extract chat-1.png chat-2.png > invoice.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		images := make([][]byte, 0, len(args))
		for _, p := range args {
			b, err := os.ReadFile(p)
			if err != nil {
				return fmt.Errorf("read %s: %w", p, err)
			}
			images = append(images, b)
		}

		svc := services.NewExtractionService(newVisionClient(cfg))
		rec, err := svc.Extract(cmd.Context(), images)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
