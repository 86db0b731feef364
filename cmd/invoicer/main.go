// Command invoicer runs the invoice extraction backend.
//
// @title       Invoice Backend API
// @version     1.0
// @description Turns chat screenshots into structured invoice data and renders invoices as PDF, HTML or XLSX.
// @BasePath    /
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; real environment variables take precedence.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
