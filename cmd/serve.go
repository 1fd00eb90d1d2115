package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/numerador-esportivo/numerador/internal/credentials"
	"github.com/numerador-esportivo/numerador/internal/handlers"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		port            string
		provider        string
		model           string
		concurrency     int
		credentialsFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the labeling web interface",
		Long: `Starts the Numerador web interface on the specified port.

The interface offers two tabs: manual labeling with keyboard shortcuts, and
automatic labeling through OCR. The OCR credential is resolved once at startup;
when none is found the OCR tab is disabled and manual labeling keeps working.`,
		Example: `  # Start server on default port 8888
  numerador serve

  # Use a local Ollama vision model instead of Cloud Vision
  numerador serve --provider ollama --model llava`,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver := newResolver(credentialsFile)
			// resolve up front so configuration problems show in the startup log
			_, _ = resolver.Resolve()

			handler := handlers.New(handlers.Options{
				Provider:    provider,
				Model:       model,
				Concurrency: concurrency,
				Credentials: resolver,
			})

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Numerador interface available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().StringVar(&provider, "provider", "", "OCR provider (vision, gemini, ollama, openai, tesseract); defaults to NUMERADOR_OCR_PROVIDER or vision")
	cmd.Flags().StringVar(&model, "model", "", "Model name for LLM providers, or language for tesseract")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "Maximum parallel OCR calls per run")
	cmd.Flags().StringVar(&credentialsFile, "credentials-file", "", "Well-known credential file used when no secret is injected")

	return cmd
}

func newResolver(credentialsFile string) *credentials.Resolver {
	r := credentials.NewResolver()
	if credentialsFile != "" {
		r.CredentialsFile = credentialsFile
	}
	return r
}
