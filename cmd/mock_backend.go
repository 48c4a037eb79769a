package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zjrosen/airdesk/internal/mockbackend"
	"github.com/zjrosen/airdesk/internal/tracing"
)

var mockBackendAddr string

var mockBackendCmd = &cobra.Command{
	Use:   "mock-backend",
	Short: "Run a scripted chat backend for local development",
	Long: `Run an HTTP server that speaks the same /chat protocol as the real
agent backend. It plays a scripted triage, seat booking, flight status,
cancellation and FAQ conversation, including the seat map request, so the
console can be exercised without the agent service.

Example:
  airdesk mock-backend                 # listen on mock_backend.addr (default :8000)
  airdesk mock-backend --addr :9000`,
	Args: cobra.NoArgs,
	RunE: runMockBackend,
}

func init() {
	rootCmd.AddCommand(mockBackendCmd)

	mockBackendCmd.Flags().StringVar(&mockBackendAddr, "addr", "", "address to listen on (overrides config)")
}

func runMockBackend(_ *cobra.Command, _ []string) error {
	cleanupLog, err := initLogging("airdesk-mock")
	if err != nil {
		return err
	}
	defer cleanupLog()

	addr := cfg.MockBackend.Addr
	if mockBackendAddr != "" {
		addr = mockBackendAddr
	}

	tc := cfg.Tracing
	tc.ServiceName += "-mock-backend"
	provider, err := tracing.NewProvider(tc)
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownDeadline)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "mock backend listening on %s (ctrl+c to stop)\n", addr)
	server := mockbackend.New(mockbackend.WithTracerProvider(provider.TracerProvider()))
	return server.ListenAndServe(ctx, addr)
}
