package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Brownie44l1/ai-dashboard/internal/handlers"
	"github.com/Brownie44l1/ai-dashboard/internal/model"
)

var serveOpts struct {
	Port  string
	DBURL string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web dashboard",
	RunE:  runServe,
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&serveOpts.Port, "port", "p", "", "Port to listen on (default: $PORT or 8080)")
	cmd.Flags().StringVar(&serveOpts.DBURL, "db", "", "PostgreSQL connection string for the analysis cache (default: $DATABASE_URL, in-memory when empty)")
}

func init() {
	addServeFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveOpts.Port != "" {
		cfg.Port = serveOpts.Port
	}
	if serveOpts.DBURL != "" {
		cfg.DatabaseURL = serveOpts.DBURL
	}

	ctx := cmd.Context()
	server, err := model.NewServer(ctx, cfg)
	if err != nil {
		return err
	}
	defer server.Close()

	handler := handlers.NewHandler(server)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           enableCORS(handler.Routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if cfg.DatabaseURL != "" {
		log.Println("Analysis cache: postgres")
	} else {
		log.Println("Analysis cache: in-memory")
	}
	log.Println("Pages:")
	for _, tool := range model.Tools {
		log.Printf("  %-18s %s", tool.Name, tool.Path)
	}
	log.Println("  GET /health - Health check")
	log.Printf("\n💡 Open http://localhost:%s/ in a browser\n\n", cfg.Port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
