package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"fitlog/config"
	"fitlog/internal/logging"
	"fitlog/storage"
	"fitlog/web"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	servePort   int
	serveFile   string
	serveNoOpen bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web dashboard",
	Long: `Start a local web server hosting the dashboard UI.

The dashboard shows a per-activity progress chart with an optional goal line,
summary statistics, a workout form, and the full log. It also exposes a small
JSON API under /api for scripting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		logging.Setup(logging.SetupParams{
			LogFileName:   cfg.Log.File,
			LogToStdout:   true,
			LogLevel:      cfg.Log.Level,
			LogFormatJSON: cfg.Log.JSON,
		})

		dataFile := resolveDataFile(cmd.Flags().Changed("file"), serveFile, cfg)

		_, statErr := os.Stat(dataFile)
		freshFile := errors.Is(statErr, os.ErrNotExist)

		store, err := storage.OpenCSV(dataFile, cfg.Storage.SeedSampleData)
		if err != nil {
			return err
		}
		if freshFile && cfg.Storage.SeedSampleData {
			fmt.Printf("Created data file with sample data: %s\n", dataFile)
		}

		port := resolveServePort(cmd.Flags().Changed("port"), servePort, cfg)

		server := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: web.NewServer(store, *cfg),
		}

		log.WithFields(log.Fields{
			"port": port,
			"file": dataFile,
		}).Info("starting web server")

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		listenURL := fmt.Sprintf("http://localhost:%d", port)
		fmt.Printf("Listening on %s\n", listenURL)

		if !serveNoOpen {
			if err := openURLInBrowser(listenURL); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to open browser: %v\n", err)
			}
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case sig := <-sigCh:
			log.WithField("signal", sig.String()).Info("shutting down web server")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown web server: %w", err)
			}
			if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port for the web server")
	serveCmd.Flags().StringVar(&serveFile, "file", "", "Workout data file (overrides storage.file from config)")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open the browser automatically")
}

// resolveServePort prefers an explicit --port flag, then the configured
// server.port, then the default.
func resolveServePort(flagChanged bool, flagValue int, cfg *config.Config) int {
	if flagChanged && flagValue > 0 {
		return flagValue
	}
	if cfg.Server.Port > 0 {
		return cfg.Server.Port
	}
	return 8080
}

func openURLInBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
