package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"videotube/config"
	"videotube/internal/database"
	"videotube/internal/global"
	"videotube/internal/logger"
	"videotube/internal/utility"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
)

// bootstrap chạy các bước khởi tạo dùng chung cho mọi lệnh: logger, config, MongoDB, registry
func bootstrap() error {
	if err := initLogger(); err != nil {
		return err
	}
	if err := InitGlobal(); err != nil {
		return err
	}
	return InitRegistry()
}

// shutdownDatabase đóng kết nối MongoDB và flush logger
func shutdownDatabase() {
	if global.MongoDB_Session != nil {
		_ = database.CloseInstance(global.MongoDB_Session)
	}
	logger.Close()
}

// resolvePath đưa đường dẫn tương đối về thư mục chứa config/env
func resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	currentDir, err := os.Getwd()
	if err != nil {
		return path
	}
	for {
		if _, err := os.Stat(filepath.Join(currentDir, "config", "env")); err == nil {
			return filepath.Join(currentDir, path)
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return path
		}
		currentDir = parentDir
	}
}

// listen chạy Fiber server (HTTP hoặc HTTPS), block cho tới khi server dừng
func listen(app *fiber.App, cfg *config.Configuration) error {
	log := logger.GetAppLogger()
	address := ":" + cfg.Address
	listenConfig := fiber.ListenConfig{DisableStartupMessage: true}

	if !cfg.EnableTLS || cfg.TLSCertFile == "" || cfg.TLSKeyFile == "" {
		log.WithFields(map[string]interface{}{
			"address":  address,
			"protocol": "HTTP",
		}).Info("Starting server with HTTP")
		return app.Listen(address, listenConfig)
	}

	certPath := resolvePath(cfg.TLSCertFile)
	keyPath := resolvePath(cfg.TLSKeyFile)
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return fmt.Errorf("error loading TLS certificate: %w", err)
	}

	ln, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("error creating listener: %w", err)
	}
	tlsListener := tls.NewListener(ln, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})

	log.WithFields(map[string]interface{}{
		"address": address,
		"cert":    certPath,
		"key":     keyPath,
	}).Info("Starting server with HTTPS/TLS")
	return app.Listener(tlsListener, listenConfig)
}

// runServe khởi động API + worker dọn asset, dừng êm khi nhận SIGINT/SIGTERM
func runServe(cmd *cobra.Command, _ []string) error {
	if err := bootstrap(); err != nil {
		return err
	}
	defer shutdownDatabase()

	log := logger.GetAppLogger()
	cfg := global.MongoDB_ServerConfig

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if skip, _ := cmd.Flags().GetBool("skip-indexes"); !skip {
		if err := InitIndexes(ctx); err != nil {
			return err
		}
	}

	srv, err := InitApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer srv.denylist.Close()

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if err := utility.GoProtect(func() { srv.worker.Start(ctx) }); err != nil {
			log.WithError(err).Error("🧹 [ASSET_CLEANUP] Worker goroutine panic")
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- listen(srv.app, cfg)
	}()

	select {
	case err = <-serverErr:
		// Server dừng trước khi nhận signal (port bận, cert lỗi, ...)
		stop()
	case <-ctx.Done():
		log.Info("Shutdown signal received, stopping server...")
		if shutdownErr := srv.app.ShutdownWithTimeout(15 * time.Second); shutdownErr != nil {
			log.WithError(shutdownErr).Error("Failed to shutdown server gracefully")
		}
	}

	<-workerDone
	log.Info("Server stopped")
	return err
}

// runIndexes chỉ đồng bộ collection + index rồi thoát
func runIndexes(cmd *cobra.Command, _ []string) error {
	if err := bootstrap(); err != nil {
		return err
	}
	defer shutdownDatabase()

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()
	return InitIndexes(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "server",
		Short:         "VideoTube API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the asset cleanup worker",
		RunE:  runServe,
	}
	serve.Flags().Bool("skip-indexes", false, "do not sync MongoDB indexes on startup")

	indexes := &cobra.Command{
		Use:   "indexes",
		Short: "Ensure MongoDB collections and indexes, then exit",
		RunE:  runIndexes,
	}

	root.AddCommand(serve, indexes)
	return root
}

// Hàm main
func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
