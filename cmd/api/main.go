package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mcgate/internal/compute"
	"mcgate/internal/config"
	"mcgate/internal/cronjob"
	"mcgate/internal/dyndns"
	"mcgate/internal/gateway"
	"mcgate/internal/log"
	"mcgate/internal/mcping"
	"mcgate/internal/notify"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
)

const (
	startupTimeout     = 10 * time.Second
	outboundTimeout    = 10 * time.Second
	pingTimeout        = 10 * time.Second
	defaultStartIPWait = 5 * time.Second
)

func main() {
	log.SetupLogger(log.LevelDebug)
	logger := log.Logger.With("component", "main")
	logger.Info("--- Starting Minecraft Gateway ---")

	logger.Info("[step] Loading configuration")
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.Info("[ok] Configuration loaded")
	if cfg.InstanceID == "" {
		logger.Warn("[config] instance_id is empty, every operation will fail until it is set")
	}

	logger.Info("[step] Initializing AWS client")
	startCtx, startCancel := context.WithTimeout(context.Background(), startupTimeout)
	defer startCancel()

	var awsOpts []func(*awsconfig.LoadOptions) error
	if cfg.AWSRegion != "" {
		awsOpts = append(awsOpts, awsconfig.WithRegion(cfg.AWSRegion))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(startCtx, awsOpts...)
	if err != nil {
		logger.Fatalf("Failed to load AWS config: %v", err)
	}
	controller := compute.NewControllerI(ec2.NewFromConfig(awsCfg), cfg.InstanceID)
	logger.Info("[ok] AWS client ready")

	logger.Info("[step] Building gateway service")
	pinger := mcping.NewPingerI(pingTimeout)
	dns := dyndns.New(cfg.DuckDNSDomain, cfg.DuckDNSToken, outboundTimeout)
	notifier := notify.New(cfg.WebhookURL, outboundTimeout)

	startIPWait := defaultStartIPWait
	if cfg.StartIPWaitSeconds > 0 {
		startIPWait = time.Duration(cfg.StartIPWaitSeconds) * time.Second
	}
	service := gateway.NewServiceI(controller, pinger, dns, notifier, gateway.Options{
		InstanceID:  cfg.InstanceID,
		StartIPWait: startIPWait,
	})
	logger.Info("[ok] Gateway service assembled")

	logger.Info("[step] Starting shutdown check scheduler")
	cronCtx, cronCancel := context.WithCancel(context.Background())
	defer cronCancel()
	scheduler := cronjob.NewScheduler(service, cronjob.Options{
		CheckInterval: time.Duration(cfg.ShutdownCheckMinutes) * time.Minute,
	})
	scheduler.Start(cronCtx)
	logger.Info("[ok] Scheduler running")

	logger.Info("[step] Starting HTTP server")
	mux := http.NewServeMux()
	handler := gateway.NewHandlerI(service, cfg.LinkStage)
	handler.Register(mux)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}
	go func() {
		logger.Infof("[ok] HTTP listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("HTTP server failed: %v", err)
		}
	}()

	logger.Info("[ok] Service bootstrap completed")
	logger.Info("--- Minecraft Gateway is running ---")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("--- Stopping Minecraft Gateway ---")
	cronCancel()

	logger.Info("[step] Shutting down HTTP server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown warning: %v", err)
	} else {
		logger.Info("[ok] HTTP server stopped")
	}
	logger.Info("--- Shutdown complete ---")
}
