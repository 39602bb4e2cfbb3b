package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/trackroom/server/internal/controller"
	broadcastredis "github.com/trackroom/server/internal/repository/broadcast/redis"
	playbackredis "github.com/trackroom/server/internal/repository/playback/redis"
	"github.com/trackroom/server/internal/repository/store/sqlite"
	"github.com/trackroom/server/internal/service/room"
	"github.com/trackroom/server/pkg/ctxlogger"
	"github.com/trackroom/server/pkg/redisclient"
)

type AppConfig struct {
	Secret             string `json:"-"`
	Issuer             string `json:"issuer"`
	TokenExpiryMinutes int    `json:"token_expiry_minutes"`
	Host               string `json:"host"`
	Port               int    `json:"port"`
	MembersLimit       int    `json:"members_limit"`
	LogLevel           string `json:"log_level"`
	SqlitePath         string `json:"sqlite_path"`
	RedisPort          int    `json:"redis_port"`
	RedisHost          string `json:"redis_host"`
	RedisPassword      string `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Secret == "" {
		return fmt.Errorf("secret must be set")
	}
	if cfg.MembersLimit < 1 {
		return fmt.Errorf("members limit must be greater than 0")
	}
	if cfg.TokenExpiryMinutes < 1 {
		return fmt.Errorf("token expiry must be greater than 0")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	logger := slog.New(&h)

	rc, err := redisclient.NewRedisClient(&redisclient.Config{
		Port:     cfg.RedisPort,
		Host:     cfg.RedisHost,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	recordStore, err := sqlite.NewStore(cfg.SqlitePath, logger)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}
	defer recordStore.Close()

	playbackRepo := playbackredis.NewRepo(rc, logger, 24*time.Hour)
	broadcaster := broadcastredis.NewRepo(rc, logger)
	roomService := room.NewService(recordStore, playbackRepo, broadcaster, logger, &room.Config{
		Secret:       cfg.Secret,
		Issuer:       cfg.Issuer,
		TokenExpiry:  time.Duration(cfg.TokenExpiryMinutes) * time.Minute,
		MembersLimit: cfg.MembersLimit,
	})
	controller := controller.NewController(roomService, broadcaster, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
