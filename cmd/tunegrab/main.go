// Package main provides the TuneGrab CLI application entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"tunegrab/internal/catalog/deezer"
	"tunegrab/internal/chat/telegram"
	"tunegrab/internal/core"
	"tunegrab/internal/extract"
	httpserver "tunegrab/internal/http"
	"tunegrab/internal/i18n"
	"tunegrab/internal/refstore"
	"tunegrab/internal/store"
	"tunegrab/internal/work"
)

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tunegrab",
	Short: "TuneGrab - Telegram music and video download bot",
	Long: `TuneGrab is a Telegram bot that turns search queries and direct video links
into downloadable MP3 and video files delivered straight to the chat.`,
	RunE: runTuneGrab,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("telegram-bot-token", "", "Telegram bot API token")
	rootCmd.PersistentFlags().String("app-url", "", "externally reachable base URL, enables webhook mode")
	rootCmd.PersistentFlags().StringSlice("gate-channels", nil, "channels users must join before using the bot")
	rootCmd.PersistentFlags().String("language", "en", "default bot language (en, ru)")
	rootCmd.PersistentFlags().String("provider", "youtube", "media provider (youtube, soundcloud, deezer)")
	rootCmd.PersistentFlags().String("ytdlp-path", "yt-dlp", "path to the yt-dlp binary")
	rootCmd.PersistentFlags().String("scratch-dir", "./downloads", "scratch directory for fetched files")
	rootCmd.PersistentFlags().Int("search-limit", core.DefaultSearchLimit, "search candidates per query")
	rootCmd.PersistentFlags().Int("fetch-workers", 4, "concurrent fetch workers")
	rootCmd.PersistentFlags().Int("flood-limit", 10, "messages per user per minute")
	rootCmd.PersistentFlags().Int("server-port", 8080, "HTTP server port")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(".env")
		viper.SetConfigType("env")
	}

	viper.SetEnvPrefix("TUNEGRAB")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}

	config = buildConfig()
	logger = buildLogger(config.Log.Level)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	cfg.Telegram.BotToken = viper.GetString("telegram-bot-token")
	cfg.Telegram.AppURL = viper.GetString("app-url")
	cfg.Telegram.GateChannels = viper.GetStringSlice("gate-channels")
	if lang := viper.GetString("language"); lang != "" {
		cfg.Telegram.Language = lang
	}
	if limit := viper.GetInt("flood-limit"); limit > 0 {
		cfg.Telegram.FloodLimitPerMinute = limit
	}

	if provider := viper.GetString("provider"); provider != "" {
		cfg.Extract.Provider = provider
	}
	if bin := viper.GetString("ytdlp-path"); bin != "" {
		cfg.Extract.BinPath = bin
	}
	if dir := viper.GetString("scratch-dir"); dir != "" {
		cfg.Extract.ScratchDir = dir
	}
	if limit := viper.GetInt("search-limit"); limit > 0 {
		cfg.Extract.SearchLimit = limit
	}

	if workers := viper.GetInt("fetch-workers"); workers > 0 {
		cfg.App.FetchWorkers = workers
	}

	cfg.Server.Host = viper.GetString("server-host")
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	cfg.Server.Port = viper.GetInt("server-port")

	cfg.Log.Level = viper.GetString("log-level")

	return cfg
}

func buildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	builtLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

const deezerProvider = "deezer"

func runTuneGrab(_ *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting TuneGrab",
		zap.String("provider", config.Extract.Provider),
		zap.Bool("webhook_mode", config.Telegram.AppURL != ""))

	if err := validateConfig(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	refs := refstore.New(config.App.RefCapacity, config.App.RefTTL)
	fileIDs := store.NewFileIDCache(config.App.FileCacheSize, 0.001)

	pool := work.New(ctx, config.App.FetchWorkers, config.App.FetchQueue)
	defer pool.Stop()

	var extractor core.Extractor
	if config.Extract.Provider == deezerProvider {
		extractor = deezer.NewClient(&config.Deezer, config.Extract.ScratchDir, logger.Named("deezer"))
	} else {
		extractor = extract.NewRunner(&config.Extract, logger.Named("extract"))
	}

	frontend := telegram.NewFrontend(&config.Telegram, logger.Named("telegram"))
	defer frontend.Stop()

	if err := frontend.Start(ctx); err != nil {
		return fmt.Errorf("failed to start telegram frontend: %w", err)
	}

	var webhookHandler http.HandlerFunc
	if config.Telegram.AppURL != "" {
		webhookHandler = frontend.WebhookHandler()
	}

	httpServer := httpserver.NewServer(&config.Server, webhookHandler, logger.Named("http"))

	flow := core.NewFlow(
		config,
		frontend,
		extractor,
		refs,
		fileIDs,
		pool,
		httpServer,
		logger.Named("flow"),
	)
	frontend.Bind(flow)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return httpServer.Start(gCtx)
	})

	g.Go(func() error {
		return frontend.Listen(gCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				httpServer.SetPendingRefs(refs.Len())
			}
		}
	})

	logger.Info("TuneGrab started successfully",
		zap.String("http_addr", fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)))

	if err := g.Wait(); err != nil {
		logger.Error("TuneGrab stopped with error", zap.Error(err))
		return err
	}

	logger.Info("TuneGrab stopped gracefully")
	return nil
}

func validateConfig() error {
	if config.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot token is required")
	}

	switch config.Extract.Provider {
	case "youtube", "soundcloud", deezerProvider:
	default:
		return fmt.Errorf("unknown provider: %s", config.Extract.Provider)
	}

	supported := i18n.GetSupportedLanguages()
	validLang := false
	for _, lang := range supported {
		if lang == config.Telegram.Language {
			validLang = true
			break
		}
	}
	if !validLang {
		return fmt.Errorf("unsupported language %q, supported: %s",
			config.Telegram.Language, strings.Join(supported, ", "))
	}

	return nil
}
