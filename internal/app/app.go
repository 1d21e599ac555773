// Package app assembles the bot: configuration, logger, session store,
// shop client, conversation machine, and the telegram runtime.
package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	tele "gopkg.in/telebot.v4"

	"github.com/Michael-Zapivahin/fish-market-bot/internal/bot"
	"github.com/Michael-Zapivahin/fish-market-bot/internal/config"
	"github.com/Michael-Zapivahin/fish-market-bot/internal/logger"
	"github.com/Michael-Zapivahin/fish-market-bot/internal/session"
	"github.com/Michael-Zapivahin/fish-market-bot/internal/shop"
	"github.com/Michael-Zapivahin/fish-market-bot/internal/telegram"
)

// Options control where configuration is loaded from.
type Options struct {
	ConfigEnvVar      string
	DefaultConfigPath string
}

// Run boots the application and blocks until SIGINT/SIGTERM or a fatal
// runtime error.
func Run(opts Options) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("dotenv load error: %v", err)
	}

	env := opts.ConfigEnvVar
	if env == "" {
		env = "CONFIG_PATH"
	}
	cfgPath := os.Getenv(env)
	if cfgPath == "" {
		cfgPath = opts.DefaultConfigPath
	}
	if cfgPath == "" {
		return fmt.Errorf("app: config path not provided via %s or DefaultConfigPath", env)
	}

	log.Printf("loading config: %s", cfgPath)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("app: failed to load config: %w", err)
	}

	if err := logger.Init(cfg); err != nil {
		return fmt.Errorf("app: logger init failed: %w", err)
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	startedAt := time.Now()

	store, err := session.NewRedisStore(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("app: session store init failed: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn(ctx, "app", "store.close", slog.String("err", err.Error()))
		}
	}()

	shopClient := shop.NewClient(cfg.Shop)

	teleBot, err := telegram.NewBot(ctx, cfg, false)
	if err != nil {
		return fmt.Errorf("app: telegram bot init failed: %w", err)
	}

	b := bot.New(store, shopClient, bot.NewTelebotResponder(teleBot))
	dispatch := b.Handler()

	routes := []telegram.Route{
		{Endpoint: "/start", Handler: dispatch},
		{Endpoint: "/help", Handler: helpHandler(b)},
		{Endpoint: tele.OnText, Handler: dispatch},
		{Endpoint: tele.OnCallback, Handler: dispatch},
	}

	runOpts := telegram.RunOptions{
		Middlewares: telegram.DefaultMiddlewares(cfg),
		Routes:      routes,
		OnStart: func(ctx context.Context) error {
			logger.Info(ctx, "app", "ready",
				slog.Duration("duration", logger.RoundMS(time.Since(startedAt))),
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info(ctx, "app", "shutdown")
			return nil
		},
	}

	return telegram.Run(ctx, teleBot, runOpts)
}

func helpHandler(b *bot.Bot) tele.HandlerFunc {
	return func(c tele.Context) error {
		return b.Help(telegram.ContextFrom(c), c.Chat().ID)
	}
}
