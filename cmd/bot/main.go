package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"calendarbot/internal/app"
	"calendarbot/internal/logger"
	"calendarbot/internal/rabbit"
	"calendarbot/internal/scheduler"
	internalhttp "calendarbot/internal/server/http"
	"calendarbot/internal/storagebuilder"
	"calendarbot/internal/telegram"
)

var configFile string

func init() {
	flag.StringVar(&configFile, "config", "./configs/config.yaml", "Path to configuration file")
	log.SetFormatter(&log.TextFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.WarnLevel)
}

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found")
	}

	config, err := NewConfig(configFile)
	if err != nil {
		log.Errorf("failed to start: %v", err)
		os.Exit(1)
	}
	if err := logger.PrepareLogger(config.Logger); err != nil {
		log.Errorf("failed to start: %v", err)
		os.Exit(1)
	}
	if config.Telegram.Token == "" || strings.HasPrefix(config.Telegram.Token, envConfigPrefix) {
		log.Error("BOT_TOKEN is not set")
		os.Exit(1)
	}

	stor, err := storagebuilder.New(config.Storage)
	if err != nil {
		log.Errorf("failed to start: %v", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()
		if err := stor.Close(ctx); err != nil {
			log.Errorf("failed to close storage: %v", err)
		}
	}()

	application := app.New(stor)
	tgBot, err := telegram.New(config.Telegram, application)
	if err != nil {
		log.Errorf("failed to start: %v", err)
		os.Exit(1) //nolint:gocritic
	}

	var notifier scheduler.Notifier
	switch config.Notifier {
	case "telegram":
		notifier = tgBot
	case "rabbit":
		provider := rabbit.New(config.Rabbit)
		if err := provider.Connect(); err != nil {
			log.Errorf("failed to start: %v", err)
			os.Exit(1)
		}
		defer provider.Close()
		notifier = rabbit.NewNotifier(provider)
	default:
		log.Errorf("unknown notifier type %q", config.Notifier)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	reminders := scheduler.New(stor, notifier)
	if err := reminders.Start(ctx); err != nil {
		log.Errorf("failed to start scheduler: %v", err)
		os.Exit(1)
	}
	defer reminders.Stop()

	server := internalhttp.NewServer(config.HTTPServer, application)
	go func() {
		if err := server.Start(ctx); err != nil {
			log.Error("failed to start http server: " + err.Error())
			cancel()
		}
	}()
	go func() {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()

		if err := server.Stop(ctx); err != nil {
			log.Error("failed to stop http server: " + err.Error())
		}
	}()

	log.Info("calendar bot is running...")
	tgBot.Start(ctx)
}
