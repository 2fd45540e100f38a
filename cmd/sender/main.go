package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"calendarbot/internal/logger"
	"calendarbot/internal/rabbit"
	"calendarbot/internal/telegram"
)

var configFile string

func init() {
	flag.StringVar(&configFile, "config", "./configs/sender_config.yaml", "Path to configuration file")
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

	sender, err := telegram.NewSender(config.Telegram)
	if err != nil {
		log.Errorf("failed to start: %v", err)
		os.Exit(1)
	}

	r := rabbit.New(config.Rabbit)
	if err := r.Connect(); err != nil {
		log.Errorf("failed to start: %v", err)
		os.Exit(1)
	}
	defer r.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	log.Info("reminder sender is running...")
	err = r.Consume(ctx, func(msg amqp.Delivery) {
		m := rabbit.Message{}
		if err := json.Unmarshal(msg.Body, &m); err != nil {
			log.Errorf("failed to parse reminder message: %v", err)
			return
		}
		if err := sender.Send(ctx, m.Recipient, m.Text); err != nil {
			log.Errorf("failed to deliver reminder to %d: %v", m.Recipient, err)
			return
		}
		log.Infof("reminder delivered to %d", m.Recipient)
	})
	if err != nil {
		log.Errorf("consume failed: %v", err)
	}
}
