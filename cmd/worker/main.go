package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/unclebandit/hey-mailer/internal/config"
	"github.com/unclebandit/hey-mailer/internal/logger"
	"github.com/unclebandit/hey-mailer/internal/queue"
	"github.com/unclebandit/hey-mailer/internal/service"
)

func main() {
	app := &cli.App{
		Name:  "hey-mailer-worker",
		Usage: "consumes queued emails from rabbitmq and relays them",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Value: ".env"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	q, err := queue.DialAMQP(cfg.AMQPURL, logger.Named(log, "amqp"))
	if err != nil {
		return err
	}
	defer q.Close()

	worker := service.NewWorker(service.LogSender{Log: logger.Named(log, "relay")}, logger.Named(log, "worker"))
	if err := q.Subscribe(cfg.AMQPQueue, worker.Handler(ctx)); err != nil {
		return err
	}

	log.WithField("queue", cfg.AMQPQueue).Info("worker running, waiting for messages")

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		return nil
	case amqpErr := <-q.NotifyClose():
		return fmt.Errorf("rabbitmq connection closed: %v", amqpErr)
	}
}
