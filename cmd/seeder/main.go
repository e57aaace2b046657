//cmd/seeder/main.go
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/unclebandit/hey-mailer/internal/config"
	"github.com/unclebandit/hey-mailer/internal/db"
	"github.com/unclebandit/hey-mailer/internal/logger"
	"github.com/unclebandit/hey-mailer/internal/repository"
	"github.com/unclebandit/hey-mailer/internal/service"
)

func main() {
	app := &cli.App{
		Name:      "hey-mailer-seeder",
		Usage:     "submits sample addresses through the normal send path",
		ArgsUsage: "[addresses file]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Value: ".env"},
			&cli.Float64Flag{Name: "success-rate", Usage: "simulated delivery success rate, overrides DELIVERY_SUCCESS_RATE"},
		},
		Action: seed,
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func seed(c *cli.Context) error {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return err
	}
	if c.IsSet("success-rate") {
		if err := overrideSuccessRate(cfg, c.Float64("success-rate")); err != nil {
			return err
		}
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	addresses := []string{"test1@example.com", "test2@example.com", "another@test.com"}
	if path := c.Args().First(); path != "" {
		addresses, err = readAddresses(path)
		if err != nil {
			return err
		}
	}

	conn, err := db.Open(c.Context, cfg.DBDriver, cfg.DSN(), cfg.DBMaxOpenConns)
	if err != nil {
		return err
	}
	defer conn.Close()
	if cfg.DBAutoMigrate {
		if err := db.Migrate(conn, cfg.DBDriver, cfg.DSN()); err != nil {
			return err
		}
	}

	sender, release, err := service.NewConfiguredSender(cfg, log)
	if err != nil {
		return err
	}
	defer release()

	svc := service.NewEmailService(
		repository.NewEmailRepository(conn),
		sender,
		nil,
		logger.Named(log, "seeder"),
	)

	for _, addr := range addresses {
		resp, err := svc.SendEmail(c.Context, addr)
		if err != nil {
			return fmt.Errorf("seed %s: %w", addr, err)
		}
		fmt.Printf("Seeded: %s (id %d, success %v)\n", addr, *resp.EmailID, resp.Success)
	}

	fmt.Println("Database seeding completed successfully!")
	return nil
}

func overrideSuccessRate(cfg *config.Config, rate float64) error {
	prev := cfg.DeliverySuccessRate
	cfg.DeliverySuccessRate = rate
	if err := cfg.Validate(); err != nil {
		cfg.DeliverySuccessRate = prev
		return fmt.Errorf("--success-rate: %w", err)
	}
	return nil
}

// readAddresses reads one address per line, skipping blanks and # comments.
func readAddresses(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}
