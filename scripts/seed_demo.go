package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"sharekit/internal/database"
	"sharekit/internal/models"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type SeedConfig struct {
	Users []SeedUser `yaml:"users"`
}

type SeedUser struct {
	Name  string     `yaml:"name"`
	Email string     `yaml:"email"`
	Items []SeedItem `yaml:"items"`
}

type SeedItem struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Available   bool   `yaml:"available"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		seedPath = flag.String("seed", "configs/seed.yaml", "path to seed.yaml")
		dbPath   = flag.String("db", "./data/sharekit.db", "path to sqlite db")
	)
	flag.Parse()

	data, err := os.ReadFile(*seedPath)
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}
	var cfg SeedConfig
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse seed: %w", err)
	}
	if len(cfg.Users) == 0 {
		return fmt.Errorf("no users in yaml")
	}

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := 0
	items := 0
	for _, su := range cfg.Users {
		if su.Email == "" {
			continue
		}
		user := models.User{Name: su.Name, Email: su.Email}
		err = db.CreateUser(ctx, &user)
		if errors.Is(err, database.ErrEmailTaken) {
			// Повторный прогон: пользователь уже засеян.
			continue
		}
		if err != nil {
			return fmt.Errorf("create user %s: %w", su.Email, err)
		}
		users++

		for _, si := range su.Items {
			if si.Name == "" {
				continue
			}
			item := models.Item{
				Name:        si.Name,
				Description: si.Description,
				Available:   si.Available,
				OwnerID:     user.ID,
			}
			if err = db.CreateItem(ctx, &item); err != nil {
				return fmt.Errorf("create item %s: %w", si.Name, err)
			}
			items++
		}
	}

	fmt.Printf("done: users=%d items=%d\n", users, items)
	return nil
}
