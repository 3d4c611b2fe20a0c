package cli

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	redisinfra "vocab-quiz-service/internal/infra/redis"
	"vocab-quiz-service/internal/seed"
)

// NewSeedCmd loads a fixture of dictionaries, words and access grants into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var (
		file string
		demo bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load dictionaries and words from a YAML or JSON fixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" && !demo {
				return fmt.Errorf("either --file or --demo is required")
			}
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("seed needs postgres.url; the in-memory store is seeded with demo data on start")
			}

			fixture := seed.Demo()
			if file != "" {
				if fixture, err = seed.Load(file); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			if err := runMigrations(ctx, cfg, log); err != nil {
				return err
			}
			store, closeStore, err := openBackend(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := seed.Apply(ctx, store, fixture, log); err != nil {
				return err
			}

			if cfg.Redis.Addr != "" {
				client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
				defer client.Close()
				cache := redisinfra.NewDictionaryCache(client, store, 0)
				for _, d := range fixture.Dictionaries {
					if err := cache.Invalidate(ctx, d.ID); err != nil {
						log.Warn("invalidate cached dictionary", zap.String("dictionary_id", d.ID), zap.Error(err))
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "fixture file (.yaml, .yml or .json)")
	cmd.Flags().BoolVar(&demo, "demo", false, "load the built-in demo dictionary")
	return cmd
}
