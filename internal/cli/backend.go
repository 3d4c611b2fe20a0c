package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/config"
	"vocab-quiz-service/internal/infra/memory"
	"vocab-quiz-service/internal/infra/postgres"
	"vocab-quiz-service/internal/seed"
)

// backend is a store serving every repository port and seeding.
type backend interface {
	app.QuizRepository
	app.WordRepository
	app.DictionaryRepository
	seed.Seeder
}

// openBackend connects to Postgres when configured and falls back to an
// in-memory store loaded with demo data.
func openBackend(ctx context.Context, cfg config.Config, log *zap.Logger) (backend, func(), error) {
	if cfg.Postgres.URL == "" {
		store := memory.NewStore()
		if err := seed.Apply(ctx, store, seed.Demo(), log); err != nil {
			return nil, nil, err
		}
		log.Warn("postgres url not configured, using in-memory store with demo data",
			zap.String("demo_user", seed.DemoUserID))
		return store, func() {}, nil
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	return postgres.NewStore(pool), pool.Close, nil
}
