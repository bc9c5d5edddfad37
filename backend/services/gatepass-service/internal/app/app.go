package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/config"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-repositories"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
	"github.com/redis/go-redis/v9"
)

const (
	maxRetries       = 5
	connectTimeout   = 5 * time.Second
	initialBackoff   = 500 * time.Millisecond
	redisPingTimeout = 5 * time.Second
)

// Repositories is every store the gate-pass services read and write.
type Repositories struct {
	Persons         repositories.PersonRepository
	Premises        repositories.PremiseRepository
	Passes          repositories.AccessRequestRepository
	ShiftReports    repositories.ShiftReportRepository
	Activity        repositories.ActivityFeedRepository
	MasterKeyTokens repositories.MasterKeyTokenRepository
}

// NewMemoryRepositories keeps everything in process memory.
func NewMemoryRepositories() Repositories {
	return Repositories{
		Persons:         repositories.NewMemoryPersonRepository(),
		Premises:        repositories.NewMemoryPremiseRepository(),
		Passes:          repositories.NewMemoryAccessRequestRepository(),
		ShiftReports:    repositories.NewMemoryShiftReportRepository(),
		Activity:        repositories.NewMemoryActivityFeedRepository(),
		MasterKeyTokens: repositories.NewMemoryMasterKeyTokenRepository(),
	}
}

type App struct {
	Config *config.Config
	DB     *pgxpool.Pool // nil when running in memory
	Redis  *redis.Client // nil when running in memory
	Repos  Repositories
}

// NewApp connects to Postgres and Redis when they are configured and falls
// back to in-memory stores for whichever is not.
func NewApp(cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, Repos: NewMemoryRepositories()}

	if cfg.DBUrl != "" {
		pool, err := connectDB(cfg)
		if err != nil {
			return nil, err
		}
		a.DB = pool

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := repositories.ApplySchema(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}

		a.Repos.Persons = repositories.NewPersonRepository(pool)
		a.Repos.Premises = repositories.NewPremiseRepository(pool)
		a.Repos.Passes = repositories.NewAccessRequestRepository(pool)
		a.Repos.ShiftReports = repositories.NewShiftReportRepository(pool)
	} else {
		utils.Logger.Warn("DB_URL not set; gatepass-service is keeping records in memory")
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			_ = rdb.Close()
			a.Close()
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
		a.Redis = rdb
		a.Repos.Activity = repositories.NewRedisActivityFeedRepository(rdb)
		a.Repos.MasterKeyTokens = repositories.NewRedisMasterKeyTokenRepository(rdb)
		utils.Logger.Infof("gatepass-service connected to redis at %s", cfg.RedisAddr)
	}

	return a, nil
}

// Ping checks every configured backing store.
func (a *App) Ping(ctx context.Context) error {
	if a.DB != nil {
		if err := a.DB.Ping(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			utils.Logger.WithError(err).Warn("redis close error")
		}
	}
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Info("gatepass-service DB connection closed.")
	}
}

func connectDB(cfg *config.Config) (*pgxpool.Pool, error) {
	effectiveURL := cfg.DBUrl
	if cfg.LDFlag_UsingIsolatedSchema {
		var err error
		effectiveURL, err = utils.WithIsolatedRole(cfg.DBUrl, cfg.UniqueRunnerID, cfg.UniqueRunNumber)
		if err != nil {
			return nil, err
		}
		utils.Logger.Infof("Using isolated schema for gatepass-service; role=%s", strings.ToLower(cfg.UniqueRunnerID+"-"+cfg.UniqueRunNumber))
	} else {
		utils.Logger.Info("Isolated schema disabled; using public schema for gatepass-service.")
	}

	var (
		dbPool  *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)

	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		dbPool, err = newDBPool(ctx, effectiveURL)
		cancel()
		if err == nil {
			utils.Logger.Infof("gatepass-service connected to DB on attempt %d", i)
			return dbPool, nil
		}

		utils.Logger.WithError(err).Warnf(
			"Failed DB connect on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)
		if i == maxRetries {
			break
		}
		time.Sleep(backoff)
		backoff *= 2
	}
	return nil, fmt.Errorf("unable to connect after %d attempts: %w", maxRetries, err)
}

func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	return pgxpool.ConnectConfig(ctx, cfg)
}
