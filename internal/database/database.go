package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"

	"github.com/sandesh691/agribid-sub001/internal/config"
	loggerPkg "github.com/sandesh691/agribid-sub001/internal/logger"
)

type Database struct {
	Pool *pgxpool.Pool
	log  *zerolog.Logger
}

func New(cfg *config.Config, log *zerolog.Logger, ls *loggerPkg.LoggerService) (*Database, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	poolCfg.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second

	if !cfg.Observability.IsProduction() {
		pgxLog := loggerPkg.NewPgxLogger(zerolog.DebugLevel)
		poolCfg.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   &pgxLogAdapter{log: &pgxLog},
			LogLevel: tracelog.LogLevel(loggerPkg.GetPgxTraceLogLevel(zerolog.DebugLevel)),
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.Name).
		Msg("Connected to database successfully")

	return &Database{Pool: pool, log: log}, nil
}

func (d *Database) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

func (d *Database) Close() {
	d.log.Info().Msg("Closing database connection pool")
	d.Pool.Close()
}

// pgxLogAdapter bridges pgx tracelog records onto zerolog.
type pgxLogAdapter struct {
	log *zerolog.Logger
}

func (a *pgxLogAdapter) Log(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	var event *zerolog.Event
	switch level {
	case tracelog.LogLevelTrace, tracelog.LogLevelDebug:
		event = a.log.Debug()
	case tracelog.LogLevelInfo:
		event = a.log.Info()
	case tracelog.LogLevelWarn:
		event = a.log.Warn()
	case tracelog.LogLevelError:
		event = a.log.Error()
	default:
		event = a.log.Info()
	}
	event.Fields(data).Msg(msg)
}
