// Package db opens, migrates and seeds the relational database.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jobzee/jobzee/internal/config"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// Open connects to the configured driver. Postgres gets a few retries so the
// API can start alongside the database container.
func Open(cfg config.DatabaseConfig, logger zerolog.Logger) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: NewLogger(logger, 200*time.Millisecond)}

	switch cfg.Driver {
	case "sqlite":
		logger.Info().Str("path", cfg.Path).Msg("opening sqlite database")
		db, err := gorm.Open(sqlite.Open(cfg.Path), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return db, nil
	case "postgres", "":
		logger.Info().
			Str("host", cfg.Host).
			Int("port", cfg.Port).
			Str("dbname", cfg.DBName).
			Str("user", cfg.User).
			Msg("connecting to database")
		var (
			db  *gorm.DB
			err error
		)
		for i := 0; i < connectAttempts; i++ {
			db, err = gorm.Open(postgres.Open(cfg.DSN()), gcfg)
			if err == nil {
				break
			}
			logger.Warn().Err(err).Int("attempt", i+1).Msg("database connection failed, retrying")
			time.Sleep(connectBackoff)
		}
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Ping checks that the underlying connection pool is alive.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// gormLogger forwards GORM's messages to zerolog.
type gormLogger struct {
	log           zerolog.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewLogger returns a GORM logger writing through zerolog.
func NewLogger(l zerolog.Logger, slow time.Duration) gormlogger.Interface {
	return &gormLogger{
		log:           l.With().Str("component", "gorm").Logger(),
		level:         gormlogger.Warn,
		slowThreshold: slow,
	}
}

func (g *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *g
	cp.level = level
	return &cp
}

func (g *gormLogger) Info(_ context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Info {
		g.log.Info().Msgf(msg, args...)
	}
}

func (g *gormLogger) Warn(_ context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Warn {
		g.log.Warn().Msgf(msg, args...)
	}
}

func (g *gormLogger) Error(_ context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Error {
		g.log.Error().Msgf(msg, args...)
	}
}

func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && g.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		g.log.Error().Err(err).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query failed")
	case g.slowThreshold > 0 && elapsed > g.slowThreshold && g.level >= gormlogger.Warn:
		sql, rows := fc()
		g.log.Warn().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("slow query")
	case g.level >= gormlogger.Info:
		sql, rows := fc()
		g.log.Debug().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query")
	}
}
