package database

import (
	"log/slog"
	"time"

	"gorm.io/gorm"
)

const startedAtKey = "survey:started_at"

// slowQueryBefore marca o início do comando na instância da instrução
func slowQueryBefore() func(db *gorm.DB) {
	return func(db *gorm.DB) {
		db.InstanceSet(startedAtKey, time.Now())
	}
}

// slowQueryAfter registra comandos que passaram do limite configurado
func slowQueryAfter(threshold time.Duration) func(db *gorm.DB) {
	return func(db *gorm.DB) {
		value, ok := db.InstanceGet(startedAtKey)
		if !ok {
			return
		}
		startedAt, ok := value.(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(startedAt)
		if elapsed < threshold {
			return
		}
		slog.Warn("slow statement",
			slog.String("table", db.Statement.Table),
			slog.Duration("elapsed", elapsed),
			slog.Int64("rows", db.RowsAffected),
			slog.String("sql", db.Statement.SQL.String()))
	}
}

// RegisterCallbacks registra o log de comandos lentos em consultas e escritas
func RegisterCallbacks(db *gorm.DB, threshold time.Duration) error {
	if threshold <= 0 {
		return nil
	}

	cb := db.Callback()
	if err := cb.Query().Before("gorm:query").Register("survey:slow_before_query", slowQueryBefore()); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("survey:slow_after_query", slowQueryAfter(threshold)); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("survey:slow_before_update", slowQueryBefore()); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("survey:slow_after_update", slowQueryAfter(threshold)); err != nil {
		return err
	}
	if err := cb.Create().Before("gorm:create").Register("survey:slow_before_create", slowQueryBefore()); err != nil {
		return err
	}
	return cb.Create().After("gorm:create").Register("survey:slow_after_create", slowQueryAfter(threshold))
}
