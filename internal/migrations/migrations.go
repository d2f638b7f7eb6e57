// Package migrations накатывает SQL-миграции из каталога migrations/.
package migrations

import (
	"errors"
	"fmt"
	"strings"

	"formAgent/internal/config"
	"formAgent/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

func Run(cfg *config.Cfg, log *logger.Zap) error {
	m, err := migrate.New(sourceURL(cfg.Migrations.Path), cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("инициализация миграций: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			log.Warn("ошибка закрытия мигратора", zap.NamedError("source", srcErr), zap.NamedError("db", dbErr))
		}
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("миграции актуальны")
			return nil
		}
		return fmt.Errorf("применение миграций: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("версия миграций: %w", err)
	}
	log.Info("миграции применены", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// sourceURL допускает путь без схемы.
func sourceURL(path string) string {
	if path == "" {
		return "file://migrations"
	}
	if strings.Contains(path, "://") {
		return path
	}
	return "file://" + path
}
