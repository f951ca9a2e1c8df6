package db

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kontor-app/kontor/internal/config"
	"github.com/kontor-app/kontor/internal/models"

	migrate "github.com/golang-migrate/migrate/v4"
	// blank imports register the postgres driver and file source for golang-migrate
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectAndMigrate opens the database selected by cfg and brings the schema
// up to date. With MIGRATIONS=1 the SQL migrations under ./migrations run via
// golang-migrate (postgres only); otherwise AutoMigrate keeps dev setups and
// sqlite deployments working without migration files.
func ConnectAndMigrate(cfg config.Config) (*gorm.DB, error) {
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var conn *gorm.DB
	var err error
	switch cfg.DBDriver {
	case "sqlite":
		conn, err = gorm.Open(sqlite.Open(cfg.DatabaseDSN), gcfg)
	default:
		dsn := NormalizeDSN(cfg.DatabaseDSN)
		if dsn == "" {
			return nil, fmt.Errorf("DATABASE_DSN is empty, check the environment configuration")
		}
		for i := 0; i < 10; i++ {
			conn, err = gorm.Open(postgres.Open(dsn), gcfg)
			if err == nil {
				break
			}
			config.Logger().WithError(err).Warn("retrying DB connection")
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	if v := strings.ToLower(os.Getenv("MIGRATIONS")); cfg.DBDriver != "sqlite" && (v == "1" || v == "true" || v == "yes") {
		if err := runSQLMigrations(NormalizeDSN(cfg.DatabaseDSN)); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if err := AutoMigrate(conn); err != nil {
			return nil, err
		}
	}

	// sanity check: ensure required core tables exist
	for _, table := range []string{"companies", "customers", "offers", "invoices"} {
		if !conn.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}
	if config.ParseBool("DB_SEED", false) {
		seed(conn)
	}
	return conn, nil
}

// AutoMigrate creates or updates the schema for every model.
func AutoMigrate(conn *gorm.DB) error {
	modelsToMigrate := []interface{}{
		&models.Company{}, &models.Layout{}, &models.Customer{},
		&models.Offer{}, &models.OfferItem{},
		&models.Invoice{}, &models.InvoiceItem{},
		&models.EmailOutbox{},
	}
	for _, m := range modelsToMigrate {
		if err := conn.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

func seed(conn *gorm.DB) {
	baseLayouts := []models.Layout{
		{Name: "Klassisch", PrimaryColor: "#1f2937", Font: "Inter", LogoPosition: "right", IsDefault: true},
		{Name: "Modern", PrimaryColor: "#0e7490", Font: "Source Sans Pro", LogoPosition: "left"},
	}
	for _, l := range baseLayouts {
		var existing models.Layout
		if err := conn.Where("name = ?", l.Name).First(&existing).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			conn.Create(&l)
		}
	}
}

// runSQLMigrations executes migrations in ./migrations using golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
