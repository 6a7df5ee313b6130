package infra

import (
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"github.com/tnqbao/gau-wiki-gateway/config"
	"github.com/tnqbao/gau-wiki-gateway/entity"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type PostgresClient struct {
	DB *gorm.DB
}

// InitPostgresClient opens the file database. DB_DRIVER=sqlite swaps Postgres for a local
// sqlite file, which is handy for development without a database server.
func InitPostgresClient(cfg *config.EnvConfig) *PostgresClient {
	db, err := OpenDatabase(cfg)
	if err != nil {
		log.Printf("Database connection failed: %v", err)
		return nil
	}

	log.Printf("Connected to %s database", cfg.Postgres.Driver)
	return &PostgresClient{DB: db}
}

func OpenDatabase(cfg *config.EnvConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	switch cfg.Postgres.Driver {
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.Postgres.Path), gormCfg)
	case "", "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.Postgres.HOST,
			cfg.Postgres.Username,
			cfg.Postgres.Password,
			cfg.Postgres.Database,
			cfg.Postgres.Port,
			cfg.Postgres.SSLMode,
		)
		return gorm.Open(postgres.Open(dsn), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Postgres.Driver)
	}
}

func (p *PostgresClient) Close() error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (p *PostgresClient) Migrate() error {
	return AutoMigrate(p.DB)
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&entity.File{})
}
