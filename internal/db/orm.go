package db

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	gormModels "taiwan-opendata/landsync/internal/models/gorm"
)

var PgDB *gorm.DB

// InitPostgresORM connects the GORM handle used by the write side and
// ensures the schema exists
func InitPostgresORM(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := db.AutoMigrate(
		&gormModels.LandRecord{},
		&gormModels.SyncLog{},
		&gormModels.DataSource{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	PgDB = db
	log.Println("Connected to Postgres via GORM")
	return db, nil
}
