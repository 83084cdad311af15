package config

import (
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDB opens the primary Postgres database from DB_URL.
// When DB_URL is unset it falls back to a local sqlite file so the
// service can run without a hosted database (dev/demo mode).
func ConnectDB() {
	dsn := os.Getenv("DB_URL")

	var (
		db  *gorm.DB
		err error
	)

	if dsn != "" {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	} else {
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "cleancut.db"
		}
		log.Printf("DB_URL not set, using local sqlite store at %s", path)
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	}

	if err != nil {
		panic("Failed to connect database")
	}

	DB = db
}
