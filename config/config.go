package config

import (
	"log"
	"os"
	"strings"

	"littlelemon-api/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret used to sign tokens — read from env or fallback
var JWTSecret = []byte(getEnv("JWT_SECRET", "little_lemon_super_secret_2024"))

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Open connects to the given sqlite DSN and migrates the schema.
// Split out of InitDB so tests can point at an in-memory database.
func Open(dsn string) error {
	// The sqlite driver leaves foreign_keys off unless the DSN asks for it;
	// without this the constraint tags on the models are never enforced.
	if strings.Contains(dsn, "?") {
		dsn += "&_pragma=foreign_keys(1)"
	} else {
		dsn += "?_pragma=foreign_keys(1)"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Category{},
		&models.MenuItem{},
		&models.Cart{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		return err
	}
	DB = db
	return nil
}

func InitDB() {
	if err := Open(getEnv("DB_PATH", "littlelemon.db")); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	log.Println("✅ Database connected and migrated successfully")
}
