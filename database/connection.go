package database

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config selects and addresses the database
type Config struct {
	URL                    string // full Postgres DSN, wins over the parts below
	User                   string
	Pass                   string
	Name                   string
	InstanceConnectionName string // Cloud SQL instance, connects over the unix socket
	SQLitePath             string // used when no Postgres settings are present
}

// ConfigFromEnv reads the database settings from the environment
func ConfigFromEnv() Config {
	return Config{
		URL:                    os.Getenv("DATABASE_URL"),
		User:                   os.Getenv("DB_USER"),
		Pass:                   os.Getenv("DB_PASS"),
		Name:                   os.Getenv("DB_NAME"),
		InstanceConnectionName: os.Getenv("INSTANCE_CONNECTION_NAME"),
		SQLitePath:             os.Getenv("SQLITE_PATH"),
	}
}

// Driver names the backend Connect will use
func (c Config) Driver() string {
	if c.URL == "" && c.InstanceConnectionName == "" && c.Name == "" && c.SQLitePath != "" {
		return "sqlite"
	}
	return "postgres"
}

func (c Config) postgresDSN() string {
	if c.URL != "" {
		return c.URL
	}

	user := c.User
	if user == "" {
		user = "postgres"
	}
	name := c.Name
	if name == "" {
		name = "medeasy"
	}

	// For Cloud Run with Cloud SQL
	if c.InstanceConnectionName != "" {
		log.Printf("Connecting to Cloud SQL via socket: %s", c.InstanceConnectionName)
		return fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=disable",
			c.InstanceConnectionName, user, c.Pass, name)
	}

	log.Println("Connecting to local PostgreSQL")
	return fmt.Sprintf("host=localhost user=%s password=%s dbname=%s port=5432 sslmode=disable",
		user, c.Pass, name)
}

// Connect opens the configured database; callers own the returned handle
func Connect(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver() {
	case "sqlite":
		log.Printf("Opening SQLite database at %s", cfg.SQLitePath)
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		dialector = postgres.Open(cfg.postgresDSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Driver(), err)
	}

	log.Println("✅ Database connected successfully!")
	return db, nil
}

// Ping checks that the connection is alive
func Ping(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database not connected")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
