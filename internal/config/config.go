package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/akshaydalvi/medikart/internal/hash"
	"github.com/akshaydalvi/medikart/internal/models"
)

type Config struct {
	PORT           string
	DB_HOST        string
	DB_PORT        string
	DB_USER        string
	DB_PASSWORD    string
	DB_NAME        string
	ES_PORT        string
	ES_USER        string
	ES_PASSWORD    string
	ES_URL         string
	KAFKA_ADDRESS  string
	ADMIN_USERNAME string
	ADMIN_PASSWORD string
	ADMIN_EMAIL    string
	LOG_LEVEL      string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		PORT:           os.Getenv("PORT"),
		DB_HOST:        os.Getenv("DB_HOST"),
		DB_PORT:        os.Getenv("DB_PORT"),
		DB_USER:        os.Getenv("DB_USER"),
		DB_PASSWORD:    os.Getenv("DB_PASSWORD"),
		DB_NAME:        os.Getenv("DB_NAME"),
		ES_PORT:        os.Getenv("ES_PORT"),
		ES_USER:        os.Getenv("ES_USER"),
		ES_PASSWORD:    os.Getenv("ES_PASSWORD"),
		ES_URL:         os.Getenv("ES_URL"),
		KAFKA_ADDRESS:  os.Getenv("KAFKA_ADDRESS"),
		ADMIN_USERNAME: os.Getenv("ADMIN_USERNAME"),
		ADMIN_PASSWORD: os.Getenv("ADMIN_PASSWORD"),
		ADMIN_EMAIL:    os.Getenv("ADMIN_EMAIL"),
		LOG_LEVEL:      os.Getenv("LOG_LEVEL"),
	}

	if config.PORT == "" {
		config.PORT = "8080"
	}

	return config, nil
}

func InitDB() (*gorm.DB, error) {
	configuration, _ := LoadConfig()

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		configuration.DB_USER,
		configuration.DB_PASSWORD,
		configuration.DB_HOST,
		configuration.DB_PORT,
		configuration.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("cannot run migrations: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Product{},
		&models.Order{},
		&models.Feedback{},
		&models.Contact{},
	)
}

// SeedAdmin upserts the bootstrap administrator account. The credentials come
// from the environment and the password is stored bcrypt-hashed like any
// other account; there is no special-cased login path for it.
func SeedAdmin(db *gorm.DB, cfg *Config) error {
	if cfg.ADMIN_USERNAME == "" {
		return nil
	}
	if cfg.ADMIN_PASSWORD == "" {
		return errors.New("ADMIN_USERNAME is set but ADMIN_PASSWORD is empty")
	}

	var admin models.User
	err := db.Where("username = ?", cfg.ADMIN_USERNAME).First(&admin).Error
	if err == nil {
		if admin.IsAdmin {
			return nil
		}
		return db.Model(&admin).Update("is_admin", true).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	pwHash, err := hash.HashPassword(cfg.ADMIN_PASSWORD)
	if err != nil {
		return err
	}
	admin = models.User{
		Username:     cfg.ADMIN_USERNAME,
		PasswordHash: pwHash,
		Email:        cfg.ADMIN_EMAIL,
		IsAdmin:      true,
	}
	return db.Create(&admin).Error
}
