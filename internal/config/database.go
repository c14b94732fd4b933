package config

import (
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"insurewise-backend/internal/models"
)

// ConnectDB opens the database and runs migrations. The handle is returned,
// not stashed in a package global, so every component takes it at
// construction.
func ConnectDB(cfg *Config) *gorm.DB {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	log.Info().Str("host", cfg.DBHost).Str("db", cfg.DBName).Msg("database connected")
	return db
}

// Migrate keeps the schema in sync with the models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.Transaction{},
		&models.Claim{},
		&models.GroupSavings{},
		&models.GroupMember{},
		&models.Contribution{},
		&models.InsurancePlan{},
		&models.Subscription{},
	)
}
