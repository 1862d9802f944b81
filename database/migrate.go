package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yeremiapane/restaurant-backoffice/gateway"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migrate creates the staff tables and, when the local gateway is in use,
// its record tables.
func Migrate(db *gorm.DB, store *gateway.Store) error {
	if err := db.AutoMigrate(&models.User{}); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	if store != nil {
		if err := store.AutoMigrate(); err != nil {
			return err
		}
	}
	utils.InfoLogger.Info("AutoMigrate completed.")
	return nil
}

// HashPassword returns the bcrypt hash stored for a staff account.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// SeedAdmin creates the admin account if no user with that email exists yet.
// It reports whether a new account was created.
func SeedAdmin(db *gorm.DB, email, password string) (bool, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return false, nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	admin := models.User{
		Name:     "Administrator",
		Email:    email,
		Password: hashed,
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return false, err
	}
	utils.InfoLogger.WithField("email", email).Info("Admin account seeded")
	return true, nil
}
