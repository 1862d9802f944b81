package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-backoffice/gateway"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestMigrate_WithLocalGateway(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Migrate(db, gateway.NewStore(db)))

	assert.True(t, db.Migrator().HasTable(&models.User{}))
	for _, table := range []string{gateway.TableMenuItem, gateway.TableOrder, gateway.TableOrderItem, gateway.TableInventoryItem} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestMigrate_UsersOnly(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Migrate(db, nil))

	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.False(t, db.Migrator().HasTable(gateway.TableMenuItem))
}

func TestSeedAdmin(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Migrate(db, nil))

	created, err := SeedAdmin(db, " Admin@Example.com ", "secret")
	require.NoError(t, err)
	assert.True(t, created)

	var admin models.User
	require.NoError(t, db.Where("email = ?", "admin@example.com").First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("secret")))

	// Seeding twice keeps the first account.
	created, err = SeedAdmin(db, "admin@example.com", "other")
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)

	created, err = SeedAdmin(db, "", "")
	require.NoError(t, err)
	assert.False(t, created)
}
