package database

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sefazor/crowdfund-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db))
	return db
}

func TestRunMigrationsSeedsCatalogOnce(t *testing.T) {
	db := newTestDB(t)

	var campaigns int64
	require.NoError(t, db.Model(&models.Campaign{}).Count(&campaigns).Error)
	assert.EqualValues(t, 1, campaigns)

	var packages int64
	require.NoError(t, db.Model(&models.Package{}).Count(&packages).Error)
	assert.EqualValues(t, 4, packages)

	// İkinci çalıştırma katalog kayıtlarını çoğaltmaz
	require.NoError(t, RunMigrations(db))
	require.NoError(t, db.Model(&models.Campaign{}).Count(&campaigns).Error)
	assert.EqualValues(t, 1, campaigns)
}

func TestEnsureParkingRecords(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, EnsureParkingRecords(db, 900, 901))

	var user models.User
	require.NoError(t, db.First(&user, 900).Error)
	assert.Equal(t, "parking@system.invalid", user.Email)

	var pledge models.Pledge
	require.NoError(t, db.First(&pledge, 901).Error)
	assert.Equal(t, uint(900), pledge.UserID)
	assert.Equal(t, models.PledgeStatusCancelled, pledge.Status)

	// Tekrarlanan çağrı mevcut kayıtlara dokunmaz
	require.NoError(t, EnsureParkingRecords(db, 900, 901))

	var users int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", 900).Count(&users).Error)
	assert.EqualValues(t, 1, users)
}
