package settings

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/calibre-xmnote/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "settings.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Setting{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewRepository(db)
}

func TestRepository_SetSetting_New(t *testing.T) {
	repo := setupTestDB(t)

	err := repo.SetSetting(entities.SettingKeyServerIPAddr, "192.168.0.2")
	require.NoError(t, err)

	setting, err := repo.GetSetting(entities.SettingKeyServerIPAddr)
	require.NoError(t, err)
	assert.Equal(t, entities.SettingKeyServerIPAddr, setting.Key)
	assert.Equal(t, "192.168.0.2", setting.Value)
}

func TestRepository_SetSetting_Overwrites(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.SetSetting(entities.SettingKeyServerPort, "8080"))
	require.NoError(t, repo.SetSetting(entities.SettingKeyServerPort, "9090"))

	setting, err := repo.GetSetting(entities.SettingKeyServerPort)
	require.NoError(t, err)
	assert.Equal(t, "9090", setting.Value)

	all, err := repo.All()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepository_GetSetting_Missing(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetSetting("nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_DeleteSetting(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.SetSetting(entities.SettingKeyServerIPAddr, "10.0.0.1"))
	require.NoError(t, repo.DeleteSetting(entities.SettingKeyServerIPAddr))

	_, err := repo.GetSetting(entities.SettingKeyServerIPAddr)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// deleting again is not an error
	assert.NoError(t, repo.DeleteSetting(entities.SettingKeyServerIPAddr))
}

func TestRepository_All(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.SetSetting(entities.SettingKeyServerIPAddr, "10.0.0.1"))
	require.NoError(t, repo.SetSetting(entities.SettingKeyServerPort, "2048"))

	all, err := repo.All()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		entities.SettingKeyServerIPAddr: "10.0.0.1",
		entities.SettingKeyServerPort:   "2048",
	}, all)
}
