package settingsstore

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/calibre-xmnote/internal/database"
	"github.com/mrlokans/calibre-xmnote/internal/entities"
	"github.com/mrlokans/calibre-xmnote/internal/validate"
)

func setupTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestServerIPAddr(t *testing.T) {
	t.Run("returns database value when set", func(t *testing.T) {
		db := setupTestDB(t)
		require.NoError(t, db.SetSetting(entities.SettingKeyServerIPAddr, "192.168.0.9"))

		store := New(db, "10.0.0.1", "")

		assert.Equal(t, "192.168.0.9", store.ServerIPAddr())
		assert.Equal(t, SourceDatabase, store.ServerIPAddrInfo().Source)
	})

	t.Run("returns environment value when database not set", func(t *testing.T) {
		db := setupTestDB(t)

		store := New(db, "10.0.0.1", "")

		assert.Equal(t, "10.0.0.1", store.ServerIPAddr())
		assert.Equal(t, SourceEnvironment, store.ServerIPAddrInfo().Source)
	})

	t.Run("returns default when nothing else set", func(t *testing.T) {
		db := setupTestDB(t)

		store := New(db, "", "")

		assert.Equal(t, "192.168.0.1", store.ServerIPAddr())
		assert.Equal(t, SourceDefault, store.ServerIPAddrInfo().Source)
	})
}

func TestServerPort(t *testing.T) {
	db := setupTestDB(t)
	store := New(db, "", "")
	assert.Equal(t, "8080", store.ServerPort())

	store = New(db, "", "9001")
	assert.Equal(t, "9001", store.ServerPort())

	require.NoError(t, db.SetSetting(entities.SettingKeyServerPort, "9002"))
	assert.Equal(t, "9002", store.ServerPort())
}

func TestSave(t *testing.T) {
	t.Run("saves valid address and port", func(t *testing.T) {
		db := setupTestDB(t)
		store := New(db, "", "")

		require.NoError(t, store.Save("192.168.0.2", "9090"))

		device := store.Device()
		assert.Equal(t, ValueInfo{Value: "192.168.0.2", Source: SourceDatabase}, device.IPAddr)
		assert.Equal(t, ValueInfo{Value: "9090", Source: SourceDatabase}, device.Port)
	})

	t.Run("empty port leaves port untouched", func(t *testing.T) {
		db := setupTestDB(t)
		store := New(db, "", "")

		require.NoError(t, store.Save("192.168.0.2", ""))

		assert.Equal(t, SourceDefault, store.ServerPortInfo().Source)
	})

	t.Run("invalid address is rejected and nothing is written", func(t *testing.T) {
		db := setupTestDB(t)
		store := New(db, "", "")

		err := store.Save("192.168.0.300", "9090")

		var verr *validate.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "server_ip_addr", verr.Field)
		assert.Equal(t, SourceDefault, store.ServerIPAddrInfo().Source)
		assert.Equal(t, SourceDefault, store.ServerPortInfo().Source)
	})

	t.Run("invalid port is rejected and nothing is written", func(t *testing.T) {
		db := setupTestDB(t)
		store := New(db, "", "")

		err := store.Save("192.168.0.3", "port")

		assert.ErrorIs(t, err, validate.ErrPortNotNumeric)
		assert.Equal(t, "192.168.0.1", store.ServerIPAddr())
	})
}

func TestReset(t *testing.T) {
	db := setupTestDB(t)
	store := New(db, "10.1.1.1", "")

	require.NoError(t, store.Save("192.168.0.2", "9090"))
	require.NoError(t, store.Reset())

	assert.Equal(t, "10.1.1.1", store.ServerIPAddr())
	assert.Equal(t, "8080", store.ServerPort())

	// nothing left to reset
	assert.NoError(t, store.Reset())
}
