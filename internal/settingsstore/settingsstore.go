package settingsstore

import (
	"fmt"

	"github.com/mrlokans/calibre-xmnote/internal/database"
	"github.com/mrlokans/calibre-xmnote/internal/entities"
	"github.com/mrlokans/calibre-xmnote/internal/validate"
)

const (
	SourceDatabase    = "database"
	SourceEnvironment = "environment"
	SourceDefault     = "default"
)

// Backend is the subset of the state database the store needs.
type Backend interface {
	GetSetting(key string) (*entities.Setting, error)
	SetSettings(values map[string]string) error
	DeleteSetting(key string) error
}

// Priority: database > environment > default
type SettingsStore struct {
	db      Backend
	envIP   string
	envPort string
}

// New builds a store. envIP and envPort are the values the process was
// started with (empty when unset); they are consulted only when the database
// has nothing saved.
func New(db Backend, envIP, envPort string) *SettingsStore {
	return &SettingsStore{db: db, envIP: envIP, envPort: envPort}
}

type ValueInfo struct {
	Value  string `json:"value"`
	Source string `json:"source"` // "database", "environment", or "default"
}

// DeviceSettings is the resolved target address as presented to users.
type DeviceSettings struct {
	IPAddr ValueInfo `json:"server_ip_addr"`
	Port   ValueInfo `json:"server_port"`
}

func (s *SettingsStore) resolve(key, env, fallback string) ValueInfo {
	setting, err := s.db.GetSetting(key)
	if err == nil && setting.Value != "" {
		return ValueInfo{Value: setting.Value, Source: SourceDatabase}
	}
	if env != "" {
		return ValueInfo{Value: env, Source: SourceEnvironment}
	}
	return ValueInfo{Value: fallback, Source: SourceDefault}
}

func (s *SettingsStore) ServerIPAddr() string {
	return s.ServerIPAddrInfo().Value
}

func (s *SettingsStore) ServerIPAddrInfo() ValueInfo {
	return s.resolve(entities.SettingKeyServerIPAddr, s.envIP, entities.DefaultServerIPAddr)
}

func (s *SettingsStore) ServerPort() string {
	return s.ServerPortInfo().Value
}

func (s *SettingsStore) ServerPortInfo() ValueInfo {
	return s.resolve(entities.SettingKeyServerPort, s.envPort, entities.DefaultServerPort)
}

func (s *SettingsStore) Device() DeviceSettings {
	return DeviceSettings{
		IPAddr: s.ServerIPAddrInfo(),
		Port:   s.ServerPortInfo(),
	}
}

// Save validates and persists a settings form submission. An empty port keeps
// the current port untouched. Nothing is written if any value is invalid.
func (s *SettingsStore) Save(ip, port string) error {
	if err := validate.IPAddress(ip); err != nil {
		return err
	}
	values := map[string]string{entities.SettingKeyServerIPAddr: ip}
	if port != "" {
		if err := validate.Port(port); err != nil {
			return err
		}
		values[entities.SettingKeyServerPort] = port
	}
	if err := s.db.SetSettings(values); err != nil {
		return fmt.Errorf("failed to save device settings: %w", err)
	}
	return nil
}

// Reset removes saved values so environment or defaults apply again.
func (s *SettingsStore) Reset() error {
	for _, key := range []string{entities.SettingKeyServerIPAddr, entities.SettingKeyServerPort} {
		if err := s.db.DeleteSetting(key); err != nil && !database.IsNotFound(err) {
			return err
		}
	}
	return nil
}
