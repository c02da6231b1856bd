package entities

import (
	"time"
)

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	SettingKeyServerIPAddr = "server_ip_addr"
	SettingKeyServerPort   = "server_port"
)

// Defaults applied when neither the database nor the environment has a value.
const (
	DefaultServerIPAddr = "192.168.0.1"
	DefaultServerPort   = "8080"
)
