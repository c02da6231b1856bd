package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/calibre-xmnote/internal/logger"
	"github.com/mrlokans/calibre-xmnote/internal/validate"
)

type SettingsController struct {
	store       DeviceSettingsStore
	portEnabled bool
	log         logger.Logger
}

func NewSettingsController(store DeviceSettingsStore, portEnabled bool, log logger.Logger) *SettingsController {
	return &SettingsController{
		store:       store,
		portEnabled: portEnabled,
		log:         log,
	}
}

type SettingsResponse struct {
	ServerIPAddr string `json:"server_ip_addr"`
	IPSource     string `json:"server_ip_addr_source"`
	ServerPort   string `json:"server_port"`
	PortSource   string `json:"server_port_source"`
	PortEnabled  bool   `json:"port_enabled"`
}

// SettingsRequest mirrors the settings form. ServerPort is optional.
type SettingsRequest struct {
	ServerIPAddr string `json:"server_ip_addr"`
	ServerPort   string `json:"server_port"`
}

func (s *SettingsController) response() SettingsResponse {
	device := s.store.Device()
	return SettingsResponse{
		ServerIPAddr: device.IPAddr.Value,
		IPSource:     device.IPAddr.Source,
		ServerPort:   device.Port.Value,
		PortSource:   device.Port.Source,
		PortEnabled:  s.portEnabled,
	}
}

// Get handles GET /api/settings.
func (s *SettingsController) Get(c *gin.Context) {
	c.JSON(http.StatusOK, s.response())
}

// Update handles PUT /api/settings. Invalid values are rejected with the
// dialog text and nothing is saved.
func (s *SettingsController) Update(c *gin.Context) {
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := s.store.Save(req.ServerIPAddr, req.ServerPort); err != nil {
		var valErr *validate.ValidationError
		if errors.As(err, &valErr) {
			respondDialogError(c, err, nil)
			return
		}
		respondInternalError(c, s.log, err, "save settings")
		return
	}

	s.log.Info("device settings saved", logger.String("server_ip_addr", req.ServerIPAddr))
	c.JSON(http.StatusOK, s.response())
}

// Reset handles DELETE /api/settings.
func (s *SettingsController) Reset(c *gin.Context) {
	if err := s.store.Reset(); err != nil {
		respondInternalError(c, s.log, err, "reset settings")
		return
	}
	c.JSON(http.StatusOK, s.response())
}
