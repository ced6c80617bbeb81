package systems

import (
	"encoding/json"
	"fmt"

	cfg "github.com/automoto/brickbrawl/config"
	"github.com/automoto/brickbrawl/logging"
	"github.com/quasilyte/gdata"
)

const settingsItem = "settings"

// SavedSettings represents the settings data stored on disk
type SavedSettings struct {
	ServerAddress string  `json:"serverAddress"`
	PlayerName    string  `json:"playerName"`
	Deadzone      float64 `json:"deadzone"`
}

var gdataManager *gdata.Manager

// InitPersistence initializes the gdata manager for settings storage
func InitPersistence() error {
	m, err := gdata.Open(gdata.Config{
		AppName: "brickbrawl",
	})
	if err != nil {
		return fmt.Errorf("open settings store: %w", err)
	}
	gdataManager = m
	return nil
}

// LoadSettings loads settings from disk. Returns nil with no error when
// persistence is unavailable or nothing was saved yet.
func LoadSettings() (*SavedSettings, error) {
	if gdataManager == nil {
		return nil, nil
	}

	data, err := gdataManager.LoadItem(settingsItem)
	if err != nil {
		logging.Log.Warnw("could not load settings", "error", err)
		return nil, nil
	}
	return decodeSettings(data)
}

// SaveSettings saves settings to disk
func SaveSettings(s *SavedSettings) error {
	if gdataManager == nil {
		return nil
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := gdataManager.SaveItem(settingsItem, data); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func decodeSettings(data []byte) (*SavedSettings, error) {
	if len(data) == 0 {
		// No saved settings yet, use defaults
		return nil, nil
	}
	var settings SavedSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return &settings, nil
}

// ApplySavedSettingsGlobal copies saved values into the global config.
// Used during startup before any scene is created; zero fields keep defaults.
func ApplySavedSettingsGlobal(saved *SavedSettings) {
	if saved == nil {
		return
	}
	if saved.ServerAddress != "" {
		cfg.Network.DefaultAddress = saved.ServerAddress
	}
	if saved.PlayerName != "" {
		cfg.Network.DefaultPlayerName = saved.PlayerName
	}
	if saved.Deadzone > 0 && saved.Deadzone < 1 {
		cfg.Input.Deadzone = saved.Deadzone
	}
}

// CurrentSettings snapshots the persisted subset of the global config.
func CurrentSettings() *SavedSettings {
	return &SavedSettings{
		ServerAddress: cfg.Network.DefaultAddress,
		PlayerName:    cfg.Network.DefaultPlayerName,
		Deadzone:      cfg.Input.Deadzone,
	}
}
