package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"taskpad/internal/order"
)

const (
	AppName               = "taskpad"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "taskpad.db"
	DefaultLogName        = "taskpad.log"
	EnvConfigPath         = "TASKPAD_CONFIG"
)

type Keymap struct {
	Quit      string `toml:"quit"`
	Add       string `toml:"add"`
	Up        string `toml:"up"`
	Down      string `toml:"down"`
	Left      string `toml:"left"`
	Right     string `toml:"right"`
	Toggle    string `toml:"toggle"`
	Delete    string `toml:"delete"`
	Detail    string `toml:"detail"`
	Confirm   string `toml:"confirm"`
	Cancel    string `toml:"cancel"`
	Edit      string `toml:"edit"`
	NextView  string `toml:"next_view"`
	PrevMonth string `toml:"prev_month"`
	NextMonth string `toml:"next_month"`
}

type Importance struct {
	HorizonDays  int    `toml:"horizon_days"`
	Limit        int    `toml:"limit"`
	UrgentWindow string `toml:"urgent_window"`
}

type Config struct {
	DBPath      string     `toml:"db_path"`
	LogLevel    string     `toml:"log_level"`
	LogFormat   string     `toml:"log_format"`
	LogPath     string     `toml:"log_path"`
	DefaultView string     `toml:"default_view"`
	Importance  Importance `toml:"importance"`
	Keys        Keymap     `toml:"keys"`
}

// UrgentWindow parses Importance.UrgentWindow, falling back to the default
// for empty or invalid values.
func (c Config) UrgentWindow() time.Duration {
	d, err := time.ParseDuration(c.Importance.UrgentWindow)
	if err != nil || d <= 0 {
		return order.DefaultUrgentWindow
	}
	return d
}

// ResolveConfigPath picks $TASKPAD_CONFIG, then the per-user config dir,
// then the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, AppName, DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.fillDefaults(filepath.Dir(path))
	return cfg, nil
}

func (c *Config) fillDefaults(dir string) {
	def := defaultConfig(dir)
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.LogPath == "" {
		c.LogPath = def.LogPath
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = def.LogFormat
	}
	if c.DefaultView == "" {
		c.DefaultView = def.DefaultView
	}
	if c.Importance.HorizonDays <= 0 {
		c.Importance.HorizonDays = def.Importance.HorizonDays
	}
	if c.Importance.Limit <= 0 {
		c.Importance.Limit = def.Importance.Limit
	}
	if c.Importance.UrgentWindow == "" {
		c.Importance.UrgentWindow = def.Importance.UrgentWindow
	}
	fillKey(&c.Keys.Quit, def.Keys.Quit)
	fillKey(&c.Keys.Add, def.Keys.Add)
	fillKey(&c.Keys.Up, def.Keys.Up)
	fillKey(&c.Keys.Down, def.Keys.Down)
	fillKey(&c.Keys.Left, def.Keys.Left)
	fillKey(&c.Keys.Right, def.Keys.Right)
	fillKey(&c.Keys.Toggle, def.Keys.Toggle)
	fillKey(&c.Keys.Delete, def.Keys.Delete)
	fillKey(&c.Keys.Detail, def.Keys.Detail)
	fillKey(&c.Keys.Confirm, def.Keys.Confirm)
	fillKey(&c.Keys.Cancel, def.Keys.Cancel)
	fillKey(&c.Keys.Edit, def.Keys.Edit)
	fillKey(&c.Keys.NextView, def.Keys.NextView)
	fillKey(&c.Keys.PrevMonth, def.Keys.PrevMonth)
	fillKey(&c.Keys.NextMonth, def.Keys.NextMonth)
}

func fillKey(k *string, def string) {
	if *k == "" {
		*k = def
	}
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig(dir string) Config {
	return Config{
		DBPath:      filepath.Join(dir, DefaultDBName),
		LogLevel:    "info",
		LogFormat:   "text",
		LogPath:     filepath.Join(dir, DefaultLogName),
		DefaultView: "active",
		Importance: Importance{
			HorizonDays:  order.DefaultHorizonDays,
			Limit:        order.DefaultImportantLimit,
			UrgentWindow: order.DefaultUrgentWindow.String(),
		},
		Keys: Keymap{
			Quit:      "q",
			Add:       "a",
			Up:        "k",
			Down:      "j",
			Left:      "h",
			Right:     "l",
			Toggle:    " ",
			Delete:    "d",
			Detail:    "enter",
			Confirm:   "enter",
			Cancel:    "esc",
			Edit:      "e",
			NextView:  "tab",
			PrevMonth: "[",
			NextMonth: "]",
		},
	}
}
