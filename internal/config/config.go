package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Backend     BackendConfig     `yaml:"backend"`
	Gallery     GalleryConfig     `yaml:"gallery"`
	Share       ShareConfig       `yaml:"share"`
	Export      ExportConfig      `yaml:"export"`
	Session     SessionConfig     `yaml:"session"`
	Placeholder PlaceholderConfig `yaml:"placeholder"`
	Storage     StorageConfig     `yaml:"storage"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type BackendConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"` // 0 = таймаут HTTP-клиента по умолчанию
}

type GalleryConfig struct {
	PageSize           int           `yaml:"page_size"`
	ProgressResetDelay time.Duration `yaml:"progress_reset_delay"`
	PreviewCount       int           `yaml:"preview_count"` // Количество заглушек в режиме предпросмотра
}

type ShareConfig struct {
	GrantTTL time.Duration `yaml:"grant_ttl"`
}

type ExportConfig struct {
	CountryCode  string        `yaml:"country_code"`
	PhonePattern string        `yaml:"phone_pattern"`
	Workers      int           `yaml:"workers"`
	QueueSize    int           `yaml:"queue_size"`
	JobTTL       time.Duration `yaml:"job_ttl"`
}

type SessionConfig struct {
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	MaxSessions  int           `yaml:"max_sessions"`
	CookieMaxAge int           `yaml:"cookie_max_age"`
}

type PlaceholderConfig struct {
	Thumbnail int `yaml:"thumbnail"`
	Preview   int `yaml:"preview"`
	Quality   int `yaml:"quality"` // JPEG quality (0-100)
}

type StorageConfig struct {
	LogsPath string `yaml:"logs_path"`
}

// Load читает конфигурацию из YAML-файла и применяет переменные окружения
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	// .env не обязателен
	_ = godotenv.Load()
	cfg.applyEnvOverrides()

	// Установка значений по умолчанию
	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GALLERY_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("GALLERY_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("GALLERY_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("GALLERY_LOGS_PATH"); v != "" {
		c.Storage.LogsPath = v
	}
}

func (c *Config) setDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Backend.URL == "" {
		c.Backend.URL = "http://localhost:3000"
	}
	if c.Gallery.PageSize == 0 {
		c.Gallery.PageSize = 20
	}
	if c.Gallery.ProgressResetDelay == 0 {
		c.Gallery.ProgressResetDelay = 500 * time.Millisecond
	}
	if c.Gallery.PreviewCount == 0 {
		c.Gallery.PreviewCount = 10
	}
	if c.Share.GrantTTL == 0 {
		c.Share.GrantTTL = 24 * time.Hour
	}
	if c.Export.CountryCode == "" {
		c.Export.CountryCode = "84"
	}
	if c.Export.PhonePattern == "" {
		c.Export.PhonePattern = `^84\d{8,10}$`
	}
	if c.Export.Workers == 0 {
		c.Export.Workers = 2
	}
	if c.Export.QueueSize == 0 {
		c.Export.QueueSize = 100
	}
	if c.Export.JobTTL == 0 {
		c.Export.JobTTL = 10 * time.Minute
	}
	if c.Session.IdleTimeout == 0 {
		c.Session.IdleTimeout = 30 * time.Minute
	}
	if c.Session.MaxSessions == 0 {
		c.Session.MaxSessions = 10000
	}
	if c.Session.CookieMaxAge == 0 {
		c.Session.CookieMaxAge = 86400
	}
	if c.Placeholder.Thumbnail == 0 {
		c.Placeholder.Thumbnail = 300
	}
	if c.Placeholder.Preview == 0 {
		c.Placeholder.Preview = 1200
	}
	if c.Placeholder.Quality == 0 {
		c.Placeholder.Quality = 85
	}
	if c.Storage.LogsPath == "" {
		c.Storage.LogsPath = "./logs"
	}
}

// Addr возвращает адрес для прослушивания
func (c *Config) Addr() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}
