package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BearBump/CourierGate/internal/models"
	"go.yaml.in/yaml/v4"
)

type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	Redis       RedisConfig       `yaml:"redis"`
	CourierGate CourierGateConfig `yaml:"couriergate"`
	Courier     CourierConfig     `yaml:"courier"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

type KafkaConfig struct {
	Host                    string `yaml:"host"`
	Port                    int    `yaml:"port"`
	LicenseGrantedTopicName string `yaml:"license_granted_topic_name"`
	LicenseIssuedTopicName  string `yaml:"license_issued_topic_name"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type CourierGateConfig struct {
	HTTPAddr string `yaml:"http_addr"`

	// лимит запросов /courier/status на один ключ, 0: без лимита
	RateLimitPerMinute      int `yaml:"rate_limit_per_minute"`
	AggregateTimeoutSeconds int `yaml:"aggregate_timeout_seconds"`
	SessionTTLSeconds       int `yaml:"session_ttl_seconds"`

	WorkerHTTPAddr      string `yaml:"worker_http_addr"`
	WorkerConsumerGroup string `yaml:"worker_consumer_group"`
}

// CourierConfig: настройки провайдеров. Секреты отсюда попадают в Postgres
// только при первом старте, дальше источник истины: таблица courier_settings.
type CourierConfig struct {
	DataSource         string   `yaml:"data_source"` // "hoorin" | "direct"
	CacheDurationHours *int     `yaml:"cache_duration_hours"`
	HoorinAPIKeys      []string `yaml:"hoorin_api_keys"`
	PathaoBearerToken  string   `yaml:"pathao_bearer_token"`
	RedXPhone          string   `yaml:"redx_phone"`
	RedXPassword       string   `yaml:"redx_password"`
	SteadfastEmail     string   `yaml:"steadfast_email"`
	SteadfastPassword  string   `yaml:"steadfast_password"`

	HoorinBaseURL    string `yaml:"hoorin_base_url"`
	SteadfastBaseURL string `yaml:"steadfast_base_url"`
	RedXAPIBaseURL   string `yaml:"redx_api_base_url"`
	RedXBaseURL      string `yaml:"redx_base_url"`
	PathaoBaseURL    string `yaml:"pathao_base_url"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" | "json"
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return &config, nil
}

func (d DatabaseConfig) ConnString() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.Username, d.Password, d.Host, d.Port, d.DBName, sslMode)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (k KafkaConfig) Brokers() []string {
	return []string{fmt.Sprintf("%s:%d", k.Host, k.Port)}
}

func (k KafkaConfig) GrantedTopic() string {
	if k.LicenseGrantedTopicName == "" {
		return "license.granted"
	}
	return k.LicenseGrantedTopicName
}

func (k KafkaConfig) IssuedTopic() string {
	if k.LicenseIssuedTopicName == "" {
		return "license.issued"
	}
	return k.LicenseIssuedTopicName
}

func (c CourierGateConfig) AggregateTimeout() time.Duration {
	if c.AggregateTimeoutSeconds <= 0 {
		return 45 * time.Second
	}
	return time.Duration(c.AggregateTimeoutSeconds) * time.Second
}

func (c CourierGateConfig) SessionTTL() time.Duration {
	if c.SessionTTLSeconds <= 0 {
		return 3 * time.Hour
	}
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

// SeedSettings: начальная строка courier_settings.
func (c CourierConfig) SeedSettings() models.CourierSettings {
	ds := c.DataSource
	if ds == "" {
		ds = models.DataSourceHoorin
	}
	return models.CourierSettings{
		DataSource:         ds,
		CacheDurationHours: c.CacheDurationHours,
		HoorinAPIKeys:      strings.Join(c.HoorinAPIKeys, "\n"),
		PathaoBearerToken:  c.PathaoBearerToken,
		RedexPhone:         c.RedXPhone,
		RedexPassword:      c.RedXPassword,
		SteadfastEmail:     c.SteadfastEmail,
		SteadfastPassword:  c.SteadfastPassword,
	}
}
