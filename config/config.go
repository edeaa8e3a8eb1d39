// Ininicializing common application configuration
package config

import (
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	CMA           CMAConfig           `mapstructure:"cma"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	App           AppConfig           `mapstructure:"app"`
}

type ServerConfig struct {
	AppVersion     string `json:"appVersion"`
	Host           string `json:"host" validate:"required"`
	Port           string `json:"port" validate:"required"`
	Timeout        time.Duration
	Idle_timeout   time.Duration
	Env            string `json:"environment"`
	Mode           string `mapstructure:"mode"`
	RequestTimeout int    `mapstructure:"request_timeout"` // в секундах
}

// CMAConfig scopes every content management call to one space/environment.
type CMAConfig struct {
	BaseURL            string        `mapstructure:"base_url"`
	UploadURL          string        `mapstructure:"upload_url"`
	AccessToken        string        `mapstructure:"access_token"`
	SpaceID            string        `mapstructure:"space_id"`
	EnvironmentID      string        `mapstructure:"environment_id"`
	Timeout            time.Duration `mapstructure:"timeout"`
	RateLimit          float64       `mapstructure:"rate_limit"`
	ProcessingChecks   int           `mapstructure:"processing_checks"`
	ProcessingInterval time.Duration `mapstructure:"processing_interval"`
}

type StorageConfig struct {
	Parameters string `mapstructure:"parameters"` // redis | file
	BasePath   string `mapstructure:"base_path"`
}

type RedisConfig struct {
	URL      string `json:"URL"`
	Host     string `json:"host" validate:"required"`
	Port     int    `json:"port" validate:"required"`
	Password string `json:"password"`
	DB       int    `json:"db"`

	MaxRetries   int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type NotificationsConfig struct {
	Broker       string `mapstructure:"broker"` // kafka | rabbitmq
	KafkaBrokers string `mapstructure:"kafka_brokers"`
	KafkaTopic   string `mapstructure:"kafka_topic"`
	RabbitURL    string `mapstructure:"rabbit_url"`
	RabbitQueue  string `mapstructure:"rabbit_queue"`
}

type AppConfig struct {
	PreviewWidth    int           `mapstructure:"preview_width"`
	PreviewHeight   int           `mapstructure:"preview_height"`
	LocalesTTL      time.Duration `mapstructure:"locales_ttl"`
	DialogRetention time.Duration `mapstructure:"dialog_retention"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

func LoadConfig() (*viper.Viper, error) {

	viperInstance := viper.New()

	viperInstance.AddConfigPath("./config")
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	viperInstance.SetDefault("storage.parameters", "redis")
	viperInstance.SetDefault("storage.base_path", "./storage")
	viperInstance.SetDefault("cma.base_url", "https://api.contentful.com")
	viperInstance.SetDefault("cma.upload_url", "https://upload.contentful.com")
	viperInstance.SetDefault("cma.environment_id", "master")
	viperInstance.SetDefault("cma.processing_checks", 10)
	viperInstance.SetDefault("cma.processing_interval", 500*time.Millisecond)
	viperInstance.SetDefault("server.request_timeout", 30)
	viperInstance.SetDefault("app.locales_ttl", 5*time.Minute)
	viperInstance.SetDefault("app.dialog_retention", 10*time.Minute)
	viperInstance.SetDefault("app.cleanup_interval", time.Minute)

	err := viperInstance.ReadInConfig()

	if err != nil {
		return nil, err
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		log.Printf("unable to decode config into struct, %v", err)
		return nil, err
	}

	c.CMA.AccessToken = GetEnv("CMA_ACCESS_TOKEN", c.CMA.AccessToken)
	c.CMA.SpaceID = GetEnv("CMA_SPACE_ID", c.CMA.SpaceID)
	c.Redis.Password = GetEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Database.Password = GetEnv("POSTGRES_PASSWORD", c.Database.Password)

	return &c, nil
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
