package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DemoAPIKey is NASA's shared, rate-limited demonstration key. It is
// used when no real key is configured; main logs a warning in that case.
const DemoAPIKey = "DEMO_KEY"

type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Archive  ArchiveConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
}

type ServerConfig struct {
	HTTPPort  string
	StaticDir string
}

type UpstreamConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type CacheConfig struct {
	Backend string // "memory" or "redis"
	TTL     time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type ArchiveConfig struct {
	Enabled bool
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type KafkaConfig struct {
	Brokers []string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("APOD_GATEWAY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Operational knobs named by the deployment environment.
	viper.BindEnv("server.httpport", "PORT")
	viper.BindEnv("upstream.apikey", "NASA_API_KEY")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// The defaults are a complete configuration; only a malformed
		// file is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if !strings.HasPrefix(config.Server.HTTPPort, ":") {
		config.Server.HTTPPort = ":" + config.Server.HTTPPort
	}

	if config.Upstream.APIKey == "" {
		config.Upstream.APIKey = DemoAPIKey
	}

	return &config, nil
}

// UsingDemoKey reports whether the gateway runs on NASA's shared
// rate-limited demo key instead of a configured one.
func (c *Config) UsingDemoKey() bool {
	return c.Upstream.APIKey == DemoAPIKey
}

func setDefaults() {
	viper.SetDefault("server.httpport", "3000")
	viper.SetDefault("server.staticdir", "./web/static")

	viper.SetDefault("upstream.baseurl", "https://api.nasa.gov")
	viper.SetDefault("upstream.apikey", "")
	viper.SetDefault("upstream.timeout", "10s")

	viper.SetDefault("cache.backend", "memory")
	viper.SetDefault("cache.ttl", "1h")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("archive.enabled", false)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "apod")
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("kafka.brokers", []string{})
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
