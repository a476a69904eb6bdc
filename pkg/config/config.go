package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App          AppConfig
	Server       ServerConfig
	Database     DatabaseConfig
	JWT          JWTConfig
	Mailjet      MailjetConfig
	PatternIndex PatternIndexConfig
	Redis        RedisConfig
	Allocator    AllocatorConfig
	Scheduler    SchedulerConfig
}

type MailjetConfig struct {
	MailjetBaseUrl           string
	MailjetBasicAuthUsername string
	MailjetBasicAuthPassword string
	MailjetSenderEmail       string
	MailjetSenderName        string
}

type AppConfig struct {
	Name                    string
	Version                 string
	Environment             string
	AppDeploymentUrl        string
	AppEmailVerificationKey string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
}

type PatternIndexConfig struct {
	BaseUrl                  string
	BasicAuthUsername        string
	BasicAuthPassword        string
	WebhookVerificationToken string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type AllocatorConfig struct {
	// DefaultsFile optionally points at a YAML file overriding the built-in
	// allocator tunables; per-pool DB rows still win over both.
	DefaultsFile string
}

type SchedulerConfig struct {
	Enabled     bool
	RefreshSpec string
	DigestEmail string
	DigestName  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(os.Getenv("REDIS_DB"))
	if err != nil {
		return nil, errors.New("missing redis database")
	}

	schedulerEnabled, _ := strconv.ParseBool(getEnv("SCHEDULER_ENABLED", "false"))

	cfg := &Config{
		App: AppConfig{
			Name:                    getEnv("APP_NAME", "AdPulse API"),
			Version:                 getEnv("APP_VERSION", "1.0.0"),
			Environment:             getEnv("APP_ENV", "development"),
			AppDeploymentUrl:        getEnv("APP_DEPLOYMENT_URL", ""),
			AppEmailVerificationKey: getEnv("APP_EMAIL_VERIFICATION_KEY", ""),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "adpulse"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Mailjet: MailjetConfig{
			MailjetBaseUrl:           getEnv("MAILJET_BASE_URL", ""),
			MailjetBasicAuthUsername: getEnv("MAILJET_BASIC_AUTH_USERNAME", ""),
			MailjetBasicAuthPassword: getEnv("MAILJET_BASIC_AUTH_PASSWORD", ""),
			MailjetSenderEmail:       getEnv("MAILJET_SENDER_EMAIL", ""),
			MailjetSenderName:        getEnv("MAILJET_SENDER_NAME", ""),
		},
		PatternIndex: PatternIndexConfig{
			BaseUrl:                  getEnv("PATTERN_INDEX_BASE_URL", ""),
			BasicAuthUsername:        getEnv("PATTERN_INDEX_BASIC_AUTH_USERNAME", ""),
			BasicAuthPassword:        getEnv("PATTERN_INDEX_BASIC_AUTH_PASSWORD", ""),
			WebhookVerificationToken: getEnv("PATTERN_INDEX_WEBHOOK_VERIFICATION_TOKEN", ""),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Allocator: AllocatorConfig{
			DefaultsFile: getEnv("ALLOCATOR_DEFAULTS_FILE", ""),
		},
		Scheduler: SchedulerConfig{
			Enabled:     schedulerEnabled,
			RefreshSpec: getEnv("ALLOCATOR_REFRESH_SPEC", "0 */10 * * * *"),
			DigestEmail: getEnv("ALLOCATOR_DIGEST_EMAIL", ""),
			DigestName:  getEnv("ALLOCATOR_DIGEST_NAME", ""),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.App.AppDeploymentUrl == "" {
		return nil, errors.New("missing app deployment url")
	}

	if cfg.App.AppEmailVerificationKey == "" {
		return nil, errors.New("missing app email verification key")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}
