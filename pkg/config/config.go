package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Survey   SurveyConfig
	Typeform TypeformConfig
	Cron     CronConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port         string
	AllowOrigins []string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	TimeZone    string
	AutoMigrate bool
}

// RedisConfig is optional. An empty host disables the selector run lock.
type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	// the lock needs one connection at a time, so the pool stays small
	RedisPoolSize    int
	RedisDialTimeout time.Duration
	RedisOpTimeout   time.Duration
}

type SurveyConfig struct {
	DeliveryLagDays    int
	CooldownDays       int
	MaxUnfilled        int
	ExcludedCategories []string
	Location           *time.Location
}

type TypeformConfig struct {
	Host          string
	FormV1        string
	FormV2        string
	AgeField      string
	GenderField   string
	WebhookSecret string
}

type CronConfig struct {
	Schedule  string
	ExportDir string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	redisPool, err := getEnvInt("REDIS_POOL_SIZE", 2)
	if err != nil {
		return nil, err
	}

	redisDial, err := getEnvDuration("REDIS_DIAL_TIMEOUT", 2*time.Second)
	if err != nil {
		return nil, err
	}

	redisOp, err := getEnvDuration("REDIS_OP_TIMEOUT", time.Second)
	if err != nil {
		return nil, err
	}

	lag, err := getEnvInt("SURVEY_DELIVERY_LAG_DAYS", 30)
	if err != nil {
		return nil, err
	}

	cooldown, err := getEnvInt("SURVEY_COOLDOWN_DAYS", 90)
	if err != nil {
		return nil, err
	}

	maxUnfilled, err := getEnvInt("SURVEY_MAX_UNFILLED", 3)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(getEnv("SURVEY_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid SURVEY_TIMEZONE: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "NPS Survey Service"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			AllowOrigins: getEnvList("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"}),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			Name:        getEnv("DB_NAME", "product_survey"),
			SSLMode:     getEnv("DB_SSL_MODE", "disable"),
			TimeZone:    getEnv("DB_TIMEZONE", "UTC"),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", ""),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,

			RedisPoolSize:    redisPool,
			RedisDialTimeout: redisDial,
			RedisOpTimeout:   redisOp,
		},
		Survey: SurveyConfig{
			DeliveryLagDays:    lag,
			CooldownDays:       cooldown,
			MaxUnfilled:        maxUnfilled,
			ExcludedCategories: getEnvList("SURVEY_EXCLUDED_CATEGORIES", []string{"Netraa", "Conditioner"}),
			Location:           loc,
		},
		Typeform: TypeformConfig{
			Host:          getEnv("TYPEFORM_HOST", "nathabit.typeform.com"),
			FormV1:        getEnv("TYPEFORM_FORM_V1", "RVcdBbTG"),
			FormV2:        getEnv("TYPEFORM_FORM_V2", "bXFb9h7f"),
			AgeField:      getEnv("TYPEFORM_AGE_FIELD", "r7TMRukeAETP"),
			GenderField:   getEnv("TYPEFORM_GENDER_FIELD", "AYd3C9b0fXiJ"),
			WebhookSecret: getEnv("TYPEFORM_WEBHOOK_SECRET", ""),
		},
		Cron: CronConfig{
			Schedule:  getEnv("SURVEY_CRON_SCHEDULE", ""),
			ExportDir: getEnv("SURVEY_EXPORT_DIR", "exports"),
		},
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Typeform.FormV1 == cfg.Typeform.FormV2 {
		return nil, errors.New("typeform V1 and V2 form ids must differ")
	}

	if lag <= 0 || cooldown < 0 || maxUnfilled <= 0 {
		return nil, errors.New("survey day windows and unfilled limit must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return n, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return d, nil
}

func getEnvBool(key string, defaultVal bool) bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch val {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return defaultVal
	}
}

// getEnvList splits a comma separated value, dropping empty entries.
func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}

	return out
}
