package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config is the process configuration, read from the environment. A .env file
// in the working directory is loaded first when present.
type Config struct {
	Env      string
	HTTPPort string

	// DatabaseURL selects postgres; with it unset the service runs on a
	// local sqlite file at DBPath.
	DatabaseURL string
	DBPath      string

	RedisAddr    string
	KafkaBrokers string
	Compression  string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	JWTSecret string

	GenerateTimeout time.Duration
	SourceMaxAge    time.Duration
	ReaperSchedule  string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:      getenv("ENV", "development"),
		HTTPPort: getenv("PORT", "4020"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBPath:      getenv("CONTENTPIPE_DB_PATH", "./.tmp/db/contentpipe.db"),

		RedisAddr:    os.Getenv("REDIS_ADDR"),
		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),
		Compression:  os.Getenv("CONTENTPIPE_COMPRESSION"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getenv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GenerateTimeout: getduration("GENERATE_TIMEOUT", 2*time.Minute),
		SourceMaxAge:    getduration("SOURCE_MAX_AGE", time.Hour),
		ReaperSchedule:  getenv("REAPER_SCHEDULE", "@every 5m"),
	}
}

// GetDb opens the configured database and panics on failure, the service
// cannot run without its store.
func GetDb(cnf *Config) *gorm.DB {
	var db *gorm.DB
	var err error

	if cnf.DatabaseURL != "" {
		db, err = gorm.Open(postgres.Open(cnf.DatabaseURL), &gorm.Config{})
	} else {
		if err = os.MkdirAll(filepath.Dir(cnf.DBPath), os.ModePerm); err != nil {
			logrus.Fatalf("error creating db directory: %v", err)
		}
		db, err = gorm.Open(sqlite.Open(cnf.DBPath), &gorm.Config{})
	}
	if err != nil {
		logrus.Fatalf("error connecting to database: %v", err)
	}

	return db
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logrus.Warnf("invalid duration for %s: %v, using %s", key, err, fallback)
		return fallback
	}
	return d
}
