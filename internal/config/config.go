package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Database
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	AutoMigrate bool

	// Admin
	AdminUsername     string
	AdminPassword     string
	AdminAuthRequired bool
	JWTSecret         string
	JWTExpiry         time.Duration

	// Asset store
	AssetBackend   string
	AssetPublicURL string
	AssetDir       string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3PathStyle    bool
	S3PublicRead   bool

	// Stats cache
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StatsCacheTTL time.Duration

	// Server
	Port            string
	APIPrefix       string
	CORSOrigins     string
	MaxUploadBytes  int
	SubmitRateLimit int

	// Observability
	LogRetentionDays int
	SentryDSN        string
	AppEnv           string
}

const (
	AssetBackendS3   = "s3"
	AssetBackendDisk = "disk"
)

func Load() *Config {
	return &Config{
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "sewage_complaints"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		AutoMigrate: getBool("AUTO_MIGRATE", true),

		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", "admin123"),
		AdminAuthRequired: getBool("ADMIN_AUTH_REQUIRED", false),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTExpiry:         parseDuration(getEnv("JWT_EXPIRY", "12h"), 12*time.Hour),

		AssetBackend:   strings.ToLower(getEnv("ASSET_BACKEND", "")),
		AssetPublicURL: strings.TrimRight(getEnv("ASSET_PUBLIC_URL", ""), "/"),
		AssetDir:       getEnv("ASSET_DIR", "uploads"),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3Region:       getEnv("S3_REGION", "auto"),
		S3Endpoint:     getEnv("S3_ENDPOINT", ""),
		S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("S3_SECRET_KEY", ""),
		S3PathStyle:    getBool("S3_PATH_STYLE", false),
		S3PublicRead:   getBool("S3_PUBLIC_READ", false),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),
		StatsCacheTTL: parseDuration(getEnv("STATS_CACHE_TTL", "1m"), time.Minute),

		Port:            getEnv("PORT", "8080"),
		APIPrefix:       getEnv("API_PREFIX", "/api"),
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
		MaxUploadBytes:  getInt("MAX_UPLOAD_BYTES", 10*1024*1024),
		SubmitRateLimit: getInt("SUBMIT_RATE_LIMIT", 20),

		LogRetentionDays: getInt("LOG_RETENTION_DAYS", 30),
		SentryDSN:        getEnv("SENTRY_DSN", ""),
		AppEnv:           getEnv("APP_ENV", "development"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// AssetStoreConfigured reports whether enough settings exist to build an asset store.
func (c *Config) AssetStoreConfigured() bool {
	switch c.AssetBackend {
	case AssetBackendS3:
		return c.S3Bucket != "" && c.AssetPublicURL != ""
	case AssetBackendDisk:
		return c.AssetDir != ""
	default:
		return false
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return b
}

func getInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
