package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ADMIN_USERNAME", "")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("API_PREFIX", "")
	t.Setenv("ASSET_BACKEND", "")

	cfg := Load()

	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, "admin123", cfg.AdminPassword)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, "*", cfg.CORSOrigins)
	assert.Equal(t, 12*time.Hour, cfg.JWTExpiry)
	assert.True(t, cfg.AutoMigrate)
	assert.False(t, cfg.AdminAuthRequired)
	assert.False(t, cfg.AssetStoreConfigured())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ASSET_BACKEND", "S3")
	t.Setenv("S3_BUCKET", "complaint-images")
	t.Setenv("ASSET_PUBLIC_URL", "https://images.example.org/")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("STATS_CACHE_TTL", "30s")

	cfg := Load()

	assert.Equal(t, AssetBackendS3, cfg.AssetBackend)
	assert.Equal(t, "https://images.example.org", cfg.AssetPublicURL)
	assert.True(t, cfg.AssetStoreConfigured())
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 30*time.Second, cfg.StatsCacheTTL)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("AUTO_MIGRATE", "maybe")
	t.Setenv("MAX_UPLOAD_BYTES", "lots")
	t.Setenv("JWT_EXPIRY", "forever")

	cfg := Load()

	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 10*1024*1024, cfg.MaxUploadBytes)
	assert.Equal(t, 12*time.Hour, cfg.JWTExpiry)
}

func TestAssetStoreConfigured_S3NeedsPublicURL(t *testing.T) {
	cfg := &Config{AssetBackend: AssetBackendS3, S3Bucket: "b"}
	assert.False(t, cfg.AssetStoreConfigured())

	cfg.AssetPublicURL = "https://pub.example.r2.dev"
	assert.True(t, cfg.AssetStoreConfigured())
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}
