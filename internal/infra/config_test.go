package infra

import "testing"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("GEMINI_API_KEY", "key")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.StorageBackend != "file" {
		t.Fatalf("StorageBackend = %q, want file", cfg.StorageBackend)
	}
	if cfg.VariantsPerRun != 4 {
		t.Fatalf("VariantsPerRun = %d, want 4", cfg.VariantsPerRun)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Fatalf("MaxUploadBytes = %d, want %d", cfg.MaxUploadBytes, 10<<20)
	}
	if cfg.ResultCap != 0 {
		t.Fatalf("ResultCap = %d, want 0", cfg.ResultCap)
	}
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("GEMINI_API_KEY", "key")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig() without JWT_SECRET succeeded")
	}

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("GEMINI_API_KEY", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig() without GEMINI_API_KEY succeeded")
	}
}

func TestLoadConfigValidatesS3Backend(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STORAGE_BACKEND", "s3")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig() for s3 without bucket succeeded")
	}

	t.Setenv("S3_BUCKET", "headshots")
	t.Setenv("S3_PUBLIC_BASE_URL", "https://cdn.example.com")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.S3Bucket != "headshots" {
		t.Fatalf("S3Bucket = %q", cfg.S3Bucket)
	}
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STORAGE_BACKEND", "ftp")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig() with unknown backend succeeded")
	}
}

func TestLoadConfigParsesCORSOrigins(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com ,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("origins = %v, want 2 entries", cfg.CORSAllowedOrigins)
	}
}
