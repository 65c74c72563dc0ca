package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"DAVSIM_LOG_LEVEL", "DAVSIM_LOG_FORMAT",
		"DAVSIM_DEFAULT_FILE_SIZE", "DAVSIM_DEFAULT_CONTENT", "DAVSIM_ERROR_USER",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Errorf("logging defaults = %s/%s", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.DefaultFileSize != 64 || cfg.DefaultContentChar != 'W' {
		t.Errorf("file defaults = %d/%c", cfg.DefaultFileSize, cfg.DefaultContentChar)
	}
	if cfg.ErrorUser != "erroruser" {
		t.Errorf("ErrorUser = %q", cfg.ErrorUser)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DAVSIM_LOG_LEVEL", "debug")
	t.Setenv("DAVSIM_LOG_FORMAT", "console")
	t.Setenv("DAVSIM_DEFAULT_FILE_SIZE", "128")
	t.Setenv("DAVSIM_DEFAULT_CONTENT", "Q")
	t.Setenv("DAVSIM_ERROR_USER", "blocked")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "console" {
		t.Errorf("logging = %s/%s", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.DefaultFileSize != 128 || cfg.DefaultContentChar != 'Q' {
		t.Errorf("file settings = %d/%c", cfg.DefaultFileSize, cfg.DefaultContentChar)
	}
	if cfg.ErrorUser != "blocked" {
		t.Errorf("ErrorUser = %q", cfg.ErrorUser)
	}
}

func TestLoadRejectsMultiByteContent(t *testing.T) {
	t.Setenv("DAVSIM_DEFAULT_CONTENT", "WW")
	if _, err := Load(); err == nil {
		t.Error("multi-byte content char accepted")
	}
}

func TestLoadRejectsNegativeSize(t *testing.T) {
	t.Setenv("DAVSIM_DEFAULT_CONTENT", "")
	t.Setenv("DAVSIM_DEFAULT_FILE_SIZE", "-1")
	if _, err := Load(); err == nil {
		t.Error("negative default size accepted")
	}
}

func TestUnparsableSizeFallsBack(t *testing.T) {
	t.Setenv("DAVSIM_DEFAULT_CONTENT", "")
	t.Setenv("DAVSIM_DEFAULT_FILE_SIZE", "many")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultFileSize != 64 {
		t.Errorf("DefaultFileSize = %d, want fallback 64", cfg.DefaultFileSize)
	}
}
