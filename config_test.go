package charge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mapLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestConfigFromLookup(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		env     map[string]string
		want    Config
		wantErr bool
	}{
		"defaults": {
			env:  map[string]string{EnvInferenceURL: "http://triton:8000"},
			want: Config{InferenceURL: "http://triton:8000", ModelName: "fraud_model", ModelVersion: "1"},
		},
		"enabled with model": {
			env: map[string]string{
				EnvEnableFraudDetection: "true",
				EnvInferenceURL:         "http://triton:8000",
				EnvModelName:            "risk",
				EnvModelVersion:         "4",
			},
			want: Config{FraudDetectionEnabled: true, InferenceURL: "http://triton:8000", ModelName: "risk", ModelVersion: "4"},
		},
		"only literal true enables": {
			env:  map[string]string{EnvEnableFraudDetection: "1", EnvInferenceURL: "http://triton:8000"},
			want: Config{InferenceURL: "http://triton:8000", ModelName: "fraud_model", ModelVersion: "1"},
		},
		"empty values fall back": {
			env:  map[string]string{EnvInferenceURL: "http://triton:8000", EnvModelName: "", EnvModelVersion: ""},
			want: Config{InferenceURL: "http://triton:8000", ModelName: "fraud_model", ModelVersion: "1"},
		},
		"missing url": {
			env:     map[string]string{EnvEnableFraudDetection: "false"},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := configFromLookup(mapLookup(tt.env))
			if tt.wantErr {
				if err == nil || !strings.Contains(err.Error(), EnvInferenceURL) {
					t.Fatalf("expected error naming %s got %v", EnvInferenceURL, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("configFromLookup() error = %v", err)
			}
			if got.FraudDetectionEnabled != tt.want.FraudDetectionEnabled || got.InferenceURL != tt.want.InferenceURL ||
				got.ModelName != tt.want.ModelName || got.ModelVersion != tt.want.ModelVersion {
				t.Fatalf("unexpected config %+v want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charge.env")
	if err := os.WriteFile(path, []byte("TRITON_URL=http://from-file:8000\nFRAUD_MODEL_NAME=file_model\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv(EnvModelName, "env_model")
	t.Setenv(EnvEnableFraudDetection, "true")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.FraudDetectionEnabled {
		t.Fatalf("expected fraud detection enabled")
	}
	if cfg.ModelName != "env_model" {
		t.Fatalf("process environment should win, got %q", cfg.ModelName)
	}
	if cfg.ModelVersion != "1" {
		t.Fatalf("unexpected model version %q", cfg.ModelVersion)
	}
	if _, set := os.LookupEnv(EnvInferenceURL); !set && cfg.InferenceURL != "http://from-file:8000" {
		t.Fatalf("expected URL from env file got %q", cfg.InferenceURL)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected error for missing env file")
	}
}
