package charge

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/sumup/charge/fraud"
)

// Environment variables read by [LoadConfig].
const (
	EnvEnableFraudDetection = "ENABLE_FRAUD_DETECTION"
	EnvInferenceURL         = "TRITON_URL"
	EnvModelName            = "FRAUD_MODEL_NAME"
	EnvModelVersion         = "FRAUD_MODEL_VERSION"
)

// Config is the process wide configuration of an [Evaluator]. It is read once
// at startup.
type Config struct {
	// FraudDetectionEnabled turns the fraud gate on.
	FraudDetectionEnabled bool
	// InferenceURL is the base URL of the model server.
	//
	// Example: http://triton:8000
	InferenceURL string
	// ModelName defaults to "fraud_model".
	ModelName string
	// ModelVersion defaults to "1".
	ModelVersion string
	// CountryIndex overrides [DefaultCountryIndex] when set.
	CountryIndex CountryIndex
}

// LoadConfig builds a [Config] from the environment. Values from envFiles
// (default ".env", which may be missing) are used for variables not set in
// the process environment. A missing TRITON_URL is an error.
func LoadConfig(envFiles ...string) (Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	fileEnv, err := godotenv.Read(files...)
	if err != nil {
		if len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("charge: read env file: %w", err)
		}
		fileEnv = nil
	}
	return configFromLookup(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	})
}

func configFromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return fallback
	}
	cfg := Config{
		FraudDetectionEnabled: get(EnvEnableFraudDetection, "") == "true",
		InferenceURL:          get(EnvInferenceURL, ""),
		ModelName:             get(EnvModelName, fraud.DefaultModelName),
		ModelVersion:          get(EnvModelVersion, fraud.DefaultModelVersion),
	}
	if cfg.InferenceURL == "" {
		return Config{}, fmt.Errorf("charge: environment variable %s is required", EnvInferenceURL)
	}
	return cfg, nil
}
