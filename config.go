package parkinsights

import (
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Environment variables consulted by Resolve.
const (
	// EnvMode is the run-mode signal ("development", "production", ...).
	EnvMode = "NODE_ENV"

	// EnvBaseURL overrides the backend base URL.
	EnvBaseURL = "VUE_APP_API_URL"

	// EnvEnvironment is the free-text environment label.
	EnvEnvironment = "VUE_APP_ENVIRONMENT"
)

const (
	// DefaultBaseURL points at a local Django development server.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultEnvironment is the label used when EnvEnvironment is unset.
	DefaultEnvironment = "development"

	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// Settings is the resolved client configuration. It is a plain value:
// once returned by Resolve nothing changes it.
type Settings struct {
	// BaseURL is prepended to every API path.
	// Example: "http://localhost:8000"
	BaseURL string `json:"baseUrl"`

	// Environment is the deployment label (e.g. "development", "staging").
	Environment string `json:"environment"`

	// Mode is the run-mode signal the flags below are derived from.
	Mode string `json:"mode"`

	IsDevelopment bool `json:"isDevelopment"`
	IsProduction  bool `json:"isProduction"`

	// UsedDefaultBaseURL reports that no override was present and
	// BaseURL fell back to DefaultBaseURL.
	UsedDefaultBaseURL bool `json:"usedDefaultBaseUrl"`
}

// envVars mirrors the raw variables before fallbacks are applied.
type envVars struct {
	Mode        string `env:"NODE_ENV"`
	BaseURL     string `env:"VUE_APP_API_URL"`
	Environment string `env:"VUE_APP_ENVIRONMENT"`
}

// Resolve builds Settings from an environment map. Missing or empty
// variables fall back to the package defaults; nothing here fails.
//
// Precedence:
//
//	BaseURL      VUE_APP_API_URL (verbatim)  -> DefaultBaseURL
//	Environment  VUE_APP_ENVIRONMENT         -> DefaultEnvironment
//	Mode         NODE_ENV                    -> ModeDevelopment
//
// Production mode without VUE_APP_API_URL also falls back to DefaultBaseURL.
func Resolve(environ map[string]string) Settings {
	if environ == nil {
		environ = map[string]string{}
	}

	var vars envVars
	// Plain string fields with no required/notEmpty tags cannot fail to parse.
	_ = env.ParseWithOptions(&vars, env.Options{Environment: environ})

	s := Settings{
		BaseURL:     vars.BaseURL,
		Environment: vars.Environment,
		Mode:        vars.Mode,
	}

	if s.BaseURL == "" {
		s.BaseURL = DefaultBaseURL
		s.UsedDefaultBaseURL = true
	}
	if s.Environment == "" {
		s.Environment = DefaultEnvironment
	}
	if s.Mode == "" {
		s.Mode = ModeDevelopment
	}

	s.IsDevelopment = s.Mode == ModeDevelopment
	s.IsProduction = s.Mode == ModeProduction

	return s
}

// ResolveFromEnv reads the process environment once and resolves it.
func ResolveFromEnv() Settings {
	return Resolve(EnvironMap(os.Environ()))
}

// EnvironMap converts "KEY=value" pairs (as returned by os.Environ) into a map.
// Later duplicates win.
func EnvironMap(pairs []string) map[string]string {
	m := make(map[string]string, len(pairs))
	for _, kv := range pairs {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		m[key] = value
	}
	return m
}
