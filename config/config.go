package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	// Assembly configuration for the itinerary engine
	Assembly *AssemblyConfig `json:"assembly" yaml:"assembly"`

	// LegResolver configuration for the external geometry provider adapter
	LegResolver *LegResolverConfig `json:"legResolver" yaml:"legResolver"`

	// Weights are the explicit category weight tables used by the ranker
	Weights *WeightsConfig `json:"weights" yaml:"weights"`

	// Geocoder configuration for address resolution
	Geocoder *GeocoderConfig `json:"geocoder" yaml:"geocoder"`

	// Embedding configuration for the intent vector provider
	Embedding *EmbeddingConfig `json:"embedding" yaml:"embedding"`

	// Narrative configuration for summary/rationale generation
	Narrative *NarrativeConfig `json:"narrative" yaml:"narrative"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// AssemblyConfig defines the knobs of the itinerary assembly pipeline.
type AssemblyConfig struct {
	// Primary stop count bounds. Fewer than MinStops feasible stops is a
	// hard failure.
	MinStops int `json:"minStops" yaml:"minStops"`
	MaxStops int `json:"maxStops" yaml:"maxStops"`

	// OverrunToleranceMinutes is how far past the budget a route may run
	// before it is considered infeasible.
	OverrunToleranceMinutes int `json:"overrunToleranceMinutes" yaml:"overrunToleranceMinutes"`

	// Deadline bounds one whole assembly request. When it expires the
	// engine returns the best partial result with a warning.
	Deadline time.Duration `json:"deadline" yaml:"deadline"`

	// SwapIterationCap bounds the 2-opt improvement pass.
	SwapIterationCap int `json:"swapIterationCap" yaml:"swapIterationCap"`

	// CandidateLimit caps how many candidates are pulled from the POI store.
	CandidateLimit int `json:"candidateLimit" yaml:"candidateLimit"`

	// SearchRadiusKm is the default candidate search radius around the
	// start location.
	SearchRadiusKm float64 `json:"searchRadiusKm" yaml:"searchRadiusKm"`

	// Substitution bounds for the availability guard.
	SubstitutionAttempts int     `json:"substitutionAttempts" yaml:"substitutionAttempts"`
	SubstitutionRadiusKm float64 `json:"substitutionRadiusKm" yaml:"substitutionRadiusKm"`

	// Break insertion defaults.
	BreakIntervalMinutes          int     `json:"breakIntervalMinutes" yaml:"breakIntervalMinutes"`
	CoffeeAffinityIntervalMinutes int     `json:"coffeeAffinityIntervalMinutes" yaml:"coffeeAffinityIntervalMinutes"`
	BreakSearchRadiusKm           float64 `json:"breakSearchRadiusKm" yaml:"breakSearchRadiusKm"`
	BreakVisitMinutes             int     `json:"breakVisitMinutes" yaml:"breakVisitMinutes"`
}

// LegResolverConfig defines the external geometry provider adapter settings.
type LegResolverConfig struct {
	// BaseURL of the routing provider (OSRM-compatible).
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`

	// CallTimeout bounds one provider call; a single retry with backoff is
	// attempted before falling back to the great-circle estimate.
	CallTimeout  time.Duration `json:"callTimeout" yaml:"callTimeout"`
	RetryBackoff time.Duration `json:"retryBackoff" yaml:"retryBackoff"`

	// MaxInFlight bounds concurrent provider calls during matrix prefetch.
	MaxInFlight int `json:"maxInFlight" yaml:"maxInFlight"`

	// WalkSpeedKmh is the fallback walking speed for estimated legs.
	WalkSpeedKmh float64 `json:"walkSpeedKmh" yaml:"walkSpeedKmh"`

	// FallbackBufferMinutes is added to estimated legs to absorb crossings
	// and detours the straight line ignores.
	FallbackBufferMinutes float64 `json:"fallbackBufferMinutes" yaml:"fallbackBufferMinutes"`

	// CacheTTL bounds how long resolved legs are served from the cache.
	CacheTTL time.Duration `json:"cacheTtl" yaml:"cacheTtl"`
}

// GeocoderConfig defines the address resolution provider settings.
type GeocoderConfig struct {
	BaseURL     string        `json:"baseUrl" yaml:"baseUrl"`
	CallTimeout time.Duration `json:"callTimeout" yaml:"callTimeout"`
}

// EmbeddingConfig defines the intent vector provider settings.
type EmbeddingConfig struct {
	BaseURL     string        `json:"baseUrl" yaml:"baseUrl"`
	Model       string        `json:"model" yaml:"model"`
	CallTimeout time.Duration `json:"callTimeout" yaml:"callTimeout"`
}

// NarrativeConfig defines how long the assembler waits for narrative text
// before falling back to placeholders.
type NarrativeConfig struct {
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: POSTGRES_SSLMODE -> postgres.sslMode (not postgres.sslmode)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}

	// Build replicas from environment variables (POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, etc.)
	if cfg.Postgres != nil {
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	cfg.Assembly = cfg.Assembly.withDefaults()
	cfg.LegResolver = cfg.LegResolver.withDefaults()
	cfg.Weights = cfg.Weights.withDefaults()

	return cfg, nil
}

// withDefaults fills unset assembly knobs with the engine defaults.
func (c *AssemblyConfig) withDefaults() *AssemblyConfig {
	out := &AssemblyConfig{}
	if c != nil {
		*out = *c
	}

	if out.MinStops <= 0 {
		out.MinStops = 3
	}
	if out.MaxStops <= 0 {
		out.MaxStops = 5
	}
	if out.OverrunToleranceMinutes <= 0 {
		out.OverrunToleranceMinutes = 15
	}
	if out.Deadline <= 0 {
		out.Deadline = 5 * time.Second
	}
	if out.SwapIterationCap <= 0 {
		out.SwapIterationCap = 50
	}
	if out.CandidateLimit <= 0 {
		out.CandidateLimit = 40
	}
	if out.SearchRadiusKm <= 0 {
		out.SearchRadiusKm = 3.0
	}
	if out.SubstitutionAttempts <= 0 {
		out.SubstitutionAttempts = 3
	}
	if out.SubstitutionRadiusKm <= 0 {
		out.SubstitutionRadiusKm = 1.5
	}
	if out.BreakIntervalMinutes <= 0 {
		out.BreakIntervalMinutes = 90
	}
	if out.CoffeeAffinityIntervalMinutes <= 0 {
		out.CoffeeAffinityIntervalMinutes = 70
	}
	if out.BreakSearchRadiusKm <= 0 {
		out.BreakSearchRadiusKm = 0.8
	}
	if out.BreakVisitMinutes <= 0 {
		out.BreakVisitMinutes = 20
	}

	return out
}

// withDefaults fills unset resolver knobs with defaults.
func (c *LegResolverConfig) withDefaults() *LegResolverConfig {
	out := &LegResolverConfig{}
	if c != nil {
		*out = *c
	}

	if out.CallTimeout <= 0 {
		out.CallTimeout = 800 * time.Millisecond
	}
	if out.RetryBackoff <= 0 {
		out.RetryBackoff = 200 * time.Millisecond
	}
	if out.MaxInFlight <= 0 {
		out.MaxInFlight = 8
	}
	if out.WalkSpeedKmh <= 0 {
		out.WalkSpeedKmh = 4.5
	}
	if out.FallbackBufferMinutes <= 0 {
		out.FallbackBufferMinutes = 7
	}
	if out.CacheTTL <= 0 {
		out.CacheTTL = 15 * time.Minute
	}

	return out
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
// Example: POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, POSTGRES_REPLICAS_0_USERNAME, POSTGRES_REPLICAS_0_PASSWORD
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			// No more replicas or incomplete configuration.
			break
		}

		replica := postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		}

		replicas = append(replicas, replica)
	}

	return replicas
}
