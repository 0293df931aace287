package bootstrap

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	GrpcPort   string `mapstructure:"GRPC_PORT"`

	LlmProvider      string `mapstructure:"LLM_PROVIDER"`
	AzureApiKey      string `mapstructure:"AZURE_API_KEY"`
	AzureEndpoint    string `mapstructure:"AZURE_ENDPOINT"`
	AzureApiVersion  string `mapstructure:"AZURE_API_VERSION"`
	AzureDeployment  string `mapstructure:"AZURE_DEPLOYMENT"`
	GeminiApiKey     string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel      string `mapstructure:"GEMINI_MODEL"`
	ReasoningModels  string `mapstructure:"REASONING_MODEL_PATTERNS"`
	StrictBoardWidth bool   `mapstructure:"STRICT_BOARD_WIDTH"`

	ContentFilterRetries int `mapstructure:"CONTENT_FILTER_RETRIES"`
	RetryDelayMs         int `mapstructure:"RETRY_DELAY_MS"`

	RedisUrl        string `mapstructure:"REDIS_URL"`
	MongoUri        string `mapstructure:"MONGO_URI"`
	MongoDatabase   string `mapstructure:"MONGO_DATABASE"`
	HistoryTtlHours int    `mapstructure:"HISTORY_TTL_HOURS"`
	// Durations accept viper's "5s" / "500ms" syntax.
	RedisPingTimeout    time.Duration `mapstructure:"REDIS_PING_TIMEOUT"`
	MongoConnectTimeout time.Duration `mapstructure:"MONGO_CONNECT_TIMEOUT"`
	IsLocalCors     bool   `mapstructure:"LOCAL_CORS"`
}

var defaults = map[string]any{
	"SERVER_PORT":              "8080",
	"GRPC_PORT":                "8082",
	"LLM_PROVIDER":             "azure",
	"AZURE_API_KEY":            "",
	"AZURE_ENDPOINT":           "",
	"AZURE_API_VERSION":        "2024-10-21",
	"AZURE_DEPLOYMENT":         "",
	"GEMINI_API_KEY":           "",
	"GEMINI_MODEL":             "gemini-2.5-flash",
	"REASONING_MODEL_PATTERNS": "o1,reasoning",
	"STRICT_BOARD_WIDTH":       false,
	"CONTENT_FILTER_RETRIES":   2,
	"RETRY_DELAY_MS":           500,
	"REDIS_URL":                "localhost:6379",
	"MONGO_URI":                "mongodb://localhost:27017",
	"MONGO_DATABASE":           "llm_move",
	"HISTORY_TTL_HOURS":        24,
	"REDIS_PING_TIMEOUT":       5 * time.Second,
	"MONGO_CONNECT_TIMEOUT":    10 * time.Second,
	"LOCAL_CORS":               false,
}

// Setup reads cfgPath (a .env file) and lets environment variables override it.
// A missing file is not an error; defaults and the environment are used instead.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ReasoningPatterns splits REASONING_MODEL_PATTERNS on commas.
func (c Config) ReasoningPatterns() []string {
	var patterns []string
	for _, p := range strings.Split(c.ReasoningModels, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}
