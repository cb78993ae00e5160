package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/postforge/postforge/internal/api"
	"github.com/postforge/postforge/internal/genai"
	"github.com/postforge/postforge/internal/models"
	"github.com/postforge/postforge/internal/ratelimit"
	"github.com/postforge/postforge/internal/util"
)

func main() {
	// Initialize structured logger
	initializeLogger()

	// Load environment configuration
	config := loadEnvironmentConfig()

	// Parse command line flags
	flags := parseCommandLineFlags(config)

	// Start the service
	slog.Info("Bootstrapping PostForge",
		"provider", *flags.provider,
		"api_addr", *flags.apiAddr,
		"min_topic_length", config.MinTopicLength,
		"max_topic_length", config.MaxTopicLength)
	if err := api.Run(buildAPIOptions(config, flags)...); err != nil {
		slog.Error("PostForge failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("PostForge exited successfully")
}

// Config holds environment configuration
type Config struct {
	GroqAPIKey      string
	GroqAPIURL      string
	GroqModel       string
	OpenAIKey       string
	OpenAIModel     string
	Provider        string
	APIAddr         string
	Timeout         time.Duration
	Temperature     float64
	MinTopicLength  int
	MaxTopicLength  int
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// Flags holds command line flag values
type Flags struct {
	groqKey  *string
	groqURL  *string
	model    *string
	provider *string
	apiAddr  *string
}

// initializeLogger sets up structured logging with debug level
func initializeLogger() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		GroqAPIKey:      os.Getenv("GROQ_API_KEY"),
		GroqAPIURL:      os.Getenv("GROQ_API_URL"),
		GroqModel:       os.Getenv("GROQ_MODEL"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     os.Getenv("OPENAI_MODEL"),
		Provider:        os.Getenv("POSTFORGE_PROVIDER"),
		APIAddr:         os.Getenv("POSTFORGE_API_ADDR"),
		Timeout:         util.ParseSecondsEnv("POSTFORGE_TIMEOUT_SECONDS", genai.DefaultTimeout),
		Temperature:     util.ParseFloatEnv("POSTFORGE_TEMPERATURE", genai.DefaultTemperature),
		MinTopicLength:  util.ParseIntEnv("POSTFORGE_MIN_TOPIC_LENGTH", models.DefaultMinTopicLength),
		MaxTopicLength:  util.ParseIntEnv("POSTFORGE_MAX_TOPIC_LENGTH", models.DefaultMaxTopicLength),
		RateLimitMax:    util.ParseIntEnv("POSTFORGE_RATE_LIMIT_REQUESTS", ratelimit.DefaultMaxRequests),
		RateLimitWindow: util.ParseSecondsEnv("POSTFORGE_RATE_LIMIT_WINDOW_SECONDS", ratelimit.DefaultWindow),
	}

	if config.Provider == "" {
		config.Provider = "groq"
	}

	slog.Debug("environment variables loaded",
		"GROQ_API_KEY_SET", config.GroqAPIKey != "",
		"GROQ_API_URL", config.GroqAPIURL,
		"GROQ_MODEL", config.GroqModel,
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"OPENAI_MODEL", config.OpenAIModel,
		"POSTFORGE_PROVIDER", config.Provider,
		"POSTFORGE_API_ADDR", config.APIAddr,
		"timeout", config.Timeout,
		"temperature", config.Temperature,
		"min_topic_length", config.MinTopicLength,
		"max_topic_length", config.MaxTopicLength,
		"rate_limit_requests", config.RateLimitMax,
		"rate_limit_window", config.RateLimitWindow)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		groqKey:  flag.String("groq-key", config.GroqAPIKey, "Groq API key (overrides $GROQ_API_KEY)"),
		groqURL:  flag.String("groq-url", config.GroqAPIURL, "Groq completion endpoint URL (overrides $GROQ_API_URL)"),
		model:    flag.String("model", config.GroqModel, "Groq model identifier (overrides $GROQ_MODEL)"),
		provider: flag.String("provider", config.Provider, "completion provider, groq or openai (overrides $POSTFORGE_PROVIDER)"),
		apiAddr:  flag.String("addr", config.APIAddr, "API server address (overrides $POSTFORGE_API_ADDR)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"groqKeySet", *flags.groqKey != "",
		"groqURL", *flags.groqURL,
		"model", *flags.model,
		"provider", *flags.provider,
		"apiAddr", *flags.apiAddr)

	return flags
}

// buildAPIOptions constructs API server configuration options
func buildAPIOptions(config Config, flags Flags) []api.Option {
	opts := []api.Option{
		api.WithProvider(*flags.provider),
		api.WithTimeout(config.Timeout),
		api.WithTemperature(config.Temperature),
		api.WithTopicLimits(models.TopicLimits{
			MinLength: config.MinTopicLength,
			MaxLength: config.MaxTopicLength,
			Forbidden: models.DefaultForbiddenWords,
		}),
		api.WithRateLimit(config.RateLimitMax, config.RateLimitWindow),
	}
	if *flags.groqKey != "" {
		opts = append(opts, api.WithGroqAPIKey(*flags.groqKey))
	}
	if *flags.groqURL != "" {
		opts = append(opts, api.WithGroqEndpoint(*flags.groqURL))
	}
	if *flags.model != "" {
		opts = append(opts, api.WithGroqModel(*flags.model))
	}
	if config.OpenAIKey != "" {
		opts = append(opts, api.WithOpenAIAPIKey(config.OpenAIKey))
	}
	if config.OpenAIModel != "" {
		opts = append(opts, api.WithOpenAIModel(config.OpenAIModel))
	}
	if *flags.apiAddr != "" {
		opts = append(opts, api.WithAddr(*flags.apiAddr))
	}
	return opts
}
