package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"timelinechart/pkg/errors"
)

// envPrefix namespaces the environment variables read by the CLI.
const envPrefix = "TIMELINE"

// Config holds the CLI configuration loaded from flags, environment variables,
// .env files, and ~/.timelinechart.yaml.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Inputs shared by render and serve
	Data        string // Timeline document, file path or http(s) URL
	ChartConfig string // Chart layout YAML

	// Serve settings
	Host  string
	Port  int
	Title string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration in order of precedence:
//  1. Command-line flags (applied later by cobra)
//  2. TIMELINE_* environment variables
//  3. .env and .env.local
//  4. Config file (~/.timelinechart.yaml or ./.timelinechart.yaml)
//  5. Defaults
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("host", "localhost")
	v.SetDefault("port", 8080)
	v.SetDefault("title", "Timeline")
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")

	explicit := v.GetString("config")
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".timelinechart")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return &Config{
		Verbose:     v.GetBool("verbose"),
		Quiet:       v.GetBool("quiet"),
		NoColor:     v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		ConfigFile:  v.ConfigFileUsed(),
		Data:        v.GetString("data"),
		ChartConfig: v.GetString("chart_config"),
		Host:        v.GetString("host"),
		Port:        v.GetInt("port"),
		Title:       v.GetString("title"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", v.GetString("log_level")),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", v.GetString("log_format")),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", v.GetString("log_output")),
	}, nil
}

// UpdateFromFlags applies the global flags after cobra has parsed them.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = verbose || c.Verbose
	c.Quiet = quiet || c.Quiet
	c.NoColor = noColor || c.NoColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads .env files; .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
