package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/review-matcher/internal/beauty"
	"github.com/spigell/review-matcher/internal/logger"
)

const (
	app = "review-matcher"

	defaultProductID = 84473
)

type Config struct {
	Server   *ServerConfig        `mapstructure:"server"`
	Upstream *UpstreamConfig      `mapstructure:"upstream"`
	AI       *AIConfig            `mapstructure:"ai"`
	Matcher  beauty.MatcherConfig `mapstructure:"matcher"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	AllowOrigins    []string      `mapstructure:"allow-origins"`
	RequestTimeout  time.Duration `mapstructure:"request-timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

type UpstreamConfig struct {
	ReviewsURL       string        `mapstructure:"reviews-url"`
	CatalogURL       string        `mapstructure:"catalog-url"`
	ProfileURL       string        `mapstructure:"profile-url"`
	UserAgent        string        `mapstructure:"user-agent"`
	Timeout          time.Duration `mapstructure:"timeout"`
	ReviewLimit      int           `mapstructure:"review-limit"`
	DefaultProductID int64         `mapstructure:"default-product-id"`
}

type AIConfig struct {
	// Provider is gemini, openai or empty to pick whichever has a key.
	Provider     string        `mapstructure:"provider"`
	MaxTokens    int           `mapstructure:"max-tokens"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	Gemini       *GeminiConfig `mapstructure:"gemini"`
	OpenAI       *OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey     string        `mapstructure:"api-key"`
	APIKeyFile string        `mapstructure:"api-key-file"`
	BaseURL    string        `mapstructure:"base-url"`
	Model      string        `mapstructure:"model"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "review-matcher serves product reviews, LLM summaries and beauty profile matching",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is review-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())

	for key, env := range map[string]string{
		"server.port":                 "PORT",
		"ai.provider":                 "AI_PROVIDER",
		"ai.gemini.api-key-file":      "GEMINI_API_KEY_FILE",
		"ai.openai.api-key-file":      "OPENAI_API_KEY_FILE",
		"ai.openai.base-url":          "OPENAI_BASE_URL",
		"upstream.default-product-id": "DEFAULT_PRODUCT_ID",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.request-timeout", 30*time.Second)
	v.SetDefault("server.shutdown-timeout", 10*time.Second)
	v.SetDefault("upstream.timeout", 10*time.Second)
	v.SetDefault("upstream.default-product-id", defaultProductID)
	v.SetDefault("ai.max-tokens", 150)
	v.SetDefault("ai.max-log-length", 500)
}

func initConfig() {
	// version needs no configuration
	if versionCmd.CalledAs() != "" {
		return
	}

	// .env is optional, real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	viper.SetEnvPrefix("REVIEW_MATCHER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// The config file is optional unless given explicitly.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	if config.Upstream == nil {
		config.Upstream = &UpstreamConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}

	return config, nil
}

func newLogger() *zap.Logger {
	l, err := logger.New(logger.Options{
		JSON:  viper.GetBool("json"),
		Debug: viper.GetBool("debug"),
	})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}
