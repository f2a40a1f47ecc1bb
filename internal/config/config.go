package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var ErrMissingRequiredValue = errors.New("missing required value")
var ErrInvalidValue = errors.New("invalid value")

const (
	defaultEtherscanBaseURL = "https://api.etherscan.io/v2/api"
	defaultEtherscanChainID = 1
	defaultActivityLogDir   = "activity-logs"
)

type environment string

const (
	production  environment = "production"
	staging     environment = "staging"
	development environment = "development"
)

type Config struct {
	botToken         string
	etherscanAPIKey  string
	etherscanBaseURL string
	etherscanChainID int
	sentryDSN        string
	activityLogDir   string
	otelEnabled      bool
	env              environment
}

func (c *Config) BotToken() string {
	return c.botToken
}

func (c *Config) EtherscanAPIKey() string {
	return c.etherscanAPIKey
}

func (c *Config) EtherscanBaseURL() string {
	return c.etherscanBaseURL
}

func (c *Config) EtherscanChainID() int {
	return c.etherscanChainID
}

func (c *Config) SentryDSN() string {
	return c.sentryDSN
}

func (c *Config) ActivityLogDir() string {
	return c.activityLogDir
}

func (c *Config) OTelEnabled() bool {
	return c.otelEnabled
}

func (c *Config) IsProduction() bool {
	return c.env == production
}

func (c *Config) IsStaging() bool {
	return c.env == staging
}

func (c *Config) IsDevelopment() bool {
	return c.env == development
}

// Return a string representation suitable for logging etc
func (c *Config) NonSensitiveString() string {
	return fmt.Sprintf(
		"Config{env: %s, etherscanBaseURL: %s, etherscanChainID: %d, activityLogDir: %s, otelEnabled: %t, ...}",
		string(c.env),
		c.etherscanBaseURL,
		c.etherscanChainID,
		c.activityLogDir,
		c.otelEnabled,
	)
}

// Load variables from a .env file in the working directory, if present.
// Variables already present in the environment take precedence.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}

	present := make([]string, 0, len(filenames))
	for _, filename := range filenames {
		if _, err := os.Stat(filename); err == nil {
			present = append(present, filename)
		}
	}
	if len(present) == 0 {
		return nil
	}

	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

func ConfigFromEnv() (Config, error) {
	missingKey := func(key string) (Config, error) {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingRequiredValue, key)
	}

	var env environment
	rawEnv, ok := os.LookupEnv("ETHWALLETBOT_ENVIRONMENT")
	if !ok {
		return missingKey("ETHWALLETBOT_ENVIRONMENT")
	}
	switch rawEnv {
	case "production":
		env = production
	case "staging":
		env = staging
	case "development":
		env = development
	default:
		return Config{}, fmt.Errorf("%w: ETHWALLETBOT_ENVIRONMENT (%s)", ErrInvalidValue, rawEnv)
	}
	if string(env) == "" {
		panic("logic error: env is empty")
	}

	botToken := os.Getenv("BOT_TOKEN")
	etherscanAPIKey := os.Getenv("ETHERSCAN_API_KEY")
	sentryDSN := os.Getenv("SENTRY_DSN")

	etherscanBaseURL := os.Getenv("ETHERSCAN_BASE_URL")
	if etherscanBaseURL == "" {
		etherscanBaseURL = defaultEtherscanBaseURL
	}

	etherscanChainID := defaultEtherscanChainID
	if rawChainID := os.Getenv("ETHERSCAN_CHAIN_ID"); rawChainID != "" {
		chainID, err := strconv.Atoi(rawChainID)
		if err != nil || chainID <= 0 {
			return Config{}, fmt.Errorf("%w: ETHERSCAN_CHAIN_ID (%s)", ErrInvalidValue, rawChainID)
		}
		etherscanChainID = chainID
	}

	activityLogDir := os.Getenv("ACTIVITY_LOG_DIR")
	if activityLogDir == "" {
		activityLogDir = defaultActivityLogDir
	}

	otelEnabled := false
	if rawOTelEnabled := os.Getenv("OTEL_ENABLED"); rawOTelEnabled != "" {
		enabled, err := strconv.ParseBool(rawOTelEnabled)
		if err != nil {
			return Config{}, fmt.Errorf("%w: OTEL_ENABLED (%s)", ErrInvalidValue, rawOTelEnabled)
		}
		otelEnabled = enabled
	}

	if env == production || env == staging {
		if botToken == "" {
			return missingKey("BOT_TOKEN")
		}
		if etherscanAPIKey == "" {
			return missingKey("ETHERSCAN_API_KEY")
		}
		if sentryDSN == "" {
			return missingKey("SENTRY_DSN")
		}
	}

	return Config{
		botToken:         botToken,
		etherscanAPIKey:  etherscanAPIKey,
		etherscanBaseURL: etherscanBaseURL,
		etherscanChainID: etherscanChainID,
		sentryDSN:        sentryDSN,
		activityLogDir:   activityLogDir,
		otelEnabled:      otelEnabled,
		env:              env,
	}, nil
}
