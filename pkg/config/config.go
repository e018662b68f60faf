package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	CORS          CORSConfig
	CSP           CSPConfig
	Quota         QuotaConfig
	Prompt        PromptConfig
	Gemini        GeminiConfig
	Stripe        StripeConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LAUNCHCOPY_APP_ENV" required:"true"`
	Port         string `envconfig:"LAUNCHCOPY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LAUNCHCOPY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LAUNCHCOPY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LAUNCHCOPY_DB_DSN"`
	Driver string `envconfig:"LAUNCHCOPY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LAUNCHCOPY_DB_HOST"`
	LegacyPort     int    `envconfig:"LAUNCHCOPY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LAUNCHCOPY_DB_USER"`
	LegacyPassword string `envconfig:"LAUNCHCOPY_DB_PASSWORD"`
	LegacyName     string `envconfig:"LAUNCHCOPY_DB_NAME"`
	LegacySSLMode  string `envconfig:"LAUNCHCOPY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LAUNCHCOPY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LAUNCHCOPY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LAUNCHCOPY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LAUNCHCOPY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LAUNCHCOPY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LAUNCHCOPY_REDIS_ADDR"`
	Password     string        `envconfig:"LAUNCHCOPY_REDIS_PASSWORD"`
	DB           int           `envconfig:"LAUNCHCOPY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LAUNCHCOPY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LAUNCHCOPY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LAUNCHCOPY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LAUNCHCOPY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LAUNCHCOPY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"LAUNCHCOPY_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"LAUNCHCOPY_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"LAUNCHCOPY_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"LAUNCHCOPY_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LAUNCHCOPY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LAUNCHCOPY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LAUNCHCOPY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LAUNCHCOPY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LAUNCHCOPY_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"LAUNCHCOPY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"LAUNCHCOPY_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"LAUNCHCOPY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"LAUNCHCOPY_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"LAUNCHCOPY_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"LAUNCHCOPY_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"LAUNCHCOPY_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type CSPConfig struct {
	ConnectSources []string `envconfig:"LAUNCHCOPY_CSP_CONNECT_SOURCES"`
}

type QuotaConfig struct {
	DefaultDailyLimit   int `envconfig:"LAUNCHCOPY_QUOTA_DAILY_LIMIT" default:"20"`
	DefaultMonthlyLimit int `envconfig:"LAUNCHCOPY_QUOTA_MONTHLY_LIMIT" default:"200"`
}

type PromptConfig struct {
	TemplatePath       string   `envconfig:"LAUNCHCOPY_PROMPT_TEMPLATE_PATH" default:"prompts/landing_prompt.md"`
	MaxFeatureLength   int      `envconfig:"LAUNCHCOPY_PROMPT_MAX_FEATURE_LENGTH" default:"500"`
	CreateIfMissing    bool     `envconfig:"LAUNCHCOPY_PROMPT_CREATE_IF_MISSING" default:"true"`
	ExtraDeniedPhrases []string `envconfig:"LAUNCHCOPY_PROMPT_DENIED_PHRASES"`
}

type GeminiConfig struct {
	APIKey          string        `envconfig:"LAUNCHCOPY_GEMINI_API_KEY" required:"true"`
	Model           string        `envconfig:"LAUNCHCOPY_GEMINI_MODEL" default:"gemini-1.5-flash"`
	Temperature     float64       `envconfig:"LAUNCHCOPY_GEMINI_TEMPERATURE" default:"0.3"`
	MaxOutputTokens int           `envconfig:"LAUNCHCOPY_GEMINI_MAX_OUTPUT_TOKENS" default:"800"`
	Timeout         time.Duration `envconfig:"LAUNCHCOPY_GEMINI_TIMEOUT" default:"30s"`
}

type StripeConfig struct {
	APIKey        string        `envconfig:"LAUNCHCOPY_STRIPE_API_KEY"`
	WebhookSecret string        `envconfig:"LAUNCHCOPY_STRIPE_WEBHOOK_SECRET" required:"true"`
	Env           string        `envconfig:"LAUNCHCOPY_STRIPE_ENV" default:"test"`
	EventTTL      time.Duration `envconfig:"LAUNCHCOPY_STRIPE_EVENT_TTL" default:"720h"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LAUNCHCOPY_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
