package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Session      SessionConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	Catalog      CatalogConfig
	Shopify      ShopifyConfig
	Wizard       WizardConfig
	Cron         CronConfig
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
	Env            string   `envconfig:"DESIGNSTUDIO_APP_ENV" required:"true"`
	Port           string   `envconfig:"DESIGNSTUDIO_APP_PORT" required:"true"`
	LogLevel       string   `envconfig:"DESIGNSTUDIO_LOG_LEVEL" default:"info"`
	LogFormat      string   `envconfig:"DESIGNSTUDIO_LOG_FORMAT" default:"json"`
	LogWarnStack   bool     `envconfig:"DESIGNSTUDIO_LOG_WARN_STACK" default:"false"`
	AllowedOrigins []string `envconfig:"DESIGNSTUDIO_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DESIGNSTUDIO_DB_DSN"`
	Driver string `envconfig:"DESIGNSTUDIO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DESIGNSTUDIO_DB_HOST"`
	LegacyPort     int    `envconfig:"DESIGNSTUDIO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DESIGNSTUDIO_DB_USER"`
	LegacyPassword string `envconfig:"DESIGNSTUDIO_DB_PASSWORD"`
	LegacyName     string `envconfig:"DESIGNSTUDIO_DB_NAME"`
	LegacySSLMode  string `envconfig:"DESIGNSTUDIO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DESIGNSTUDIO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DESIGNSTUDIO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DESIGNSTUDIO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DESIGNSTUDIO_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"DESIGNSTUDIO_DB_SLOW_QUERY_THRESHOLD" default:"200ms"`
}

// IsSQLite reports whether the configured driver is the embedded sqlite driver.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"DESIGNSTUDIO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DESIGNSTUDIO_REDIS_ADDR"`
	Password     string        `envconfig:"DESIGNSTUDIO_REDIS_PASSWORD"`
	DB           int           `envconfig:"DESIGNSTUDIO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DESIGNSTUDIO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DESIGNSTUDIO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DESIGNSTUDIO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DESIGNSTUDIO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DESIGNSTUDIO_REDIS_WRITE_TIMEOUT" default:"5s"`
	KeyPrefix    string        `envconfig:"DESIGNSTUDIO_REDIS_KEY_PREFIX" default:"ds"`
}

// SessionConfig controls the signed tokens handed to design-session clients.
type SessionConfig struct {
	Secret     string        `envconfig:"DESIGNSTUDIO_SESSION_SECRET" required:"true"`
	Issuer     string        `envconfig:"DESIGNSTUDIO_SESSION_ISSUER" default:"designstudio"`
	TTLMinutes int           `envconfig:"DESIGNSTUDIO_SESSION_TTL_MINUTES" default:"10080"`
	IdleEvict  time.Duration `envconfig:"DESIGNSTUDIO_SESSION_IDLE_EVICT" default:"30m"`
}

// TTL returns the session token lifetime.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

type RateLimitConfig struct {
	Window         time.Duration `envconfig:"DESIGNSTUDIO_RATE_LIMIT_WINDOW" default:"1m"`
	CartIPLimit    int           `envconfig:"DESIGNSTUDIO_RATE_LIMIT_CART_IP_LIMIT" default:"30"`
	SessionIPLimit int           `envconfig:"DESIGNSTUDIO_RATE_LIMIT_SESSION_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DESIGNSTUDIO_AUTO_MIGRATE" default:"false"`
}

// CatalogConfig points at the catalog backend that owns products and stones.
type CatalogConfig struct {
	BaseURL  string        `envconfig:"DESIGNSTUDIO_CATALOG_BASE_URL" default:"http://localhost:3000"`
	Timeout  time.Duration `envconfig:"DESIGNSTUDIO_CATALOG_TIMEOUT" default:"10s"`
	CacheTTL time.Duration `envconfig:"DESIGNSTUDIO_CATALOG_CACHE_TTL" default:"5m"`
}

type ShopifyConfig struct {
	StoreDomain           string        `envconfig:"DESIGNSTUDIO_SHOPIFY_STORE_DOMAIN"`
	StorefrontAccessToken string        `envconfig:"DESIGNSTUDIO_SHOPIFY_STOREFRONT_ACCESS_TOKEN"`
	APIVersion            string        `envconfig:"DESIGNSTUDIO_SHOPIFY_API_VERSION"`
	Timeout               time.Duration `envconfig:"DESIGNSTUDIO_SHOPIFY_TIMEOUT" default:"15s"`
}

type WizardConfig struct {
	BasePath         string        `envconfig:"DESIGNSTUDIO_WIZARD_BASE_PATH" default:"/design-studio"`
	FilterTTL        time.Duration `envconfig:"DESIGNSTUDIO_WIZARD_FILTER_TTL" default:"24h"`
	StonePageSize    int           `envconfig:"DESIGNSTUDIO_WIZARD_STONE_PAGE_SIZE" default:"8"`
	ProductCategory  string        `envconfig:"DESIGNSTUDIO_WIZARD_PRODUCT_CATEGORY" default:"pendant"`
	ProductPageSize  int           `envconfig:"DESIGNSTUDIO_WIZARD_PRODUCT_PAGE_SIZE" default:"24"`
	SettingTypesFile string        `envconfig:"DESIGNSTUDIO_WIZARD_SETTING_TYPES_FILE"`
}

// CronConfig drives the maintenance worker.
type CronConfig struct {
	Interval time.Duration `envconfig:"DESIGNSTUDIO_CRON_INTERVAL" default:"1h"`
	LockKey  string        `envconfig:"DESIGNSTUDIO_CRON_LOCK_KEY" default:"designstudio:cron:lock"`
	LockTTL  time.Duration `envconfig:"DESIGNSTUDIO_CRON_LOCK_TTL" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = defaultSQLiteDSN
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
