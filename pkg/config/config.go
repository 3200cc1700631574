package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "pedezap"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "PEDEZAP_DB_DSN"
	EnvDBHost = "PEDEZAP_DB_HOST"
	EnvDBUser = "PEDEZAP_DB_USER"
	EnvDBName = "PEDEZAP_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Media        MediaConfig
	Orders       OrdersConfig
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
	Env          string   `envconfig:"PEDEZAP_APP_ENV" required:"true"`
	Port         string   `envconfig:"PEDEZAP_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"PEDEZAP_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"PEDEZAP_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"PEDEZAP_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PEDEZAP_DB_DSN"`
	Driver string `envconfig:"PEDEZAP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PEDEZAP_DB_HOST"`
	LegacyPort     int    `envconfig:"PEDEZAP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PEDEZAP_DB_USER"`
	LegacyPassword string `envconfig:"PEDEZAP_DB_PASSWORD"`
	LegacyName     string `envconfig:"PEDEZAP_DB_NAME"`
	LegacySSLMode  string `envconfig:"PEDEZAP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PEDEZAP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PEDEZAP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PEDEZAP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PEDEZAP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PEDEZAP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PEDEZAP_REDIS_ADDR"`
	Password     string        `envconfig:"PEDEZAP_REDIS_PASSWORD"`
	DB           int           `envconfig:"PEDEZAP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PEDEZAP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PEDEZAP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PEDEZAP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PEDEZAP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PEDEZAP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PEDEZAP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PEDEZAP_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PEDEZAP_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"PEDEZAP_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session lifetime.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PEDEZAP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PEDEZAP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PEDEZAP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PEDEZAP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PEDEZAP_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PEDEZAP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PEDEZAP_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"PEDEZAP_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"PEDEZAP_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"PEDEZAP_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"PEDEZAP_GCS_BUCKET_NAME"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"PEDEZAP_MAX_UPLOAD_MB" default:"10"`
}

type OrdersConfig struct {
	// Timezone used for the timestamp line on formatted orders.
	Timezone string        `envconfig:"PEDEZAP_ORDERS_TIMEZONE" default:"America/Sao_Paulo"`
	CartTTL  time.Duration `envconfig:"PEDEZAP_CART_TTL" default:"168h"`
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
