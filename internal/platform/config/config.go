package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv  string
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	ResetTokenTTL time.Duration
	FrontendURL   string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ForgotPasswordLimit  int
	ForgotPasswordWindow time.Duration

	EmailHost string
	EmailPort int
	EmailUser string
	EmailPass string
	EmailFrom string

	DefaultAdminUsername string
	DefaultAdminEmail    string
	DefaultAdminPassword string
	DefaultAdminName     string

	UploadBackend string
	UploadDir     string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string

	TLSCertFile string
	TLSKeyFile  string

	CORSAllowedOrigins []string
	TrustedProxy       bool
	LogLevel           string
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in production")

const devJWTSecret = "dev-only-secret"

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("API_PORT", "5000")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRATION_HOURS", 24)
	v.SetDefault("RESET_TOKEN_TTL_MINUTES", 60)
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "marma_admin")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("FORGOT_PASSWORD_LIMIT", 5)
	v.SetDefault("FORGOT_PASSWORD_WINDOW_MINUTES", 15)

	v.SetDefault("EMAIL_HOST", "")
	v.SetDefault("EMAIL_PORT", 587)
	v.SetDefault("EMAIL_USER", "")
	v.SetDefault("EMAIL_PASS", "")
	v.SetDefault("EMAIL_FROM", "")

	v.SetDefault("DEFAULT_ADMIN_USERNAME", "admin")
	v.SetDefault("DEFAULT_ADMIN_EMAIL", "admin@example.com")
	v.SetDefault("DEFAULT_ADMIN_PASSWORD", "Admin123!")
	v.SetDefault("DEFAULT_ADMIN_NAME", "Administrator")

	v.SetDefault("UPLOAD_BACKEND", "local")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")

	v.SetDefault("TLS_CERT_FILE", "")
	v.SetDefault("TLS_KEY_FILE", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("TRUSTED_PROXY", false)
	v.SetDefault("LOG_LEVEL", "info")
}

// Load reads a local .env file when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppEnv:        v.GetString("APP_ENV"),
		APIPort:       v.GetString("API_PORT"),
		JWTExp:        time.Duration(v.GetInt("JWT_EXPIRATION_HOURS")) * time.Hour,
		ResetTokenTTL: time.Duration(v.GetInt("RESET_TOKEN_TTL_MINUTES")) * time.Minute,
		FrontendURL:   strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),

		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSslMode:  v.GetString("DB_SSLMODE"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		ForgotPasswordLimit:  v.GetInt("FORGOT_PASSWORD_LIMIT"),
		ForgotPasswordWindow: time.Duration(v.GetInt("FORGOT_PASSWORD_WINDOW_MINUTES")) * time.Minute,

		EmailHost: v.GetString("EMAIL_HOST"),
		EmailPort: v.GetInt("EMAIL_PORT"),
		EmailUser: v.GetString("EMAIL_USER"),
		EmailPass: v.GetString("EMAIL_PASS"),
		EmailFrom: v.GetString("EMAIL_FROM"),

		DefaultAdminUsername: v.GetString("DEFAULT_ADMIN_USERNAME"),
		DefaultAdminEmail:    strings.ToLower(v.GetString("DEFAULT_ADMIN_EMAIL")),
		DefaultAdminPassword: v.GetString("DEFAULT_ADMIN_PASSWORD"),
		DefaultAdminName:     v.GetString("DEFAULT_ADMIN_NAME"),

		UploadBackend: strings.ToLower(v.GetString("UPLOAD_BACKEND")),
		UploadDir:     v.GetString("UPLOAD_DIR"),
		S3Bucket:      v.GetString("S3_BUCKET"),
		S3Region:      v.GetString("S3_REGION"),
		S3Endpoint:    v.GetString("S3_ENDPOINT"),
		S3AccessKey:   v.GetString("S3_ACCESS_KEY"),
		S3SecretKey:   v.GetString("S3_SECRET_KEY"),

		TLSCertFile: v.GetString("TLS_CERT_FILE"),
		TLSKeyFile:  v.GetString("TLS_KEY_FILE"),

		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		TrustedProxy:       v.GetBool("TRUSTED_PROXY"),
		LogLevel:           v.GetString("LOG_LEVEL"),
	}

	secret := v.GetString("JWT_SECRET")
	if secret == "" {
		if cfg.IsProduction() {
			return nil, ErrMissingJWTSecret
		}
		secret = devJWTSecret
	}
	cfg.JWTKey = []byte(secret)

	if cfg.EmailFrom == "" {
		cfg.EmailFrom = cfg.EmailUser
	}

	cfg.DBConnStr = "host=" + cfg.DBHost +
		" port=" + cfg.DBPort +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" sslmode=" + cfg.DBSslMode

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
