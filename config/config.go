package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "change-me-in-production"

type Config struct {
	Env                 string
	Port                string
	PublicURL           string // used to build links in outgoing email
	MongoURI            string
	DBName              string
	JWTSecret           string
	JWTExpire           time.Duration
	JWTCookieExpire     time.Duration
	ResetPasswordExpire time.Duration
	CORSOrigins         []string

	// Uploads
	StorageDriver  string // local, s3 or minio
	FileUploadPath string
	FileMaxSize    int64
	S3Bucket       string
	S3Region       string
	S3AccessKeyID  string
	S3SecretKey    string
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	// Outgoing mail
	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	FromName  string
	FromEmail string

	// Admin account ensured at startup when both are set
	AdminEmail    string
	AdminPassword string
}

func Load() (*Config, error) {
	jwtExpire, err := parseDuration(getEnv("JWT_EXPIRE", "30d"))
	if err != nil {
		return nil, fmt.Errorf("JWT_EXPIRE: %w", err)
	}
	cookieExpire, err := parseDuration(getEnv("JWT_COOKIE_EXPIRE", "30d"))
	if err != nil {
		return nil, fmt.Errorf("JWT_COOKIE_EXPIRE: %w", err)
	}
	resetMinutes := getEnvInt("RESET_PASSWORD_EXPIRE", 10)
	if resetMinutes <= 0 {
		return nil, fmt.Errorf("RESET_PASSWORD_EXPIRE must be a positive number of minutes")
	}
	driver := strings.ToLower(getEnv("STORAGE_DRIVER", "local"))
	switch driver {
	case "local", "s3", "minio":
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER must be local, s3 or minio (got %q)", driver)
	}
	port := getEnv("PORT", "5000")

	return &Config{
		Env:                 getEnv("APP_ENV", "development"),
		Port:                port,
		PublicURL:           strings.TrimRight(getEnv("PUBLIC_URL", "http://localhost:"+port), "/"),
		MongoURI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:              getEnv("MONGODB_DB", "devblog"),
		JWTSecret:           getEnv("JWT_SECRET", defaultJWTSecret),
		JWTExpire:           jwtExpire,
		JWTCookieExpire:     cookieExpire,
		ResetPasswordExpire: time.Duration(resetMinutes) * time.Minute,
		CORSOrigins:         splitList(getEnv("CORS_ORIGINS", "*")),
		StorageDriver:       driver,
		FileUploadPath:      getEnv("FILE_UPLOAD_PATH", "./public/uploads"),
		FileMaxSize:         int64(getEnvInt("FILE_MAX_SIZE", 1000000)),
		S3Bucket:            getEnv("AWS_S3_BUCKET", ""),
		S3Region:            getEnv("AWS_REGION", "us-east-1"),
		S3AccessKeyID:       getEnv("AWS_ACCESS_KEY_ID", ""),
		S3SecretKey:         getEnv("AWS_SECRET_ACCESS_KEY", ""),
		MinIOEndpoint:       getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey:      getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:      getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:         getEnv("MINIO_BUCKET", "devblog"),
		MinIOUseSSL:         getEnvBool("MINIO_USE_SSL", false),
		SMTPHost:            getEnv("SMTP_HOST", "localhost"),
		SMTPPort:            getEnvInt("SMTP_PORT", 2525),
		SMTPUser:            getEnv("SMTP_USER", ""),
		SMTPPass:            getEnv("SMTP_PASS", ""),
		FromName:            getEnv("FROM_NAME", "DevBlog"),
		FromEmail:           getEnv("FROM_EMAIL", "noreply@devblog.local"),
		AdminEmail:          strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", ""))),
		AdminPassword:       getEnv("ADMIN_PASSWORD", ""),
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ValidateEnv logs what was loaded and refuses to run a production server on
// defaults that would be unsafe. Calls log.Fatal on failure.
func (c *Config) ValidateEnv() {
	for _, key := range []string{"MONGODB_URI", "MONGODB_DB", "JWT_SECRET", "STORAGE_DRIVER", "SMTP_HOST"} {
		if strings.TrimSpace(os.Getenv(key)) == "" {
			log.Printf("env %s not set, using default", key)
		} else {
			log.Printf("env %s loaded", key)
		}
	}
	if !c.IsProduction() {
		return
	}
	if c.JWTSecret == defaultJWTSecret {
		log.Fatal("JWT_SECRET must be set to a strong secret in production")
	}
	switch c.StorageDriver {
	case "s3":
		if c.S3Bucket == "" {
			log.Fatal("AWS_S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	case "minio":
		if c.MinIOAccessKey == "" || c.MinIOSecretKey == "" {
			log.Fatal("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when STORAGE_DRIVER=minio")
		}
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// parseDuration accepts Go durations plus a "d" suffix for days ("30d").
func parseDuration(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if days, ok := strings.CutSuffix(v, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day count %q", v)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %q", v)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimRight(strings.TrimSpace(p), "/"); p != "" {
			out = append(out, p)
		}
	}
	return out
}
