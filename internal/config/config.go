package config

import (
	"errors"
	"fmt"
	"math"
	"net/netip"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Ledger backends.
const (
	LedgerMemory = "memory"
	LedgerRedis  = "redis"
	LedgerDynamo = "dynamo"
)

// Identity providers.
const (
	IdentityFirebase = "firebase"
	IdentityLocal    = "local"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort       string
	AppEnv        string
	PublicBaseURL string // external base of this API, used in verification links

	DatabaseURL string
	DBMaxConns  int

	JWTSecret         string
	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration
	BcryptCost        int

	LedgerBackend string
	RedisURL      string

	IdentityProvider    string
	FirebaseProjectID   string
	FirebaseClientEmail string
	FirebasePrivateKey  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string
	S3PublicURL    string
	MaxFileSize    int64

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string
	SNSRegion    string

	AllowedOrigins []string // CORS allowed origins
	RateLimitRPS   int
	RateLimitBurst int
	TrustedProxies []string // IPs or CIDRs whose forwarding headers are honoured
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Verifications string
	Media         string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		AppPort:       getEnv("PORT", "4000"),
		AppEnv:        getEnv("APP_ENV", getEnv("NODE_ENV", "development")),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		DBMaxConns:    getEnvInt("DB_MAX_CONNS", 10),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTExpiry:     90 * 24 * time.Hour,
		LedgerBackend: getEnv("LEDGER_BACKEND", LedgerMemory),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379/0"),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", ""),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", ""),
		BcryptCost:        getEnvInt("BCRYPT_COST", 10),

		IdentityProvider:    getEnv("IDENTITY_PROVIDER", IdentityFirebase),
		FirebaseProjectID:   getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseClientEmail: getEnv("FIREBASE_CLIENT_EMAIL", ""),
		// Keys pasted into .env files usually carry literal "\n" sequences.
		FirebasePrivateKey: strings.ReplaceAll(getEnv("FIREBASE_PRIVATE_KEY", ""), `\n`, "\n"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Verifications: getEnv("DYNAMO_TABLE_VERIFICATIONS", "verifications"),
			Media:         getEnv("DYNAMO_TABLE_MEDIA", "media"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "bluestock-media"),
		S3PublicURL:  getEnv("S3_PUBLIC_BASE_URL", ""),
		MaxFileSize:  int64(getEnvInt("MAX_FILE_SIZE", 5*1024*1024)),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@bluestock.local"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SNSRegion:    getEnv("SNS_REGION", ""),

		AllowedOrigins: splitList(getEnv("CORS_ORIGIN", "http://localhost:5173")),
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
		TrustedProxies: splitList(getEnv("TRUSTED_PROXIES", "")),
	}
	cfg.PublicBaseURL = strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+cfg.AppPort), "/")
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = databaseURLFromParts()
	}
	if d, err := ParseExpiry(getEnv("JWT_EXPIRES_IN", "90d")); err == nil {
		cfg.JWTExpiry = d
	}
	return cfg
}

// Validate reports configuration that would leave the service unable to start.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" && (c.JWTPrivateKeyPath == "" || c.JWTPublicKeyPath == "") {
		errs = append(errs, errors.New("JWT_SECRET or JWT_PRIVATE_KEY_PATH/JWT_PUBLIC_KEY_PATH is required"))
	}
	switch c.LedgerBackend {
	case LedgerMemory, LedgerRedis, LedgerDynamo:
	default:
		errs = append(errs, fmt.Errorf("unknown LEDGER_BACKEND %q", c.LedgerBackend))
	}
	switch c.IdentityProvider {
	case IdentityLocal:
	case IdentityFirebase:
		if c.FirebaseProjectID == "" || c.FirebaseClientEmail == "" || c.FirebasePrivateKey == "" {
			errs = append(errs, errors.New("FIREBASE_PROJECT_ID, FIREBASE_CLIENT_EMAIL and FIREBASE_PRIVATE_KEY are required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown IDENTITY_PROVIDER %q", c.IdentityProvider))
	}
	if c.MaxFileSize <= 0 {
		errs = append(errs, errors.New("MAX_FILE_SIZE must be positive"))
	}
	if _, err := c.TrustedProxyPrefixes(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// TrustedProxyPrefixes parses TrustedProxies. A bare address becomes a
// single-host prefix. Valid entries are returned even when others fail.
func (c *Config) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	var (
		out  []netip.Prefix
		errs []error
	)
	for _, raw := range c.TrustedProxies {
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", raw))
				continue
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", raw))
			continue
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, errors.Join(errs...)
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// maxExpiryDays is the largest day count a time.Duration can hold.
const maxExpiryDays = math.MaxInt64 / int64(24*time.Hour)

// ParseExpiry accepts Go durations ("36h") and whole days ("90d").
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.ParseInt(days, 10, 64)
		if err != nil || n <= 0 || n > maxExpiryDays {
			return 0, fmt.Errorf("invalid expiry %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid expiry %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid expiry %q", s)
	}
	return d, nil
}

func databaseURLFromParts() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   getEnv("DB_HOST", "localhost") + ":" + getEnv("DB_PORT", "5432"),
		Path:   "/" + getEnv("DB_NAME", "company_db"),
	}
	user := getEnv("DB_USER", "postgres")
	if pw := getEnv("DB_PASSWORD", ""); pw != "" {
		u.User = url.UserPassword(user, pw)
	} else {
		u.User = url.User(user)
	}
	q := url.Values{}
	q.Set("sslmode", getEnv("DB_SSLMODE", "disable"))
	u.RawQuery = q.Encode()
	return u.String()
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
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
