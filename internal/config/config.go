package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort string
	AppEnv  string

	LogLevel  string
	LogFormat string

	DBDriver   string // mysql | sqlite
	SQLitePath string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	JWTSecret string
	JWTTTL    time.Duration

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	S3Endpoint     string
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
	S3UsePathStyle bool
	ContractDir    string
	ContractSeal   string // image URL stamped on contracts

	ChromeURL string

	Timezone    string
	MinLeadDays int
	ReminderAt  string // HH:MM, local time
}

func defaults(v *viper.Viper) {
	v.SetDefault("app_port", "8080")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("db_driver", "mysql")
	v.SetDefault("sqlite_path", "lending.db")
	v.SetDefault("mysql_host", "mysql")
	v.SetDefault("mysql_port", "3306")
	v.SetDefault("mysql_db", "lending")
	v.SetDefault("mysql_user", "lending")
	v.SetDefault("mysql_pass", "lending")
	v.SetDefault("redis_addr", "redis:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("idempotency_ttl_seconds", 300)
	v.SetDefault("jwt_ttl", "12h")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("mail_from", "prestamos@localhost")
	v.SetDefault("s3_region", "us-east-1")
	v.SetDefault("s3_use_path_style", true)
	v.SetDefault("contract_dir", "media/contracts")
	v.SetDefault("timezone", "America/Bogota")
	v.SetDefault("min_lead_days", 5)
	v.SetDefault("reminder_at", "07:00")
}

// Load reads config.yaml (optional, from . or /etc/campus-lending) and lets
// environment variables (APP_PORT, MYSQL_HOST, ...) override it.
func Load() (*Config, error) {
	v := viper.New()
	defaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/campus-lending")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	c := &Config{
		AppPort:   v.GetString("app_port"),
		AppEnv:    v.GetString("app_env"),
		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),

		DBDriver:   strings.ToLower(v.GetString("db_driver")),
		SQLitePath: v.GetString("sqlite_path"),

		MySQLHost: v.GetString("mysql_host"),
		MySQLPort: v.GetString("mysql_port"),
		MySQLDB:   v.GetString("mysql_db"),
		MySQLUser: v.GetString("mysql_user"),
		MySQLPass: v.GetString("mysql_pass"),

		RedisAddr:    v.GetString("redis_addr"),
		RedisDB:      v.GetInt("redis_db"),
		IdempTTLSecs: v.GetInt("idempotency_ttl_seconds"),

		JWTSecret: v.GetString("jwt_secret"),
		JWTTTL:    v.GetDuration("jwt_ttl"),

		SMTPHost: v.GetString("smtp_host"),
		SMTPPort: v.GetInt("smtp_port"),
		SMTPUser: v.GetString("smtp_user"),
		SMTPPass: v.GetString("smtp_pass"),
		MailFrom: v.GetString("mail_from"),

		S3Endpoint:     v.GetString("s3_endpoint"),
		S3Region:       v.GetString("s3_region"),
		S3Bucket:       v.GetString("s3_bucket"),
		S3AccessKey:    v.GetString("s3_access_key"),
		S3SecretKey:    v.GetString("s3_secret_key"),
		S3UsePathStyle: v.GetBool("s3_use_path_style"),
		ContractDir:    v.GetString("contract_dir"),
		ContractSeal:   v.GetString("contract_seal_url"),

		ChromeURL: v.GetString("chrome_url"),

		Timezone:    v.GetString("timezone"),
		MinLeadDays: v.GetInt("min_lead_days"),
		ReminderAt:  v.GetString("reminder_at"),
	}
	return c, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	if c.MinLeadDays < 0 {
		return fmt.Errorf("invalid MIN_LEAD_DAYS %d", c.MinLeadDays)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	if _, _, err := c.ReminderClock(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Location() (*time.Location, error) { return time.LoadLocation(c.Timezone) }

// ReminderClock parses ReminderAt into hour and minute.
func (c *Config) ReminderClock() (int, int, error) {
	t, err := time.Parse("15:04", c.ReminderAt)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid REMINDER_AT %q: expected HH:MM", c.ReminderAt)
	}
	return t.Hour(), t.Minute(), nil
}

// UseS3 reports whether contracts go to object storage instead of ContractDir.
func (c *Config) UseS3() bool { return c.S3Bucket != "" }

// UseSMTP reports whether mail is delivered; otherwise it is only logged.
func (c *Config) UseSMTP() bool { return c.SMTPHost != "" }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
