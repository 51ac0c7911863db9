package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TIMEZONE", "UTC")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, "mysql", c.DBDriver)
	assert.Equal(t, 5, c.MinLeadDays)
	assert.Equal(t, 12*time.Hour, c.JWTTTL)
	assert.Equal(t, 300, c.IdempTTLSecs)
	assert.False(t, c.UseS3())
	assert.False(t, c.UseSMTP())
	require.NoError(t, c.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MIN_LEAD_DAYS", "2")
	t.Setenv("S3_BUCKET", "contracts")
	t.Setenv("SMTP_HOST", "smtp.example.org")
	t.Setenv("REMINDER_AT", "06:30")
	t.Setenv("TIMEZONE", "UTC")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", c.AppPort)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "/tmp/x.db", c.SQLitePath)
	assert.Equal(t, 3, c.RedisDB)
	assert.Equal(t, 2, c.MinLeadDays)
	assert.True(t, c.UseS3())
	assert.True(t, c.UseSMTP())

	h, m, err := c.ReminderClock()
	require.NoError(t, err)
	assert.Equal(t, 6, h)
	assert.Equal(t, 30, m)
	require.NoError(t, c.Validate())
}

func TestValidate_Errors(t *testing.T) {
	base := func() *Config {
		return &Config{
			AppPort: "8080", DBDriver: "mysql",
			MySQLHost: "db", MySQLPort: "3306", MySQLDB: "lending", MySQLUser: "u",
			JWTSecret: "x", Timezone: "UTC", ReminderAt: "07:00", MinLeadDays: 5,
		}
	}
	require.NoError(t, base().Validate())

	cases := map[string]func(c *Config){
		"missing host":   func(c *Config) { c.MySQLHost = "" },
		"bad port":       func(c *Config) { c.MySQLPort = "not-a-port" },
		"bad driver":     func(c *Config) { c.DBDriver = "oracle" },
		"missing secret": func(c *Config) { c.JWTSecret = "" },
		"bad timezone":   func(c *Config) { c.Timezone = "Mars/Olympus" },
		"bad reminder":   func(c *Config) { c.ReminderAt = "7am" },
		"negative lead":  func(c *Config) { c.MinLeadDays = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	c := &Config{MySQLUser: "u", MySQLPass: "p", MySQLHost: "db", MySQLPort: "3306", MySQLDB: "lending"}
	assert.Equal(t, "u:p@tcp(db:3306)/lending?multiStatements=true&parseTime=true&charset=utf8mb4,utf8", c.MySQLDSN())
}
