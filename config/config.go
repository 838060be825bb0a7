package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config carries everything main needs to wire the service. Values come
// from the environment (optionally via a .env file loaded in main).
type Config struct {
	Port string

	// MySQL DSN, resolved from MYSQL_URL / DATABASE_URL or from the
	// individual DB_* variables.
	DSN    string
	DBName string

	CorsOrigins []string

	// Log sink. Empty ElasticURL disables the indexing backend and the
	// service logs to console only.
	ElasticURL   string
	ElasticUser  string
	ElasticPass  string
	ElasticIndex string

	LogLevel string
}

func Load() (*Config, error) {
	dsn, dbName, err := resolveMySQLDSN()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:         envOrDefault("PORT", "8080"),
		DSN:          dsn,
		DBName:       dbName,
		CorsOrigins:  parseCorsOrigins(os.Getenv("CORS_ORIGINS")),
		ElasticURL:   strings.TrimSpace(os.Getenv("ELASTIC_URL")),
		ElasticUser:  envOrDefault("ELASTIC_USER", "elastic"),
		ElasticPass:  os.Getenv("ELASTIC_PASS"),
		ElasticIndex: envOrDefault("ELASTIC_INDEX", "backend-logs"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
	}, nil
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func mysqlDSNFromURL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode())
	return dsn, dbName, nil
}

func resolveMySQLDSN() (string, string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, strings.TrimSpace(os.Getenv("DB_NAME")), nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "hotel_db")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	)
	return dsn, dbName, nil
}
