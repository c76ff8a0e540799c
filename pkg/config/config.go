package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App         AppConfig
	HTTP        HTTPConfig
	API         APIConfig
	Credentials CredentialsConfig
	DB          DBConfig
	Sentry      SentryConfig
	FakeAPI     FakeAPIConfig
	Receipt     ReceiptConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP local.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// APIConfig configuración del API remoto de pedidos.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CredentialsConfig dónde se guardan los tokens de sesión.
type CredentialsConfig struct {
	Driver string // memory | postgres
}

// DBConfig configuración de PostgreSQL (solo si Credentials.Driver = postgres).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	// ForceIPv4 marca el dial solo por IPv4 (redes de contenedores sin IPv6).
	ForceIPv4 bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// SentryConfig reporte de errores (vacío = deshabilitado).
type SentryConfig struct {
	DSN string
}

// ReceiptConfig comprobantes PDF. FeedURL es la base del enlace del QR (vacío = sin QR).
type ReceiptConfig struct {
	FeedURL string
}

// FakeAPIConfig configuración del API de pruebas (cmd/fakeapi).
type FakeAPIConfig struct {
	Host         string
	Port         int
	JWTSecret    string
	TokenMinutes int
	CookSeconds  int
	SeedOrders   int
}

// Addr devuelve la dirección de escucha del API de pruebas.
func (c FakeAPIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, BURGER_API_URL, HTTP_PORT, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "stellar-burgers"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "127.0.0.1"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(getString(v, "BURGER_API_URL", "https://norma.nomoreparties.space/api"), "/"),
			Timeout: time.Duration(getInt(v, "BURGER_API_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Credentials: CredentialsConfig{
			Driver: strings.ToLower(getString(v, "CREDENTIALS_DRIVER", "memory")),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "stellar_burgers"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 4),
			ForceIPv4:   getBool(v, "DB_FORCE_IPV4", false),
		},
		Sentry: SentryConfig{
			DSN: getString(v, "SENTRY_DSN", ""),
		},
		Receipt: ReceiptConfig{
			FeedURL: getString(v, "RECEIPT_FEED_URL", ""),
		},
		FakeAPI: FakeAPIConfig{
			Host:         getString(v, "FAKEAPI_HOST", "127.0.0.1"),
			Port:         getInt(v, "FAKEAPI_PORT", 8090),
			JWTSecret:    getString(v, "FAKEAPI_JWT_SECRET", "fakeapi-dev-secret"),
			TokenMinutes: getInt(v, "FAKEAPI_TOKEN_MINUTES", 20),
			CookSeconds:  getInt(v, "FAKEAPI_COOK_SECONDS", 30),
			SeedOrders:   getInt(v, "FAKEAPI_SEED_ORDERS", 12),
		},
	}

	switch cfg.Credentials.Driver {
	case "memory", "postgres":
	default:
		return nil, fmt.Errorf("config: CREDENTIALS_DRIVER inválido %q (memory | postgres)", cfg.Credentials.Driver)
	}
	if cfg.API.Timeout <= 0 {
		return nil, fmt.Errorf("config: BURGER_API_TIMEOUT_SECONDS debe ser positivo")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
