package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración del agente (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	Store   StoreConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Backend BackendConfig
	Retry   RetryConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env   string // development, staging, production
	Name  string
	Level string // trace, debug, info, warn, error
}

// StoreConfig selecciona el almacenamiento local de la caché.
type StoreConfig struct {
	Driver string // "postgres" (por defecto) o "memory"
}

// DBConfig configuración de PostgreSQL (caché local del dispositivo).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
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

// JWTConfig configuración del token de sesión local.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
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

// BackendConfig configuración del backend remoto de LibertVendas.
type BackendConfig struct {
	BaseURL     string
	Timeout     time.Duration
	CompanyCNPJ string // CNPJ usado en la importación cuando aún no hay sesión
}

// RetryConfig política de reintentos del login ante timeouts.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, BACKEND_URL, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

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
			Env:   getString(v, "APP_ENV", "development"),
			Name:  getString(v, "APP_NAME", "libertvendas-agent"),
			Level: getString(v, "LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Driver: getString(v, "STORE_DRIVER", "postgres"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "libertvendas"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 720),
			Issuer:     getString(v, "JWT_ISSUER", "libertvendas-agent"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "127.0.0.1"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Backend: BackendConfig{
			BaseURL:     getString(v, "BACKEND_URL", "http://localhost:9000/"),
			Timeout:     getDuration(v, "BACKEND_TIMEOUT", 30*time.Second),
			CompanyCNPJ: getString(v, "BACKEND_COMPANY_CNPJ", "18285835000109"),
		},
		Retry: RetryConfig{
			MaxRetries: getInt(v, "LOGIN_MAX_RETRIES", 3),
			BaseDelay:  getDuration(v, "LOGIN_RETRY_BASE_DELAY", 5*time.Second),
		},
	}

	if cfg.Store.Driver != "postgres" && cfg.Store.Driver != "memory" {
		return nil, fmt.Errorf("config: STORE_DRIVER desconocido %q (usar 'postgres' o 'memory')", cfg.Store.Driver)
	}
	if cfg.Retry.MaxRetries < 0 {
		return nil, fmt.Errorf("config: LOGIN_MAX_RETRIES no puede ser negativo")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
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

// getDuration acepta "5s", "1m30s" o un número entero de segundos.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	raw := strings.TrimSpace(v.GetString(key))
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
