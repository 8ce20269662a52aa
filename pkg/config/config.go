package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	DB       DBConfig
	HTTP     HTTPConfig
	Mail     MailConfig
	Site     SiteConfig
	Features FeaturesConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string // trace, debug, info, warn, error
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo (ej. DATABASE_URL de Railway).
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
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

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Backends de correo soportados.
const (
	MailBackendSMTP    = "smtp"
	MailBackendConsole = "console"
)

// MailConfig transporte del correo de bienvenida.
// Con Backend "console" los mensajes se escriben en el log en lugar de enviarse.
type MailConfig struct {
	Backend  string
	Host     string
	Port     int
	UseSSL   bool // TLS implícito (puerto 465); si es false se usa STARTTLS cuando el servidor lo ofrece
	Username string
	Password string
	From     string
	TeamName string // firma del correo
}

// MaskedPassword devuelve la contraseña ofuscada para imprimirla en diagnósticos.
func (c MailConfig) MaskedPassword() string {
	if c.Password == "" {
		return "NOT SET"
	}
	if len(c.Password) <= 4 {
		return "***"
	}
	return "***" + c.Password[len(c.Password)-4:]
}

// SiteConfig textos del panel administrativo, entregados a la capa HTTP al arrancar.
type SiteConfig struct {
	Header     string
	Title      string
	IndexTitle string
}

// FeaturesConfig superficies opcionales del servidor.
type FeaturesConfig struct {
	Swagger bool
	Metrics bool
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, EMAIL_HOST, SITE_HEADER, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "exhibition-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "exhibition_user"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "exhibition_db"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
			MinConns:    getInt(v, "DB_MIN_CONNS", 2),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", true),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Mail: MailConfig{
			Backend:  strings.ToLower(getString(v, "EMAIL_BACKEND", MailBackendConsole)),
			Host:     getString(v, "EMAIL_HOST", "smtp.gmail.com"),
			Port:     getInt(v, "EMAIL_PORT", 587),
			UseSSL:   getBool(v, "EMAIL_USE_SSL", false),
			Username: getString(v, "EMAIL_HOST_USER", ""),
			Password: getString(v, "EMAIL_HOST_PASSWORD", ""),
			From:     getString(v, "DEFAULT_FROM_EMAIL", "noreply@exhibition.com"),
			TeamName: getString(v, "EMAIL_TEAM_NAME", "Exhibition Team"),
		},
		Site: SiteConfig{
			Header:     getString(v, "SITE_HEADER", "Exhibition Customer Management System"),
			Title:      getString(v, "SITE_TITLE", "Exhibition Admin"),
			IndexTitle: getString(v, "SITE_INDEX_TITLE", "Manage Customers and Billing"),
		},
		Features: FeaturesConfig{
			Swagger: getBool(v, "SWAGGER_ENABLED", true),
			Metrics: getBool(v, "METRICS_ENABLED", true),
		},
	}

	if cfg.Mail.Backend != MailBackendSMTP && cfg.Mail.Backend != MailBackendConsole {
		return nil, fmt.Errorf("config: EMAIL_BACKEND inválido %q (smtp|console)", cfg.Mail.Backend)
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
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
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

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}
