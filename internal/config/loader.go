package config

import (
	"fmt"

	"github.com/creamas/volcert/internal/db"
	"github.com/spf13/viper"
)

// Config aggregates every runtime setting for the service.
type Config struct {
	Server      ServerConfig
	Database    db.Config
	Certificate CertificateConfig
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// CertificateConfig holds the certificate rendering settings.
type CertificateConfig struct {
	TemplatePath string
	VerifierURL  string
}

// Load reads config.yaml from configPath and applies environment overrides.
func Load(configPath string) (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: db.DefaultConfig(),
		Certificate: CertificateConfig{
			TemplatePath: "./static/plantilla_certificado.pdf",
			VerifierURL:  "https://creamas.org/voluntariado/verificador/",
		},
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()          // allow environment overrides
	v.SetEnvPrefix("VOLCERT") // map env vars like VOLCERT_DATABASE.HOST

	v.BindEnv("server.addr")
	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("certificate.template_path")
	v.BindEnv("certificate.verifier_url")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Just log it, use defaults + env
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	// Override defaults if values exist
	if v.IsSet("server.addr") {
		cfg.Server.Addr = v.GetString("server.addr")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.Server.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("certificate.template_path") {
		cfg.Certificate.TemplatePath = v.GetString("certificate.template_path")
	}
	if v.IsSet("certificate.verifier_url") {
		cfg.Certificate.VerifierURL = v.GetString("certificate.verifier_url")
	}

	return cfg, nil
}
