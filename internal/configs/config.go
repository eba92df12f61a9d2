package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// RabbitMQConfig хранит конфигурацию для RabbitMQ
type RabbitMQConfig struct {
	URL     string
	Enabled bool
}

type RESTconfig struct {
	PORT string
}

// DadataConfig - доступ к сервису нормализации адресов и юрлиц
type DadataConfig struct {
	Token  string
	Secret string
}

// StoreConfig - табличное хранилище реестра.
// Backend "postgres" требует DATABASE_URL, "excel" - путь к книге
type StoreConfig struct {
	Backend      string
	DatabaseURL  string
	WorkbookPath string
}

// CaptureConfig - внешний сервис снятия документов
type CaptureConfig struct {
	URL string
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	Rest         RESTconfig
	Dadata       DadataConfig
	Store        StoreConfig
	RabbitMQ     RabbitMQConfig
	Capture      CaptureConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v. Using process environment.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "gkh-bot")

	cfg.Rest.PORT = getEnvAsString("PORT", "5000")

	cfg.Dadata.Token = os.Getenv("DADATA_TOKEN")
	if cfg.Dadata.Token == "" {
		return nil, fmt.Errorf("DADATA_TOKEN environment variable is required")
	}
	cfg.Dadata.Secret = os.Getenv("DADATA_SECRET")
	if cfg.Dadata.Secret == "" {
		return nil, fmt.Errorf("DADATA_SECRET environment variable is required")
	}

	cfg.Store.Backend = getEnvAsString("STORE_BACKEND", "postgres")
	switch cfg.Store.Backend {
	case "postgres":
		cfg.Store.DatabaseURL = os.Getenv("DATABASE_URL")
		if cfg.Store.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required for the postgres store backend")
		}
	case "excel":
		cfg.Store.WorkbookPath = getEnvAsString("WORKBOOK_PATH", "registry.xlsx")
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q: expected postgres or excel", cfg.Store.Backend)
	}

	cfg.RabbitMQ.Enabled = getEnvAsBool("RABBITMQ_ENABLED", false)
	if cfg.RabbitMQ.Enabled {
		cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
		if cfg.RabbitMQ.URL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL environment variable is required when RABBITMQ_ENABLED is true")
		}
	}

	cfg.Capture.URL = getEnvAsString("CAPTURE_SERVICE_URL", "http://localhost:8090")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
