// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"shopbackend/internal/logger"
)

// Store backends
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

var (
	dataDirectory string
	sqlitePath    string
	storeBackend  string
)

// StoreSettings describes where and how state is persisted
type StoreSettings struct {
	Backend    string
	DataDir    string
	SQLitePath string
}

//
// --- Utility Helpers ---
//

// Helper: get a setting based on ENVIRONMENT (dev or prod)
func GetEnvBasedSetting(base string) string {
	return os.Getenv(fmt.Sprintf("%s_%s", base, strings.ToUpper(Environment())))
}

// Environment returns the ENVIRONMENT value, defaulting to dev
func Environment() string {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}
	return env
}

// Helper: log which environment is running
func LogCurrentEnvironment() {
	if Environment() == "dev" {
		logger.LogInfo("Running in development environment")
	} else {
		logger.LogInfo("Running in production environment")
	}
	logger.LogInfo("Store backend: %s, data directory: %s", storeBackend, dataDirectory)
}

//
// --- Loaders ---
//

// LoadEnv reads .env file
func LoadEnv() {
	wd, err := os.Getwd()
	if err != nil {
		log.Printf("Could not determine working directory: %v", err)
	}

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No .env file found in %s. Using system environment variables.", wd)
	}
}

// LoggerConfig returns a logger.Config struct populated from environment
func LoggerConfig() logger.Config {
	logDir := GetEnvBasedSetting("LOGS_DIRECTORY")
	if logDir == "" {
		logDir = "./logs"
	}

	logFormat := GetEnvBasedSetting("LOG_FILE_FORMAT")
	if logFormat == "" {
		logFormat = "shop_%s.log"
	}

	timezone := os.Getenv("TIME_ZONE")
	if timezone == "" {
		timezone = "Local"
	}

	return logger.Config{
		LogsDirectory: logDir,
		LogFileFormat: logFormat,
		TimeZone:      timezone,
		Console:       os.Getenv("LOG_TO_CONSOLE") == "true",
	}
}

// ConfigurePaths sets up folders and paths
func ConfigurePaths() error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	dataDirectory = GetEnvBasedSetting("DATA_DIRECTORY")
	if dataDirectory == "" {
		dataDirectory = filepath.Join(wd, "data")
	}

	storeBackend = strings.ToLower(strings.TrimSpace(os.Getenv("STORE_BACKEND")))
	switch storeBackend {
	case "":
		storeBackend = BackendJSON
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q (expected %q or %q)", storeBackend, BackendJSON, BackendSQLite)
	}

	sqlitePath = GetEnvBasedSetting("SQLITE_PATH")
	if sqlitePath == "" {
		sqlitePath = filepath.Join(dataDirectory, "shop.db")
	}

	return nil
}

// StoreConfig returns the persistence settings resolved by ConfigurePaths
func StoreConfig() StoreSettings {
	return StoreSettings{
		Backend:    storeBackend,
		DataDir:    dataDirectory,
		SQLitePath: sqlitePath,
	}
}

// LogRetentionDays reads LOG_RETENTION_DAYS; 0 means the cleanup default
func LogRetentionDays() int {
	days, err := strconv.Atoi(os.Getenv("LOG_RETENTION_DAYS"))
	if err != nil {
		return 0
	}
	return days
}
