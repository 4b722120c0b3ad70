// Package config provides centralized default values for Mooday
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Security
	JWTSecret       string
	SessionTokenTTL time.Duration

	// Database
	DBDriver           string
	DBPath             string
	SlowQueryThreshold time.Duration

	// Local persisted state (hydration store)
	StateDir string

	// Media
	MediaDir        string
	AvatarMaxPixels int
	AvatarQuality   float32

	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	ResetBaseURL  string

	// OAuth
	GoogleUserinfoURL string

	// Transcription (AssemblyAI)
	AAIAPIKey string

	// Feed
	FeedPageSize   int
	SeedSampleFeed bool

	// Logging
	LogDirectory string
	LogToFile    bool
	Verbose      bool
)

// Initialize loads the .env file once and resolves every config value.
// Call it before anything reads the package vars.
func Initialize() {
	loadEnvFile()

	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	JWTSecret = getEnvString("JWT_SECRET", "")
	SessionTokenTTL = getEnvDuration("SESSION_TOKEN_TTL", 30*24*time.Hour)

	DBDriver = getEnvString("DB_DRIVER", "sqlite3")
	DBPath = getEnvString("DB_PATH", "mooday.db")
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 50*time.Millisecond)

	StateDir = getEnvString("STATE_DIR", "state")

	MediaDir = getEnvString("MEDIA_DIR", "media")
	AvatarMaxPixels = getEnvInt("AVATAR_MAX_PIXELS", 256)
	AvatarQuality = float32(getEnvInt("AVATAR_QUALITY", 85))

	ResendAPIKey = getEnvString("RESEND_API_KEY", "")
	EmailFrom = getEnvString("EMAIL_FROM", "noreply@mooday.app")
	EmailFromName = getEnvString("EMAIL_FROM_NAME", "Mooday")
	ResetBaseURL = getEnvString("RESET_BASE_URL", "https://mooday.app/auth/reset")

	GoogleUserinfoURL = getEnvString("GOOGLE_USERINFO_URL", "https://www.googleapis.com/oauth2/v3/userinfo")

	AAIAPIKey = getEnvString("AAI_API_KEY", "")

	FeedPageSize = getEnvInt("FEED_PAGE_SIZE", 50)
	SeedSampleFeed = getEnvBool("SEED_SAMPLE_FEED", true)

	LogDirectory = getEnvString("LOG_DIRECTORY", "logs")
	LogToFile = getEnvBool("LOG_TO_FILE", false)
	Verbose = getEnvBool("VERBOSE", false)
}
