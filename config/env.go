package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all environment configuration
type Config struct {
	// Database
	DatabaseHost     string
	DatabasePort     string
	PostgresUser     string
	PostgresPassword string
	DatabaseName     string
	BackupDSN        string

	// Server
	ListenAddress    string
	FrontendOrigins  []string
	TicketTransport  string
	RegistrationRate int
	EventsFile       string

	// Authentication
	JWTSecret string

	// Mail
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	MailBcc      string

	// File storage
	S3Endpoint       string
	S3PublicEndpoint string
	S3Region         string
	S3Bucket         string
	S3AccessKey      string
	S3SecretKey      string

	// Discord
	DiscordBotToken  string
	DiscordChannelID string

	// Google Sheets
	SheetsCredentialsFile string
	SheetsSpreadsheetID   string

	// Other
	KafkaBroker string
	RedisURL    string
	LogLevel    string
}

var (
	appConfig *Config
	onceEnv   sync.Once
)

func loadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		// Database - required
		DatabaseHost:     getEnvWithDefault("DATABASE_HOST", "localhost"),
		DatabasePort:     getEnvWithDefault("DATABASE_PORT", "5432"),
		PostgresUser:     getEnvWithDefault("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnvWithDefault("POSTGRES_PASSWORD", "postgres"),
		DatabaseName:     getEnvWithDefault("DATABASE_NAME", "postgres"),
		BackupDSN:        os.Getenv("BACKUP_DATABASE_DSN"),

		ListenAddress:    getEnvWithDefault("LISTEN_ADDRESS", ":8000"),
		FrontendOrigins:  strings.Split(getEnvWithDefault("FRONTEND_ORIGINS", "http://localhost:3000"), ","),
		TicketTransport:  getEnvWithDefault("TICKET_TRANSPORT", TicketTransportQuery),
		RegistrationRate: getEnvAsInt("REQUEST_LIMITER", 30),
		EventsFile:       os.Getenv("EVENTS_FILE"),

		// JWT - required
		JWTSecret: getEnv("JWT_SECRET"),

		// Mail - required for notifications
		SMTPHost:     getEnvWithDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 465),
		SMTPUser:     getEnv("SMTP_USER"),
		SMTPPassword: getEnv("SMTP_PASSWORD"),
		MailFrom:     getEnvWithDefault("MAIL_FROM", "InC <info@pictinc.org>"),
		MailBcc:      os.Getenv("MAIL_BCC"),

		// S3 - required for member id uploads
		S3Endpoint:       getEnv("S3_ENDPOINT"),
		S3PublicEndpoint: getEnv("S3_PUBLIC_ENDPOINT"),
		S3Region:         getEnvWithDefault("S3_REGION", "auto"),
		S3Bucket:         getEnvWithDefault("S3_BUCKET", "inc-ids"),
		S3AccessKey:      getEnv("S3_ACCESS_KEY"),
		S3SecretKey:      getEnv("S3_SECRET_KEY"),

		// Discord - optional
		DiscordBotToken:  os.Getenv("DISCORD_BOT_TOKEN"),
		DiscordChannelID: os.Getenv("DISCORD_CHANNEL_ID"),

		// Google Sheets - optional
		SheetsCredentialsFile: os.Getenv("SHEETS_CREDENTIALS_FILE"),
		SheetsSpreadsheetID:   os.Getenv("SHEETS_SPREADSHEET_ID"),

		// Other
		KafkaBroker: os.Getenv("KAFKA_BROKER"),
		RedisURL:    os.Getenv("REDIS_URL"),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
	}

	appConfig = config
	return config
}

const (
	TicketTransportQuery  = "query"
	TicketTransportCookie = "cookie"
)

func Env() *Config {
	onceEnv.Do(func() {
		appConfig = loadConfig()
	})
	return appConfig
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DatabaseHost, c.DatabasePort, c.PostgresUser, c.PostgresPassword, c.DatabaseName)
}

// Helper functions
func getEnv(key string) string {
	value := os.Getenv(key)
	if value == "" && IsProduction() {
		panic(fmt.Sprintf("Required environment variable %s is not set", key))
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// IsProduction returns true if running in production
func IsProduction() bool {
	return getEnvWithDefault("ENVIRONMENT", "development") == "production"
}
