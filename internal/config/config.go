package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port          string
	RedisHost     string
	RedisPassword string
	RedisDB       int

	SessionSecret string
	SessionTTL    time.Duration
	JWTSecret     string
	// FrontendURLs : origines autorisées par CORS
	FrontendURLs []string

	LogJSON  bool
	LogLevel string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	UPIPayee     string
	UPIPayeeName string

	CartRateLimit int
}

// Load charge .env s'il existe puis lit la configuration depuis l'environnement
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé, on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
	return FromEnv()
}

// FromEnv lit la configuration sans toucher au fichier .env
func FromEnv() Config {
	return Config{
		Port:          getEnv("PORT", "8080"),
		RedisHost:     getEnv("REDIS_HOST", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),
		SessionSecret: getEnv("SESSION_SECRET", "dev-session-secret"),
		SessionTTL:    getDuration("SESSION_TTL", 24*time.Hour),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		FrontendURLs:  splitList(getEnv("FRONTEND_URL", "http://localhost:3000")),
		LogJSON:       getBool("LOG_JSON", false),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      getInt("SMTP_PORT", 587),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		MailFrom:      getEnv("MAIL_FROM", "noreply@sack.app"),
		UPIPayee:      os.Getenv("UPI_PAYEE"),
		UPIPayeeName:  getEnv("UPI_PAYEE_NAME", "Sack Laundry"),
		CartRateLimit: getInt("CART_RATE_LIMIT", 60),
	}
}

// ConfigureLogging applique le format et le niveau de logrus
func (c Config) ConfigureLogging() {
	if c.LogJSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Warnf("⚠️ LOG_LEVEL invalide %q, niveau info utilisé", c.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
