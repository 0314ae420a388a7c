package globals

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var (
	JwtSecret = []byte("your_secret_key") // overridden by JWT_SECRET

	SiteURL   = "http://localhost:8080"
	MongoURI  = "mongodb://localhost:27017"
	MongoDB   = "recipepress"
	RedisAddr = "localhost:6379"
	RedisPass = ""
	UploadDir = "./static/uploads"
	LogLevel  = "info"
	Port      = ":8080"
)

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"

var Ctx = context.Background()

// LoadEnv reads .env if present and copies the known keys into the package vars.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}
	setFromEnv(&SiteURL, "SITE_URL")
	setFromEnv(&MongoURI, "MONGO_URI")
	setFromEnv(&MongoDB, "MONGO_DB")
	setFromEnv(&RedisAddr, "REDIS_ADDR")
	setFromEnv(&RedisPass, "REDIS_PASSWORD")
	setFromEnv(&UploadDir, "UPLOAD_DIR")
	setFromEnv(&LogLevel, "LOG_LEVEL")
	if s := os.Getenv("JWT_SECRET"); s != "" {
		JwtSecret = []byte(s)
	}
	if p := os.Getenv("PORT"); p != "" {
		if p[0] != ':' {
			p = ":" + p
		}
		Port = p
	}
	SiteURL = strings.TrimRight(SiteURL, "/")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
