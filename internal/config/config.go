package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/user/cinedash/internal/model"
)

// Config 应用配置
type Config struct {
	Env      string
	LogLevel string

	// 客户端
	APIBaseURL         string
	ImageBaseURL       string
	StorageDriver      string
	StorageDir         string
	DatabaseURL        string
	RequestTimeout     time.Duration
	HydrateConcurrency int
	Roles              model.RoleIDs
	MovieCacheSize     int
	MovieCacheTTL      time.Duration
	RoleCacheTTL       time.Duration

	// 本地目录服务
	Port      string
	AppSecret string
	JWTExpiry time.Duration
	SeedDemo  bool
}

// Load 加载配置
func Load() *Config {
	expiryHours := getInt("JWT_EXPIRY_HOURS", 72)

	apiBase := strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:5005"), "/")

	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "cinedash")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := getEnv("DATABASE_URL", fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL))

	appSecret := getEnv("APP_SECRET", getEnv("JWT_SECRET", "your-secret-key-change-in-production"))

	if getEnv("APP_ENV", "development") == "production" && appSecret == "your-secret-key-change-in-production" {
		fmt.Println("【严重警告】生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}

	return &Config{
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		APIBaseURL:         apiBase,
		ImageBaseURL:       strings.TrimRight(getEnv("IMAGE_BASE_URL", apiBase), "/"),
		StorageDriver:      getEnv("STORAGE_DRIVER", "file"),
		StorageDir:         getEnv("STORAGE_DIR", defaultStorageDir()),
		DatabaseURL:        dbURL,
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 15*time.Second),
		HydrateConcurrency: getInt("HYDRATE_CONCURRENCY", 5),
		Roles: model.RoleIDs{
			Admin: getEnv("ADMIN_ROLE_ID", model.DefaultAdminRoleID),
			User:  getEnv("USER_ROLE_ID", model.DefaultUserRoleID),
		},
		MovieCacheSize: getInt("MOVIE_CACHE_SIZE", 256),
		MovieCacheTTL:  getDuration("MOVIE_CACHE_TTL", 5*time.Minute),
		RoleCacheTTL:   getDuration("ROLE_CACHE_TTL", 10*time.Minute),
		Port:           getEnv("PORT", "5005"),
		AppSecret:      appSecret,
		JWTExpiry:      time.Duration(expiryHours) * time.Hour,
		SeedDemo:       getBool("SEED_DEMO", true),
	}
}

// defaultStorageDir ~/.cinedash
func defaultStorageDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cinedash"
	}
	return home + string(os.PathSeparator) + ".cinedash"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
