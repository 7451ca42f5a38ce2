package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Storage  StorageConfig
	S3       S3Config
	Redis    RedisConfig
	Kafka    KafkaConfig
	Catalog  CatalogConfig
	Chat     ChatConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type StorageConfig struct {
	Driver    string // local, s3
	LocalRoot string // directory served under /images when Driver is local
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

// RedisConfig enables the Redis chat broker when Host is set.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// KafkaConfig enables catalog event publishing when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// CatalogConfig holds the listing policy knobs.
type CatalogConfig struct {
	DeletePenalty  float64
	GradeFloor     *float64
	LikeCountFloor *int
	PageSize       int
	ReconcileCron  string
}

type ChatConfig struct {
	WelcomeMessage string
}

const DefaultWelcomeMessage = "야무지게 물건을 팔아봐요!~!"

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	penalty, err := strconv.ParseFloat(getEnv("CATALOG_DELETE_PENALTY", "2.5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_DELETE_PENALTY: %w", err)
	}

	gradeFloor, err := parseOptionalFloat(getEnv("CATALOG_GRADE_FLOOR", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_GRADE_FLOOR: %w", err)
	}

	likeFloor, err := parseOptionalInt(getEnv("CATALOG_LIKE_COUNT_FLOOR", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_LIKE_COUNT_FLOOR: %w", err)
	}

	pageSize, err := strconv.Atoi(getEnv("CATALOG_PAGE_SIZE", "10"))
	if err != nil || pageSize <= 0 {
		return nil, fmt.Errorf("invalid CATALOG_PAGE_SIZE: %q", os.Getenv("CATALOG_PAGE_SIZE"))
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "cucumbermarket"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Storage: StorageConfig{
			Driver:    getEnv("STORAGE_DRIVER", "local"),
			LocalRoot: getEnv("STORAGE_LOCAL_ROOT", "./static"),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "ap-northeast-2"),
			Bucket:          getEnv("AWS_S3_BUCKET", "cucumbermarket-uploads"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers: parseSlice(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "cucumbermarket.catalog"),
		},
		Catalog: CatalogConfig{
			DeletePenalty:  penalty,
			GradeFloor:     gradeFloor,
			LikeCountFloor: likeFloor,
			PageSize:       pageSize,
			ReconcileCron:  getEnv("CATALOG_RECONCILE_CRON", "0 4 * * *"),
		},
		Chat: ChatConfig{
			WelcomeMessage: getEnv("CHAT_WELCOME_MESSAGE", DefaultWelcomeMessage),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

func (c *KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseOptionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseSlice(s string) []string {
	result := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
