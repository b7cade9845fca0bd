package config

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port            string
	ShutdownTimeout time.Duration
	DB              DBConfig
	Images          ImagesConfig
	PublicBaseURL   string
	Redis           RedisConfig
	Kafka           KafkaConfig
	Log             LogConfig
	RateLimit       RateLimitConfig
	MaxUploadBytes  int64
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type ImagesConfig struct {
	Dir       string
	URLPrefix string
}

// RedisConfig is disabled when Host is empty.
type RedisConfig struct {
	Host          string
	Port          string
	CategoriesTTL time.Duration
}

// KafkaConfig is disabled when Broker is empty.
type KafkaConfig struct {
	Broker      string
	OrdersTopic string
	GroupID     string
}

type LogConfig struct {
	Level  string
	Format string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

func (c RedisConfig) Enabled() bool { return c.Host != "" }

func (c KafkaConfig) Enabled() bool { return c.Broker != "" }

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:            getEnv("PORT", "8000"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "cardapio"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Images: ImagesConfig{
			Dir:       getEnv("IMAGES_DIR", "./static/images"),
			URLPrefix: getEnv("STATIC_URL_PREFIX", "/static/images"),
		},
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8000"),
		Redis: RedisConfig{
			Host:          os.Getenv("REDIS_HOST"),
			Port:          getEnv("REDIS_PORT", "6379"),
			CategoriesTTL: getDuration("CATEGORY_CACHE_TTL", 10*time.Minute),
		},
		Kafka: KafkaConfig{
			Broker:      os.Getenv("KAFKA_BROKER"),
			OrdersTopic: getEnv("KAFKA_ORDERS_TOPIC", "cardapio.orders"),
			GroupID:     getEnv("KAFKA_GROUP_ID", "cardapio-popularity"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		RateLimit: RateLimitConfig{
			RPS:   getFloat("RATE_LIMIT_RPS", 0),
			Burst: getInt("RATE_LIMIT_BURST", 20),
		},
		MaxUploadBytes: int64(getInt("MAX_UPLOAD_MB", 10)) << 20,
	}
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func MustInitPostgres(cfg DBConfig) *sql.DB {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database: ", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(cfg RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Host + ":" + cfg.Port,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis: ", err)
	}

	return client
}

func NewKafkaReader(cfg KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.Broker},
		Topic:   cfg.OrdersTopic,
		GroupID: cfg.GroupID,
	})
}

func NewKafkaWriter(cfg KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Broker),
		Topic:                  cfg.OrdersTopic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
