package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      Env
	Server   ServerConfig
	Storage  StorageConfig
	Upload   UploadConfig
	Auth     AuthConfig
	Settings SettingsConfig
	NATS     NATSConfig
	Kafka    KafkaConfig
	Database DatabaseConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host      string `envconfig:"SERVER_HOST" default:"localhost"`
	Port      string `envconfig:"SERVER_PORT" default:"8080"`
	PublicURL string `envconfig:"SERVER_PUBLIC_URL" default:"http://localhost:8080"`
}

// StorageConfig holds the shared S3 endpoint and one bucket per position.
// A position may override endpoint, region and credentials to live on another provider.
type StorageConfig struct {
	Endpoint      string        `envconfig:"STORAGE_ENDPOINT" required:"true"`
	Region        string        `envconfig:"STORAGE_REGION" default:"garage"`
	AccessKey     string        `envconfig:"STORAGE_ACCESS_KEY" required:"true"`
	SecretKey     string        `envconfig:"STORAGE_SECRET_KEY" required:"true"`
	UseSSL        bool          `envconfig:"STORAGE_USE_SSL" default:"false"`
	PresignTTL    time.Duration `envconfig:"STORAGE_PRESIGN_TTL" default:"5m"`
	CreateBuckets bool          `envconfig:"STORAGE_CREATE_BUCKETS" default:"true"`

	Original   BucketConfig `envconfig:"ORIGINAL"`
	Preview    BucketConfig `envconfig:"PREVIEW"`
	Derivative BucketConfig `envconfig:"DERIVATIVE"`
}

// BucketConfig is the per-position part of StorageConfig
type BucketConfig struct {
	Bucket    string `envconfig:"BUCKET" required:"true"`
	Endpoint  string `envconfig:"ENDPOINT"`
	Region    string `envconfig:"REGION"`
	AccessKey string `envconfig:"ACCESS_KEY"`
	SecretKey string `envconfig:"SECRET_KEY"`
}

// Connection is where and as whom a position's bucket is reached
type Connection struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// ConnectionFor applies a position's overrides on top of the shared storage settings
func (s StorageConfig) ConnectionFor(b BucketConfig) Connection {
	c := Connection{
		Endpoint:  s.Endpoint,
		Region:    s.Region,
		AccessKey: s.AccessKey,
		SecretKey: s.SecretKey,
	}
	if b.Endpoint != "" {
		c.Endpoint = b.Endpoint
	}
	if b.Region != "" {
		c.Region = b.Region
	}
	if b.AccessKey != "" {
		c.AccessKey, c.SecretKey = b.AccessKey, b.SecretKey
	}
	return c
}

type UploadConfig struct {
	TempDir            string        `envconfig:"UPLOAD_TEMP_DIR" default:"tmp_upload"`
	MaxSizeMB          int64         `envconfig:"UPLOAD_MAX_SIZE_MB" default:"10"`
	QueueSize          int           `envconfig:"UPLOAD_QUEUE_SIZE" default:"256"`
	Workers            int           `envconfig:"UPLOAD_WORKERS" default:"4"`
	EncoderConcurrency int           `envconfig:"UPLOAD_ENCODER_CONCURRENCY" default:"0"`
	PendingTTL         time.Duration `envconfig:"UPLOAD_PENDING_TTL" default:"30m"`
	CleanupEvery       time.Duration `envconfig:"UPLOAD_CLEANUP_EVERY" default:"15m"`
	StaleTempAfter     time.Duration `envconfig:"UPLOAD_STALE_TEMP_AFTER" default:"1h"`
}

type AuthConfig struct {
	JWTSecret string `envconfig:"AUTH_JWT_SECRET" required:"true"`
}

type SettingsConfig struct {
	CacheSize           int           `envconfig:"SETTINGS_CACHE_SIZE" default:"64"`
	CacheTTL            time.Duration `envconfig:"SETTINGS_CACHE_TTL" default:"1m"`
	AllowEveryoneUpload bool          `envconfig:"SETTINGS_ALLOW_EVERYONE_UPLOAD" default:"false"`
}

type NATSConfig struct {
	Enabled      bool   `envconfig:"NATS_ENABLED" default:"false"`
	URL          string `envconfig:"NATS_URL" default:"nats://localhost:4222"`
	StreamName   string `envconfig:"NATS_STREAM_NAME" default:"DERIVATIVES"`
	ConsumerName string `envconfig:"NATS_CONSUMER_NAME" default:"derivative-workers"`
	Subject      string `envconfig:"NATS_SUBJECT" default:"derivatives.jobs"`
}

type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS"`
	Topic   string   `envconfig:"KAFKA_TOPIC" default:"image-derivatives"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

// WorkerConfig is the subset of Config needed by the derivative worker process
type WorkerConfig struct {
	Env     Env
	Storage StorageConfig
	Upload  UploadConfig
	NATS    NATSConfig
	Kafka   KafkaConfig
}

// DSN is the lib/pq connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// URL is the connection URL expected by golang-migrate
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// IsProd reports whether the process runs in production
func (e Env) IsProd() bool {
	return strings.EqualFold(e.Env, "prod")
}

// MaxSizeBytes is the configured default upload limit
func (u UploadConfig) MaxSizeBytes() int64 {
	return u.MaxSizeMB << 20
}

// Load reads an optional .env file, then the environment
func Load() (*Config, error) {
	var cfg Config
	if err := load(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadWorker is Load for the worker process, which needs neither the database nor auth
func LoadWorker() (*WorkerConfig, error) {
	var cfg WorkerConfig
	if err := load(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDatabase reads only the database section
func LoadDatabase() (*DatabaseConfig, error) {
	var cfg DatabaseConfig
	if err := load(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func load(spec any) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return envconfig.Process("", spec)
}
