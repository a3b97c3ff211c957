package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything a service needs at startup. One file is shared by
// all binaries; each service reads only the sections it cares about.
type Config struct {
	Infra    Infra    `yaml:"infra"`
	Services Services `yaml:"services"`
	Checkout Checkout `yaml:"checkout"`
	Auth     Auth     `yaml:"auth"`
	SMTP     SMTP     `yaml:"smtp"`
}

type Infra struct {
	UserDB      Database `yaml:"user_db"`
	InventoryDB Database `yaml:"inventory_db"`
	Kafka       Kafka    `yaml:"kafka"`
	Redis       Redis    `yaml:"redis"`
	Jaeger      Jaeger   `yaml:"jaeger"`
	Nacos       Nacos    `yaml:"nacos"`
	Zookeeper   Zk       `yaml:"zookeeper"`
}

type Database struct {
	DSN string `yaml:"dsn"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers"`
}

type Redis struct {
	Addr string `yaml:"addr"`
}

type Jaeger struct {
	Endpoint string `yaml:"endpoint"`
}

type Nacos struct {
	ServerAddrs string `yaml:"server_addrs"`
	Namespace   string `yaml:"namespace"`
	Group       string `yaml:"group"`
}

type Zk struct {
	Addrs []string `yaml:"addrs"`
}

// Services maps logical service names to base URLs, used when Nacos discovery
// is not configured.
type Services struct {
	UserService      string `yaml:"user_service"`
	InventoryService string `yaml:"inventory_service"`
	IdpService       string `yaml:"idp_service"`
}

type Checkout struct {
	TaxRate         float64  `yaml:"tax_rate"`
	UpstreamTimeout Duration `yaml:"upstream_timeout"`
	IdempotencyTTL  Duration `yaml:"idempotency_ttl"`
}

// Duration parses "5s"-style YAML values into a time.Duration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type SMTP struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Sender     string `yaml:"sender"`
	SenderName string `yaml:"sender_name"`
}

var (
	current Config
	once    sync.Once
)

// Load reads the YAML config at path and applies environment overrides. It is
// called once by bootstrap.Init; later calls return the cached config.
func Load(path string) (*Config, error) {
	var loadErr error
	once.Do(func() {
		cfg := defaults()
		if path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				loadErr = fmt.Errorf("read config %s: %w", path, err)
				return
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				loadErr = fmt.Errorf("parse config %s: %w", path, err)
				return
			}
		}
		applyEnv(&cfg)
		current = cfg
	})
	return &current, loadErr
}

// Get returns the loaded config. Valid only after Load.
func Get() *Config {
	return &current
}

func defaults() Config {
	return Config{
		Infra: Infra{
			UserDB:      Database{DSN: "root:userpassword@tcp(localhost:3306)/user_database?parseTime=true"},
			InventoryDB: Database{DSN: "root:inventorypassword@tcp(localhost:3307)/inventory_database?parseTime=true"},
			Kafka:       Kafka{Brokers: []string{"localhost:9092"}},
			Redis:       Redis{Addr: "localhost:6379"},
			Jaeger:      Jaeger{Endpoint: "http://localhost:14268/api/traces"},
		},
		Services: Services{
			UserService:      "http://localhost:8082",
			InventoryService: "http://localhost:8083",
			IdpService:       "http://localhost:8084",
		},
		Checkout: Checkout{
			TaxRate:         0.0625,
			UpstreamTimeout: Duration(5 * time.Second),
			IdempotencyTTL:  Duration(24 * time.Hour),
		},
		SMTP: SMTP{
			Host:       "email-service",
			Port:       587,
			Sender:     "postfix@wit.edu",
			SenderName: "SneakerSpot Team",
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.Infra.UserDB.DSN = getEnv("USER_DB_DSN", cfg.Infra.UserDB.DSN)
	cfg.Infra.InventoryDB.DSN = getEnv("INVENTORY_DB_DSN", cfg.Infra.InventoryDB.DSN)
	cfg.Infra.Redis.Addr = getEnv("REDIS_ADDR", cfg.Infra.Redis.Addr)
	cfg.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", cfg.Infra.Jaeger.Endpoint)
	cfg.Infra.Nacos.ServerAddrs = getEnv("NACOS_SERVER_ADDRS", cfg.Infra.Nacos.ServerAddrs)
	cfg.Infra.Nacos.Namespace = getEnv("NACOS_NAMESPACE", cfg.Infra.Nacos.Namespace)
	cfg.Infra.Nacos.Group = getEnv("NACOS_GROUP", cfg.Infra.Nacos.Group)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	if v, ok := os.LookupEnv("KAFKA_BROKERS"); ok && v != "" {
		cfg.Infra.Kafka.Brokers = []string{v}
	}
	if v, ok := os.LookupEnv("CHECKOUT_TAX_RATE"); ok {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Checkout.TaxRate = rate
		}
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
