package config

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Bool bool

// UnmarshalText implements the encoding.TextUnmarshaler interface.
// This allows Bool to be filled from a string in the environment variables.
func (b *Bool) UnmarshalText(text []byte) error {
	str := strings.ToLower(string(text))
	*b = str == "true" || str == "1" || str == "yes" || str == "on"
	return nil
}

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	Hostname string `envconfig:"HOSTNAME"`

	// github
	GithubToken   string        `envconfig:"GH_TOKEN"`
	GithubBaseUrl string        `envconfig:"GH_BASE_URL"`
	BotHandle     string        `envconfig:"BOT_HANDLE" default:"conda-grayskull"`
	CheckInterval time.Duration `envconfig:"CHECK_NOTIFICATIONS_INTERVAL"`

	// pypi metadata used to regenerate recipe requirements
	PypiBaseUrl string `envconfig:"PYPI_BASE_URL" default:"https://pypi.org"`

	// git access for cloning pull-request repositories
	GitUsername    string `envconfig:"GIT_USERNAME" default:"roboto"`
	GitAccessToken string `envconfig:"GIT_ACCESS_TOKEN"`
	CloneDir       string `envconfig:"CLONE_DIR"`

	// state repository
	RedisAddrs    string `envconfig:"REDIS_ADDRS"`
	RedisUsername string `envconfig:"REDIS_USERNAME"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisTls      Bool   `envconfig:"REDIS_TLS"`

	EtcdAddrs    []string `envconfig:"ETCD_ADDRS" delim:","`
	EtcdUsername string   `envconfig:"ETCD_USERNAME"`
	EtcdPassword string   `envconfig:"ETCD_PASSWORD"`
}

var (
	config Config
	once   sync.Once
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
}

// Get reads config from environment. Once.
func Get() (*Config, error) {
	once.Do(func() {
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatalf("Error processing config: %v", err)
		}
	})

	return &config, nil
}
