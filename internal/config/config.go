package config

import (
	"flag"
	"os"

	"reno_market/internal/lib/token"
	s3storage "reno_market/internal/storage/s3"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env           string       `yaml:"env" env-default:"local"`
	DSN           string       `yaml:"dsn" env:"DSN" env-required:"true"`
	PublicBaseURL string       `yaml:"public_base_url" env-default:"http://localhost:8080"`
	SessionSecret string       `yaml:"session_secret" env:"SESSION_SECRET" env-required:"true"`
	HTTP          HTTPConfig   `yaml:"http"`
	Tokens        TokensConfig `yaml:"tokens"`
	Redis         RedisConf    `yaml:"redis"`
	S3            s3storage.Config `yaml:"s3"`
	SMTP          SMTPConfig   `yaml:"smtp"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port" env-default:"8080"`
}

// TokensConfig carries one independent secret/TTL per token purpose.
type TokensConfig struct {
	Access        token.Config `yaml:"access"`
	Refresh       token.Config `yaml:"refresh"`
	PasswordReset token.Config `yaml:"password_reset"`
	EmailConfirm  token.Config `yaml:"email_confirm"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type SMTPConfig struct {
	Addr string `yaml:"addr"`
	From string `yaml:"from" env-default:"no-reply@reno.market"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
