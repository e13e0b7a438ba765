package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	Storage          string `mapstructure:"STORAGE"`
	ServerPort       string `mapstructure:"SERVER_PORT"`
	RedisUrl         string `mapstructure:"REDIS_URL"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	MongoUri         string `mapstructure:"MONGO_URI"`
	MongoDatabase    string `mapstructure:"MONGO_DATABASE"`
	IsLocalCors      bool   `mapstructure:"LOCAL_CORS"`
	DefaultBoardSize int    `mapstructure:"DEFAULT_BOARD_SIZE"`
	AnonName         string `mapstructure:"ANON_NAME"`
}

// Setup reads cfgPath (a .env file) on top of the defaults. Environment
// variables win over the file. A missing file is not an error.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	v.SetDefault("STORAGE", StorageMongo)
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("REDIS_URL", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "baduk")
	v.SetDefault("LOCAL_CORS", false)
	v.SetDefault("DEFAULT_BOARD_SIZE", 19)
	v.SetDefault("ANON_NAME", "Anon")
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Storage != StorageMongo && cfg.Storage != StorageMemory {
		return nil, fmt.Errorf("unknown STORAGE %q, want %q or %q", cfg.Storage, StorageMongo, StorageMemory)
	}
	if cfg.DefaultBoardSize <= 0 {
		return nil, errors.New("DEFAULT_BOARD_SIZE must be positive")
	}

	return &cfg, nil
}
