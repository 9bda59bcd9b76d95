package config

import (
	"os"

	"github.com/go-yaml/yaml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	StorageMongoDB  = "mongodb"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

type Config struct {
	Server Server `yaml:"server"`
}

type Server struct {
	ListenAddr    string `yaml:"listenAddr"`
	Storage       string `yaml:"storage"` // mongodb, postgres, sqlite
	MongoURI      string `yaml:"mongoURI"`
	PostgresDsn   string `yaml:"postgresDsn"`
	SQLitePath    string `yaml:"sqlitePath"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: Server{
			ListenAddr: ":5000",
			Storage:    StorageMongoDB,
			MongoURI:   "mongodb://localhost:27017/mydatabase",
			SQLitePath: "itemtag.db",
		},
	}
}

// Load reads the YAML file at path (skipped when path is empty), then loads
// .env if present and applies environment overrides.
func Load(path string) (Config, error) {
	config := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return Config{}, err
		}
		defer file.Close()

		err = yaml.NewDecoder(file).Decode(&config)
		if err != nil {
			return Config{}, errors.Wrap(err, "failed to decode config")
		}
	}

	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrap(err, "failed to load .env")
	}

	applyEnv(&config)

	err = config.Validate()
	if err != nil {
		return Config{}, err
	}

	return config, nil
}

func applyEnv(config *Config) {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		config.Server.ListenAddr = v
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		config.Server.Storage = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		config.Server.MongoURI = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		config.Server.PostgresDsn = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		config.Server.SQLitePath = v
	}
	if v := os.Getenv("TRACE_ENDPOINT"); v != "" {
		config.Server.TraceEndpoint = v
		config.Server.EnableTrace = true
	}
}

func (c Config) Validate() error {
	switch c.Server.Storage {
	case StorageMongoDB:
		if c.Server.MongoURI == "" {
			return errors.New("mongoURI is required for mongodb storage")
		}
	case StoragePostgres:
		if c.Server.PostgresDsn == "" {
			return errors.New("postgresDsn is required for postgres storage")
		}
	case StorageSQLite:
		if c.Server.SQLitePath == "" {
			return errors.New("sqlitePath is required for sqlite storage")
		}
	default:
		return errors.Errorf("unknown storage %q", c.Server.Storage)
	}

	if c.Server.EnableTrace && c.Server.TraceEndpoint == "" {
		return errors.New("traceEndpoint is required when enableTrace is set")
	}
	return nil
}
