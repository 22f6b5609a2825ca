package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const DefaultPath = "./config/application.yaml"

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type Application struct {
	Port     int      `koanf:"port"`
	Store    Store    `koanf:"store"`
	Database Database `koanf:"db"`
	Amqp     Amqp     `koanf:"amqp"`
	Sheets   Sheets   `koanf:"sheets"`
}

type Store struct {
	// Type is one of memory, sqlite or postgres.
	Type string `koanf:"type"`
	// Path is the SQLite database file.
	Path string `koanf:"path"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

// Amqp is disabled when Url is empty.
type Amqp struct {
	Url      string `koanf:"url"`
	Exchange string `koanf:"exchange"`
}

// Sheets is disabled when SpreadsheetId is empty.
type Sheets struct {
	SpreadsheetId   string `koanf:"spreadsheetid"`
	SheetName       string `koanf:"sheetname"`
	CredentialsFile string `koanf:"credentialsfile"`
	// Endpoint overrides the Sheets API base URL.
	Endpoint string `koanf:"endpoint"`
}

func Defaults() Application {
	return Application{
		Port: 3000,
		Store: Store{
			Type: StoreSQLite,
			Path: "pet.db",
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "pet",
			Pass:   "",
			Name:   "pet",
			Schema: "public",
		},
		Amqp: Amqp{
			Exchange: "pet.events",
		},
		Sheets: Sheets{
			SheetName: "Report",
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("failed to load .env file: %v", err)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "PET_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "PET_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	if err := app.Validate(); err != nil {
		return Application{}, err
	}

	return app, nil
}

func (a Application) Validate() error {
	switch a.Store.Type {
	case StoreMemory, StorePostgres:
	case StoreSQLite:
		if strings.TrimSpace(a.Store.Path) == "" {
			return errors.New("store.path is required for the sqlite store")
		}
	default:
		return errors.New("store.type must be one of memory, sqlite, postgres")
	}
	if a.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}
