package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI           string
	MongoDBName        string
	ProjectsCollection string
	TasksCollection    string
	UsersCollection    string

	ServerPort     string
	RequestTimeout time.Duration

	LogFile  string
	LogLevel string

	// MongoTransactions wraps quota reservation and the project write in one
	// multi-document transaction. Requires a replica set.
	MongoTransactions bool
	// ReuseParentDocument keeps the legacy behavior where a located root
	// parent serves as the template for the new document.
	ReuseParentDocument bool
	// RequireParent rejects creation when rootParentId points nowhere.
	RequireParent bool

	UsersBreakerTimeout time.Duration
	CompensationTimeout time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := &Config{
		MongoURI:           os.Getenv("MONGO_URI"),
		MongoDBName:        getenv("MONGO_DB_NAME", "projects_db"),
		ProjectsCollection: getenv("PROJECTS_COLLECTION", "projects"),
		TasksCollection:    getenv("TASKS_COLLECTION", "tasks"),
		UsersCollection:    getenv("USERS_COLLECTION", "users"),
		ServerPort:         getenv("SERVER_PORT", "8080"),
		LogFile:            os.Getenv("LOG_FILE"),
		LogLevel:           getenv("LOG_LEVEL", "info"),
	}
	if cfg.MongoURI == "" {
		return nil, errors.New("MONGO_URI is not set")
	}

	var err error
	if cfg.MongoTransactions, err = getBool("MONGO_TRANSACTIONS", false); err != nil {
		return nil, err
	}
	if cfg.ReuseParentDocument, err = getBool("PROJECT_REUSE_PARENT_DOCUMENT", false); err != nil {
		return nil, err
	}
	if cfg.RequireParent, err = getBool("PROJECT_REQUIRE_PARENT", false); err != nil {
		return nil, err
	}
	if cfg.UsersBreakerTimeout, err = getDuration("USERS_BREAKER_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.CompensationTimeout, err = getDuration("COMPENSATION_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, v)
	}
	return d, nil
}
