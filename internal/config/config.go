package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config represents runtime configuration for the service. Provider
// credentials are never stored here; they come from the environment
// (GROQ_API_KEY, TAVILY_API_KEY).
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config"`
	Databases   map[string]DatabaseConfig `json:"databases"`
	Redis       RedisConfig               `json:"redis"`
	Providers   map[string]ProviderConfig `json:"providers"`
	RAG         RAGConfig                 `json:"rag"`
}

type BasicConfig struct {
	ServerAddress       string   `json:"server_address"`
	AllowedOrigins      []string `json:"allowed_origins"`
	AgentTimeoutSeconds int      `json:"agent_timeout_seconds"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	Params   string `json:"params"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type ProviderConfig struct {
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
}

type RAGConfig struct {
	IndexPath string `json:"index_path"`
	DocsDir   string `json:"docs_dir"`
	TopK      int    `json:"top_k"`
}

const (
	DefaultGroqBaseURL      = "https://api.groq.com/openai/v1"
	DefaultGroqModel        = "llama-3.3-70b-versatile"
	DefaultEmbeddingModel   = "text-embedding-3-small"
	DefaultAgentTimeoutSecs = 120
	DefaultRetrievalTopK    = 4
)

// Load reads configuration from the provided path (defaults to config.json).
// A .env file next to the process, if present, is folded into the
// environment first so provider keys can live there during development.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		path = "config.json"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.applyDefaults()

	if db, ok := cfg.Databases["sqlite3"]; ok && db.DSN != "" && db.DSN != ":memory:" && !filepath.IsAbs(db.DSN) {
		db.DSN = filepath.Join(filepath.Dir(absPath), db.DSN)
		cfg.Databases["sqlite3"] = db
	}

	return &cfg, nil
}

// Default returns a configuration usable without a config file.
func Default() *Config {
	cfg := &Config{
		Databases: map[string]DatabaseConfig{
			"sqlite3": {DSN: "./data/waygen.db"},
		},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.BasicConfig.ServerAddress == "" {
		c.BasicConfig.ServerAddress = ":8000"
	}
	if len(c.BasicConfig.AllowedOrigins) == 0 {
		c.BasicConfig.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	if c.BasicConfig.AgentTimeoutSeconds <= 0 {
		c.BasicConfig.AgentTimeoutSeconds = DefaultAgentTimeoutSecs
	}
	if c.Providers == nil {
		c.Providers = make(map[string]ProviderConfig)
	}
	if prov, ok := c.Providers["groq"]; !ok || prov.BaseURL == "" || prov.Model == "" {
		if prov.BaseURL == "" {
			prov.BaseURL = DefaultGroqBaseURL
		}
		if prov.Model == "" {
			prov.Model = DefaultGroqModel
		}
		c.Providers["groq"] = prov
	}
	if prov, ok := c.Providers["embedding"]; !ok || prov.Model == "" {
		if prov.Model == "" {
			prov.Model = DefaultEmbeddingModel
		}
		c.Providers["embedding"] = prov
	}
	if c.RAG.IndexPath == "" {
		c.RAG.IndexPath = "./storage/vector_db/index.gob"
	}
	if c.RAG.DocsDir == "" {
		c.RAG.DocsDir = "./rag_docs"
	}
	if c.RAG.TopK <= 0 {
		c.RAG.TopK = DefaultRetrievalTopK
	}
}
