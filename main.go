package main

import (
	"context"
	"log"
	"os"
	"time"

	openaiembed "github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/gin-gonic/gin"

	"waygen/internal/api"
	"waygen/internal/config"
	"waygen/internal/redis"
	"waygen/internal/service/ai"
	"waygen/internal/service/assistant"
	"waygen/internal/service/rag"
	"waygen/internal/service/search"
	"waygen/internal/storage"
)

func main() {
	cfgPath := os.Getenv("WAYGEN_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	dbType := os.Getenv("WAYGEN_DB")
	if dbType == "" {
		dbType = "sqlite3"
	}
	log.Printf("dbType: %s\n", dbType)
	db, err := storage.Open(dbType, cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Create necessary tables: users, sessions, messages, reports
	if err := storage.Migrate(db, dbType); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	cache, err := redis.NewClient(cfg)
	if err != nil {
		log.Printf("redis unavailable, caching disabled: %v", err)
		cache = nil
	}
	defer cache.Close()

	ctx := context.Background()
	retriever := rag.NewRetriever(ctx, cfg.RAG, newEmbedder(ctx, cfg))
	searcher := search.NewClient(ctx)

	agent, err := ai.NewAgent(ctx, cfg, retriever, searcher)
	if err != nil {
		log.Fatalf("init agent: %v", err)
	}

	agentTimeout := time.Duration(cfg.BasicConfig.AgentTimeoutSeconds) * time.Second
	assistantService := assistant.NewService(db, cache, agent, agentTimeout)
	handlers := api.NewHandler(assistantService)

	router := gin.Default()
	router.Use(api.CORSMiddleware(cfg.BasicConfig.AllowedOrigins))
	handlers.RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if err := router.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// newEmbedder returns the remote embedding client when credentials are
// present; a nil result makes the retriever fall back to local tf-idf
// embeddings.
func newEmbedder(ctx context.Context, cfg *config.Config) embedding.Embedder {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Printf("OPENAI_API_KEY not set, using local tf-idf embeddings")
		return nil
	}
	provCfg := cfg.Providers["embedding"]
	emb, err := openaiembed.NewEmbedder(ctx, &openaiembed.EmbeddingConfig{
		BaseURL: provCfg.BaseURL,
		Model:   provCfg.Model,
		APIKey:  apiKey,
	})
	if err != nil {
		log.Printf("remote embedder unavailable, using tf-idf: %v", err)
		return nil
	}
	return emb
}
