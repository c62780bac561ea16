package app

import (
	"context"
	"fmt"
	"time"

	"github.com/lewis4x4/SouthernCoal-sub001/internal/config"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/core"
	db "github.com/lewis4x4/SouthernCoal-sub001/internal/core/database"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/core/indexing"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/core/llm"
	objectclient "github.com/lewis4x4/SouthernCoal-sub001/internal/core/object-client"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/logging"
)

type App struct {
	DBClient     core.DbClient
	ObjectClient core.ObjectClient
	Indexer      *indexing.Indexer
	Server       *Server

	extractor *llm.GeminiExtractor
	embedder  *llm.GeminiEmbedder
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	logging.Info("database initialized and ready")

	objClient, err := objectclient.NewS3Client(appCtx, cfg)
	if err != nil {
		return nil, err
	}

	extractor, err := llm.NewGeminiExtractor(appCtx, cfg.AIAPIKey, cfg.ExtractModel)
	if err != nil {
		return nil, fmt.Errorf("initialize page extractor: %w", err)
	}
	embedder, err := llm.NewGeminiEmbedder(appCtx, cfg.AIAPIKey, cfg.EmbedModel)
	if err != nil {
		return nil, fmt.Errorf("initialize embedder: %w", err)
	}

	budget := indexing.DefaultBudget().WithMaxChunks(cfg.MaxChunksPerDoc)
	indexer := indexing.NewIndexer(dbClient, objClient, extractor, embedder, budget)

	server := NewServer(cfg, dbClient, indexer)

	return &App{
		DBClient:     dbClient,
		ObjectClient: objClient,
		Indexer:      indexer,
		Server:       server,
		extractor:    extractor,
		embedder:     embedder,
	}, nil
}

func (a *App) Close() {
	if a.extractor != nil {
		_ = a.extractor.Close()
	}
	if a.embedder != nil {
		_ = a.embedder.Close()
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
