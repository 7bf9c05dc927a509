package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/representacao/backend/internal/adapter/database"
	"github.com/representacao/backend/pkg/config"
	"github.com/representacao/backend/pkg/logging"
	"go.uber.org/zap"
)

func main() {
	var (
		action     string
		name       string
		configPath string
		seed       bool
	)

	flag.StringVar(&action, "action", "migrate", "Ação (migrate, create, status)")
	flag.StringVar(&name, "name", "", "Nome da migração (apenas para action=create)")
	flag.StringVar(&configPath, "config", "./config", "Diretório do config.yaml")
	flag.BoolVar(&seed, "seed", false, "Popular dados iniciais após migrar")
	flag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Erro ao carregar configuração: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Printf("Erro ao inicializar logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	dbConfig := database.ConfigFrom(cfg.Database)

	switch action {
	case "migrate":
		dbConfig.SkipMigrations = false
		db, err := database.NewDatabase(ctx, dbConfig, logger)
		if err != nil {
			logger.Fatal("Falha ao aplicar migrações", zap.Error(err))
		}
		defer db.Close()

		if seed {
			if err := database.NewSeeder(db, logger).Seed(ctx, cfg.Database.CatalogFile); err != nil {
				logger.Fatal("Falha ao popular banco de dados", zap.Error(err))
			}
		}
		logger.Info("Migrações aplicadas com sucesso")

	case "status":
		dbConfig.SkipMigrations = true
		db, err := database.NewDatabase(ctx, dbConfig, logger)
		if err != nil {
			logger.Fatal("Falha ao conectar ao banco de dados", zap.Error(err))
		}
		defer db.Close()

		pending, err := database.NewMigrationManager(db.DB(), logger, dbConfig.MigrationDir).Pending(ctx)
		if err != nil {
			logger.Fatal("Falha ao listar migrações", zap.Error(err))
		}
		for _, m := range pending {
			fmt.Printf("pendente: %d_%s\n", m.Version, m.Name)
		}
		fmt.Printf("%d migrações pendentes\n", len(pending))

	case "create":
		if name == "" {
			logger.Fatal("Nome da migração é obrigatório para action=create")
		}

		path, err := database.NewMigrationManager(nil, logger, dbConfig.MigrationDir).CreateMigration(name)
		if err != nil {
			logger.Fatal("Falha ao criar migração", zap.Error(err))
		}
		logger.Info("Migração criada", zap.String("path", path))

	default:
		logger.Fatal("Ação desconhecida", zap.String("action", action))
	}
}
