// importcatalog carrega um catálogo JSON de produtos em uma empresa.
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
		companyID  uint
		file       string
		configPath string
	)

	flag.UintVar(&companyID, "company_id", 0, "ID da empresa")
	flag.StringVar(&file, "file", "", "Arquivo JSON com os produtos")
	flag.StringVar(&configPath, "config", "./config", "Diretório do config.yaml")
	flag.Parse()

	if companyID == 0 || file == "" {
		fmt.Println("Uso: importcatalog -company_id=<ID> -file=<catalogo.json>")
		os.Exit(1)
	}

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
	db, err := database.NewDatabase(ctx, database.ConfigFrom(cfg.Database), logger)
	if err != nil {
		logger.Fatal("Falha ao conectar ao banco de dados", zap.Error(err))
	}
	defer db.Close()

	if _, err := database.NewCompanyRepository(db.DB(), logger).GetByID(ctx, companyID); err != nil {
		logger.Fatal("Empresa não encontrada", zap.Uint("company_id", companyID), zap.Error(err))
	}

	loader := database.NewCatalogLoader(database.NewProductRepository(db.DB(), logger), logger)

	var count int
	err = db.WithinTransaction(ctx, func(ctx context.Context) error {
		count, err = loader.LoadFile(ctx, companyID, file)
		return err
	})
	if err != nil {
		logger.Fatal("Falha ao importar catálogo", zap.Error(err))
	}

	fmt.Printf("%d produtos importados para a empresa %d\n", count, companyID)
}
