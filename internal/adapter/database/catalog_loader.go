package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/representacao/backend/internal/domain/model"
	"github.com/representacao/backend/internal/domain/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogEntry é o formato de cada produto no arquivo JSON
type CatalogEntry struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
	Sizes       []string        `json:"sizes"`
}

// CatalogLoader importa produtos de um arquivo JSON para o catálogo de uma empresa
type CatalogLoader struct {
	products repository.ProductRepository
	logger   *zap.Logger
}

func NewCatalogLoader(products repository.ProductRepository, logger *zap.Logger) *CatalogLoader {
	return &CatalogLoader{products: products, logger: logger}
}

// LoadFile lê o arquivo e aplica LoadEntries; arquivo ausente não é erro
func (l *CatalogLoader) LoadFile(ctx context.Context, companyID uint, filePath string) (int, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("Arquivo de catálogo não encontrado", zap.String("path", filePath))
			return 0, nil
		}
		return 0, fmt.Errorf("erro ao ler arquivo de catálogo: %w", err)
	}

	var entries []CatalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("erro ao deserializar arquivo de catálogo: %w", err)
	}

	n, err := l.LoadEntries(ctx, companyID, entries)
	if err != nil {
		return n, err
	}

	l.logger.Info("Catálogo carregado",
		zap.Int("count", n),
		zap.Uint("company_id", companyID),
		zap.String("file", filepath.Base(filePath)))
	return n, nil
}

// LoadEntries insere produtos novos e atualiza os existentes pelo código
func (l *CatalogLoader) LoadEntries(ctx context.Context, companyID uint, entries []CatalogEntry) (int, error) {
	loaded := 0
	for _, entry := range entries {
		code := strings.TrimSpace(entry.Code)
		if code == "" || strings.TrimSpace(entry.Description) == "" {
			l.logger.Warn("Produto ignorado: código e descrição são obrigatórios", zap.String("code", code))
			continue
		}

		product := &model.Product{
			CompanyID:   companyID,
			Code:        code,
			Description: entry.Description,
			Value:       entry.Value,
			Sizes:       entry.Sizes,
		}

		existing, err := l.products.GetByCode(ctx, companyID, code)
		switch {
		case err == nil:
			product.ID = existing.ID
			err = l.products.Update(ctx, product)
		case errors.Is(err, repository.ErrNotFound):
			err = l.products.Create(ctx, product)
		}
		if err != nil {
			return loaded, fmt.Errorf("erro ao gravar produto %s: %w", code, err)
		}
		loaded++
	}
	return loaded, nil
}
