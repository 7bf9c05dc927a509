package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/representacao/backend/internal/domain/model"
	"github.com/representacao/backend/internal/domain/repository"
	"github.com/representacao/backend/pkg/security"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultPaymentMethods são criadas em qualquer banco que ainda não as tenha
var DefaultPaymentMethods = []string{
	"Dinheiro",
	"Cartão de Crédito",
	"Cartão de Débito",
	"PIX",
	"Boleto",
	"Transferência Bancária",
}

// Dados de exemplo usados quando o banco não tem nenhum usuário
const (
	SampleCompanyName = "Empresa Exemplo Ltda"
	SampleCompanyCNPJ = "12.345.678/0001-90"
	SampleUserEmail   = "admin@exemplo.com"
	SampleUserPass    = "123456"
)

var sampleCatalog = []CatalogEntry{
	{Code: "CAMISETA-001", Description: "Camiseta Básica Algodão", Value: decimal.RequireFromString("29.90"), Sizes: []string{"P", "M", "G", "GG"}},
	{Code: "CALCA-001", Description: "Calça Jeans Masculina", Value: decimal.RequireFromString("89.90"), Sizes: []string{"38", "40", "42", "44", "46"}},
	{Code: "TENIS-001", Description: "Tênis Esportivo", Value: decimal.RequireFromString("159.90"), Sizes: []string{"37", "38", "39", "40", "41", "42", "43"}},
}

// Seeder popula um banco vazio com o mínimo para a aplicação funcionar
type Seeder struct {
	tx        repository.Transactor
	users     repository.UserRepository
	companies repository.CompanyRepository
	payments  repository.PaymentMethodRepository
	catalog   *CatalogLoader
	logger    *zap.Logger
}

func NewSeeder(db *Database, logger *zap.Logger) *Seeder {
	gdb := db.DB()
	products := NewProductRepository(gdb, logger)
	return &Seeder{
		tx:        db,
		users:     NewUserRepository(gdb, logger),
		companies: NewCompanyRepository(gdb, logger),
		payments:  NewPaymentMethodRepository(gdb, logger),
		catalog:   NewCatalogLoader(products, logger),
		logger:    logger,
	}
}

// Seed cria as formas de pagamento padrão e, com o banco sem usuários,
// a empresa de exemplo com seu administrador e catálogo. catalogFile opcional
// substitui o catálogo embutido.
func (s *Seeder) Seed(ctx context.Context, catalogFile string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, name := range DefaultPaymentMethods {
			_, err := s.payments.GetByName(ctx, name)
			if err == nil {
				continue
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			if err := s.payments.Create(ctx, &model.PaymentMethod{Name: name, IsActive: true}); err != nil {
				return fmt.Errorf("falha ao criar forma de pagamento %s: %w", name, err)
			}
		}

		count, err := s.users.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		company := &model.Company{Name: SampleCompanyName, CNPJ: SampleCompanyCNPJ}
		if err := s.companies.Create(ctx, company); err != nil {
			return fmt.Errorf("falha ao criar empresa de exemplo: %w", err)
		}

		hash, err := security.HashPassword(SampleUserPass)
		if err != nil {
			return err
		}
		user := &model.User{Email: SampleUserEmail, PasswordHash: hash}
		if err := s.users.Create(ctx, user); err != nil {
			return fmt.Errorf("falha ao criar usuário de exemplo: %w", err)
		}
		if err := s.companies.LinkUser(ctx, user.ID, company.ID); err != nil {
			return err
		}

		if catalogFile != "" {
			if _, err := s.catalog.LoadFile(ctx, company.ID, catalogFile); err != nil {
				return err
			}
		} else if _, err := s.catalog.LoadEntries(ctx, company.ID, sampleCatalog); err != nil {
			return err
		}

		s.logger.Info("Dados de exemplo criados",
			zap.String("email", SampleUserEmail),
			zap.Uint("company_id", company.ID))
		return nil
	})
}
