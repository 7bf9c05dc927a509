package repository

import (
	"context"
	"time"

	"github.com/representacao/backend/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Transactor executa fn dentro de uma transação. Repositórios chamados com o
// ctx recebido por fn participam da mesma transação.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository define o acesso a usuários
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uint) error
	ListByCompany(ctx context.Context, companyID uint) ([]*model.User, error)
	Count(ctx context.Context) (int64, error)
}

// CompanyRepository define o acesso a empresas e ao vínculo usuário-empresa
type CompanyRepository interface {
	Create(ctx context.Context, company *model.Company) error
	GetByID(ctx context.Context, id uint) (*model.Company, error)
	GetByCNPJ(ctx context.Context, cnpj string) (*model.Company, error)
	ListByUser(ctx context.Context, userID uint) ([]*model.Company, error)
	// LinkUser é idempotente
	LinkUser(ctx context.Context, userID, companyID uint) error
	IsLinked(ctx context.Context, userID, companyID uint) (bool, error)
}

// ClientRepository define o acesso a clientes
type ClientRepository interface {
	GetByCNPJ(ctx context.Context, cnpj string) (*model.Client, error)
	Create(ctx context.Context, client *model.Client) error
}

// PaymentMethodRepository define o acesso a formas de pagamento
type PaymentMethodRepository interface {
	ListActive(ctx context.Context) ([]*model.PaymentMethod, error)
	GetByID(ctx context.Context, id uint) (*model.PaymentMethod, error)
	GetByName(ctx context.Context, name string) (*model.PaymentMethod, error)
	Create(ctx context.Context, pm *model.PaymentMethod) error
}

// ProductRepository define o acesso ao catálogo, sempre restrito a uma empresa
type ProductRepository interface {
	ListByCompany(ctx context.Context, companyID uint) ([]*model.Product, error)
	GetByID(ctx context.Context, companyID, id uint) (*model.Product, error)
	GetByCode(ctx context.Context, companyID uint, code string) (*model.Product, error)
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, companyID, id uint) error
}

// OrderStats agrega pedidos de um período
type OrderStats struct {
	Count int64
	Total decimal.Decimal
}

// OrderFilter restringe consultas agregadas de pedidos
type OrderFilter struct {
	UserID    uint
	CompanyID uint
	Status    string
	From      time.Time // inclusivo
	To        time.Time // exclusivo; zero significa sem limite
}

// OrderRepository define o acesso a pedidos e itens
type OrderRepository interface {
	// Create grava o pedido e seus itens
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, userID, companyID, id uint) (*model.Order, error)
	GetByLocalID(ctx context.Context, companyID uint, localID string) (*model.Order, error)
	// List retorna os pedidos mais recentes primeiro; limit <= 0 retorna todos
	List(ctx context.Context, userID, companyID uint, limit int) ([]*model.Order, error)
	Stats(ctx context.Context, filter OrderFilter) (OrderStats, error)
}
