package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entidades de banco. Campos JSON ficam como texto e são convertidos nos repositórios.

type CompanyEntity struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:200;not null"`
	CNPJ      string    `gorm:"column:cnpj;size:18;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (CompanyEntity) TableName() string { return "companies" }

type UserEntity struct {
	ID           uint      `gorm:"primaryKey"`
	Email        string    `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (UserEntity) TableName() string { return "users" }

// UserCompanyEntity liga usuários às empresas que podem acessar
type UserCompanyEntity struct {
	UserID    uint           `gorm:"primaryKey"`
	CompanyID uint           `gorm:"primaryKey"`
	User      *UserEntity    `gorm:"constraint:OnDelete:CASCADE"`
	Company   *CompanyEntity `gorm:"constraint:OnDelete:CASCADE"`
}

func (UserCompanyEntity) TableName() string { return "user_companies" }

type ClientEntity struct {
	ID           uint      `gorm:"primaryKey"`
	CNPJ         string    `gorm:"column:cnpj;size:18;uniqueIndex;not null"`
	RazaoSocial  string    `gorm:"size:200;not null"`
	NomeFantasia string    `gorm:"size:200"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (ClientEntity) TableName() string { return "clients" }

type PaymentMethodEntity struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;uniqueIndex;not null"`
	IsActive  bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (PaymentMethodEntity) TableName() string { return "payment_methods" }

type ProductEntity struct {
	ID          uint            `gorm:"primaryKey"`
	CompanyID   uint            `gorm:"uniqueIndex:idx_products_company_code;not null"`
	Code        string          `gorm:"size:50;uniqueIndex:idx_products_company_code;not null"`
	Description string          `gorm:"size:200;not null"`
	Value       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	SizesJSON   string          `gorm:"column:sizes;type:json"`
	Company     *CompanyEntity  `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

func (ProductEntity) TableName() string { return "products" }

type OrderEntity struct {
	ID                 uint                 `gorm:"primaryKey"`
	UserID             uint                 `gorm:"index;not null"`
	CompanyID          uint                 `gorm:"index;uniqueIndex:idx_orders_company_local;not null"`
	ClientID           uint                 `gorm:"index;not null"`
	PaymentMethodID    *uint                `gorm:"index"`
	DiscountPercentage decimal.Decimal      `gorm:"type:numeric(5,2);not null"`
	TotalValue         decimal.Decimal      `gorm:"type:numeric(10,2);not null"`
	Status             string               `gorm:"size:20;not null;default:'Pendente'"`
	OrderDate          time.Time            `gorm:"index;not null"`
	LocalID            *string              `gorm:"size:64;uniqueIndex:idx_orders_company_local"`
	User               *UserEntity          `gorm:"constraint:OnDelete:CASCADE"`
	Company            *CompanyEntity       `gorm:"constraint:OnDelete:CASCADE"`
	Client             *ClientEntity        `gorm:"constraint:OnDelete:RESTRICT"`
	PaymentMethod      *PaymentMethodEntity `gorm:"constraint:OnDelete:SET NULL"`
	Items              []OrderItemEntity    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time            `gorm:"autoCreateTime"`
	UpdatedAt          time.Time            `gorm:"autoUpdateTime"`
}

func (OrderEntity) TableName() string { return "orders" }

type OrderItemEntity struct {
	ID           uint            `gorm:"primaryKey"`
	OrderID      uint            `gorm:"index;not null"`
	ProductID    uint            `gorm:"index;not null"`
	QuantityJSON string          `gorm:"column:quantity;type:json;not null"`
	UnitValue    decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Product      *ProductEntity  `gorm:"constraint:OnDelete:RESTRICT"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime"`
}

func (OrderItemEntity) TableName() string { return "order_items" }

// AllEntities lista as entidades na ordem de criação das tabelas
func AllEntities() []interface{} {
	return []interface{}{
		&CompanyEntity{},
		&UserEntity{},
		&UserCompanyEntity{},
		&ClientEntity{},
		&PaymentMethodEntity{},
		&ProductEntity{},
		&OrderEntity{},
		&OrderItemEntity{},
	}
}
