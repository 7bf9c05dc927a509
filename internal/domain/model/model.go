package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// valores monetários saem como número no JSON da API
	decimal.MarshalJSONWithoutQuotes = true
}

// Status de pedido
const (
	OrderStatusPending   = "Pendente"
	OrderStatusCompleted = "Concluído"
)

// User é um usuário que acessa uma ou mais empresas
type User struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Company é o tenant: produtos e pedidos pertencem a uma empresa
type Company struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CNPJ      string    `json:"cnpj"`
	CreatedAt time.Time `json:"created_at"`
}

// Client é o cliente final de um pedido, compartilhado entre empresas e identificado pelo CNPJ
type Client struct {
	ID           uint      `json:"id"`
	CNPJ         string    `json:"cnpj"`
	RazaoSocial  string    `json:"razao_social"`
	NomeFantasia string    `json:"nome_fantasia"`
	CreatedAt    time.Time `json:"created_at"`
}

type PaymentMethod struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// Product é um item do catálogo de uma empresa
type Product struct {
	ID          uint            `json:"id"`
	CompanyID   uint            `json:"company_id"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
	Sizes       []string        `json:"sizes"`
	CreatedAt   time.Time       `json:"created_at"`
}
