package cnpj

import (
	"context"
	"errors"
)

// ErrTimeout indica que a consulta externa excedeu o prazo
var ErrTimeout = errors.New("consulta de CNPJ excedeu o tempo limite")

// CompanyInfo é o cadastro público de uma empresa
type CompanyInfo struct {
	CNPJ               string `json:"cnpj"`
	RazaoSocial        string `json:"razao_social"`
	NomeFantasia       string `json:"nome_fantasia"`
	Situacao           string `json:"situacao"`
	AtividadePrincipal string `json:"atividade_principal"`
}

// NotFoundError é a recusa do provedor para um CNPJ inexistente
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return "CNPJ não encontrado"
	}
	return e.Message
}

// Provider consulta um CNPJ já sanitizado em uma base externa
type Provider interface {
	Lookup(ctx context.Context, cnpj string) (*CompanyInfo, error)
}
