package http_test

import (
	"net/http"
	"testing"

	"github.com/representacao/backend/internal/app/cnpj"
	"github.com/representacao/backend/internal/testutils"
	"github.com/stretchr/testify/assert"
)

func TestCNPJLookup(t *testing.T) {
	env := newTestEnv(t)

	resp := testutils.MakeRequest(t, env.router, http.MethodPost, "/api/cnpj/consultar",
		map[string]string{"cnpj": "11.222.333/0001-81"}, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusOK)
	assert.JSONEq(t, `{
		"cnpj": "11222333000181",
		"razao_social": "ACME COMERCIO LTDA",
		"nome_fantasia": "",
		"situacao": "ATIVA",
		"atividade_principal": ""
	}`, resp.Body.String())

	// a segunda consulta vem do cache
	resp = testutils.MakeRequest(t, env.router, http.MethodPost, "/api/cnpj/consultar",
		map[string]string{"cnpj": "11222333000181"}, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusOK)
	assert.Equal(t, int32(1), env.provider.calls)

	resp = testutils.MakeRequest(t, env.router, http.MethodPost, "/api/cnpj/consultar",
		map[string]string{"cnpj": "123"}, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusBadRequest)
	assert.Contains(t, resp.Body.String(), "CNPJ inválido")

	resp = testutils.MakeRequest(t, env.router, http.MethodPost, "/api/cnpj/consultar", map[string]string{}, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusBadRequest)
	assert.Contains(t, resp.Body.String(), "CNPJ é obrigatório")

	env.provider.err = &cnpj.NotFoundError{Message: "CNPJ rejeitado pela Receita Federal"}
	resp = testutils.MakeRequest(t, env.router, http.MethodPost, "/api/cnpj/consultar",
		map[string]string{"cnpj": "99.888.777/0001-66"}, nil)
	testutils.RequireHTTPStatus(t, resp, http.StatusNotFound)
	assert.Contains(t, resp.Body.String(), "CNPJ rejeitado pela Receita Federal")
}
