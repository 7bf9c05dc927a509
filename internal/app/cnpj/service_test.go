package cnpj_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/representacao/backend/internal/app/cnpj"
	"github.com/representacao/backend/internal/mocks"
	"github.com/representacao/backend/internal/testutils"
	"github.com/representacao/backend/pkg/cache"
	apperrors "github.com/representacao/backend/pkg/errors"
	"github.com/representacao/backend/pkg/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	calls []string
	info  *cnpj.CompanyInfo
	err   error
}

func (p *stubProvider) Lookup(_ context.Context, digits string) (*cnpj.CompanyInfo, error) {
	p.calls = append(p.calls, digits)
	return p.info, p.err
}

type lookupCounter map[string]int

func (c lookupCounter) CNPJLookup(result string) { c[result]++ }

func TestCNPJService_Lookup(t *testing.T) {
	ctx := context.Background()
	logger := testutils.TestLogger(t)

	t.Run("validates input", func(t *testing.T) {
		provider := &stubProvider{}
		svc := cnpj.NewService(provider, nil, time.Hour, nil, logger)

		_, err := svc.Lookup(ctx, "")
		assert.Equal(t, cnpj.ErrRequired, err)

		_, err = svc.Lookup(ctx, "12.345.678/0001")
		assert.Equal(t, cnpj.ErrInvalid, err)
		assert.Empty(t, provider.calls)
	})

	t.Run("sanitizes and caches", func(t *testing.T) {
		provider := &stubProvider{info: &cnpj.CompanyInfo{CNPJ: "12.345.678/0001-90", RazaoSocial: "EMPRESA TESTE LTDA"}}
		counter := lookupCounter{}
		memory := cache.NewMemoryCache(time.Minute, time.Minute, nil, logger)
		svc := cnpj.NewService(provider, memory, time.Hour, counter, logger)

		info, err := svc.Lookup(ctx, "12.345.678/0001-90")
		require.NoError(t, err)
		assert.Equal(t, "EMPRESA TESTE LTDA", info.RazaoSocial)

		info, err = svc.Lookup(ctx, "12345678000190")
		require.NoError(t, err)
		assert.Equal(t, "EMPRESA TESTE LTDA", info.RazaoSocial)

		assert.Equal(t, []string{"12345678000190"}, provider.calls)
		assert.Equal(t, 1, counter[cnpj.ResultFound])
		assert.Equal(t, 1, counter[cnpj.ResultCached])
	})

	t.Run("cache failures fall through to the provider", func(t *testing.T) {
		provider := &stubProvider{info: &cnpj.CompanyInfo{CNPJ: "12.345.678/0001-90"}}
		mockCache := new(mocks.MockCache)
		mockCache.On("Get", mock.Anything, "cnpj:12345678000190", mock.Anything).Return(false, errors.New("redis fora")).Once()
		mockCache.On("Set", mock.Anything, "cnpj:12345678000190", provider.info, 24*time.Hour).Return(nil).Once()

		svc := cnpj.NewService(provider, mockCache, 0, nil, logger)
		_, err := svc.Lookup(ctx, "12345678000190")
		require.NoError(t, err)
		mockCache.AssertExpectations(t)
	})

	errorCases := []struct {
		name    string
		err     error
		status  int
		message string
		result  string
	}{
		{"not found", &cnpj.NotFoundError{Message: "CNPJ rejeitado pela Receita"}, http.StatusNotFound, "CNPJ rejeitado pela Receita", cnpj.ResultNotFound},
		{"not found default message", &cnpj.NotFoundError{}, http.StatusNotFound, "CNPJ não encontrado", cnpj.ResultNotFound},
		{"timeout", cnpj.ErrTimeout, http.StatusRequestTimeout, "Timeout na consulta do CNPJ", cnpj.ResultTimeout},
		{"circuit open", resilience.ErrCircuitOpen, http.StatusServiceUnavailable, "Consulta de CNPJ temporariamente indisponível", cnpj.ResultUnavailable},
		{"connection", errors.New("connection refused"), http.StatusInternalServerError, "Erro de conexão ao consultar CNPJ", cnpj.ResultError},
		{"upstream status", apperrors.InternalServer("Erro ao consultar CNPJ", nil), http.StatusInternalServerError, "Erro ao consultar CNPJ", cnpj.ResultError},
	}

	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			counter := lookupCounter{}
			svc := cnpj.NewService(&stubProvider{err: tc.err}, nil, time.Hour, counter, logger)

			_, err := svc.Lookup(ctx, "12345678000190")
			require.Error(t, err)

			apiErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, tc.status, apiErr.Code)
			assert.Equal(t, tc.message, apiErr.Message)
			assert.Equal(t, 1, counter[tc.result])
		})
	}
}
