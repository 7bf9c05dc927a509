package cnpj

import (
	"context"
	"errors"
	"time"

	"github.com/representacao/backend/pkg/cache"
	"github.com/representacao/backend/pkg/cnpj"
	apperrors "github.com/representacao/backend/pkg/errors"
	"github.com/representacao/backend/pkg/resilience"
	"go.uber.org/zap"
)

var (
	ErrRequired = apperrors.BadRequest("CNPJ é obrigatório", nil)
	ErrInvalid  = apperrors.BadRequest("CNPJ inválido", nil)
)

// Resultados registrados nas métricas
const (
	ResultFound       = "found"
	ResultCached      = "cached"
	ResultNotFound    = "not_found"
	ResultTimeout     = "timeout"
	ResultError       = "error"
	ResultUnavailable = "unavailable"
)

// LookupRecorder conta consultas por resultado
type LookupRecorder interface {
	CNPJLookup(result string)
}

// Service valida o CNPJ e consulta o provedor com cache
type Service struct {
	provider Provider
	cache    cache.Cache
	ttl      time.Duration
	recorder LookupRecorder
	logger   *zap.Logger
}

func NewService(provider Provider, c cache.Cache, ttl time.Duration, recorder LookupRecorder, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{provider: provider, cache: c, ttl: ttl, recorder: recorder, logger: logger}
}

func cacheKey(digits string) string {
	return "cnpj:" + digits
}

// Lookup aceita o CNPJ com ou sem máscara
func (s *Service) Lookup(ctx context.Context, raw string) (*CompanyInfo, error) {
	if raw == "" {
		return nil, ErrRequired
	}
	digits := cnpj.Sanitize(raw)
	if len(digits) != cnpj.Length {
		return nil, ErrInvalid
	}

	if s.cache != nil {
		var cached CompanyInfo
		found, err := s.cache.Get(ctx, cacheKey(digits), &cached)
		if err != nil {
			s.logger.Warn("Falha ao ler consulta de CNPJ do cache", zap.Error(err))
		} else if found {
			s.record(ResultCached)
			return &cached, nil
		}
	}

	info, err := s.provider.Lookup(ctx, digits)
	if err != nil {
		return nil, s.translate(digits, err)
	}
	s.record(ResultFound)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey(digits), info, s.ttl); err != nil {
			s.logger.Warn("Falha ao gravar consulta de CNPJ no cache", zap.Error(err))
		}
	}
	return info, nil
}

func (s *Service) translate(digits string, err error) error {
	var notFound *NotFoundError
	switch {
	case errors.As(err, &notFound):
		s.record(ResultNotFound)
		return apperrors.NotFound(notFound.Error(), err)
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		s.record(ResultTimeout)
		return apperrors.Timeout("Timeout na consulta do CNPJ", err)
	case errors.Is(err, resilience.ErrCircuitOpen):
		s.record(ResultUnavailable)
		return apperrors.ServiceUnavailable("Consulta de CNPJ temporariamente indisponível", err)
	default:
		s.record(ResultError)
		s.logger.Error("Erro ao consultar CNPJ", zap.String("cnpj", digits), zap.Error(err))
		if _, ok := apperrors.As(err); ok {
			return err
		}
		return apperrors.InternalServer("Erro de conexão ao consultar CNPJ", err)
	}
}

func (s *Service) record(result string) {
	if s.recorder != nil {
		s.recorder.CNPJLookup(result)
	}
}
