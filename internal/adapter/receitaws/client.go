// Package receitaws consulta o cadastro público de empresas na ReceitaWS.
package receitaws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/representacao/backend/internal/app/cnpj"
	apperrors "github.com/representacao/backend/pkg/errors"
	"github.com/representacao/backend/pkg/resilience"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://www.receitaws.com.br/v1/cnpj"

// Config configura o cliente
type Config struct {
	BaseURL          string
	Timeout          time.Duration
	FailureThreshold int
	ResetTimeout     time.Duration
	// WithoutBreaker chama a ReceitaWS diretamente, sem circuit breaker
	WithoutBreaker bool
}

// Client implementa cnpj.Provider
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *resilience.CircuitBreaker
	logger     *zap.Logger
	tracer     trace.Tracer
}

// NewClient cria o cliente HTTP com circuit breaker próprio
func NewClient(cfg Config, logger *zap.Logger, recorder resilience.StateRecorder) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	var breaker *resilience.CircuitBreaker
	if !cfg.WithoutBreaker {
		breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:             "receitaws",
			FailureThreshold: cfg.FailureThreshold,
			ResetTimeout:     cfg.ResetTimeout,
			// CNPJ inexistente é resposta válida do serviço
			IsFailure: func(err error) bool {
				var notFound *cnpj.NotFoundError
				return err != nil && !errors.As(err, &notFound)
			},
		}, logger, recorder)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		logger:     logger,
		tracer:     otel.GetTracerProvider().Tracer("representacao.receitaws"),
	}
}

// response é o formato devolvido pela ReceitaWS
type response struct {
	Status             string `json:"status"`
	Message            string `json:"message"`
	CNPJ               string `json:"cnpj"`
	Nome               string `json:"nome"`
	Fantasia           string `json:"fantasia"`
	Situacao           string `json:"situacao"`
	AtividadePrincipal []struct {
		Code string `json:"code"`
		Text string `json:"text"`
	} `json:"atividade_principal"`
}

// Lookup consulta um CNPJ com 14 dígitos
func (c *Client) Lookup(ctx context.Context, digits string) (*cnpj.CompanyInfo, error) {
	ctx, span := c.tracer.Start(ctx, "ReceitaWS.Lookup",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("cnpj", digits)),
	)
	defer span.End()

	var (
		info *cnpj.CompanyInfo
		err  error
	)
	if c.breaker == nil {
		info, err = c.fetch(ctx, digits)
	} else {
		err = c.breaker.Execute(ctx, func(ctx context.Context) error {
			var err error
			info, err = c.fetch(ctx, digits)
			return err
		})
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return info, nil
}

func (c *Client) fetch(ctx context.Context, digits string) (*cnpj.CompanyInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+digits, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.logger.Warn("Timeout na consulta à ReceitaWS", zap.String("cnpj", digits))
			return nil, fmt.Errorf("%w: %v", cnpj.ErrTimeout, err)
		}
		return nil, fmt.Errorf("falha ao consultar ReceitaWS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("ReceitaWS respondeu com erro",
			zap.String("cnpj", digits),
			zap.Int("status", resp.StatusCode))
		return nil, apperrors.InternalServer("Erro ao consultar CNPJ",
			fmt.Errorf("receitaws respondeu %d", resp.StatusCode))
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("resposta inválida da ReceitaWS: %w", err)
	}

	if body.Status == "ERROR" {
		return nil, &cnpj.NotFoundError{Message: body.Message}
	}

	info := &cnpj.CompanyInfo{
		CNPJ:         body.CNPJ,
		RazaoSocial:  body.Nome,
		NomeFantasia: body.Fantasia,
		Situacao:     body.Situacao,
	}
	if len(body.AtividadePrincipal) > 0 {
		info.AtividadePrincipal = body.AtividadePrincipal[0].Text
	}
	return info, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

var _ cnpj.Provider = (*Client)(nil)
