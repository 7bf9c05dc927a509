package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/representacao/backend/internal/domain/model"
	"github.com/representacao/backend/internal/domain/repository"
	"github.com/representacao/backend/pkg/cnpj"
	apperrors "github.com/representacao/backend/pkg/errors"
	"github.com/representacao/backend/pkg/validation"
	"go.uber.org/zap"
)

var (
	ErrOrderNotFound   = apperrors.NotFound("Pedido não encontrado", nil)
	ErrNoPositiveItems = apperrors.BadRequest("Pelo menos um item deve ter quantidade maior que zero", nil)
	ErrEmptySync       = apperrors.BadRequest("Lista de pedidos é obrigatória", nil)
)

// Mensagens de falha por pedido na sincronização
const (
	syncInvalidData    = "Dados inválidos"
	syncNoValidItem    = "Nenhum item com quantidade válida"
	syncInternalFailed = "Erro interno ao gravar pedido"
)

// Repositories agrupa o acesso a dados usado pelo serviço de pedidos
type Repositories struct {
	Orders         repository.OrderRepository
	Clients        repository.ClientRepository
	Products       repository.ProductRepository
	PaymentMethods repository.PaymentMethodRepository
}

// Service cria, sincroniza e consulta pedidos
type Service struct {
	tx        repository.Transactor
	repos     Repositories
	publisher EventPublisher
	recorder  Recorder
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(tx repository.Transactor, repos Repositories, publisher EventPublisher, recorder Recorder, logger *zap.Logger) *Service {
	return &Service{
		tx:        tx,
		repos:     repos,
		publisher: publisher,
		recorder:  recorder,
		logger:    logger,
		now:       time.Now,
	}
}

// ListOrders retorna os pedidos do usuário na empresa, mais recentes primeiro
func (s *Service) ListOrders(ctx context.Context, userID, companyID uint) ([]*model.Order, error) {
	orders, err := s.repos.Orders.List(ctx, userID, companyID, 0)
	if err != nil {
		s.logger.Error("Erro ao listar pedidos", zap.Uint("company_id", companyID), zap.Error(err))
		return nil, err
	}
	return orders, nil
}

func (s *Service) GetOrder(ctx context.Context, userID, companyID, orderID uint) (*model.Order, error) {
	order, err := s.repos.Orders.GetByID(ctx, userID, companyID, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// CreateOrder valida, precifica e grava o pedido e seus itens em uma única transação
func (s *Service) CreateOrder(ctx context.Context, userID, companyID uint, input *CreateOrderInput) (*model.Order, error) {
	if err := validateInput(input); err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}
	if !HasPositiveQuantity(input.Items) {
		return nil, ErrNoPositiveItems
	}

	if existing, ok := s.findByLocalID(ctx, companyID, input.LocalID); ok {
		s.logger.Info("Pedido já existente para local_id",
			zap.String("local_id", input.LocalID),
			zap.Uint("order_id", existing.ID))
		return existing, nil
	}

	order, err := s.createInTransaction(ctx, userID, companyID, input)
	if err != nil {
		var notFound *ProductNotFoundError
		if errors.As(err, &notFound) {
			return nil, apperrors.NotFound(notFound.Error(), err)
		}
		if _, ok := apperrors.As(err); ok {
			return nil, err
		}
		s.logger.Error("Erro ao criar pedido", zap.Uint("company_id", companyID), zap.Error(err))
		return nil, fmt.Errorf("falha ao criar pedido: %w", err)
	}

	created, err := s.repos.Orders.GetByID(ctx, userID, companyID, order.ID)
	if err != nil {
		return nil, fmt.Errorf("falha ao recarregar pedido %d: %w", order.ID, err)
	}

	s.afterCreate(ctx, created, OriginAPI)
	return created, nil
}

// SyncOrders grava uma lista de pedidos feitos offline. Cada pedido tem sua
// própria transação: uma falha desfaz apenas aquele pedido.
func (s *Service) SyncOrders(ctx context.Context, userID, companyID uint, orders []json.RawMessage) (*SyncResult, error) {
	if len(orders) == 0 {
		return nil, ErrEmptySync
	}

	result := &SyncResult{
		SyncedOrders: []uint{},
		FailedOrders: []SyncFailure{},
	}
	fail := func(raw json.RawMessage, msg string) {
		result.FailedOrders = append(result.FailedOrders, SyncFailure{Order: raw, Error: msg})
	}

	for i, raw := range orders {
		var input CreateOrderInput
		if err := json.Unmarshal(raw, &input); err != nil {
			fail(raw, syncInvalidData)
			continue
		}
		if err := validateInput(&input); err != nil {
			fail(raw, syncInvalidData)
			continue
		}
		if !HasPositiveQuantity(input.Items) {
			fail(raw, syncNoValidItem)
			continue
		}

		if existing, ok := s.findByLocalID(ctx, companyID, input.LocalID); ok {
			result.SyncedOrders = append(result.SyncedOrders, existing.ID)
			continue
		}

		order, err := s.createInTransaction(ctx, userID, companyID, &input)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				// outro envio do mesmo dispositivo gravou o pedido antes
				if existing, ok := s.findByLocalID(ctx, companyID, input.LocalID); ok {
					result.SyncedOrders = append(result.SyncedOrders, existing.ID)
					continue
				}
			}
			fail(raw, syncErrorMessage(err))
			s.logger.Warn("Pedido não sincronizado",
				zap.Int("index", i),
				zap.Uint("company_id", companyID),
				zap.Error(err))
			continue
		}

		result.SyncedOrders = append(result.SyncedOrders, order.ID)
		s.afterCreate(ctx, order, OriginSync)
	}

	result.SyncedCount = len(result.SyncedOrders)
	result.FailedCount = len(result.FailedOrders)
	if s.recorder != nil {
		s.recorder.SyncCompleted(result.SyncedCount, result.FailedCount)
	}

	s.logger.Info("Sincronização concluída",
		zap.Uint("user_id", userID),
		zap.Uint("company_id", companyID),
		zap.Int("synced", result.SyncedCount),
		zap.Int("failed", result.FailedCount))
	return result, nil
}

func (s *Service) createInTransaction(ctx context.Context, userID, companyID uint, input *CreateOrderInput) (*model.Order, error) {
	var order *model.Order
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		client, err := s.resolveClient(ctx, input)
		if err != nil {
			return err
		}

		paymentMethodID, err := s.resolvePaymentMethod(ctx, input.PaymentMethodID)
		if err != nil {
			return err
		}

		discount := input.DiscountPercentage.Round(2)
		items, subtotal, err := PriceItems(ctx, input.Items, s.productLookup(companyID))
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrNoPositiveItems
		}

		order = &model.Order{
			UserID:             userID,
			CompanyID:          companyID,
			ClientID:           client.ID,
			Client:             client,
			PaymentMethodID:    paymentMethodID,
			DiscountPercentage: discount,
			TotalValue:         ApplyDiscount(subtotal, discount),
			Status:             model.OrderStatusCompleted,
			OrderDate:          s.now().UTC(),
			Items:              items,
		}
		if input.LocalID != "" {
			localID := input.LocalID
			order.LocalID = &localID
		}

		return s.repos.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// resolveClient busca o cliente pelo CNPJ ou cria um novo com os dados do pedido
func (s *Service) resolveClient(ctx context.Context, input *CreateOrderInput) (*model.Client, error) {
	doc := cnpj.Sanitize(input.ClientCNPJ)

	client, err := s.repos.Clients.GetByCNPJ(ctx, doc)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	client = &model.Client{
		CNPJ:         doc,
		RazaoSocial:  strings.TrimSpace(input.ClientRazaoSocial),
		NomeFantasia: strings.TrimSpace(input.ClientNomeFantasia),
	}
	if err := s.repos.Clients.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("falha ao criar cliente: %w", err)
	}
	return client, nil
}

// resolvePaymentMethod mantém a forma de pagamento só se existir e estiver ativa
func (s *Service) resolvePaymentMethod(ctx context.Context, id *uint) (*uint, error) {
	if id == nil || *id == 0 {
		return nil, nil
	}

	pm, err := s.repos.PaymentMethods.GetByID(ctx, *id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !pm.IsActive {
		return nil, nil
	}
	return &pm.ID, nil
}

func (s *Service) productLookup(companyID uint) ProductLookup {
	return func(ctx context.Context, code string) (*model.Product, error) {
		product, err := s.repos.Products.GetByCode(ctx, companyID, code)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ProductNotFoundError{Code: code}
		}
		return product, err
	}
}

func (s *Service) findByLocalID(ctx context.Context, companyID uint, localID string) (*model.Order, bool) {
	if localID == "" {
		return nil, false
	}
	order, err := s.repos.Orders.GetByLocalID(ctx, companyID, localID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Erro ao buscar pedido por local_id", zap.String("local_id", localID), zap.Error(err))
		}
		return nil, false
	}
	return order, true
}

// afterCreate publica o evento e registra métricas; falhas aqui não desfazem o pedido
func (s *Service) afterCreate(ctx context.Context, order *model.Order, origin string) {
	if s.recorder != nil {
		total, _ := order.TotalValue.Float64()
		s.recorder.OrderCreated(origin, total)
	}
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderCreated(ctx, order, origin); err != nil {
		s.logger.Warn("Falha ao publicar evento de pedido",
			zap.Uint("order_id", order.ID),
			zap.Error(err))
	}
}

func validateInput(input *CreateOrderInput) error {
	if err := validation.Struct(input); err != nil {
		return err
	}
	if _, ok := cnpj.Normalize(input.ClientCNPJ); !ok {
		return errors.New("CNPJ do cliente inválido")
	}
	if input.DiscountPercentage.IsNegative() || input.DiscountPercentage.GreaterThan(hundred) {
		return errors.New("Desconto deve estar entre 0 e 100")
	}
	for _, item := range input.Items {
		for _, q := range item.Quantity {
			if q < 0 {
				return fmt.Errorf("Quantidade negativa para o produto %s", item.Code)
			}
			if q > MaxSizeQuantity {
				return fmt.Errorf("Quantidade acima do limite para o produto %s", item.Code)
			}
		}
		if item.UnitValue != nil && item.UnitValue.IsNegative() {
			return fmt.Errorf("Valor unitário inválido para o produto %s", item.Code)
		}
	}
	return nil
}

// syncErrorMessage escolhe a mensagem que volta para o dispositivo
func syncErrorMessage(err error) string {
	var notFound *ProductNotFoundError
	if errors.As(err, &notFound) {
		return notFound.Error()
	}
	if errors.Is(err, ErrNoPositiveItems) {
		return syncNoValidItem
	}
	if apiErr, ok := apperrors.As(err); ok {
		return apiErr.Message
	}
	return syncInternalFailed
}
