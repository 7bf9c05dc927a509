package database

import (
	"context"

	"github.com/representacao/backend/internal/domain/model"
	"github.com/representacao/backend/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ClientRepository implementa repository.ClientRepository
type ClientRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewClientRepository(db *gorm.DB, logger *zap.Logger) *ClientRepository {
	return &ClientRepository{db: db, logger: logger}
}

var _ repository.ClientRepository = (*ClientRepository)(nil)

func (r *ClientRepository) GetByCNPJ(ctx context.Context, cnpj string) (client *model.Client, err error) {
	ctx, span := startSpan(ctx, "ClientRepository.GetByCNPJ", "select", "clients")
	defer func() { endSpan(span, err) }()

	var entity model.ClientEntity
	if err := conn(ctx, r.db).Where("cnpj = ?", cnpj).First(&entity).Error; err != nil {
		return nil, translate(err)
	}
	return clientToModel(&entity), nil
}

func (r *ClientRepository) Create(ctx context.Context, client *model.Client) (err error) {
	ctx, span := startSpan(ctx, "ClientRepository.Create", "insert", "clients")
	defer func() { endSpan(span, err) }()

	entity := &model.ClientEntity{
		CNPJ:         client.CNPJ,
		RazaoSocial:  client.RazaoSocial,
		NomeFantasia: client.NomeFantasia,
	}
	if err := conn(ctx, r.db).Create(entity).Error; err != nil {
		r.logger.Error("falha ao criar cliente", zap.String("cnpj", client.CNPJ), zap.Error(err))
		return translate(err)
	}
	*client = *clientToModel(entity)
	return nil
}

func clientToModel(e *model.ClientEntity) *model.Client {
	return &model.Client{
		ID:           e.ID,
		CNPJ:         e.CNPJ,
		RazaoSocial:  e.RazaoSocial,
		NomeFantasia: e.NomeFantasia,
		CreatedAt:    e.CreatedAt,
	}
}
