package database

import (
	"context"
	"fmt"

	"github.com/representacao/backend/internal/domain/model"
	"github.com/representacao/backend/internal/domain/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserRepository implementa repository.UserRepository
type UserRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewUserRepository(db *gorm.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, user *model.User) (err error) {
	ctx, span := startSpan(ctx, "UserRepository.Create", "insert", "users")
	defer func() { endSpan(span, err) }()

	entity := &model.UserEntity{Email: user.Email, PasswordHash: user.PasswordHash}
	if err := conn(ctx, r.db).Create(entity).Error; err != nil {
		r.logger.Error("falha ao criar usuário", zap.String("email", user.Email), zap.Error(err))
		return translate(err)
	}

	*user = *userToModel(entity)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (user *model.User, err error) {
	ctx, span := startSpan(ctx, "UserRepository.GetByID", "select", "users", attribute.Int64("user.id", int64(id)))
	defer func() { endSpan(span, err) }()

	var entity model.UserEntity
	if err := conn(ctx, r.db).First(&entity, id).Error; err != nil {
		return nil, translate(err)
	}
	return userToModel(&entity), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user *model.User, err error) {
	ctx, span := startSpan(ctx, "UserRepository.GetByEmail", "select", "users")
	defer func() { endSpan(span, err) }()

	var entity model.UserEntity
	if err := conn(ctx, r.db).Where("email = ?", email).First(&entity).Error; err != nil {
		return nil, translate(err)
	}
	return userToModel(&entity), nil
}

// Update grava email e hash de senha
func (r *UserRepository) Update(ctx context.Context, user *model.User) (err error) {
	ctx, span := startSpan(ctx, "UserRepository.Update", "update", "users", attribute.Int64("user.id", int64(user.ID)))
	defer func() { endSpan(span, err) }()

	result := conn(ctx, r.db).Model(&model.UserEntity{ID: user.ID}).Updates(map[string]interface{}{
		"email":         user.Email,
		"password_hash": user.PasswordHash,
	})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete remove o usuário; vínculos e pedidos caem em cascata
func (r *UserRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := startSpan(ctx, "UserRepository.Delete", "delete", "users", attribute.Int64("user.id", int64(id)))
	defer func() { endSpan(span, err) }()

	result := conn(ctx, r.db).Delete(&model.UserEntity{}, id)
	if result.Error != nil {
		r.logger.Error("falha ao excluir usuário", zap.Uint("id", id), zap.Error(result.Error))
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ListByCompany(ctx context.Context, companyID uint) (users []*model.User, err error) {
	ctx, span := startSpan(ctx, "UserRepository.ListByCompany", "select", "users", attribute.Int64("company.id", int64(companyID)))
	defer func() { endSpan(span, err) }()

	var entities []model.UserEntity
	err = conn(ctx, r.db).
		Joins("JOIN user_companies uc ON uc.user_id = users.id").
		Where("uc.company_id = ?", companyID).
		Order("users.id").
		Find(&entities).Error
	if err != nil {
		return nil, fmt.Errorf("falha ao listar usuários: %w", err)
	}

	users = make([]*model.User, 0, len(entities))
	for i := range entities {
		users = append(users, userToModel(&entities[i]))
	}
	span.SetAttributes(attribute.Int("users.count", len(users)))
	return users, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&model.UserEntity{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func userToModel(e *model.UserEntity) *model.User {
	return &model.User{
		ID:           e.ID,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
