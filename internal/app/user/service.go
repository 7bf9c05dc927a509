package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/representacao/backend/internal/domain/model"
	"github.com/representacao/backend/internal/domain/repository"
	apperrors "github.com/representacao/backend/pkg/errors"
	"github.com/representacao/backend/pkg/security"
	"go.uber.org/zap"
)

var (
	ErrUserNotFound       = apperrors.NotFound("Usuário não encontrado ou não autorizado", nil)
	ErrMissingCredentials = apperrors.BadRequest("Email e senha são obrigatórios", nil)
	ErrEmailTaken         = apperrors.BadRequest("Email já cadastrado", nil)
)

// CreateInput são os dados de um novo usuário da empresa
type CreateInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateInput altera só os campos informados
type UpdateInput struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// Service gerencia os usuários de uma empresa
type Service struct {
	tx             repository.Transactor
	users          repository.UserRepository
	companies      repository.CompanyRepository
	passwordMinLen int
	logger         *zap.Logger
}

func NewService(tx repository.Transactor, users repository.UserRepository, companies repository.CompanyRepository, passwordMinLen int, logger *zap.Logger) *Service {
	return &Service{
		tx:             tx,
		users:          users,
		companies:      companies,
		passwordMinLen: passwordMinLen,
		logger:         logger,
	}
}

func (s *Service) List(ctx context.Context, companyID uint) ([]*model.User, error) {
	return s.users.ListByCompany(ctx, companyID)
}

// Create grava o usuário e o vincula à empresa na mesma transação
func (s *Service) Create(ctx context.Context, companyID uint, input CreateInput) (*model.User, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrMissingCredentials
	}
	if err := s.validatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("falha ao gerar hash da senha: %w", err)
	}

	user := &model.User{Email: email, PasswordHash: hash}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		return s.companies.LinkUser(ctx, user.ID, companyID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.logger.Info("Usuário criado",
		zap.Uint("user_id", user.ID),
		zap.Uint("company_id", companyID))
	return user, nil
}

// Get só encontra usuários vinculados à empresa
func (s *Service) Get(ctx context.Context, companyID, userID uint) (*model.User, error) {
	linked, err := s.companies.IsLinked(ctx, userID, companyID)
	if err != nil {
		return nil, err
	}
	if !linked {
		return nil, ErrUserNotFound
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) Update(ctx context.Context, companyID, userID uint, input UpdateInput) (*model.User, error) {
	user, err := s.Get(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		if email := normalizeEmail(*input.Email); email != "" {
			user.Email = email
		}
	}
	if input.Password != nil && *input.Password != "" {
		if err := s.validatePassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := security.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("falha ao gerar hash da senha: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Delete remove o usuário; vínculos e pedidos saem em cascata
func (s *Service) Delete(ctx context.Context, companyID, userID uint) error {
	if _, err := s.Get(ctx, companyID, userID); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.logger.Info("Usuário removido", zap.Uint("user_id", userID), zap.Uint("company_id", companyID))
	return nil
}

func (s *Service) validatePassword(password string) error {
	if len(password) < s.passwordMinLen {
		return apperrors.BadRequest(fmt.Sprintf("A senha deve ter pelo menos %d caracteres", s.passwordMinLen), nil)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
