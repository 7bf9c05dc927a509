package auth

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
	ErrMissingCredentials = apperrors.BadRequest("Email e senha são obrigatórios", nil)
	ErrEmailTaken         = apperrors.BadRequest("Email já cadastrado", nil)
	ErrInvalidCredentials = apperrors.Unauthorized("Email ou senha inválidos", nil)
	ErrCompanyDenied      = apperrors.Forbidden("Acesso negado à empresa", nil)
	ErrUserNotFound       = apperrors.NotFound("Usuário não encontrado", nil)
)

// LoginRecorder conta tentativas de login
type LoginRecorder interface {
	LoginAttempt(success bool)
}

// LoginResult é a resposta de um login bem-sucedido
type LoginResult struct {
	User      *model.User      `json:"user"`
	Companies []*model.Company `json:"companies"`
	Token     string           `json:"token"`
}

type SelectCompanyResult struct {
	Company *model.Company `json:"company"`
	Token   string         `json:"token"`
}

type MeResult struct {
	User      *model.User    `json:"user"`
	CompanyID *uint          `json:"company_id"`
	Company   *model.Company `json:"company"`
}

// AuthService gerencia cadastro, login e seleção de empresa
type AuthService struct {
	keyManager     *security.KeyManager
	users          repository.UserRepository
	companies      repository.CompanyRepository
	passwordMinLen int
	recorder       LoginRecorder
	logger         *zap.Logger
}

// NewAuthService cria um novo serviço de autenticação
func NewAuthService(keyManager *security.KeyManager, users repository.UserRepository, companies repository.CompanyRepository, passwordMinLen int, recorder LoginRecorder, logger *zap.Logger) *AuthService {
	return &AuthService{
		keyManager:     keyManager,
		users:          users,
		companies:      companies,
		passwordMinLen: passwordMinLen,
		recorder:       recorder,
		logger:         logger,
	}
}

// NormalizeEmail padroniza o email antes de gravar ou buscar
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePassword aplica o tamanho mínimo configurado
func (s *AuthService) ValidatePassword(password string) error {
	if len(password) < s.passwordMinLen {
		return apperrors.BadRequest(fmt.Sprintf("A senha deve ter pelo menos %d caracteres", s.passwordMinLen), nil)
	}
	return nil
}

// Register cria um usuário sem vínculo com empresas
func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if err := s.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("falha ao gerar hash da senha: %w", err)
	}

	user := &model.User{Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.logger.Info("Usuário registrado", zap.Uint("user_id", user.ID))
	return user, nil
}

// Login confere as credenciais e emite o token. Com uma única empresa
// vinculada, o token já sai com ela selecionada.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if user == nil || !security.CheckPassword(user.PasswordHash, password) {
		s.recordLogin(false)
		s.logger.Warn("Falha na autenticação", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	companies, err := s.companies.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	var companyID *uint
	if len(companies) == 1 {
		companyID = &companies[0].ID
	}

	token, err := s.keyManager.GenerateToken(user.ID, companyID)
	if err != nil {
		s.logger.Error("Falha ao gerar token", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	s.recordLogin(true)
	s.logger.Info("Login bem-sucedido", zap.Uint("user_id", user.ID))
	return &LoginResult{User: user, Companies: companies, Token: token}, nil
}

// SelectCompany emite um novo token com a empresa escolhida
func (s *AuthService) SelectCompany(ctx context.Context, userID, companyID uint) (*SelectCompanyResult, error) {
	linked, err := s.companies.IsLinked(ctx, userID, companyID)
	if err != nil {
		return nil, err
	}
	if !linked {
		s.logger.Warn("Acesso negado à empresa", zap.Uint("user_id", userID), zap.Uint("company_id", companyID))
		return nil, ErrCompanyDenied
	}

	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	token, err := s.keyManager.GenerateToken(userID, &company.ID)
	if err != nil {
		return nil, err
	}
	return &SelectCompanyResult{Company: company, Token: token}, nil
}

// Me devolve o usuário e a empresa ativa: a do token ou, sem ela, o primeiro vínculo
func (s *AuthService) Me(ctx context.Context, userID uint, companyID *uint) (*MeResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	result := &MeResult{User: user}

	if companyID != nil && *companyID > 0 {
		company, err := s.companies.GetByID(ctx, *companyID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if company != nil {
			result.CompanyID = &company.ID
			result.Company = company
			return result, nil
		}
	}

	companies, err := s.companies.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(companies) > 0 {
		result.CompanyID = &companies[0].ID
		result.Company = companies[0]
	}
	return result, nil
}

// ValidateToken valida um token JWT e devolve suas claims
func (s *AuthService) ValidateToken(tokenString string) (*security.Claims, error) {
	return s.keyManager.VerifyToken(tokenString)
}

func (s *AuthService) recordLogin(success bool) {
	if s.recorder != nil {
		s.recorder.LoginAttempt(success)
	}
}
