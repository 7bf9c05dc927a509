package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/representacao/backend/internal/app/user"
	"github.com/representacao/backend/internal/domain/model"
	"github.com/representacao/backend/internal/domain/repository"
	"github.com/representacao/backend/internal/mocks"
	"github.com/representacao/backend/internal/testutils"
	"github.com/representacao/backend/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*user.Service, *mocks.MockTransactor, *mocks.MockUserRepository, *mocks.MockCompanyRepository) {
	tx := new(mocks.MockTransactor)
	users := new(mocks.MockUserRepository)
	companies := new(mocks.MockCompanyRepository)
	return user.NewService(tx, users, companies, 6, testutils.TestLogger(t)), tx, users, companies
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and links to company", func(t *testing.T) {
		svc, tx, users, companies := newService(t)
		tx.On("WithinTransaction", mock.Anything).Return().Once()
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "vendas@exemplo.com" && security.CheckPassword(u.PasswordHash, "segredo1")
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*model.User).ID = 21
		}).Return(nil).Once()
		companies.On("LinkUser", mock.Anything, uint(21), uint(4)).Return(nil).Once()

		u, err := svc.Create(ctx, 4, user.CreateInput{Email: " Vendas@Exemplo.com", Password: "segredo1"})
		require.NoError(t, err)
		assert.Equal(t, uint(21), u.ID)
		tx.AssertExpectations(t)
		users.AssertExpectations(t)
		companies.AssertExpectations(t)
	})

	t.Run("missing credentials", func(t *testing.T) {
		svc, _, _, _ := newService(t)
		_, err := svc.Create(ctx, 4, user.CreateInput{Email: "a@b.com"})
		assert.Equal(t, user.ErrMissingCredentials, err)
	})

	t.Run("short password", func(t *testing.T) {
		svc, _, _, _ := newService(t)
		_, err := svc.Create(ctx, 4, user.CreateInput{Email: "a@b.com", Password: "123"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pelo menos 6 caracteres")
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, tx, users, companies := newService(t)
		tx.On("WithinTransaction", mock.Anything).Return().Once()
		users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate).Once()

		_, err := svc.Create(ctx, 4, user.CreateInput{Email: "a@b.com", Password: "segredo1"})
		assert.Equal(t, user.ErrEmailTaken, err)
		companies.AssertNotCalled(t, "LinkUser", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUserService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("linked user", func(t *testing.T) {
		svc, _, users, companies := newService(t)
		companies.On("IsLinked", mock.Anything, uint(7), uint(4)).Return(true, nil).Once()
		users.On("GetByID", mock.Anything, uint(7)).Return(&model.User{ID: 7, Email: "x@y.com"}, nil).Once()

		u, err := svc.Get(ctx, 4, 7)
		require.NoError(t, err)
		assert.Equal(t, "x@y.com", u.Email)
	})

	t.Run("user from another company", func(t *testing.T) {
		svc, _, users, companies := newService(t)
		companies.On("IsLinked", mock.Anything, uint(7), uint(4)).Return(false, nil).Once()

		_, err := svc.Get(ctx, 4, 7)
		assert.Equal(t, user.ErrUserNotFound, err)
		users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("repository error", func(t *testing.T) {
		svc, _, _, companies := newService(t)
		companies.On("IsLinked", mock.Anything, uint(7), uint(4)).Return(false, errors.New("conexão perdida")).Once()

		_, err := svc.Get(ctx, 4, 7)
		assert.EqualError(t, err, "conexão perdida")
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("changes email and password", func(t *testing.T) {
		svc, _, users, companies := newService(t)
		companies.On("IsLinked", mock.Anything, uint(7), uint(4)).Return(true, nil).Once()
		users.On("GetByID", mock.Anything, uint(7)).Return(&model.User{ID: 7, Email: "antigo@y.com", PasswordHash: "hash"}, nil).Once()
		users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "novo@y.com" && security.CheckPassword(u.PasswordHash, "novasenha")
		})).Return(nil).Once()

		email, password := "NOVO@y.com", "novasenha"
		u, err := svc.Update(ctx, 4, 7, user.UpdateInput{Email: &email, Password: &password})
		require.NoError(t, err)
		assert.Equal(t, "novo@y.com", u.Email)
		users.AssertExpectations(t)
	})

	t.Run("keeps fields not informed", func(t *testing.T) {
		svc, _, users, companies := newService(t)
		companies.On("IsLinked", mock.Anything, uint(7), uint(4)).Return(true, nil).Once()
		users.On("GetByID", mock.Anything, uint(7)).Return(&model.User{ID: 7, Email: "antigo@y.com", PasswordHash: "hash"}, nil).Once()
		users.On("Update", mock.Anything, &model.User{ID: 7, Email: "antigo@y.com", PasswordHash: "hash"}).Return(nil).Once()

		_, err := svc.Update(ctx, 4, 7, user.UpdateInput{})
		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("email taken", func(t *testing.T) {
		svc, _, users, companies := newService(t)
		companies.On("IsLinked", mock.Anything, uint(7), uint(4)).Return(true, nil).Once()
		users.On("GetByID", mock.Anything, uint(7)).Return(&model.User{ID: 7, Email: "antigo@y.com"}, nil).Once()
		users.On("Update", mock.Anything, mock.Anything).Return(repository.ErrDuplicate).Once()

		email := "outro@y.com"
		_, err := svc.Update(ctx, 4, 7, user.UpdateInput{Email: &email})
		assert.Equal(t, user.ErrEmailTaken, err)
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()

	svc, _, users, companies := newService(t)
	companies.On("IsLinked", mock.Anything, uint(7), uint(4)).Return(true, nil).Once()
	users.On("GetByID", mock.Anything, uint(7)).Return(&model.User{ID: 7}, nil).Once()
	users.On("Delete", mock.Anything, uint(7)).Return(nil).Once()

	require.NoError(t, svc.Delete(ctx, 4, 7))
	users.AssertExpectations(t)

	companies.On("IsLinked", mock.Anything, uint(8), uint(4)).Return(false, nil).Once()
	assert.Equal(t, user.ErrUserNotFound, svc.Delete(ctx, 4, 8))
}
