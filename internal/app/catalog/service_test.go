package catalog_test

import (
	"errors"
	"testing"
	"time"

	"github.com/representacao/backend/internal/app/catalog"
	"github.com/representacao/backend/internal/domain/model"
	"github.com/representacao/backend/internal/domain/repository"
	"github.com/representacao/backend/internal/mocks"
	"github.com/representacao/backend/internal/testutils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const ttl = 5 * time.Minute

func newService(t *testing.T) (*catalog.Service, *mocks.MockProductRepository, *mocks.MockPaymentMethodRepository, *mocks.MockCache) {
	products := new(mocks.MockProductRepository)
	payments := new(mocks.MockPaymentMethodRepository)
	c := new(mocks.MockCache)
	return catalog.NewService(products, payments, c, ttl, testutils.TestLogger(t)), products, payments, c
}

func TestCatalogService_ListProducts(t *testing.T) {
	expected := []*model.Product{
		{ID: 1, CompanyID: 7, Code: "CAMISETA-001", Value: decimal.RequireFromString("29.90"), Sizes: []string{"P"}},
	}

	t.Run("successfully from repository", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()
		svc, products, _, c := newService(t)

		c.On("Get", mock.Anything, "products:7", mock.AnythingOfType("*[]*model.Product")).
			Return(false, nil).Once()
		products.On("ListByCompany", mock.Anything, uint(7)).Return(expected, nil).Once()
		c.On("Set", mock.Anything, "products:7", expected, ttl).Return(nil).Once()

		got, err := svc.ListProducts(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, expected, got)
		c.AssertExpectations(t)
		products.AssertExpectations(t)
	})

	t.Run("successfully from cache", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()
		svc, products, _, c := newService(t)

		c.On("Get", mock.Anything, "products:7", mock.AnythingOfType("*[]*model.Product")).
			Return(true, nil, func(dest interface{}) {
				*dest.(*[]*model.Product) = expected
			}).Once()

		got, err := svc.ListProducts(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, expected, got)
		products.AssertNotCalled(t, "ListByCompany", mock.Anything, mock.Anything)
	})

	t.Run("cache error falls back to repository", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()
		svc, products, _, c := newService(t)

		c.On("Get", mock.Anything, "products:7", mock.Anything).Return(false, errors.New("redis fora")).Once()
		products.On("ListByCompany", mock.Anything, uint(7)).Return(expected, nil).Once()
		c.On("Set", mock.Anything, "products:7", expected, ttl).Return(errors.New("redis fora")).Once()

		got, err := svc.ListProducts(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, expected, got)
	})
}

func TestCatalogService_CreateProduct(t *testing.T) {
	input := &catalog.ProductInput{
		Code:        " BONE-001 ",
		Description: "Boné",
		Value:       decimal.RequireFromString("19.90"),
		Sizes:       []string{"U", "", "U"},
	}

	t.Run("successfully invalidates cache", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()
		svc, products, _, c := newService(t)

		products.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Product) bool {
			return p.CompanyID == 7 && p.Code == "BONE-001" && len(p.Sizes) == 1
		})).Return(nil).Once()
		c.On("Delete", mock.Anything, []string{"products:7"}).Return(nil).Once()

		p, err := svc.CreateProduct(ctx, 7, input)
		require.NoError(t, err)
		assert.Equal(t, []string{"U"}, p.Sizes)
		c.AssertExpectations(t)
	})

	t.Run("duplicate code", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()
		svc, products, _, c := newService(t)

		products.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate).Once()

		_, err := svc.CreateProduct(ctx, 7, input)
		assert.Equal(t, catalog.ErrDuplicateProductCode, err)
		c.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing value", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()
		svc, products, _, _ := newService(t)

		_, err := svc.CreateProduct(ctx, 7, &catalog.ProductInput{Code: "X", Description: "Y"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "value é obrigatório")
		products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCatalogService_UpdateAndDelete(t *testing.T) {
	existing := &model.Product{ID: 3, CompanyID: 7, Code: "BONE-001", Description: "Boné", Value: decimal.NewFromInt(10)}

	t.Run("update", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()
		svc, products, _, c := newService(t)

		products.On("GetByID", mock.Anything, uint(7), uint(3)).Return(existing, nil).Once()
		products.On("Update", mock.Anything, mock.MatchedBy(func(p *model.Product) bool {
			return p.ID == 3 && p.Description == "Boné Aba Reta"
		})).Return(nil).Once()
		c.On("Delete", mock.Anything, []string{"products:7"}).Return(nil).Once()

		p, err := svc.UpdateProduct(ctx, 7, 3, &catalog.ProductInput{
			Code: "BONE-001", Description: "Boné Aba Reta", Value: decimal.NewFromInt(12),
		})
		require.NoError(t, err)
		assert.Equal(t, "12", p.Value.String())
	})

	t.Run("update in other company", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()
		svc, products, _, _ := newService(t)

		products.On("GetByID", mock.Anything, uint(8), uint(3)).Return(nil, repository.ErrNotFound).Once()

		_, err := svc.UpdateProduct(ctx, 8, 3, &catalog.ProductInput{Code: "A", Description: "B", Value: decimal.NewFromInt(1)})
		assert.Equal(t, catalog.ErrProductNotFound, err)
	})

	t.Run("delete in use", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()
		svc, products, _, _ := newService(t)

		products.On("Delete", mock.Anything, uint(7), uint(3)).Return(repository.ErrInUse).Once()
		assert.Equal(t, catalog.ErrProductInUse, svc.DeleteProduct(ctx, 7, 3))
	})

	t.Run("delete", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()
		svc, products, _, c := newService(t)

		products.On("Delete", mock.Anything, uint(7), uint(3)).Return(nil).Once()
		c.On("Delete", mock.Anything, []string{"products:7"}).Return(nil).Once()
		require.NoError(t, svc.DeleteProduct(ctx, 7, 3))
		c.AssertExpectations(t)
	})
}

func TestCatalogService_PaymentMethods(t *testing.T) {
	methods := []*model.PaymentMethod{{ID: 1, Name: "PIX", IsActive: true}}

	t.Run("list caches", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()
		svc, _, payments, c := newService(t)

		c.On("Get", mock.Anything, "payment_methods", mock.Anything).Return(false, nil).Once()
		payments.On("ListActive", mock.Anything).Return(methods, nil).Once()
		c.On("Set", mock.Anything, "payment_methods", methods, ttl).Return(nil).Once()

		got, err := svc.ListPaymentMethods(ctx)
		require.NoError(t, err)
		assert.Equal(t, methods, got)
		c.AssertExpectations(t)
	})

	t.Run("create inactive", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()
		svc, _, payments, c := newService(t)

		inactive := false
		payments.On("Create", mock.Anything, mock.MatchedBy(func(pm *model.PaymentMethod) bool {
			return pm.Name == "Cheque" && !pm.IsActive
		})).Return(nil).Once()
		c.On("Delete", mock.Anything, []string{"payment_methods"}).Return(nil).Once()

		pm, err := svc.CreatePaymentMethod(ctx, &catalog.PaymentMethodInput{Name: "Cheque", IsActive: &inactive})
		require.NoError(t, err)
		assert.False(t, pm.IsActive)
	})

	t.Run("create duplicate", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()
		svc, _, payments, _ := newService(t)

		payments.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate).Once()
		_, err := svc.CreatePaymentMethod(ctx, &catalog.PaymentMethodInput{Name: "PIX"})
		assert.Equal(t, catalog.ErrDuplicatePayment, err)
	})

	t.Run("create without name", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()
		svc, _, _, _ := newService(t)

		_, err := svc.CreatePaymentMethod(ctx, &catalog.PaymentMethodInput{Name: "  "})
		assert.Equal(t, catalog.ErrPaymentMethodName, err)
	})
}
