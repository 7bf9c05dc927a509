package database

import (
	"context"
	"fmt"

	"github.com/representacao/backend/internal/domain/model"
	"github.com/representacao/backend/internal/domain/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompanyRepository implementa repository.CompanyRepository
type CompanyRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewCompanyRepository(db *gorm.DB, logger *zap.Logger) *CompanyRepository {
	return &CompanyRepository{db: db, logger: logger}
}

var _ repository.CompanyRepository = (*CompanyRepository)(nil)

func (r *CompanyRepository) Create(ctx context.Context, company *model.Company) (err error) {
	ctx, span := startSpan(ctx, "CompanyRepository.Create", "insert", "companies")
	defer func() { endSpan(span, err) }()

	entity := &model.CompanyEntity{Name: company.Name, CNPJ: company.CNPJ}
	if err := conn(ctx, r.db).Create(entity).Error; err != nil {
		r.logger.Error("falha ao criar empresa", zap.String("cnpj", company.CNPJ), zap.Error(err))
		return translate(err)
	}
	*company = *companyToModel(entity)
	return nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id uint) (company *model.Company, err error) {
	ctx, span := startSpan(ctx, "CompanyRepository.GetByID", "select", "companies", attribute.Int64("company.id", int64(id)))
	defer func() { endSpan(span, err) }()

	var entity model.CompanyEntity
	if err := conn(ctx, r.db).First(&entity, id).Error; err != nil {
		return nil, translate(err)
	}
	return companyToModel(&entity), nil
}

func (r *CompanyRepository) GetByCNPJ(ctx context.Context, cnpj string) (company *model.Company, err error) {
	ctx, span := startSpan(ctx, "CompanyRepository.GetByCNPJ", "select", "companies")
	defer func() { endSpan(span, err) }()

	var entity model.CompanyEntity
	if err := conn(ctx, r.db).Where("cnpj = ?", cnpj).First(&entity).Error; err != nil {
		return nil, translate(err)
	}
	return companyToModel(&entity), nil
}

// ListByUser retorna as empresas vinculadas ao usuário, por ordem de id
func (r *CompanyRepository) ListByUser(ctx context.Context, userID uint) (companies []*model.Company, err error) {
	ctx, span := startSpan(ctx, "CompanyRepository.ListByUser", "select", "companies", attribute.Int64("user.id", int64(userID)))
	defer func() { endSpan(span, err) }()

	var entities []model.CompanyEntity
	err = conn(ctx, r.db).
		Joins("JOIN user_companies uc ON uc.company_id = companies.id").
		Where("uc.user_id = ?", userID).
		Order("companies.id").
		Find(&entities).Error
	if err != nil {
		return nil, fmt.Errorf("falha ao listar empresas do usuário: %w", err)
	}

	companies = make([]*model.Company, 0, len(entities))
	for i := range entities {
		companies = append(companies, companyToModel(&entities[i]))
	}
	return companies, nil
}

func (r *CompanyRepository) LinkUser(ctx context.Context, userID, companyID uint) (err error) {
	ctx, span := startSpan(ctx, "CompanyRepository.LinkUser", "insert", "user_companies",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("company.id", int64(companyID)))
	defer func() { endSpan(span, err) }()

	link := &model.UserCompanyEntity{UserID: userID, CompanyID: companyID}
	if err := conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(link).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *CompanyRepository) IsLinked(ctx context.Context, userID, companyID uint) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&model.UserCompanyEntity{}).
		Where("user_id = ? AND company_id = ?", userID, companyID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func companyToModel(e *model.CompanyEntity) *model.Company {
	return &model.Company{ID: e.ID, Name: e.Name, CNPJ: e.CNPJ, CreatedAt: e.CreatedAt}
}
