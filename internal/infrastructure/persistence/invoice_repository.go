package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hrm/backend/internal/domain/invoice"
	"github.com/hrm/backend/internal/domain/shared"
	"github.com/hrm/backend/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements invoice.Repository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by ID within the tenant
func (r *GormInvoiceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*invoice.Invoice, error) {
	var model models.InvoiceModel
	if err := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser returns a user's invoices with pagination
func (r *GormInvoiceRepository) FindByUser(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]invoice.Invoice, int64, error) {
	var invModels []models.InvoiceModel
	var total int64

	query := dbFromContext(ctx, r.db).
		Model(&models.InvoiceModel{}).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID)
	query = r.applyFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyListOptions(query, filter, InvoiceSortFields)
	if err := query.Find(&invModels).Error; err != nil {
		return nil, 0, err
	}

	return toDomainInvoices(invModels), total, nil
}

// FindByUserAndPeriod finds the invoice for a user and billing period
func (r *GormInvoiceRepository) FindByUserAndPeriod(ctx context.Context, tenantID, userID uuid.UUID, year, month int) (*invoice.Invoice, error) {
	var model models.InvoiceModel
	if err := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND user_id = ? AND period_year = ? AND period_month = ?",
			tenantID, userID, year, month).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns tenant invoices with pagination
func (r *GormInvoiceRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]invoice.Invoice, int64, error) {
	var invModels []models.InvoiceModel
	var total int64

	query := dbFromContext(ctx, r.db).
		Model(&models.InvoiceModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyListOptions(query, filter, InvoiceSortFields)
	if err := query.Find(&invModels).Error; err != nil {
		return nil, 0, err
	}

	return toDomainInvoices(invModels), total, nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *invoice.Invoice) error {
	model := models.InvoiceModelFromDomain(inv)
	return dbFromContext(ctx, r.db).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
}

// Delete deletes an invoice by ID within the tenant
func (r *GormInvoiceRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.InvoiceModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if year, ok := filter.Filters["period_year"]; ok {
		query = query.Where("period_year = ?", year)
	}
	if month, ok := filter.Filters["period_month"]; ok {
		query = query.Where("period_month = ?", month)
	}
	if locked, ok := filter.Filters["locked"]; ok {
		query = query.Where("locked = ?", locked)
	}
	return query
}

func toDomainInvoices(invModels []models.InvoiceModel) []invoice.Invoice {
	invs := make([]invoice.Invoice, len(invModels))
	for i := range invModels {
		invs[i] = *invModels[i].ToDomain()
	}
	return invs
}

// Ensure GormInvoiceRepository implements Repository
var _ invoice.Repository = (*GormInvoiceRepository)(nil)
