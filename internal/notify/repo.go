package notify

import (
	"context"

	"gorm.io/gorm"

	"github.com/sunnatcollection/backoffice/pkg/db/models"
	"github.com/sunnatcollection/backoffice/pkg/enums"
	"github.com/sunnatcollection/backoffice/pkg/pagination"
)

// ListFilter narrows a delivery log page.
type ListFilter struct {
	Channel    enums.Channel
	Status     enums.DeliveryStatus
	CustomerID *uint
	Cursor     string
	Limit      int
}

// Page is one cursor-paginated slice of delivery logs, newest first.
type Page struct {
	Logs       []models.DeliveryLog
	NextCursor string
}

// Repository persists delivery log rows.
type Repository interface {
	Create(ctx context.Context, log *models.DeliveryLog) error
	Update(ctx context.Context, log *models.DeliveryLog) error
	List(ctx context.Context, filter ListFilter) (Page, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a delivery log repository on the local store.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, log *models.DeliveryLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repositoryImpl) Update(ctx context.Context, log *models.DeliveryLog) error {
	return r.db.WithContext(ctx).Save(log).Error
}

func (r *repositoryImpl) List(ctx context.Context, filter ListFilter) (Page, error) {
	limit := pagination.NormalizeLimit(filter.Limit)
	query := r.db.WithContext(ctx).Model(&models.DeliveryLog{})

	if filter.Channel != "" {
		query = query.Where("channel = ?", filter.Channel)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}

	cursor, err := pagination.ParseCursor(filter.Cursor)
	if err != nil {
		return Page{}, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.DeliveryLog
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(filter.Limit)).
		Find(&rows).Error
	if err != nil {
		return Page{}, err
	}

	page := Page{Logs: rows}
	if len(rows) > limit {
		page.Logs = rows[:limit]
		last := page.Logs[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}
