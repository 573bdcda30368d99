package marketing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sunnatcollection/backoffice/pkg/db/models"
	"github.com/sunnatcollection/backoffice/pkg/enums"
	pkgerrors "github.com/sunnatcollection/backoffice/pkg/errors"
)

// Loyalty tier point ranges used by the loyalty_tier audience.
var tierRanges = map[string][2]int{
	"Bronze":   {0, 499},
	"Silver":   {500, 999},
	"Gold":     {1000, 2499},
	"Platinum": {2500, 1 << 30},
}

// Repository is the persistence surface the campaign and trigger evaluators
// run against.
type Repository interface {
	GetCampaign(ctx context.Context, id uint) (models.Campaign, error)
	UpdateCampaign(ctx context.Context, campaign *models.Campaign) error

	GetTrigger(ctx context.Context, id uint) (models.Trigger, error)
	ListActiveTriggers(ctx context.Context) ([]models.Trigger, error)
	UpdateTrigger(ctx context.Context, trigger *models.Trigger) error

	ResolveAudience(ctx context.Context, audience enums.CampaignAudience, criteria json.RawMessage, now time.Time) ([]models.Customer, error)
	TriggerCandidates(ctx context.Context, trigger models.Trigger, now time.Time) ([]models.Customer, error)

	TriggerFiredOn(ctx context.Context, triggerID, customerID uint, day time.Time) (bool, error)
	CreateTriggerLog(ctx context.Context, log *models.TriggerLog) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a marketing repository on the local store.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) GetCampaign(ctx context.Context, id uint) (models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.WithContext(ctx).First(&campaign, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return campaign, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
	}
	return campaign, err
}

func (r *repositoryImpl) UpdateCampaign(ctx context.Context, campaign *models.Campaign) error {
	return r.db.WithContext(ctx).Save(campaign).Error
}

func (r *repositoryImpl) GetTrigger(ctx context.Context, id uint) (models.Trigger, error) {
	var trigger models.Trigger
	err := r.db.WithContext(ctx).First(&trigger, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return trigger, pkgerrors.New(pkgerrors.CodeNotFound, "trigger not found")
	}
	return trigger, err
}

func (r *repositoryImpl) ListActiveTriggers(ctx context.Context) ([]models.Trigger, error) {
	var triggers []models.Trigger
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id ASC").
		Find(&triggers).Error
	return triggers, err
}

func (r *repositoryImpl) UpdateTrigger(ctx context.Context, trigger *models.Trigger) error {
	return r.db.WithContext(ctx).Save(trigger).Error
}

// audienceCriteria is the JSON shape stored on a campaign's criteria column.
type audienceCriteria struct {
	Tier string `json:"tier"`
	Days int    `json:"days"`
}

func (r *repositoryImpl) ResolveAudience(ctx context.Context, audience enums.CampaignAudience, criteria json.RawMessage, now time.Time) ([]models.Customer, error) {
	var crit audienceCriteria
	if len(criteria) > 0 {
		if err := json.Unmarshal(criteria, &crit); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid audience criteria")
		}
	}

	query := r.db.WithContext(ctx).Model(&models.Customer{}).Where("active = ?", true)

	switch audience {
	case enums.AudienceAll:
		// base query already selects every active customer
	case enums.AudienceLoyaltyTier:
		bounds, ok := tierRanges[crit.Tier]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown loyalty tier").
				WithDetails(map[string]any{"tier": crit.Tier})
		}
		query = query.Where("loyalty_points BETWEEN ? AND ?", bounds[0], bounds[1])
	case enums.AudienceInactive:
		days := crit.Days
		if days <= 0 {
			days = 30
		}
		cutoff := now.AddDate(0, 0, -days)
		query = query.Where(
			"NOT EXISTS (SELECT 1 FROM sales WHERE sales.customer_id = customers.id AND sales.created_at > ?)",
			cutoff,
		)
	case enums.AudienceBirthdayMonth:
		query = query.Where("birthday IS NOT NULL").
			Where("CAST(strftime('%m', birthday) AS INTEGER) = ?", int(now.Month()))
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid audience").
			WithDetails(map[string]any{"audience": audience})
	}

	var customers []models.Customer
	err := query.Order("id ASC").Find(&customers).Error
	return customers, err
}

func (r *repositoryImpl) TriggerCandidates(ctx context.Context, trigger models.Trigger, now time.Time) ([]models.Customer, error) {
	query := r.db.WithContext(ctx).Model(&models.Customer{}).Where("active = ?", true)

	switch trigger.Type {
	case enums.TriggerNoPurchaseDays:
		cutoff := now.AddDate(0, 0, -trigger.Days)
		query = query.Where(
			"NOT EXISTS (SELECT 1 FROM sales WHERE sales.customer_id = customers.id AND sales.created_at > ?)",
			cutoff,
		)
	case enums.TriggerBirthdayReminder:
		// Fire Days ahead of the birthday, matching on month and day.
		target := now.AddDate(0, 0, trigger.Days)
		query = query.Where("birthday IS NOT NULL").
			Where("strftime('%m-%d', birthday) = ?", fmt.Sprintf("%02d-%02d", int(target.Month()), target.Day()))
	case enums.TriggerLoyaltyMilestone:
		// Days doubles as the point threshold for milestone triggers.
		query = query.Where("loyalty_points >= ?", trigger.Days)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid trigger type").
			WithDetails(map[string]any{"type": trigger.Type})
	}

	var customers []models.Customer
	err := query.Order("id ASC").Find(&customers).Error
	return customers, err
}

// TriggerFiredOn reports whether the trigger already fired for the customer
// on the given UTC calendar day.
func (r *repositoryImpl) TriggerFiredOn(ctx context.Context, triggerID, customerID uint, day time.Time) (bool, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	var count int64
	err := r.db.WithContext(ctx).Model(&models.TriggerLog{}).
		Where("trigger_id = ? AND customer_id = ?", triggerID, customerID).
		Where("triggered_at >= ? AND triggered_at < ?", start, end).
		Count(&count).Error
	return count > 0, err
}

func (r *repositoryImpl) CreateTriggerLog(ctx context.Context, log *models.TriggerLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}
