package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"malagahomes_backend/internal/model"
	"malagahomes_backend/internal/workflow"
)

// PropertyRepository is the GORM-backed storage collaborator for listings.
type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// CreateWithImage inserts the property row plus its cover image row in one
// transaction.
func (r *PropertyRepository) CreateWithImage(ctx context.Context, p *model.Property, img *model.PropertyImage) error {
	tx := r.db.WithContext(ctx).Begin()

	if err := tx.Create(p).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("could not create property: %w", err)
	}

	img.PropertyID = p.ID
	if err := tx.Create(img).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("could not save cover image: %w", err)
	}

	return tx.Commit().Error
}

// UpdateWithImage replaces the scalar fields and, when img is non-nil,
// replaces the cover row addressed by its (position, property_id) key.
func (r *PropertyRepository) UpdateWithImage(ctx context.Context, p *model.Property, img *model.PropertyImage) error {
	tx := r.db.WithContext(ctx).Begin()

	if err := tx.Omit("Images", "AgencyFee", "User").Save(p).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("could not update property: %w", err)
	}

	if img != nil {
		res := tx.Model(&model.PropertyImage{}).
			Where("property_id = ? AND position = ?", p.ID, img.Position).
			Updates(map[string]interface{}{"url": img.URL, "alt": img.Alt})
		if res.Error != nil {
			tx.Rollback()
			return fmt.Errorf("could not replace cover image: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			img.PropertyID = p.ID
			if err := tx.Create(img).Error; err != nil {
				tx.Rollback()
				return fmt.Errorf("could not save cover image: %w", err)
			}
		}
	}

	return tx.Commit().Error
}

// Delete removes the property; image rows go through the FK cascade.
func (r *PropertyRepository) Delete(ctx context.Context, p *model.Property) error {
	return r.db.WithContext(ctx).Select("Images").Delete(p).Error
}

func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*model.Property, error) {
	var property model.Property
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("property_images.position ASC")
		}).
		Preload("AgencyFee").
		Where("id = ?", id).
		First(&property).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.ErrNotFound
		}
		return nil, fmt.Errorf("could not fetch property: %w", err)
	}
	return &property, nil
}

// ListByOwner returns every listing of one owner, most recently updated
// first.
func (r *PropertyRepository) ListByOwner(ctx context.Context, userID string) ([]model.Property, error) {
	var properties []model.Property
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("property_images.position ASC")
		}).
		Order("updated_at desc").
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("could not fetch properties: %w", err)
	}
	return properties, nil
}

// ListPage fetches one public page. It reads pageSize+1 rows so the next
// flag needs no separate count query.
func (r *PropertyRepository) ListPage(ctx context.Context, page, pageSize int) (*Page, error) {
	q := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("property_images.position ASC")
		}).
		Preload("AgencyFee").
		Order("updated_at desc").
		Limit(pageSize + 1)
	if page > 0 {
		q = q.Offset(page * pageSize)
	}

	var fetched []model.Property
	if err := q.Find(&fetched).Error; err != nil {
		return nil, fmt.Errorf("could not fetch properties: %w", err)
	}

	return buildPage(fetched, page, pageSize), nil
}

func (r *PropertyRepository) FeeByKey(ctx context.Context, key string) (*model.AgencyFee, error) {
	var fee model.AgencyFee
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&fee).Error; err != nil {
		return nil, fmt.Errorf("could not fetch agency fee %q: %w", key, err)
	}
	return &fee, nil
}
