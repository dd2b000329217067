package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GarageSurcharge is added to the market price when the listing has a garage.
const GarageSurcharge = 5000

type Property struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"`
	UserID string `json:"user_id" gorm:"size:36;index;uniqueIndex:idx_user_property_slug;not null"`
	Slug   string `json:"slug" gorm:"uniqueIndex:idx_user_property_slug;not null"`

	Phone    string `json:"phone" gorm:"not null"`
	Country  string `json:"country" gorm:"not null"`
	Address1 string `json:"address1" gorm:"not null"`
	Address2 string `json:"address2"`
	CP       string `json:"cp" gorm:"not null"`
	City     string `json:"city" gorm:"not null"`
	State    string `json:"state" gorm:"not null"`

	Bedrooms   int     `json:"bedrooms" gorm:"not null"`
	Bathroom   int     `json:"bathroom" gorm:"not null"`
	Size       int     `json:"size" gorm:"not null"`
	Garage     bool    `json:"garage" gorm:"not null"`
	OwnerPrice float64 `json:"ownerPrice" gorm:"not null"`

	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description" gorm:"type:text;not null"`

	// GeoCode is the opaque location token captured from the address
	// autocomplete flow; GeoContext is the resolved feature context from
	// the last forward-geocode check.
	GeoCode    string         `json:"geoCode"`
	GeoContext datatypes.JSON `json:"geo_context,omitempty"`

	AgencyFeeID *string `json:"agency_fee_id" gorm:"size:36"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User      User            `json:"-" gorm:"foreignKey:UserID"`
	AgencyFee *AgencyFee      `json:"agency_fee,omitempty" gorm:"foreignKey:AgencyFeeID"`
	Images    []PropertyImage `json:"imgs" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

// PropertyImage is one listing photo. Position 1 is the cover image and the
// (position, property_id) pair is unique per listing.
type PropertyImage struct {
	ID         string `json:"id" gorm:"primaryKey;size:36"`
	PropertyID string `json:"property_id" gorm:"size:36;uniqueIndex:idx_property_img_position;not null"`
	Position   int    `json:"position" gorm:"uniqueIndex:idx_property_img_position;default:1"`
	URL        string `json:"url" gorm:"not null"`
	Alt        string `json:"alt"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Property Property `json:"-" gorm:"foreignKey:PropertyID"`
}

const CoverImagePosition = 1

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Slug == "" {
		s := slug.Make(p.Title)

		var count int64
		tx.Model(&Property{}).Where("user_id = ? AND slug = ?", p.UserID, s).Count(&count)
		if count > 0 {
			s = s + "-" + time.Now().Format("20060102")
		}

		p.Slug = s
	}
	return nil
}

func (img *PropertyImage) BeforeCreate(tx *gorm.DB) error {
	if img.ID == "" {
		img.ID = uuid.New().String()
	}
	if img.Position == 0 {
		img.Position = CoverImagePosition
	}
	return nil
}

// MarketPrice derives the advertised price from the owner price, the agency
// fee percentage and the garage surcharge. Never persisted.
func (p *Property) MarketPrice() float64 {
	price := p.OwnerPrice
	if p.Garage {
		price += GarageSurcharge
	}
	if p.AgencyFee != nil {
		price += p.OwnerPrice * p.AgencyFee.Fee / 100
	}
	return price
}

// CoverImage returns the position-1 image, or nil when the listing has none.
func (p *Property) CoverImage() *PropertyImage {
	for i := range p.Images {
		if p.Images[i].Position == CoverImagePosition {
			return &p.Images[i]
		}
	}
	return nil
}
