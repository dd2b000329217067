package seed

import (
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"malagahomes_backend/internal/model"
)

// Run populates the database with the standard agency fee and a demo account
// with one listing. Safe to call on every start.
func Run(db *gorm.DB) error {
	var fee model.AgencyFee
	if err := db.Where(model.AgencyFee{Key: "standard"}).
		Attrs(model.AgencyFee{Fee: 3}).
		FirstOrCreate(&fee).Error; err != nil {
		return err
	}

	var user model.User
	err := db.Where("email = ?", "koltisb@gmail.com").First(&user).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("demodemo"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user = model.User{
		Email:    "koltisb@gmail.com",
		Password: string(hashed),
		Name:     "Koltis",
		Phone:    "+34 623 728 282",
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}

	property := model.Property{
		UserID:      user.ID,
		Phone:       "+34 623 728 282",
		Country:     "Spain",
		Address1:    "Calle Armengual de la Mota 27",
		CP:          "29007",
		City:        "Málaga",
		State:       "Málaga",
		Bedrooms:    3,
		Bathroom:    2,
		Size:        98,
		Garage:      true,
		OwnerPrice:  150000,
		Title:       "Bright flat next to Calle Larios",
		Description: "Recently renovated three bedroom flat a short walk from the historic centre, with a private garage space and plenty of natural light.",
		AgencyFeeID: &fee.ID,
	}
	if err := db.Create(&property).Error; err != nil {
		return err
	}

	cover := model.PropertyImage{
		PropertyID: property.ID,
		Position:   model.CoverImagePosition,
		URL:        "https://imagedelivery.net/demo/seed-malaga-flat/public",
		Alt:        property.Title,
	}
	if err := db.Create(&cover).Error; err != nil {
		return err
	}

	slog.Info("seeded demo data", "user", user.Email, "property", property.ID)
	return nil
}
