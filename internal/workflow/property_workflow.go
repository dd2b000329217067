// Package workflow orchestrates the property create/update/delete saga:
// validate, gate on geocoded region, ingest the cover image, persist. Each
// step exits early; nothing is written before the persist step.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"gorm.io/datatypes"

	"malagahomes_backend/internal/model"
	"malagahomes_backend/pkg/geocode"
	"malagahomes_backend/pkg/imagehost"
	"malagahomes_backend/pkg/utils/validation"
)

var (
	ErrNotFound = errors.New("property not found")
	ErrNotOwner = errors.New("not authorized")
)

// Geocoder gates a location token on the allowed region.
type Geocoder interface {
	Check(ctx context.Context, geoCode string) (*geocode.Feature, error)
}

// ImageHost ingests a cover image and returns its public delivery URL.
type ImageHost interface {
	Upload(ctx context.Context, filename string, file io.Reader) (*imagehost.UploadedImage, error)
}

// PropertyStore is the persistence collaborator. CreateWithImage and
// UpdateWithImage are single atomic calls; a nil image on update keeps the
// existing cover row.
type PropertyStore interface {
	CreateWithImage(ctx context.Context, p *model.Property, img *model.PropertyImage) error
	UpdateWithImage(ctx context.Context, p *model.Property, img *model.PropertyImage) error
	Delete(ctx context.Context, p *model.Property) error
	GetByID(ctx context.Context, id string) (*model.Property, error)
	FeeByKey(ctx context.Context, key string) (*model.AgencyFee, error)
}

type Saver struct {
	store  PropertyStore
	geo    Geocoder
	images ImageHost
	feeKey string
	log    *slog.Logger
}

func NewSaver(store PropertyStore, geo Geocoder, images ImageHost, feeKey string, log *slog.Logger) *Saver {
	if log == nil {
		log = slog.Default()
	}
	return &Saver{store: store, geo: geo, images: images, feeKey: feeKey, log: log}
}

// Create runs the full saga for a new listing. Field errors come back as a
// validation.Errors map (geocode and upload failures under the shared
// geoLocation key); only storage-level failures are Go errors.
func (s *Saver) Create(ctx context.Context, ownerID string, value func(string) string, file *multipart.FileHeader) (*model.Property, validation.Errors, error) {
	sub, errs := validation.ParseProperty(value, file, true)
	if errs != nil {
		return nil, errs, nil
	}

	feature, err := s.geo.Check(ctx, sub.GeoCode)
	if err != nil {
		s.log.Info("geocode gate rejected submission", "step", "geo_checked", "reason", err)
		return nil, validation.Errors{validation.GeoLocationKey: submissionMessage(err)}, nil
	}

	hosted, err := s.ingestImage(ctx, sub.Image)
	if err != nil {
		s.log.Info("image ingestion failed", "step", "image_ingested", "reason", err)
		return nil, validation.Errors{validation.GeoLocationKey: submissionMessage(err)}, nil
	}

	property := &model.Property{UserID: ownerID}
	applySubmission(property, sub, feature)

	if fee, err := s.store.FeeByKey(ctx, s.feeKey); err == nil {
		property.AgencyFeeID = &fee.ID
	} else {
		s.log.Warn("no agency fee configured", "key", s.feeKey, "error", err)
	}

	img := &model.PropertyImage{
		URL:      hosted.URL,
		Alt:      hosted.Alt,
		Position: model.CoverImagePosition,
	}

	if err := s.store.CreateWithImage(ctx, property, img); err != nil {
		return nil, nil, fmt.Errorf("could not create property: %w", err)
	}

	s.log.Info("property created", "step", "persisted", "property_id", property.ID, "owner_id", ownerID)
	return property, nil, nil
}

// Update replaces the scalar fields of an owned listing. The cover image is
// replaced only when a non-empty file was supplied.
func (s *Saver) Update(ctx context.Context, ownerID, propertyID string, value func(string) string, file *multipart.FileHeader) (*model.Property, validation.Errors, error) {
	property, err := s.store.GetByID(ctx, propertyID)
	if err != nil {
		return nil, nil, err
	}
	if property.UserID != ownerID {
		return nil, nil, ErrNotOwner
	}

	sub, errs := validation.ParseProperty(value, file, false)
	if errs != nil {
		return nil, errs, nil
	}

	feature, err := s.geo.Check(ctx, sub.GeoCode)
	if err != nil {
		s.log.Info("geocode gate rejected submission", "step", "geo_checked", "reason", err)
		return nil, validation.Errors{validation.GeoLocationKey: submissionMessage(err)}, nil
	}

	var img *model.PropertyImage
	if sub.Image != nil {
		hosted, err := s.ingestImage(ctx, sub.Image)
		if err != nil {
			s.log.Info("image ingestion failed", "step", "image_ingested", "reason", err)
			return nil, validation.Errors{validation.GeoLocationKey: submissionMessage(err)}, nil
		}
		img = &model.PropertyImage{
			URL:      hosted.URL,
			Alt:      hosted.Alt,
			Position: model.CoverImagePosition,
		}
	}

	applySubmission(property, sub, feature)

	if err := s.store.UpdateWithImage(ctx, property, img); err != nil {
		return nil, nil, fmt.Errorf("could not update property: %w", err)
	}

	s.log.Info("property updated", "step", "persisted", "property_id", property.ID)
	return property, nil, nil
}

// Delete removes an owned listing. Image rows go with it through the storage
// layer's cascade rules.
func (s *Saver) Delete(ctx context.Context, ownerID, propertyID string) error {
	property, err := s.store.GetByID(ctx, propertyID)
	if err != nil {
		return err
	}
	if property.UserID != ownerID {
		return ErrNotOwner
	}

	if err := s.store.Delete(ctx, property); err != nil {
		return fmt.Errorf("could not delete property: %w", err)
	}

	s.log.Info("property deleted", "property_id", propertyID)
	return nil
}

func (s *Saver) ingestImage(ctx context.Context, file *multipart.FileHeader) (*imagehost.UploadedImage, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("could not open upload: %w", err)
	}
	defer src.Close()

	return s.images.Upload(ctx, file.Filename, src)
}

func applySubmission(p *model.Property, sub *validation.Submission, feature *geocode.Feature) {
	p.Phone = sub.Phone
	p.Country = sub.Country
	p.Address1 = sub.Address1
	p.Address2 = sub.Address2
	p.CP = sub.CP
	p.City = sub.City
	p.State = sub.State
	p.Bedrooms = sub.Bedrooms
	p.Bathroom = sub.Bathroom
	p.Size = sub.Size
	p.Garage = sub.Garage
	p.OwnerPrice = sub.OwnerPrice
	p.Title = sub.Title
	p.Description = sub.Description
	p.GeoCode = sub.GeoCode
	p.GeoContext = datatypes.JSON(feature.Context)
}

// submissionMessage folds a gate or ingestion failure into the message shown
// to the submitter. Region and provider messages pass through; anything else
// collapses to the generic one.
func submissionMessage(err error) string {
	var regionErr *geocode.RegionError
	if errors.As(err, &regionErr) {
		return regionErr.Error()
	}
	if errors.Is(err, geocode.ErrInvalidDirection) {
		return geocode.ErrInvalidDirection.Error()
	}
	var uploadErr *imagehost.UploadError
	if errors.As(err, &uploadErr) {
		return uploadErr.Message
	}
	return geocode.ErrNoFeature.Error()
}
