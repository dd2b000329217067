package validation

import (
	"errors"
	"mime/multipart"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a submitted field name to a human-readable message. Malformed
// input is a normal, reportable outcome, never a Go error.
type Errors map[string]string

// GeoLocationKey is the shared error slot for geocode and image-host
// failures, matching the form contract.
const GeoLocationKey = "geoLocation"

// Submission is the typed, normalized value bundle produced from a property
// form. Image is nil when no replacement file was supplied.
type Submission struct {
	Phone       string
	Country     string
	Address1    string
	Address2    string
	CP          string
	City        string
	State       string
	Bedrooms    int
	Bathroom    int
	Size        int
	Garage      bool
	OwnerPrice  float64
	Title       string
	Description string
	GeoCode     string
	Image       *multipart.FileHeader
}

type propertyForm struct {
	Phone       string  `form:"phone" validate:"required,max=40,mobilephone"`
	Country     string  `form:"country" validate:"required,max=40"`
	Address1    string  `form:"address1" validate:"required,max=140"`
	Address2    string  `form:"address2" validate:"max=140"`
	CP          string  `form:"cp" validate:"required,max=40,postcode_iso3166_alpha2=ES"`
	City        string  `form:"city" validate:"required,max=40"`
	State       string  `form:"state" validate:"required,max=40"`
	Bedrooms    int     `form:"bedrooms" validate:"min=1"`
	OwnerPrice  float64 `form:"ownerPrice" validate:"min=1"`
	Title       string  `form:"title" validate:"required,max=65"`
	Size        int     `form:"size" validate:"min=1"`
	Description string  `form:"description" validate:"required,max=540"`
	GeoCode     string  `form:"geoCode" validate:"required"`
}

var (
	validate = newValidator()

	mobilePhoneRe = regexp.MustCompile(`^\+?[0-9]{6,15}$`)
	numericRe     = regexp.MustCompile(`^[0-9]+$`)
)

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("form")
		if name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("mobilephone", func(fl validator.FieldLevel) bool {
		phone := strings.NewReplacer(" ", "", "-", "").Replace(fl.Field().String())
		return mobilePhoneRe.MatchString(phone)
	})

	return v
}

// ParseProperty validates and normalizes a submitted property form. The
// returned Submission is always populated with whatever could be typed, so a
// failed submission can be re-rendered with its values.
func ParseProperty(value func(name string) string, file *multipart.FileHeader, imageRequired bool) (*Submission, Errors) {
	errs := Errors{}

	form := propertyForm{
		Phone:       value("phone"),
		Country:     strings.TrimSpace(value("country")),
		Address1:    strings.TrimSpace(value("address1")),
		Address2:    strings.TrimSpace(value("address2")),
		CP:          value("cp"),
		City:        strings.TrimSpace(value("city")),
		State:       strings.TrimSpace(value("state")),
		Title:       strings.TrimSpace(value("title")),
		Description: strings.TrimSpace(value("description")),
		GeoCode:     strings.TrimSpace(value("geoCode")),
	}

	form.Bedrooms = coerceInt(value("bedrooms"), "bedrooms", errs)
	form.Size = coerceInt(value("size"), "size", errs)
	form.OwnerPrice = coerceFloat(value("ownerPrice"), "ownerPrice", errs)

	// The bathroom field arrives as a numeric string and is transformed,
	// not coerced.
	bathroom := 0
	if raw := value("bathroom"); numericRe.MatchString(raw) {
		bathroom, _ = strconv.Atoi(raw)
	} else {
		errs["bathroom"] = "must be a number"
	}

	// Checkbox semantics: any submitted value counts as true.
	garage := value("garage") != ""

	if err := validate.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				if _, seen := errs[fe.Field()]; !seen {
					errs[fe.Field()] = messageForTag(fe)
				}
			}
		}
	}

	image, imgMsg := validateImage(file, imageRequired)
	if imgMsg != "" {
		errs["img"] = imgMsg
	}

	sub := &Submission{
		Phone:       form.Phone,
		Country:     form.Country,
		Address1:    form.Address1,
		Address2:    form.Address2,
		CP:          form.CP,
		City:        form.City,
		State:       form.State,
		Bedrooms:    form.Bedrooms,
		Bathroom:    bathroom,
		Size:        form.Size,
		Garage:      garage,
		OwnerPrice:  form.OwnerPrice,
		Title:       form.Title,
		Description: form.Description,
		GeoCode:     form.GeoCode,
		Image:       image,
	}

	if len(errs) == 0 {
		return sub, nil
	}
	return sub, errs
}

func coerceInt(raw, field string, errs Errors) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		errs[field] = "must be a number"
		return 0
	}
	return n
}

func coerceFloat(raw, field string, errs Errors) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		errs[field] = "must be a number"
		return 0
	}
	return f
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param()
	case "mobilephone":
		return "must be a valid phone number"
	case "postcode_iso3166_alpha2":
		return "must be a valid postal code"
	default:
		return "is invalid"
	}
}
