package validation

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() map[string]string {
	return map[string]string{
		"phone":       "623144819",
		"country":     "spain",
		"address1":    "Av. Santa Rosa de Lima, 20",
		"address2":    "",
		"cp":          "29007",
		"city":        "malaga",
		"state":       "andalucia",
		"bedrooms":    "4",
		"bathroom":    "2",
		"garage":      "",
		"ownerPrice":  "150000",
		"title":       "Piso en venta en Rosa de Lima",
		"size":        "150",
		"description": "Piso para entrar a vivir.",
		"geoCode":     "dXJuOm1ieGFkcjp",
	}
}

func getter(values map[string]string) func(string) string {
	return func(name string) string { return values[name] }
}

func testFile(size int64) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: "salon.jpg", Size: size}
}

func TestParsePropertyValid(t *testing.T) {
	sub, errs := ParseProperty(getter(validForm()), testFile(2048), true)

	require.Empty(t, errs)
	assert.Equal(t, "623144819", sub.Phone)
	assert.Equal(t, 4, sub.Bedrooms)
	assert.Equal(t, 2, sub.Bathroom)
	assert.Equal(t, 150, sub.Size)
	assert.Equal(t, float64(150000), sub.OwnerPrice)
	assert.False(t, sub.Garage)
	assert.NotNil(t, sub.Image)
}

func TestParsePropertyGarageCheckbox(t *testing.T) {
	values := validForm()
	values["garage"] = "on"

	sub, errs := ParseProperty(getter(values), testFile(2048), true)
	require.Empty(t, errs)
	assert.True(t, sub.Garage)
}

func TestParsePropertyTrimsFreeText(t *testing.T) {
	values := validForm()
	values["title"] = "  Piso céntrico  "
	values["city"] = " malaga "

	sub, errs := ParseProperty(getter(values), testFile(2048), true)
	require.Empty(t, errs)
	assert.Equal(t, "Piso céntrico", sub.Title)
	assert.Equal(t, "malaga", sub.City)
}

func TestParsePropertyFieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{"empty title", "title", ""},
		{"title too long", "title", string(make([]byte, 70))},
		{"empty description", "description", ""},
		{"empty address1", "address1", ""},
		{"empty city", "city", ""},
		{"empty state", "state", ""},
		{"empty country", "country", ""},
		{"empty geoCode", "geoCode", ""},
		{"zero bedrooms", "bedrooms", "0"},
		{"zero size", "size", "0"},
		{"zero ownerPrice", "ownerPrice", "0"},
		{"non-numeric bedrooms", "bedrooms", "four"},
		{"non-numeric bathroom", "bathroom", "two"},
		{"empty bathroom", "bathroom", ""},
		{"bad postal code", "cp", "999999"},
		{"bad phone", "phone", "not-a-phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := validForm()
			values[tt.field] = tt.value

			_, errs := ParseProperty(getter(values), testFile(2048), true)
			assert.Contains(t, errs, tt.field)
		})
	}
}

func TestParsePropertyReturnsAllErrors(t *testing.T) {
	values := validForm()
	values["title"] = ""
	values["bedrooms"] = "0"
	values["cp"] = "nope"

	sub, errs := ParseProperty(getter(values), nil, true)
	assert.Len(t, errs, 4) // title, bedrooms, cp, img
	// The partially-typed value survives for re-rendering.
	assert.Equal(t, "malaga", sub.City)
}

func TestParsePropertyImageRules(t *testing.T) {
	t.Run("required and missing", func(t *testing.T) {
		_, errs := ParseProperty(getter(validForm()), nil, true)
		assert.Equal(t, "Img is required", errs["img"])
	})

	t.Run("required and zero size", func(t *testing.T) {
		_, errs := ParseProperty(getter(validForm()), testFile(0), true)
		assert.Equal(t, "Img is required", errs["img"])
	})

	t.Run("over the size cap", func(t *testing.T) {
		_, errs := ParseProperty(getter(validForm()), testFile(MaxImageSize), true)
		assert.Equal(t, "File size must be less than 10mb", errs["img"])
	})

	t.Run("optional zero size skips", func(t *testing.T) {
		sub, errs := ParseProperty(getter(validForm()), testFile(0), false)
		require.Empty(t, errs)
		assert.Nil(t, sub.Image)
	})

	t.Run("optional replacement kept", func(t *testing.T) {
		sub, errs := ParseProperty(getter(validForm()), testFile(4096), false)
		require.Empty(t, errs)
		assert.NotNil(t, sub.Image)
	})

	t.Run("disallowed extension", func(t *testing.T) {
		file := &multipart.FileHeader{Filename: "listing.pdf", Size: 2048}
		_, errs := ParseProperty(getter(validForm()), file, true)
		assert.Contains(t, errs["img"], "Invalid file type")
	})
}
