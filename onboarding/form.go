// Package onboarding describes the store onboarding form and submits it.
package onboarding

import (
	"net/mail"
	"regexp"
	"slices"
	"strings"

	"github.com/jrsteele09/go-admin-console/users"
)

// FieldKind is the closed set of field types the form uses.
type FieldKind int

const (
	KindText FieldKind = iota
	KindSelect
	KindTheme
)

type TextFormat int

const (
	FormatPlain TextFormat = iota
	FormatEmail
	FormatPhone
	FormatSubdomain
)

type Theme struct {
	Name   string
	Colour string
}

type Field struct {
	Name        string
	Label       string
	Placeholder string
	Kind        FieldKind
	Format      TextFormat
	Options     []string
	Themes      []Theme
}

type Step struct {
	Title       string
	Description string
	Fields      []Field
}

var (
	phonePattern     = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{5,18}[0-9]$`)
	subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)
)

// Validate returns the messages for value; none means valid. Every field is required.
func (f Field) Validate(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return []string{f.Label + " is required"}
	}
	switch f.Kind {
	case KindSelect:
		if !slices.Contains(f.Options, value) {
			return []string{f.Label + " must be one of the listed options"}
		}
	case KindTheme:
		if !slices.ContainsFunc(f.Themes, func(t Theme) bool { return t.Name == value }) {
			return []string{f.Label + " must be one of the available themes"}
		}
	case KindText:
		switch f.Format {
		case FormatEmail:
			if addr, err := mail.ParseAddress(value); err != nil || addr.Address != value {
				return []string{f.Label + " must be a valid email address"}
			}
		case FormatPhone:
			if !phonePattern.MatchString(value) {
				return []string{f.Label + " must be a valid phone number"}
			}
		case FormatSubdomain:
			if !subdomainPattern.MatchString(value) {
				return []string{f.Label + " may only contain lowercase letters, digits and hyphens"}
			}
		}
	}
	return nil
}

var BusinessTypes = []string{"Fashion", "Electronics", "Home & Garden", "Health & Beauty", "Food & Beverages", "Other"}

var Themes = []Theme{
	{Name: "Ocean", Colour: "blue"},
	{Name: "Forest", Colour: "green"},
	{Name: "Sunset", Colour: "orange"},
	{Name: "Lavender", Colour: "purple"},
}

// Steps returns the form in display order.
func Steps() []Step {
	return []Step{
		{
			Title:       "Store Info",
			Description: "Tell us about your store",
			Fields: []Field{
				{Name: "storeName", Label: "Store Name", Placeholder: "My Store"},
				{Name: "subdomain", Label: "Subdomain", Placeholder: "mystore", Format: FormatSubdomain},
			},
		},
		{
			Title:       "Personal",
			Description: "Your contact details",
			Fields: []Field{
				{Name: "ownerName", Label: "Owner Name", Placeholder: "John Doe"},
				{Name: "email", Label: "Email", Placeholder: "john@example.com", Format: FormatEmail},
				{Name: "phone", Label: "Phone", Placeholder: "+1234567890", Format: FormatPhone},
			},
		},
		{
			Title:       "Address",
			Description: "Where is your business located",
			Fields: []Field{
				{Name: "address", Label: "Address", Placeholder: "123 Main St"},
				{Name: "city", Label: "City", Placeholder: "New York"},
				{Name: "country", Label: "Country", Placeholder: "USA"},
			},
		},
		{
			Title:       "Business",
			Description: "What do you sell",
			Fields: []Field{
				{Name: "businessType", Label: "Business Type", Kind: KindSelect, Options: BusinessTypes},
			},
		},
		{
			Title:       "Theme",
			Description: "Pick a look for your store",
			Fields: []Field{
				{Name: "theme", Label: "Choose Theme", Kind: KindTheme, Themes: Themes},
			},
		},
	}
}

// ValidateStep checks the fields of one step (zero based). An out of range step has no
// fields and is always valid.
func ValidateStep(step int, values map[string]string) map[string][]string {
	steps := Steps()
	errs := map[string][]string{}
	if step < 0 || step >= len(steps) {
		return errs
	}
	for _, f := range steps[step].Fields {
		if msgs := f.Validate(values[f.Name]); len(msgs) > 0 {
			errs[f.Name] = msgs
		}
	}
	return errs
}

// Validate checks every step.
func Validate(values map[string]string) map[string][]string {
	errs := map[string][]string{}
	for i := range Steps() {
		for k, v := range ValidateStep(i, values) {
			errs[k] = v
		}
	}
	return errs
}

// Request maps validated form values onto the API payload.
func Request(values map[string]string) users.OnboardRequest {
	v := func(k string) string { return strings.TrimSpace(values[k]) }
	return users.OnboardRequest{
		StoreName:    v("storeName"),
		Subdomain:    v("subdomain"),
		OwnerName:    v("ownerName"),
		Email:        v("email"),
		Phone:        v("phone"),
		Address:      v("address"),
		City:         v("city"),
		Country:      v("country"),
		BusinessType: v("businessType"),
		Theme:        v("theme"),
	}
}

// Values is the inverse of Request.
func Values(req users.OnboardRequest) map[string]string {
	return map[string]string{
		"storeName":    req.StoreName,
		"subdomain":    req.Subdomain,
		"ownerName":    req.OwnerName,
		"email":        req.Email,
		"phone":        req.Phone,
		"address":      req.Address,
		"city":         req.City,
		"country":      req.Country,
		"businessType": req.BusinessType,
		"theme":        req.Theme,
	}
}
