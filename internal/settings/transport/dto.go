package transport

import "time"

// UpdateSettingsRequest is the admin payload for saving the policy.
type UpdateSettingsRequest struct {
	Enabled        *bool  `json:"enabled" validate:"required"`
	DefaultCountry string `json:"defaultCountry" validate:"required,len=2,region"`
	ValidationMode string `json:"validationMode" validate:"required,phonemode"`
	OutputFormat   string `json:"outputFormat" validate:"required,phonestyle"`
	FormatOnSave   *bool  `json:"formatOnSave" validate:"required"`
}

type SettingsResponse struct {
	Enabled        bool       `json:"enabled"`
	DefaultCountry string     `json:"defaultCountry"`
	ValidationMode string     `json:"validationMode"`
	OutputFormat   string     `json:"outputFormat"`
	FormatOnSave   bool       `json:"formatOnSave"`
	Source         string     `json:"source"`
	UpdatedBy      string     `json:"updatedBy,omitempty"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

type ListCountriesRequest struct {
	Locale string `form:"locale" validate:"omitempty,max=35"`
}

type CountryOption struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	CallingCode int    `json:"callingCode"`
}

type CountryListResponse struct {
	Locale string          `json:"locale"`
	Items  []CountryOption `json:"items"`
}
