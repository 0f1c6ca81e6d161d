package transport

// ValidatePhoneRequest asks for a single number to be checked.
type ValidatePhoneRequest struct {
	Phone   string `json:"phone" validate:"required,max=64"`
	Country string `json:"country" validate:"omitempty,max=8"`
}

type ValidatePhoneResponse struct {
	Valid       bool              `json:"valid"`
	Code        string            `json:"code,omitempty"`
	Region      string            `json:"region,omitempty"`
	CountryCode int32             `json:"countryCode,omitempty"`
	Formatted   string            `json:"formatted,omitempty"`
	Formats     map[string]string `json:"formats,omitempty"`
}
