package dto

import (
	"strings"
	"time"

	"wego/internal/domain"
)

type InvoiceSettingsRequest struct {
	CompanyName    string `json:"companyName"`
	CompanyAddress string `json:"companyAddress"`
	CompanyPhone   string `json:"companyPhone"`
	CompanyEmail   string `json:"companyEmail"`
	Logo           string `json:"logo"`
	InvoicePrefix  string `json:"invoicePrefix"`
	FooterText     string `json:"footerText"`
	PrimaryColor   string `json:"primaryColor"`
	ShowLogo       *bool  `json:"showLogo"`
}

// ToDomain fills omitted prefix, color and logo flag with the defaults.
func (r InvoiceSettingsRequest) ToDomain() domain.InvoiceSettings {
	defaults := domain.DefaultInvoiceSettings()

	s := domain.InvoiceSettings{
		CompanyName:    strings.TrimSpace(r.CompanyName),
		CompanyAddress: strings.TrimSpace(r.CompanyAddress),
		CompanyPhone:   strings.TrimSpace(r.CompanyPhone),
		CompanyEmail:   strings.TrimSpace(r.CompanyEmail),
		Logo:           strings.TrimSpace(r.Logo),
		InvoicePrefix:  strings.TrimSpace(r.InvoicePrefix),
		FooterText:     r.FooterText,
		PrimaryColor:   strings.TrimSpace(r.PrimaryColor),
		ShowLogo:       defaults.ShowLogo,
	}
	if s.InvoicePrefix == "" {
		s.InvoicePrefix = defaults.InvoicePrefix
	}
	if s.PrimaryColor == "" {
		s.PrimaryColor = defaults.PrimaryColor
	}
	if r.ShowLogo != nil {
		s.ShowLogo = *r.ShowLogo
	}
	return s
}

type InvoiceSettingsResponse struct {
	CompanyName    string    `json:"companyName"`
	CompanyAddress string    `json:"companyAddress"`
	CompanyPhone   string    `json:"companyPhone"`
	CompanyEmail   string    `json:"companyEmail"`
	Logo           string    `json:"logo"`
	InvoicePrefix  string    `json:"invoicePrefix"`
	FooterText     string    `json:"footerText"`
	PrimaryColor   string    `json:"primaryColor"`
	ShowLogo       bool      `json:"showLogo"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func NewInvoiceSettingsResponse(s domain.InvoiceSettings) InvoiceSettingsResponse {
	return InvoiceSettingsResponse{
		CompanyName:    s.CompanyName,
		CompanyAddress: s.CompanyAddress,
		CompanyPhone:   s.CompanyPhone,
		CompanyEmail:   s.CompanyEmail,
		Logo:           s.Logo,
		InvoicePrefix:  s.InvoicePrefix,
		FooterText:     s.FooterText,
		PrimaryColor:   s.PrimaryColor,
		ShowLogo:       s.ShowLogo,
		UpdatedAt:      s.UpdatedAt,
	}
}
