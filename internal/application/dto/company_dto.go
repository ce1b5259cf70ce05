package dto

// UpdateCompanyRequest campos opcionales de la ficha del taller.
type UpdateCompanyRequest struct {
	Name    *string `json:"company_name"`
	Phone   *string `json:"company_phone"`
	Address *string `json:"company_address"`
	CNPJ    *string `json:"company_cnpj"`
}

// CompanyResponse ficha del taller.
type CompanyResponse struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	CNPJ     string `json:"cnpj"`
	LogoURL  string `json:"logo_url,omitempty"`
	PixQRURL string `json:"pix_qr_url,omitempty"`
}
