package entity

// Valores por defecto de la ficha de empresa (se crean en la primera lectura).
const (
	DefaultCompanyName    = "Sua Empresa Ltda"
	DefaultCompanyPhone   = "(11) 99999-9999"
	DefaultCompanyAddress = "Rua Example, 123 - Cidade/Estado"
	DefaultCompanyCNPJ    = "00.000.000/0001-00"
	DefaultLogoKey        = "company_logo.svg"
	DefaultPixQRKey       = "qr_pix.svg"
)

// CompanyInfo datos del taller impresos en la OS. Hay una única fila (singleton).
type CompanyInfo struct {
	ID       string
	Name     string
	Phone    string
	Address  string
	CNPJ     string
	LogoKey  string // clave del objeto en el storage
	PixQRKey string
}

// NewDefaultCompanyInfo ficha inicial con los valores por defecto.
func NewDefaultCompanyInfo(id string) *CompanyInfo {
	return &CompanyInfo{
		ID:       id,
		Name:     DefaultCompanyName,
		Phone:    DefaultCompanyPhone,
		Address:  DefaultCompanyAddress,
		CNPJ:     DefaultCompanyCNPJ,
		LogoKey:  DefaultLogoKey,
		PixQRKey: DefaultPixQRKey,
	}
}
