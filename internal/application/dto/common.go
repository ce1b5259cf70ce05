package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportResult resultado de una importación masiva.
type ImportResult struct {
	Imported int      `json:"imported"`
	Numbers  []string `json:"numbers"`
}
