package dni

// LookupData is the person record the RENIEC lookup API returns.
type LookupData struct {
	Numero          string `json:"numero"`
	Nombres         string `json:"nombres"`
	ApellidoPaterno string `json:"apellido_paterno"`
	ApellidoMaterno string `json:"apellido_materno"`
	NombreCompleto  string `json:"nombre_completo"`
}

type lookupResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    *LookupData `json:"data"`
}
