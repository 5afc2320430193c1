package types

type ApiResponse struct {
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Token   string      `json:"token,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Page wraps a list payload with its pagination counters.
type Page struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Pagina     int         `json:"pagina"`
	PorPagina  int         `json:"por_pagina"`
	TotalPages int         `json:"total_paginas"`
}

// NewPage computes the page count from the total and the page size.
func NewPage(items interface{}, total int64, pagina, porPagina int) Page {
	pages := int(total) / porPagina
	if int(total)%porPagina != 0 {
		pages++
	}
	return Page{
		Items:      items,
		Total:      total,
		Pagina:     pagina,
		PorPagina:  porPagina,
		TotalPages: pages,
	}
}
