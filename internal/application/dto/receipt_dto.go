package dto

// Receipt comprobante de un pedido listo para renderizar: los montos y la fecha ya vienen formateados.
type Receipt struct {
	Number   int           `json:"number"`
	Name     string        `json:"name"`
	Status   string        `json:"status"`
	Date     string        `json:"date"`
	Customer string        `json:"customer,omitempty"`
	Lines    []ReceiptLine `json:"lines"`
	Total    string        `json:"total"`
	Missing  []string      `json:"missing,omitempty"`
	// Link URL pública del pedido; se imprime como QR si no está vacía.
	Link string `json:"link,omitempty"`
}

// ReceiptLine una línea del comprobante.
type ReceiptLine struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Count     int    `json:"count"`
	UnitPrice string `json:"unitPrice"`
	Subtotal  string `json:"subtotal"`
}
