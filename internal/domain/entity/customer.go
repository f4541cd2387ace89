package entity

import "time"

// DefaultCurrency moneda usada cuando el cliente no define una.
const DefaultCurrency = "EUR"

// Customer representa un cliente al que se le factura tiempo trabajado.
type Customer struct {
	ID        string
	Name      string
	Company   string // Razón social impresa en la factura
	Number    string // Número de cliente interno (token {cn} del generador)
	VatID     string
	Address   string
	Country   string
	Currency  string // ISO 4217
	Timezone  string // IANA, ej. Europe/Vienna
	Email     string
	Phone     string
	Visible   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CurrencyOrDefault devuelve la moneda del cliente o DefaultCurrency.
func (c *Customer) CurrencyOrDefault() string {
	if c == nil || c.Currency == "" {
		return DefaultCurrency
	}
	return c.Currency
}

// DisplayName prefiere la razón social sobre el nombre corto.
func (c *Customer) DisplayName() string {
	if c == nil {
		return ""
	}
	if c.Company != "" {
		return c.Company
	}
	return c.Name
}
