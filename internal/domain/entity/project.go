package entity

import "time"

// Project pertenece a un Customer; los registros de tiempo se imputan a proyectos.
type Project struct {
	ID          string
	CustomerID  string
	Customer    *Customer
	Name        string
	OrderNumber string
	Visible     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Activity es el tipo de trabajo realizado. ProjectID vacío = actividad global.
type Activity struct {
	ID        string
	ProjectID string
	Name      string
	Visible   bool
}
