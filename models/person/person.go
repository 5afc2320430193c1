package person

import (
	"strings"
	"time"
)

// Person is the canonical identity record. Patients, system users and
// appointment companions all reference a Person row; identity fields
// (DNI, names, contact data) are never duplicated on the role tables.
type Person struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	DNI             string     `gorm:"type:varchar(8);not null;unique" json:"dni"`
	Nombres         string     `gorm:"type:varchar(100);not null" json:"nombres"`
	ApellidoPaterno string     `gorm:"type:varchar(100);not null" json:"apellido_paterno"`
	ApellidoMaterno string     `gorm:"type:varchar(100);not null" json:"apellido_materno"`
	FechaNacimiento *time.Time `gorm:"type:date" json:"fecha_nacimiento,omitempty"`
	Sexo            *string    `gorm:"type:varchar(1)" json:"sexo,omitempty"` // M or F
	Telefono        *string    `gorm:"type:varchar(15)" json:"telefono,omitempty"`
	Email           *string    `gorm:"type:varchar(120)" json:"email,omitempty"`
	Direccion       *string    `gorm:"type:text" json:"direccion,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName keeps the table name the clinic schema uses.
func (Person) TableName() string {
	return "personas"
}

// FullName returns "Nombres ApellidoPaterno ApellidoMaterno" without
// trailing spaces when the surname fields are empty.
func (p *Person) FullName() string {
	return strings.TrimSpace(p.Nombres + " " + p.ApellidoPaterno + " " + p.ApellidoMaterno)
}
