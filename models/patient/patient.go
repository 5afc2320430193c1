package patient

import (
	"time"

	personModel "clinic-booking/models/person"
)

// Patient is the patient role attached to a Person. Identity fields live on
// the Person row; this table only carries clinical-admission data.
type Patient struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	PersonID uint               `gorm:"not null;index" json:"persona_id"`
	Person   personModel.Person `gorm:"foreignKey:PersonID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"persona"`

	EstadoCivil      string  `gorm:"type:varchar(1);not null" json:"estado_civil"` // S, C, V, D
	GradoInstruccion *string `gorm:"type:varchar(50)" json:"grado_instruccion,omitempty"`
	Religion         *string `gorm:"type:varchar(50)" json:"religion,omitempty"`
	Procedencia      *string `gorm:"type:varchar(50)" json:"procedencia,omitempty"`
	Ocupacion        *string `gorm:"type:varchar(100)" json:"ocupacion,omitempty"`
	Seguro           *string `gorm:"type:varchar(50)" json:"seguro,omitempty"`
	NumeroSeguro     *string `gorm:"type:varchar(50)" json:"numero_seguro,omitempty"`

	FechaRegistro time.Time `gorm:"autoCreateTime" json:"fecha_registro"`
}

// TableName keeps the table name the clinic schema uses.
func (Patient) TableName() string {
	return "pacientes"
}
