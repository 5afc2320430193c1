package user

import (
	"time"

	personModel "clinic-booking/models/person"
)

// User is a system account (administrator, doctor or assistant) attached to
// a Person. The login identifier is the DNI of the linked Person; the
// password hash never leaves this struct in API responses.
type User struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID string `gorm:"type:varchar(36);not null;unique" json:"uuid"`

	PersonID uint               `gorm:"not null;index" json:"persona_id"`
	Person   personModel.Person `gorm:"foreignKey:PersonID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"persona"`

	Password string `gorm:"type:text;not null" json:"-"`

	RolID uint `gorm:"not null;index" json:"rol_id"`
	Rol   Role `gorm:"foreignKey:RolID" json:"rol"`

	Activo    bool      `gorm:"default:true" json:"activo"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName keeps the table name the clinic schema uses.
func (User) TableName() string {
	return "usuarios"
}

// DNI returns the national ID of the linked person.
func (u *User) DNI() string {
	return u.Person.DNI
}

// FullName returns the display name of the linked person.
func (u *User) FullName() string {
	return u.Person.FullName()
}

// IsDoctor reports whether the account has the doctor role.
func (u *User) IsDoctor() bool {
	return u.RolID == RoleDoctor
}
