package appointment

import (
	"fmt"
	"strings"
	"time"

	appointmentModel "clinic-booking/models/appointment"
	"clinic-booking/types"
	"clinic-booking/utils"

	"github.com/gofiber/fiber/v2"
)

func (ac *AppointmentController) confirmedForDate(c *fiber.Ctx) ([]appointmentModel.Appointment, time.Time, error) {
	fecha := time.Now()
	if raw := c.Query("fecha"); raw != "" {
		parsed, err := utils.ParseDate(raw)
		if err != nil {
			return nil, time.Time{}, err
		}
		fecha = parsed
	}

	query := ac.DB.
		Joins("JOIN estados_cita ON estados_cita.id = citas.estado_id").
		Where("estados_cita.nombre = ?", appointmentModel.StatusConfirmed).
		Where("citas.fecha = ?", fecha.Format(utils.DateLayout))
	if areaID := c.QueryInt("area_id"); areaID > 0 {
		query = query.Where("citas.area_id = ?", areaID)
	}

	var citas []appointmentModel.Appointment
	err := query.
		Preload("Paciente.Person").
		Preload("Area").
		Preload("Doctor.Person").
		Preload("Horario").
		Order("citas.fecha_registro ASC").
		Find(&citas).Error
	return citas, fecha, err
}

// Confirmadas returns the confirmed citas of a day as a numbered list in
// arrival order, the order the front desk calls patients in.
func (ac *AppointmentController) Confirmadas(c *fiber.Ctx) error {
	citas, fecha, err := ac.confirmedForDate(c)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	type row struct {
		Numero int                          `json:"numero"`
		Cita   appointmentModel.Appointment `json:"cita"`
	}
	rows := make([]row, len(citas))
	for i, cita := range citas {
		rows[i] = row{Numero: i + 1, Cita: cita}
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Citas confirmadas",
		Status:  fiber.StatusOK,
		Data: fiber.Map{
			"fecha": fecha.Format(utils.DateLayout),
			"total": len(rows),
			"citas": rows,
		},
	})
}

// ConfirmadasPDF renders the same list as a printable document.
func (ac *AppointmentController) ConfirmadasPDF(c *fiber.Ctx) error {
	citas, fecha, err := ac.confirmedForDate(c)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\">")
	b.WriteString("<title>Citas confirmadas</title>")
	b.WriteString("<style>body{font-family:sans-serif}table{border-collapse:collapse;width:100%}td,th{border:1px solid #333;padding:4px 8px;text-align:left}</style>")
	b.WriteString("</head><body>")
	b.WriteString(fmt.Sprintf("<h2>Citas confirmadas - %s</h2>", fecha.Format(utils.DateLayout)))
	b.WriteString("<table><tr><th>#</th><th>DNI</th><th>Paciente</th><th>Área</th><th>Profesional</th><th>Turno</th></tr>")
	for i, cita := range citas {
		area, doctor, turno := "", "", ""
		if cita.Area != nil {
			area = cita.Area.Nombre
		}
		if cita.Doctor != nil {
			doctor = cita.Doctor.FullName()
		}
		if cita.Horario != nil {
			turno = cita.Horario.TurnoNombre()
		}
		b.WriteString(fmt.Sprintf("<tr><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			i+1, cita.Paciente.Person.DNI, cita.Paciente.Person.FullName(), area, doctor, turno))
	}
	b.WriteString("</table></body></html>")

	c.Set("Content-Type", "text/html; charset=utf-8")
	c.Set("Content-Disposition", fmt.Sprintf("inline; filename=citas_confirmadas_%s.html", fecha.Format(utils.DateLayout)))
	return c.SendString(b.String())
}
