package user

import (
	"time"

	appointmentModel "clinic-booking/models/appointment"
	userModel "clinic-booking/models/user"
	"clinic-booking/types"
	"clinic-booking/utils"

	"github.com/gofiber/fiber/v2"
)

// availabilityRow aggregates the future slots of one doctor.
type availabilityRow struct {
	MedicoID      uint `json:"medico_id"`
	Turnos        int  `json:"turnos"`
	CuposTotales  int  `json:"cupos_totales"`
	CuposOcupados int  `json:"cupos_ocupados"`
}

// Medicos lists active doctors with their specialties, main area and
// aggregate availability from today onwards.
func (uc *UserController) Medicos(c *fiber.Ctx) error {
	var doctors []userModel.User
	if err := uc.DB.Preload("Person").
		Where("rol_id = ? AND activo = ?", userModel.RoleDoctor, true).
		Find(&doctors).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	today := time.Now().Format(utils.DateLayout)

	var availability []availabilityRow
	if err := uc.DB.Table("horarios_medicos").
		Select(`horarios_medicos.medico_id,
			COUNT(DISTINCT horarios_medicos.id) AS turnos,
			SUM(horarios_medicos.cupos) AS cupos_totales,
			COALESCE(SUM(oc.ocupados), 0) AS cupos_ocupados`).
		Joins(`LEFT JOIN (
			SELECT citas.horario_id, COUNT(*) AS ocupados
			FROM citas
			LEFT JOIN estados_cita ON estados_cita.id = citas.estado_id
			WHERE estados_cita.nombre IS NULL OR estados_cita.nombre <> ?
			GROUP BY citas.horario_id
		) oc ON oc.horario_id = horarios_medicos.id`, appointmentModel.StatusCancelled).
		Where("horarios_medicos.fecha >= ?", today).
		Group("horarios_medicos.medico_id").
		Scan(&availability).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	byMedico := make(map[uint]availabilityRow, len(availability))
	for _, row := range availability {
		byMedico[row.MedicoID] = row
	}

	// Main area: the area of the doctor's most recent slot.
	type areaRow struct {
		MedicoID   uint   `json:"medico_id"`
		AreaNombre string `json:"area_nombre"`
	}
	var areas []areaRow
	if err := uc.DB.Table("horarios_medicos").
		Select("DISTINCT ON (horarios_medicos.medico_id) horarios_medicos.medico_id, areas.nombre AS area_nombre").
		Joins("JOIN areas ON areas.id = horarios_medicos.area_id").
		Order("horarios_medicos.medico_id, horarios_medicos.fecha DESC").
		Scan(&areas).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	areaByMedico := make(map[uint]string, len(areas))
	for _, row := range areas {
		areaByMedico[row.MedicoID] = row.AreaNombre
	}

	type medicoRow struct {
		ID               uint   `json:"id"`
		DNI              string `json:"dni"`
		Nombre           string `json:"nombre"`
		AreaPrincipal    string `json:"area_principal,omitempty"`
		Turnos           int    `json:"turnos_futuros"`
		CuposTotales     int    `json:"cupos_totales"`
		CuposOcupados    int    `json:"cupos_ocupados"`
		CuposDisponibles int    `json:"cupos_disponibles"`
	}

	rows := make([]medicoRow, 0, len(doctors))
	for _, doctor := range doctors {
		avail := byMedico[doctor.ID]
		rows = append(rows, medicoRow{
			ID:               doctor.ID,
			DNI:              doctor.DNI(),
			Nombre:           doctor.FullName(),
			AreaPrincipal:    areaByMedico[doctor.ID],
			Turnos:           avail.Turnos,
			CuposTotales:     avail.CuposTotales,
			CuposOcupados:    avail.CuposOcupados,
			CuposDisponibles: avail.CuposTotales - avail.CuposOcupados,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Directorio de profesionales",
		Status:  fiber.StatusOK,
		Data:    rows,
	})
}
