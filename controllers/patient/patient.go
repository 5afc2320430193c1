package patient

import (
	"errors"

	"clinic-booking/httpServices/dni"
	"clinic-booking/logger"
	appointmentModel "clinic-booking/models/appointment"
	patientModel "clinic-booking/models/patient"
	personModel "clinic-booking/models/person"
	"clinic-booking/types"
	patientTypes "clinic-booking/types/patient"
	"clinic-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PatientController handles the patient registry.
type PatientController struct {
	DB        *gorm.DB
	DNIClient *dni.Client
}

func NewPatientController(db *gorm.DB, dniClient *dni.Client) *PatientController {
	return &PatientController{DB: db, DNIClient: dniClient}
}

func applyPersonFields(person *personModel.Person, req *patientTypes.PatientUpsertRequest) error {
	person.DNI = req.DNI
	person.Nombres = req.Nombres
	person.ApellidoPaterno = req.ApellidoPaterno
	person.ApellidoMaterno = req.ApellidoMaterno
	person.Sexo = req.Sexo
	if req.Telefono != nil {
		person.Telefono = req.Telefono
	}
	if req.Email != nil {
		person.Email = req.Email
	}
	if req.Direccion != nil {
		person.Direccion = req.Direccion
	}
	if req.FechaNacimiento != nil {
		born, err := utils.ParseDate(*req.FechaNacimiento)
		if err != nil {
			return err
		}
		person.FechaNacimiento = &born
	}
	return nil
}

func applyPatientFields(patient *patientModel.Patient, req *patientTypes.PatientUpsertRequest) {
	patient.EstadoCivil = req.EstadoCivil
	if req.GradoInstruccion != nil {
		patient.GradoInstruccion = req.GradoInstruccion
	}
	if req.Religion != nil {
		patient.Religion = req.Religion
	}
	if req.Procedencia != nil {
		patient.Procedencia = req.Procedencia
	}
	if req.Ocupacion != nil {
		patient.Ocupacion = req.Ocupacion
	}
	if req.Seguro != nil {
		patient.Seguro = req.Seguro
	}
	if req.NumeroSeguro != nil {
		patient.NumeroSeguro = req.NumeroSeguro
	}
}

// Store creates or updates a patient keyed by DNI. An existing person
// without a patient record gets one attached instead of a duplicate.
func (pc *PatientController) Store(c *fiber.Ctx) error {
	var req patientTypes.PatientUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: err.Error(),
			Status:  fiber.StatusBadRequest,
		})
	}

	var patient patientModel.Patient
	created := false

	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		var person personModel.Person
		err := tx.Where("dni = ?", req.DNI).First(&person).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := applyPersonFields(&person, &req); err != nil {
			return err
		}
		if err := tx.Save(&person).Error; err != nil {
			return err
		}

		err = tx.Where("persona_id = ?", person.ID).First(&patient).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			patient = patientModel.Patient{PersonID: person.ID}
			created = true
		} else if err != nil {
			return err
		}

		applyPatientFields(&patient, &req)
		return tx.Save(&patient).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	if err := pc.DB.Preload("Person").First(&patient, patient.ID).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	status := fiber.StatusOK
	message := "Paciente actualizado"
	if created {
		status = fiber.StatusCreated
		message = "Paciente registrado"
		logger.Success("patient registered: " + req.DNI)
	}

	return c.Status(status).JSON(types.ApiResponse{
		Message: message,
		Status:  status,
		Data:    patient,
	})
}

// Index lists patients with search over DNI and names.
func (pc *PatientController) Index(c *fiber.Ctx) error {
	page, perPage := utils.PaginationParams(c)
	search := c.Query("buscar")

	query := pc.DB.Model(&patientModel.Patient{}).
		Joins("JOIN personas ON personas.id = pacientes.persona_id")
	if search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"personas.dni ILIKE ? OR personas.nombres ILIKE ? OR personas.apellido_paterno ILIKE ? OR personas.apellido_materno ILIKE ?",
			like, like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	var patients []patientModel.Patient
	if err := query.Preload("Person").
		Order("pacientes.fecha_registro DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&patients).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Lista de pacientes",
		Status:  fiber.StatusOK,
		Data:    types.NewPage(patients, total, page, perPage),
	})
}

// Show returns one patient with computed age.
func (pc *PatientController) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid patient id",
			Status:  fiber.StatusBadRequest,
		})
	}

	var patient patientModel.Patient
	if err := pc.DB.Preload("Person").First(&patient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Message: "Paciente no encontrado",
				Status:  fiber.StatusNotFound,
			})
		}
		return utils.ErrorResponse(c, err)
	}

	data := fiber.Map{"paciente": patient}
	if patient.Person.FechaNacimiento != nil {
		years, _, _ := utils.CalculateAge(*patient.Person.FechaNacimiento)
		data["edad"] = years
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Detalle de paciente",
		Status:  fiber.StatusOK,
		Data:    data,
	})
}

// Citas returns the appointment history of a patient, newest first.
func (pc *PatientController) Citas(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid patient id",
			Status:  fiber.StatusBadRequest,
		})
	}
	page, perPage := utils.PaginationParams(c)

	var patient patientModel.Patient
	if err := pc.DB.First(&patient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Message: "Paciente no encontrado",
				Status:  fiber.StatusNotFound,
			})
		}
		return utils.ErrorResponse(c, err)
	}

	query := pc.DB.Model(&appointmentModel.Appointment{}).Where("paciente_id = ?", id)
	if estado := c.Query("estado"); estado != "" {
		query = query.Joins("JOIN estados_cita ON estados_cita.id = citas.estado_id").
			Where("estados_cita.nombre = ?", estado)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	var citas []appointmentModel.Appointment
	if err := query.
		Preload("Estado").
		Preload("Area").
		Preload("Doctor.Person").
		Preload("Horario").
		Order("fecha DESC, fecha_registro DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&citas).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Historial de citas del paciente",
		Status:  fiber.StatusOK,
		Data:    types.NewPage(citas, total, page, perPage),
	})
}

// LookupDNI queries the external registry so the frontend can prefill the
// patient form. The local registry is checked first.
func (pc *PatientController) LookupDNI(c *fiber.Ctx) error {
	dniNumber := c.Params("dni")
	if len(dniNumber) != 8 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "dni must have 8 digits",
			Status:  fiber.StatusBadRequest,
		})
	}

	var person personModel.Person
	err := pc.DB.Where("dni = ?", dniNumber).First(&person).Error
	if err == nil {
		var patient patientModel.Patient
		registered := pc.DB.Where("persona_id = ?", person.ID).First(&patient).Error == nil
		return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
			Message: "Persona encontrada en el registro local",
			Status:  fiber.StatusOK,
			Data: fiber.Map{
				"origen":      "local",
				"persona":     person,
				"es_paciente": registered,
			},
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrorResponse(c, err)
	}

	data, err := pc.DNIClient.Lookup(dniNumber)
	if err != nil {
		logger.Warning("DNI lookup failed: " + err.Error())
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Message: "DNI no encontrado",
			Status:  fiber.StatusNotFound,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Persona encontrada en RENIEC",
		Status:  fiber.StatusOK,
		Data: fiber.Map{
			"origen": "reniec",
			"persona": fiber.Map{
				"dni":              data.Numero,
				"nombres":          data.Nombres,
				"apellido_paterno": data.ApellidoPaterno,
				"apellido_materno": data.ApellidoMaterno,
			},
		},
	})
}
