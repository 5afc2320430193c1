package catalog

import (
	"errors"

	appointmentModel "clinic-booking/models/appointment"
	catalogModel "clinic-booking/models/catalog"
	userModel "clinic-booking/models/user"
	"clinic-booking/types"
	"clinic-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CatalogController serves the lookup tables the frontend caches.
type CatalogController struct {
	DB *gorm.DB
}

func NewCatalogController(db *gorm.DB) *CatalogController {
	return &CatalogController{DB: db}
}

// Index returns every active catalog in one response.
func (cc *CatalogController) Index(c *fiber.Ctx) error {
	var roles []userModel.Role
	if err := cc.DB.Where("activo = ?", true).Order("id").Find(&roles).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	var areas []catalogModel.Area
	if err := cc.DB.Where("activo = ?", true).Order("nombre").Find(&areas).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	var specialties []catalogModel.Specialty
	if err := cc.DB.Where("activo = ?", true).Order("nombre").Find(&specialties).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	var statuses []appointmentModel.Status
	if err := cc.DB.Where("activo = ?", true).Order("id").Find(&statuses).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Catálogos",
		Status:  fiber.StatusOK,
		Data: fiber.Map{
			"roles":          roles,
			"areas":          areas,
			"especialidades": specialties,
			"estados_cita":   statuses,
		},
	})
}

type specialtyRequest struct {
	Nombre      string  `json:"nombre"`
	Descripcion *string `json:"descripcion,omitempty"`
}

// SpecialtyIndex lists all specialties, inactive included, for admin.
func (cc *CatalogController) SpecialtyIndex(c *fiber.Ctx) error {
	var specialties []catalogModel.Specialty
	if err := cc.DB.Order("nombre").Find(&specialties).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Lista de especialidades",
		Status:  fiber.StatusOK,
		Data:    specialties,
	})
}

// SpecialtyStore creates a specialty, rejecting duplicate names.
func (cc *CatalogController) SpecialtyStore(c *fiber.Ctx) error {
	var req specialtyRequest
	if err := c.BodyParser(&req); err != nil || req.Nombre == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "nombre is required",
			Status:  fiber.StatusBadRequest,
		})
	}

	var existing int64
	if err := cc.DB.Model(&catalogModel.Specialty{}).
		Where("LOWER(nombre) = LOWER(?)", req.Nombre).Count(&existing).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	if existing > 0 {
		return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
			Message: "Ya existe una especialidad con ese nombre",
			Status:  fiber.StatusConflict,
		})
	}

	spec := catalogModel.Specialty{Nombre: req.Nombre, Descripcion: req.Descripcion, Activo: true}
	if err := cc.DB.Create(&spec).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Message: "Especialidad creada",
		Status:  fiber.StatusCreated,
		Data:    spec,
	})
}

// SpecialtyUpdate edits name, description or activity.
func (cc *CatalogController) SpecialtyUpdate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid specialty id",
			Status:  fiber.StatusBadRequest,
		})
	}

	var spec catalogModel.Specialty
	if err := cc.DB.First(&spec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Message: "Especialidad no encontrada",
				Status:  fiber.StatusNotFound,
			})
		}
		return utils.ErrorResponse(c, err)
	}

	var req struct {
		Nombre      *string `json:"nombre,omitempty"`
		Descripcion *string `json:"descripcion,omitempty"`
		Activo      *bool   `json:"activo,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
		})
	}

	updates := map[string]interface{}{}
	if req.Nombre != nil && *req.Nombre != "" {
		var dup int64
		if err := cc.DB.Model(&catalogModel.Specialty{}).
			Where("LOWER(nombre) = LOWER(?) AND id <> ?", *req.Nombre, id).Count(&dup).Error; err != nil {
			return utils.ErrorResponse(c, err)
		}
		if dup > 0 {
			return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
				Message: "Ya existe una especialidad con ese nombre",
				Status:  fiber.StatusConflict,
			})
		}
		updates["nombre"] = *req.Nombre
	}
	if req.Descripcion != nil {
		updates["descripcion"] = *req.Descripcion
	}
	if req.Activo != nil {
		updates["activo"] = *req.Activo
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Nada que actualizar",
			Status:  fiber.StatusBadRequest,
		})
	}

	if err := cc.DB.Model(&spec).Updates(updates).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Especialidad actualizada",
		Status:  fiber.StatusOK,
		Data:    spec,
	})
}

// SpecialtyDestroy deactivates a specialty instead of deleting it.
func (cc *CatalogController) SpecialtyDestroy(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid specialty id",
			Status:  fiber.StatusBadRequest,
		})
	}

	var spec catalogModel.Specialty
	if err := cc.DB.First(&spec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Message: "Especialidad no encontrada",
				Status:  fiber.StatusNotFound,
			})
		}
		return utils.ErrorResponse(c, err)
	}

	if err := cc.DB.Model(&spec).Update("activo", false).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Especialidad desactivada",
		Status:  fiber.StatusOK,
	})
}
