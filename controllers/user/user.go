package user

import (
	"errors"
	"fmt"

	"clinic-booking/apperrors"
	"clinic-booking/logger"
	catalogModel "clinic-booking/models/catalog"
	personModel "clinic-booking/models/person"
	userModel "clinic-booking/models/user"
	"clinic-booking/types"
	userTypes "clinic-booking/types/user"
	"clinic-booking/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserController handles account administration.
type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

func replaceSpecialties(tx *gorm.DB, userID uint, specialtyIDs []uint) error {
	if err := tx.Exec("DELETE FROM medico_especialidad WHERE medico_id = ?", userID).Error; err != nil {
		return err
	}
	for _, specID := range specialtyIDs {
		var spec catalogModel.Specialty
		if err := tx.First(&spec, specID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("especialidad %d no encontrada", specID)
			}
			return err
		}
		if err := tx.Exec("INSERT INTO medico_especialidad (medico_id, especialidad_id) VALUES (?, ?)",
			userID, specID).Error; err != nil {
			return err
		}
	}
	return nil
}

// Index lists accounts with role and activity filters.
func (uc *UserController) Index(c *fiber.Ctx) error {
	page, perPage := utils.PaginationParams(c)

	query := uc.DB.Model(&userModel.User{}).
		Joins("JOIN personas ON personas.id = usuarios.persona_id")
	if rolID := c.QueryInt("rol_id"); rolID > 0 {
		query = query.Where("usuarios.rol_id = ?", rolID)
	}
	if activo := c.Query("activo"); activo != "" {
		query = query.Where("usuarios.activo = ?", c.QueryBool("activo"))
	}
	if search := c.Query("buscar"); search != "" {
		like := "%" + search + "%"
		query = query.Where("personas.dni ILIKE ? OR personas.nombres ILIKE ? OR personas.apellido_paterno ILIKE ?",
			like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	var users []userModel.User
	if err := query.Preload("Person").Preload("Rol").
		Order("usuarios.created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&users).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Lista de usuarios",
		Status:  fiber.StatusOK,
		Data:    types.NewPage(users, total, page, perPage),
	})
}

// Store creates an account, creating or reusing the person by DNI.
func (uc *UserController) Store(c *fiber.Ctx) error {
	var req userTypes.UserCreateRequest
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

	var role userModel.Role
	if err := uc.DB.First(&role, req.RolID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "rol_id inválido",
			Status:  fiber.StatusBadRequest,
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	var user userModel.User
	err = uc.DB.Transaction(func(tx *gorm.DB) error {
		var person personModel.Person
		err := tx.Where("dni = ?", req.DNI).First(&person).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			person = personModel.Person{
				DNI:             req.DNI,
				Nombres:         req.Nombres,
				ApellidoPaterno: req.ApellidoPaterno,
				ApellidoMaterno: req.ApellidoMaterno,
				Telefono:        req.Telefono,
				Email:           req.Email,
			}
			if err := tx.Create(&person).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&userModel.User{}).Where("persona_id = ?", person.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return apperrors.Conflict("ya existe un usuario con el DNI %s", req.DNI)
		}

		user = userModel.User{
			UUID:     uuid.New().String(),
			PersonID: person.ID,
			Password: string(hash),
			RolID:    req.RolID,
			Activo:   true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		if len(req.Especialidades) > 0 {
			if req.RolID != userModel.RoleDoctor {
				return apperrors.Validation("solo los profesionales llevan especialidades")
			}
			return replaceSpecialties(tx, user.ID, req.Especialidades)
		}
		return nil
	})
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	if err := uc.DB.Preload("Person").Preload("Rol").First(&user, user.ID).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	logger.Success("user created: " + req.DNI)
	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Message: "Usuario creado",
		Status:  fiber.StatusCreated,
		Data:    user,
	})
}

// Show returns one account.
func (uc *UserController) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid user id",
			Status:  fiber.StatusBadRequest,
		})
	}

	var user userModel.User
	if err := uc.DB.Preload("Person").Preload("Rol").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Message: "Usuario no encontrado",
				Status:  fiber.StatusNotFound,
			})
		}
		return utils.ErrorResponse(c, err)
	}

	data := fiber.Map{"usuario": user}
	if user.IsDoctor() {
		var specialties []catalogModel.Specialty
		if err := uc.DB.
			Joins("JOIN medico_especialidad ON medico_especialidad.especialidad_id = especialidades.id").
			Where("medico_especialidad.medico_id = ?", user.ID).
			Find(&specialties).Error; err != nil {
			return utils.ErrorResponse(c, err)
		}
		data["especialidades"] = specialties
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Detalle de usuario",
		Status:  fiber.StatusOK,
		Data:    data,
	})
}

// Update edits contact data, role, activity and optionally the password.
func (uc *UserController) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid user id",
			Status:  fiber.StatusBadRequest,
		})
	}

	var req userTypes.UserUpdateRequest
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

	var user userModel.User
	if err := uc.DB.Preload("Person").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Message: "Usuario no encontrado",
				Status:  fiber.StatusNotFound,
			})
		}
		return utils.ErrorResponse(c, err)
	}

	err = uc.DB.Transaction(func(tx *gorm.DB) error {
		personUpdates := map[string]interface{}{}
		if req.Telefono != nil {
			personUpdates["telefono"] = *req.Telefono
		}
		if req.Email != nil {
			personUpdates["email"] = *req.Email
		}
		if len(personUpdates) > 0 {
			if err := tx.Model(&user.Person).Updates(personUpdates).Error; err != nil {
				return err
			}
		}

		userUpdates := map[string]interface{}{}
		if req.RolID != nil {
			userUpdates["rol_id"] = *req.RolID
		}
		if req.Activo != nil {
			userUpdates["activo"] = *req.Activo
		}
		if req.Password != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			userUpdates["password"] = string(hash)
		}
		if len(userUpdates) > 0 {
			if err := tx.Model(&user).Updates(userUpdates).Error; err != nil {
				return err
			}
		}

		if req.Especialidades != nil {
			return replaceSpecialties(tx, user.ID, req.Especialidades)
		}
		return nil
	})
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	if err := uc.DB.Preload("Person").Preload("Rol").First(&user, id).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Usuario actualizado",
		Status:  fiber.StatusOK,
		Data:    user,
	})
}

// Destroy deactivates an account. Accounts are never hard-deleted: citas
// and horarios keep pointing at them.
func (uc *UserController) Destroy(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid user id",
			Status:  fiber.StatusBadRequest,
		})
	}

	var user userModel.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Message: "Usuario no encontrado",
				Status:  fiber.StatusNotFound,
			})
		}
		return utils.ErrorResponse(c, err)
	}

	if err := uc.DB.Model(&user).Update("activo", false).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Usuario desactivado",
		Status:  fiber.StatusOK,
	})
}
