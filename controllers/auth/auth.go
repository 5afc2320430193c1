package auth

import (
	"errors"
	"time"

	"clinic-booking/logger"
	"clinic-booking/middleware"
	userModel "clinic-booking/models/user"
	"clinic-booking/types"
	authTypes "clinic-booking/types/auth"
	"clinic-booking/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthController handles login, token refresh and profile requests.
type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

func refreshCookie(token string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Expires:  expires,
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/api/auth",
	}
}

// Login authenticates by DNI and password and issues the token pair. The
// refresh token travels only in an HTTP-only cookie.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req authTypes.LoginRequest
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
	err := ac.DB.Preload("Person").Preload("Rol").
		Joins("JOIN personas ON personas.id = usuarios.persona_id").
		Where("personas.dni = ?", req.DNI).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: "Credenciales inválidas",
				Status:  fiber.StatusUnauthorized,
			})
		}
		return utils.ErrorResponse(c, err)
	}

	if !user.Activo {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Usuario desactivado",
			Status:  fiber.StatusUnauthorized,
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Credenciales inválidas",
			Status:  fiber.StatusUnauthorized,
		})
	}

	accessToken, err := utils.GenerateAccessToken(&user)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	refreshToken, err := utils.GenerateRefreshToken(&user)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	c.Cookie(refreshCookie(refreshToken, time.Now().Add(utils.RefreshTokenTTL)))
	logger.Success("login: " + user.DNI())

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Login exitoso",
		Status:  fiber.StatusOK,
		Token:   accessToken,
		Data: fiber.Map{
			"id":     user.ID,
			"uuid":   user.UUID,
			"dni":    user.DNI(),
			"nombre": user.FullName(),
			"rol":    user.Rol.Nombre,
			"rol_id": user.RolID,
		},
	})
}

// Refresh exchanges a valid refresh cookie for a new access token.
func (ac *AuthController) Refresh(c *fiber.Ctx) error {
	tokenString := c.Cookies("refresh_token")
	if tokenString == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Missing refresh token",
			Status:  fiber.StatusUnauthorized,
		})
	}

	userID, err := utils.VerifyRefreshToken(tokenString)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Invalid or expired refresh token",
			Status:  fiber.StatusUnauthorized,
		})
	}

	var user userModel.User
	if err := ac.DB.Preload("Person").Preload("Rol").First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Usuario no encontrado",
			Status:  fiber.StatusUnauthorized,
		})
	}
	if !user.Activo {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Usuario desactivado",
			Status:  fiber.StatusUnauthorized,
		})
	}

	accessToken, err := utils.GenerateAccessToken(&user)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Token renovado",
		Status:  fiber.StatusOK,
		Token:   accessToken,
	})
}

// Logout clears the refresh cookie.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	c.Cookie(refreshCookie("", time.Now().Add(-time.Hour)))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Sesión cerrada",
		Status:  fiber.StatusOK,
	})
}

// Profile returns the authenticated user with person and role.
func (ac *AuthController) Profile(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Missing authentication token",
			Status:  fiber.StatusUnauthorized,
		})
	}

	var user userModel.User
	if err := ac.DB.Preload("Person").Preload("Rol").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Message: "Usuario no encontrado",
				Status:  fiber.StatusNotFound,
			})
		}
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Perfil de usuario",
		Status:  fiber.StatusOK,
		Data:    user,
	})
}

// ChangePassword verifies the current password and stores a new bcrypt hash.
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	var req authTypes.ChangePasswordRequest
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

	userID := middleware.CurrentUserID(c)
	var user userModel.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Usuario no encontrado",
			Status:  fiber.StatusUnauthorized,
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Contraseña actual incorrecta",
			Status:  fiber.StatusUnauthorized,
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	if err := ac.DB.Model(&user).Update("password", string(hash)).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Contraseña actualizada",
		Status:  fiber.StatusOK,
	})
}
