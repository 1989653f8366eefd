package cateringserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	adminsdomain "github.com/Apurer/catering-api/internal/domains/admins/domain"
	adminsports "github.com/Apurer/catering-api/internal/domains/admins/ports"
)

type AdminUser struct {
	Id    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type AdminRegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AdminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      AdminUser `json:"user"`
}

func toAdminUser(admin *adminsdomain.Admin) AdminUser {
	return AdminUser{Id: admin.ID, Email: admin.Email, Name: admin.Name}
}

// AdminAuthAPI issues and revokes back-office sessions.
type AdminAuthAPI struct {
	service adminsports.Service
}

func NewAdminAuthAPI(service adminsports.Service) AdminAuthAPI {
	return AdminAuthAPI{service: service}
}

// Post /api/auth/admin/register
func (api *AdminAuthAPI) Register(c *gin.Context) {
	var payload AdminRegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "Corps de requête invalide", err)
		return
	}
	admin, err := api.service.Register(c.Request.Context(), payload.Email, payload.Name, payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAdminUser(admin))
}

// Post /api/auth/admin/login
func (api *AdminAuthAPI) Login(c *gin.Context) {
	var payload AdminLoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "Corps de requête invalide", err)
		return
	}
	result, err := api.service.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, AdminLoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      toAdminUser(result.Admin),
	})
}

// Post /api/auth/admin/logout
// Revoke the session of the bearer token
func (api *AdminAuthAPI) Logout(c *gin.Context) {
	if err := api.service.Logout(c.Request.Context(), bearerToken(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
