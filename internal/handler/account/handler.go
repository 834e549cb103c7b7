package account

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hrtools/rptracker/internal/handler"
	"github.com/hrtools/rptracker/internal/middleware"
	"github.com/hrtools/rptracker/internal/model"
	accountService "github.com/hrtools/rptracker/internal/service/account"
)

type Handler struct {
	service accountService.Servicer
}

func NewHandler(service accountService.Servicer) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the unauthenticated signup/login endpoints.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)
}

// RegisterProtectedRoutes mounts the per-owner settings endpoints.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/settings", h.GetSettings)
	r.POST("/settings", h.SaveSettings)
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	user, err := h.service.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{
		"name":  user.Name,
		"email": user.Email,
	}))
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	tokens, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

type saveSettingsRequest struct {
	Gmail         string `json:"gmail"`
	GmailPassword string `json:"gmail_password"`
	NotifyEmail   string `json:"notify_email" binding:"omitempty,email"`
	TelegramToken string `json:"telegram_token"`
	TelegramChat  string `json:"telegram_chat"`
}

func (h *Handler) SaveSettings(c *gin.Context) {
	var req saveSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	settings := &model.AccountSettings{
		Gmail:         req.Gmail,
		GmailPassword: req.GmailPassword,
		NotifyEmail:   req.NotifyEmail,
		TelegramToken: req.TelegramToken,
		TelegramChat:  req.TelegramChat,
	}

	if err := h.service.SaveSettings(c.Request.Context(), middleware.OwnerEmail(c), settings); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.service.GetSettings(c.Request.Context(), middleware.OwnerEmail(c))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(settings))
}
