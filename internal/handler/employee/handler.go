package employee

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hrtools/rptracker/internal/handler"
	"github.com/hrtools/rptracker/internal/middleware"
	"github.com/hrtools/rptracker/internal/model"
	employeeService "github.com/hrtools/rptracker/internal/service/employee"
)

type Handler struct {
	service employeeService.Servicer
}

func NewHandler(service employeeService.Servicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	employees := r.Group("/employees")
	{
		employees.GET("", h.ListEmployees)
		employees.POST("", h.CreateEmployee)
		employees.PUT("/:id", h.UpdateEmployee)
		employees.DELETE("/:id", h.DeleteEmployee)
	}
}

type createEmployeeRequest struct {
	QIDNumber   string `json:"qid_number" binding:"required"`
	FullName    string `json:"full_name" binding:"required"`
	Nationality string `json:"nationality" binding:"required"`
	Gender      string `json:"gender" binding:"required"`
	ExpiryDate  string `json:"expiry_date" binding:"required,rpdate"`
}

func (h *Handler) ListEmployees(c *gin.Context) {
	employees, err := h.service.List(c.Request.Context(), middleware.OwnerEmail(c))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(employees))
}

func (h *Handler) CreateEmployee(c *gin.Context) {
	var req createEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	emp := &model.Employee{
		QIDNumber:   req.QIDNumber,
		FullName:    req.FullName,
		Nationality: req.Nationality,
		Gender:      req.Gender,
		ExpiryDate:  req.ExpiryDate,
	}

	emp, err := h.service.Create(c.Request.Context(), middleware.OwnerEmail(c), emp)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(emp))
}

type updateEmployeeRequest struct {
	QIDNumber   string `json:"qid_number"`
	FullName    string `json:"full_name"`
	Nationality string `json:"nationality"`
	Gender      string `json:"gender"`
	ExpiryDate  string `json:"expiry_date"`
}

func (h *Handler) UpdateEmployee(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid employee ID"))
		return
	}

	var req updateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	changes := &model.Employee{
		QIDNumber:   req.QIDNumber,
		FullName:    req.FullName,
		Nationality: req.Nationality,
		Gender:      req.Gender,
		ExpiryDate:  req.ExpiryDate,
	}

	emp, err := h.service.Update(c.Request.Context(), middleware.OwnerEmail(c), id, changes)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(emp))
}

func (h *Handler) DeleteEmployee(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid employee ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.OwnerEmail(c), id); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
