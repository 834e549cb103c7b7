package notifier

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hrtools/rptracker/internal/handler"
	"github.com/hrtools/rptracker/internal/middleware"
	"github.com/hrtools/rptracker/internal/model"
	notifierService "github.com/hrtools/rptracker/internal/service/notifier"
	"github.com/hrtools/rptracker/pkg/logger"
)

type Handler struct {
	service *notifierService.Service
	log     *logger.Logger
}

func NewHandler(service *notifierService.Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.POST("/check", h.RunCheck)
		notifications.POST("/test", h.SendTest)
	}
}

// RunCheck triggers a pass on demand. An overlapping trigger is rejected with
// 409. The pass is detached from the request context so a client disconnect
// cannot cancel sends already in flight.
func (h *Handler) RunCheck(c *gin.Context) {
	attempted, err := h.service.RunCheck(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		if errors.Is(err, notifierService.ErrCheckInProgress) {
			c.JSON(http.StatusConflict, handler.NewErrorResponse("check already in progress"))
			return
		}
		h.log.Error(err, "on-demand check failed")
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("notification check failed"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"attempted": attempted}))
}

type testSendRequest struct {
	Employee struct {
		QIDNumber   string `json:"qid_number"`
		FullName    string `json:"full_name" binding:"required"`
		Nationality string `json:"nationality"`
		Gender      string `json:"gender"`
		ExpiryDate  string `json:"expiry_date"`
	} `json:"employee" binding:"required"`
	DaysLeft int `json:"days_left"`
}

// SendTest delivers a one-off notification outside the dedup cap.
func (h *Handler) SendTest(c *gin.Context) {
	var req testSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	emp := &model.Employee{
		QIDNumber:   req.Employee.QIDNumber,
		FullName:    req.Employee.FullName,
		Nationality: req.Employee.Nationality,
		Gender:      req.Employee.Gender,
		ExpiryDate:  req.Employee.ExpiryDate,
	}

	res, err := h.service.SendTest(c.Request.Context(), emp, req.DaysLeft, middleware.OwnerEmail(c))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(res))
}
