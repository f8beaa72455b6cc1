package controller

import (
	"net/http"

	"inc/app_error"
	"inc/auth"
	"inc/service"

	"github.com/gin-gonic/gin"
)

type VerificationController struct {
	registrationService *service.RegistrationService
	fileService         *service.FileService
}

func NewVerificationController(deps *Dependencies) *VerificationController {
	return &VerificationController{
		registrationService: service.NewRegistrationService(deps.DB, deps.Events, deps.Files, deps.Notifications),
		fileService:         deps.Files,
	}
}

type PaymentConfirmation struct {
	Ticket string `json:"ticket" binding:"required"`
}

func setupVerificationController(deps *Dependencies) []RouteInfo {
	e := NewVerificationController(deps)
	basePath := "/events"
	viewer := []string{auth.RoleViewer, auth.RoleAdmin}
	routes := []RouteInfo{
		{Method: "GET", Path: "/registrations-count", HandlerFunc: e.countHandler(), Authenticated: true, RoleRequired: viewer},
		{Method: "GET", Path: "/registrations/:event_name", HandlerFunc: e.registrationsHandler(), Authenticated: true, RoleRequired: viewer},
		{Method: "GET", Path: "/registrations/:event_name/:pid", HandlerFunc: e.projectRecordHandler(), Authenticated: true, RoleRequired: viewer},
		{Method: "GET", Path: "/incomplete/:event_name", HandlerFunc: e.incompleteHandler(), Authenticated: true, RoleRequired: viewer},
		{Method: "GET", Path: "/verify/:event_name", HandlerFunc: e.ticketByPidHandler(), Authenticated: true, RoleRequired: viewer},
		{Method: "GET", Path: "/verify-file", HandlerFunc: e.fileHandler(), Authenticated: true, RoleRequired: viewer},
		{Method: "GET", Path: "/verify/payment/:event_name", HandlerFunc: e.pendingPaymentsHandler(), Authenticated: true, RoleRequired: viewer},
		{Method: "POST", Path: "/verify/payment/:event_name", HandlerFunc: e.confirmPaymentHandler(), Authenticated: true, RoleRequired: []string{auth.RoleAdmin}},
		{Method: "GET", Path: "/verify/registration", HandlerFunc: e.statusHandler()},
		{Method: "GET", Path: "/verify/user/:event_name", HandlerFunc: e.userRegisteredHandler()},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @Description Counts completed registrations per event
// @Tags verification
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} map[string]int64
// @Router /events/registrations-count [get]
func (e *VerificationController) countHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, err := e.registrationService.RegistrationCounts()
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, counts)
	}
}

func (e *VerificationController) registrationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		registrations, err := e.registrationService.Registrations(c.Param("event_name"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, registrations)
	}
}

// @Description Shows a registered project with its team and evaluations
// @Tags verification
// @Security ApiKeyAuth
// @Produce json
// @Param event_name path string true "Event name"
// @Param pid path string true "Project id"
// @Success 200 {object} service.ProjectRecord
// @Router /events/registrations/{event_name}/{pid} [get]
func (e *VerificationController) projectRecordHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		record, err := e.registrationService.ProjectRecord(c.Param("event_name"), c.Param("pid"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, record)
	}
}

func (e *VerificationController) incompleteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tickets, err := e.registrationService.IncompleteRegistrations(c.Param("event_name"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, tickets)
	}
}

func (e *VerificationController) ticketByPidHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ticket, err := e.registrationService.TicketByPid(c.Param("event_name"), c.Query("pid"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, ticket)
	}
}

func (e *VerificationController) fileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := e.fileService.GetFile(c.Query("email"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, file)
	}
}

// @Description Lists tickets waiting for payment verification
// @Tags verification
// @Security ApiKeyAuth
// @Produce json
// @Param event_name path string true "Event name"
// @Success 200 {array} repository.Ticket
// @Router /events/verify/payment/{event_name} [get]
func (e *VerificationController) pendingPaymentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tickets, err := e.registrationService.PendingPayments(c.Param("event_name"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, tickets)
	}
}

// @Description Confirms the payment of a ticket and assigns the project id
// @Tags verification
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param event_name path string true "Event name"
// @Param body body PaymentConfirmation true "Ticket to confirm"
// @Success 201 {object} map[string]string
// @Router /events/verify/payment/{event_name} [post]
func (e *VerificationController) confirmPaymentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body PaymentConfirmation
		if err := c.ShouldBindJSON(&body); err != nil {
			app_error.Respond(c, app_error.ValidationFailed("invalid body: %v", err))
			return
		}
		pid, err := e.registrationService.ConfirmPayment(c.Request.Context(), c.Param("event_name"), body.Ticket)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "pid": pid})
	}
}

func (e *VerificationController) statusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := e.registrationService.RegistrationStatus(ticketFromRequest(c))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, status)
	}
}

func (e *VerificationController) userRegisteredHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		registered, err := e.registrationService.IsUserRegistered(c.Param("event_name"), c.Query("email"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, gin.H{"registered": registered})
	}
}
