package controller

import (
	"bytes"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"inc/app_error"
	"inc/auth"
	"inc/repository"
	"inc/service"

	"github.com/gin-contrib/cache"
	"github.com/gin-contrib/cache/persistence"
	"github.com/gin-gonic/gin"
)

const maxUploadSize = 5 << 20

var allowedUploadTypes = []string{"image/jpeg", "image/png", "application/pdf"}

type RegistrationController struct {
	registrationService *service.RegistrationService
	synopsisService     *service.SynopsisService
	cacheStore          persistence.CacheStore
}

func NewRegistrationController(deps *Dependencies) *RegistrationController {
	return &RegistrationController{
		registrationService: service.NewRegistrationService(deps.DB, deps.Events, deps.Files, deps.Notifications),
		synopsisService:     service.NewSynopsisService(deps.DB, deps.Events),
		cacheStore:          deps.Cache,
	}
}

func setupRegistrationController(deps *Dependencies) []RouteInfo {
	e := NewRegistrationController(deps)
	basePath := "/events"
	routes := []RouteInfo{
		{Method: "POST", Path: "/step_1", HandlerFunc: e.submitStep1Handler(), RateLimited: true},
		{Method: "POST", Path: "/step_2", HandlerFunc: e.submitStep2Handler(), RateLimited: true},
		{Method: "POST", Path: "/step_3", HandlerFunc: e.submitStep3Handler(), RateLimited: true},
		{Method: "POST", Path: "/step_4", HandlerFunc: e.requestPaymentHandler(), RateLimited: true},
		{Method: "GET", Path: "/ticket", HandlerFunc: e.getTicketHandler()},
		{Method: "GET", Path: "/getmemberdetails", HandlerFunc: e.getMembersHandler()},
		{Method: "DELETE", Path: "/deletememberdetails", HandlerFunc: e.deleteMemberHandler()},
		{Method: "GET", Path: "/techfiesta-members", HandlerFunc: e.getTechfiestaMembersHandler()},
		{Method: "POST", Path: "/techfiesta-members", HandlerFunc: e.replaceMembersHandler(), RateLimited: true},
		{Method: "GET", Path: "/:event_name/synopsis", HandlerFunc: cache.CachePage(e.cacheStore, 10*time.Minute, e.synopsisHandler())},
		{Method: "GET", Path: "/:event_name/projects/:pid", HandlerFunc: e.getProjectHandler()},
		{Method: "PATCH", Path: "/:event_name/:pid", HandlerFunc: e.updateProjectHandler(), Authenticated: true, RoleRequired: []string{auth.RoleAdmin}},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @Description Saves the project details, creating a ticket when none is passed
// @Tags registration
// @Accept json
// @Produce json
// @Param event_name query string true "Event name"
// @Param ticket query string false "Ticket"
// @Success 201 {object} TicketResponse
// @Router /events/step_1 [post]
func (e *RegistrationController) submitStep1Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload repository.JSONMap
		if err := c.ShouldBindJSON(&payload); err != nil {
			app_error.Respond(c, app_error.ValidationFailed("invalid body: %v", err))
			return
		}
		ticket, created, err := e.registrationService.SubmitStep1(c.Request.Context(), eventFromQuery(c), ticketFromRequest(c), payload)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		sendTicket(c, ticket, created)
	}
}

// @Description Adds a team member, optionally with an id document
// @Tags registration
// @Accept json,mpfd
// @Produce json
// @Param event_name query string true "Event name"
// @Param ticket query string false "Ticket"
// @Success 200 {object} TicketResponse
// @Router /events/step_2 [post]
func (e *RegistrationController) submitStep2Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		member, upload, err := memberFromRequest(c)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		ticket, created, err := e.registrationService.SubmitStep2(c.Request.Context(), eventFromQuery(c), ticketFromRequest(c), member, upload)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		sendTicket(c, ticket, created)
	}
}

func memberFromRequest(c *gin.Context) (repository.Member, *service.UploadedFile, error) {
	member := repository.Member{}
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(&member); err != nil {
			return member, nil, app_error.ValidationFailed("invalid body: %v", err)
		}
		return member, nil, nil
	}
	member.Name = c.PostForm("name")
	member.Email = c.PostForm("email")
	member.Phone = c.PostForm("phone")
	header, err := c.FormFile("id_file")
	if errors.Is(err, http.ErrMissingFile) {
		return member, nil, nil
	}
	if err != nil {
		return member, nil, app_error.ValidationFailed("invalid upload: %v", err)
	}
	if header.Size > maxUploadSize {
		return member, nil, app_error.ValidationFailed("id document must be smaller than 5MB")
	}
	mime := header.Header.Get("Content-Type")
	allowed := false
	for _, t := range allowedUploadTypes {
		if mime == t {
			allowed = true
		}
	}
	if !allowed {
		return member, nil, app_error.ValidationFailed("id document must be a jpeg, png or pdf file")
	}
	tmp, err := os.CreateTemp("", "inc-upload-*")
	if err != nil {
		return member, nil, app_error.DependencyFailure(err)
	}
	tmp.Close()
	if err := c.SaveUploadedFile(header, tmp.Name()); err != nil {
		os.Remove(tmp.Name())
		return member, nil, app_error.DependencyFailure(err)
	}
	return member, &service.UploadedFile{
		Path:     tmp.Name(),
		FileName: filepath.Base(header.Filename),
		Mime:     mime,
		Size:     header.Size,
	}, nil
}

// @Description Saves the institution details
// @Tags registration
// @Accept json
// @Produce json
// @Param ticket query string true "Ticket"
// @Success 200 {object} TicketResponse
// @Router /events/step_3 [post]
func (e *RegistrationController) submitStep3Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload repository.JSONMap
		if err := c.ShouldBindJSON(&payload); err != nil {
			app_error.Respond(c, app_error.ValidationFailed("invalid body: %v", err))
			return
		}
		ticket := ticketFromRequest(c)
		if err := e.registrationService.SubmitStep3(c.Request.Context(), ticket, payload); err != nil {
			app_error.Respond(c, err)
			return
		}
		sendTicket(c, ticket, false)
	}
}

// @Description Submits the payment reference for verification
// @Tags registration
// @Accept json
// @Produce json
// @Param event_name query string true "Event name"
// @Param ticket query string true "Ticket"
// @Success 201 {object} TicketResponse
// @Router /events/step_4 [post]
func (e *RegistrationController) requestPaymentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload repository.JSONMap
		if err := c.ShouldBindJSON(&payload); err != nil {
			app_error.Respond(c, app_error.ValidationFailed("invalid body: %v", err))
			return
		}
		ticket := ticketFromRequest(c)
		if err := e.registrationService.RequestPayment(c.Request.Context(), eventFromQuery(c), ticket, payload); err != nil {
			app_error.Respond(c, err)
			return
		}
		sendTicket(c, ticket, true)
	}
}

func (e *RegistrationController) getTicketHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ticket, err := e.registrationService.GetTicket(ticketFromRequest(c))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, ticket)
	}
}

func (e *RegistrationController) getMembersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		members, err := e.registrationService.GetMembers(ticketFromRequest(c))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, gin.H{"step_2": members})
	}
}

func (e *RegistrationController) deleteMemberHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		index, err := strconv.Atoi(c.Query("index"))
		if err != nil {
			app_error.Respond(c, app_error.ValidationFailed("index must be a number"))
			return
		}
		ticket := ticketFromRequest(c)
		if err := e.registrationService.DeleteMember(c.Request.Context(), ticket, index); err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, gin.H{"success": true, "ticket": ticket, "message": "Member details deleted successfully"})
	}
}

func (e *RegistrationController) getTechfiestaMembersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		team, err := e.registrationService.TechfiestaMembers(eventFromQuery(c), c.Query("team_id"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, team)
	}
}

func (e *RegistrationController) replaceMembersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var members repository.Members
		if err := c.ShouldBindJSON(&members); err != nil {
			app_error.Respond(c, app_error.ValidationFailed("invalid body: %v", err))
			return
		}
		ticket := ticketFromRequest(c)
		if err := e.registrationService.ReplaceMembers(c.Request.Context(), eventFromQuery(c), ticket, members); err != nil {
			app_error.Respond(c, err)
			return
		}
		sendTicket(c, ticket, false)
	}
}

// @Description Renders the project synopsis of an event as PDF
// @Tags registration
// @Produce application/pdf
// @Param event_name path string true "Event name"
// @Success 200 {file} binary
// @Router /events/{event_name}/synopsis [get]
func (e *RegistrationController) synopsisHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventName := c.Param("event_name")
		var pdf bytes.Buffer
		if err := e.synopsisService.Generate(c.Request.Context(), eventName, &pdf); err != nil {
			app_error.Respond(c, err)
			return
		}
		c.Header("Content-Disposition", "inline; filename=\""+eventName+"-synopsis.pdf\"")
		c.Data(http.StatusOK, "application/pdf", pdf.Bytes())
	}
}

func (e *RegistrationController) getProjectHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		project, err := e.registrationService.GetProject(c.Param("event_name"), c.Param("pid"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, project)
	}
}

func (e *RegistrationController) updateProjectHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch service.ProjectPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			app_error.Respond(c, app_error.ValidationFailed("invalid body: %v", err))
			return
		}
		project, err := e.registrationService.UpdateProject(c.Request.Context(), c.Param("event_name"), c.Param("pid"), patch)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, project)
	}
}
