package controller

import (
	"errors"
	"net/http"

	"inc/app_error"
	"inc/auth"
	"inc/config"
	"inc/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const authCookie = "auth"

type TokenResponse struct {
	Token   string   `json:"token"`
	Subject string   `json:"subject"`
	Roles   []string `json:"roles"`
}

func setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookie, token, 60*60*24, "/", "", config.IsProduction(), true)
}

type AdminController struct {
	adminService  *service.AdminService
	exportService *service.ExportService
}

func NewAdminController(deps *Dependencies) *AdminController {
	return &AdminController{
		adminService:  service.NewAdminService(deps.DB),
		exportService: deps.Export,
	}
}

func setupAdminController(deps *Dependencies) []RouteInfo {
	e := NewAdminController(deps)
	basePath := "/admin"
	routes := []RouteInfo{
		{Method: "POST", Path: "/login", HandlerFunc: e.loginHandler(), RateLimited: true},
		{Method: "POST", Path: "/logout", HandlerFunc: e.logoutHandler()},
		{Method: "GET", Path: "/verify", HandlerFunc: e.verifyHandler(), Authenticated: true, RoleRequired: []string{auth.RoleViewer, auth.RoleAdmin, auth.RoleWebMaster}},
		{Method: "POST", Path: "/export/:event_name", HandlerFunc: e.exportHandler(), Authenticated: true, RoleRequired: []string{auth.RoleAdmin}},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @Description Logs an operator in and sets the auth cookie
// @Tags admin
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} TokenResponse
// @Router /admin/login [post]
func (e *AdminController) loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body LoginRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			app_error.Respond(c, app_error.ValidationFailed("invalid body: %v", err))
			return
		}
		token, admin, err := e.adminService.Login(body.Username, body.Password)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		log.WithField("username", admin.Username).Info("admin logged in")
		setAuthCookie(c, token)
		c.JSON(200, TokenResponse{Token: token, Subject: admin.Username, Roles: admin.Roles})
	}
}

func (e *AdminController) logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(authCookie, "", -1, "/", "", config.IsProduction(), true)
		c.Status(204)
	}
}

func (e *AdminController) verifyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		c.JSON(200, gin.H{"subject": claims.Subject, "roles": claims.Roles})
	}
}

// @Description Writes the completed registrations of an event to its spreadsheet tab
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param event_name path string true "Event name"
// @Success 200 {object} map[string]int
// @Router /admin/export/{event_name} [post]
func (e *AdminController) exportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if e.exportService == nil {
			app_error.Respond(c, app_error.DependencyFailure(errors.New("sheets export is not configured")))
			return
		}
		rows, err := e.exportService.ExportRegistrations(c.Request.Context(), c.Param("event_name"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, gin.H{"rows": rows})
	}
}
