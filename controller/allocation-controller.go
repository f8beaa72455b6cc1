package controller

import (
	"time"

	"inc/app_error"
	"inc/auth"
	"inc/service"

	"github.com/gin-contrib/cache"
	"github.com/gin-gonic/gin"
)

type AllocationController struct {
	allocationService *service.AllocationService
}

func NewAllocationController(deps *Dependencies) *AllocationController {
	return &AllocationController{
		allocationService: service.NewAllocationService(deps.DB, deps.Events),
	}
}

func setupAllocationController(deps *Dependencies) []RouteInfo {
	e := NewAllocationController(deps)
	basePath := "/allocations"
	admin := []string{auth.RoleAdmin}
	routes := []RouteInfo{
		{Method: "PATCH", Path: "/:event_name/lab", HandlerFunc: e.updateLabHandler(), Authenticated: true, RoleRequired: admin},
		{Method: "POST", Path: "/:event_name/allocate", HandlerFunc: e.allocateHandler(), Authenticated: true, RoleRequired: admin},
		{Method: "PATCH", Path: "/:event_name/deallocate", HandlerFunc: e.deallocateHandler(), Authenticated: true, RoleRequired: admin},
		{Method: "GET", Path: "/:event_name/labs", HandlerFunc: cache.CachePage(deps.Cache, 15*time.Second, e.labsHandler())},
		{Method: "GET", Path: "/projects/:jid", HandlerFunc: e.judgeProjectsHandler()},
		{Method: "GET", Path: "/getevalstats/:event_name", HandlerFunc: e.evalStatsHandler(), Authenticated: true, RoleRequired: []string{auth.RoleViewer, auth.RoleAdmin}},
		{Method: "GET", Path: "/:event_name", HandlerFunc: e.eventAllocationsHandler(), Authenticated: true, RoleRequired: []string{auth.RoleViewer, auth.RoleAdmin}},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @Description Moves projects to a lab
// @Tags allocation
// @Security ApiKeyAuth
// @Accept json
// @Param event_name path string true "Event name"
// @Param body body service.LabUpdate true "Lab and projects"
// @Success 204
// @Router /allocations/{event_name}/lab [patch]
func (e *AllocationController) updateLabHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.LabUpdate
		if err := c.ShouldBindJSON(&body); err != nil {
			app_error.Respond(c, app_error.ValidationFailed("invalid body: %v", err))
			return
		}
		if err := e.allocationService.UpdateLab(c.Request.Context(), c.Param("event_name"), body); err != nil {
			app_error.Respond(c, err)
			return
		}
		c.Status(204)
	}
}

// @Description Allocates every listed project to every listed judge
// @Tags allocation
// @Security ApiKeyAuth
// @Accept json
// @Param event_name path string true "Event name"
// @Param body body service.AllocationRequest true "Projects, judges and slots"
// @Success 204
// @Router /allocations/{event_name}/allocate [post]
func (e *AllocationController) allocateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.AllocationRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			app_error.Respond(c, app_error.ValidationFailed("invalid body: %v", err))
			return
		}
		if err := e.allocationService.Allocate(c.Request.Context(), c.Param("event_name"), body); err != nil {
			app_error.Respond(c, err)
			return
		}
		c.Status(204)
	}
}

func (e *AllocationController) deallocateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.AllocationRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			app_error.Respond(c, app_error.ValidationFailed("invalid body: %v", err))
			return
		}
		if err := e.allocationService.Deallocate(c.Request.Context(), c.Param("event_name"), body); err != nil {
			app_error.Respond(c, err)
			return
		}
		c.Status(204)
	}
}

// @Description Lists the projects of an event with their lab and judges
// @Tags allocation
// @Produce json
// @Param event_name path string true "Event name"
// @Success 200 {array} repository.LabProject
// @Router /allocations/{event_name}/labs [get]
func (e *AllocationController) labsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		labs, err := e.allocationService.GetLabs(c.Request.Context(), c.Param("event_name"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, labs)
	}
}

func (e *AllocationController) judgeProjectsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		projects, err := e.allocationService.AllocatedProjectsOfJudge(c.Request.Context(), c.Param("jid"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, projects)
	}
}

func (e *AllocationController) evalStatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := e.allocationService.EvalStats(c.Request.Context(), c.Param("event_name"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, stats)
	}
}

func (e *AllocationController) eventAllocationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		allocations, err := e.allocationService.EventAllocations(c.Request.Context(), c.Param("event_name"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, allocations)
	}
}
