package controller

import (
	"net/http"

	"inc/app_error"
	"inc/auth"
	"inc/service"

	"github.com/gin-gonic/gin"
)

type JudgeController struct {
	judgeService      *service.JudgeService
	evaluationService *service.EvaluationService
	allocationService *service.AllocationService
}

func NewJudgeController(deps *Dependencies) *JudgeController {
	return &JudgeController{
		judgeService:      service.NewJudgeService(deps.DB, deps.Events, deps.Notifications),
		evaluationService: service.NewEvaluationService(deps.DB, deps.Events),
		allocationService: service.NewAllocationService(deps.DB, deps.Events),
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Jid      string `json:"jid"`
	Password string `json:"password" binding:"required"`
}

type SlotUpdate struct {
	Slots []string `json:"slots"`
	Mode  string   `json:"mode"`
}

func setupJudgeController(deps *Dependencies) []RouteInfo {
	e := NewJudgeController(deps)
	basePath := "/judge"
	viewer := []string{auth.RoleViewer, auth.RoleAdmin}
	judge := []string{auth.RoleJudge, auth.RoleAdmin}
	routes := []RouteInfo{
		{Method: "POST", Path: "/register", HandlerFunc: e.registerHandler(), RateLimited: true},
		{Method: "POST", Path: "/login", HandlerFunc: e.loginHandler(), RateLimited: true},
		{Method: "GET", Path: "/verify", HandlerFunc: e.verifyHandler(), Authenticated: true, RoleRequired: []string{auth.RoleJudge}},
		{Method: "GET", Path: "/registration/view/:event_name", HandlerFunc: e.listJudgesHandler(), Authenticated: true, RoleRequired: viewer},
		{Method: "GET", Path: "/:event_name/allocations", HandlerFunc: e.projectsForEventHandler(), Authenticated: true, RoleRequired: viewer},
		{Method: "GET", Path: "/allocations/:jid", HandlerFunc: e.allocationsHandler(), Authenticated: true, RoleRequired: viewer},
		{Method: "GET", Path: "/profile/:jid", HandlerFunc: e.profileHandler(), Authenticated: true, RoleRequired: judge},
		{Method: "PATCH", Path: "/modify_slots/:jid", HandlerFunc: e.modifySlotsHandler(), Authenticated: true, RoleRequired: judge},
		{Method: "POST", Path: "/:event_name/evaluate", HandlerFunc: e.evaluateHandler(), Authenticated: true, RoleRequired: judge},
		{Method: "GET", Path: "/:event_name/evaluations/:pid", HandlerFunc: e.projectEvaluationsHandler(), Authenticated: true, RoleRequired: viewer},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @Description Registers a judge and mails the generated credentials
// @Tags judge
// @Accept json
// @Produce json
// @Param body body service.JudgeRegistration true "Judge details"
// @Success 201 {object} repository.Judge
// @Router /judge/register [post]
func (e *JudgeController) registerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input service.JudgeRegistration
		if err := c.ShouldBindJSON(&input); err != nil {
			app_error.Respond(c, app_error.ValidationFailed("invalid body: %v", err))
			return
		}
		judge, err := e.judgeService.Register(c.Request.Context(), input)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, judge)
	}
}

// @Description Logs a judge in and sets the auth cookie
// @Tags judge
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} TokenResponse
// @Router /judge/login [post]
func (e *JudgeController) loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body LoginRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			app_error.Respond(c, app_error.ValidationFailed("invalid body: %v", err))
			return
		}
		jid := body.Jid
		if jid == "" {
			jid = body.Username
		}
		token, judge, err := e.judgeService.Login(jid, body.Password)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		setAuthCookie(c, token)
		c.JSON(200, TokenResponse{Token: token, Subject: judge.Jid, Roles: judge.Roles})
	}
}

func (e *JudgeController) verifyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		judge, err := e.judgeService.GetJudge(claims.Subject)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, judge)
	}
}

func (e *JudgeController) listJudgesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		judges, err := e.judgeService.ListJudges(c.Param("event_name"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, judges)
	}
}

func (e *JudgeController) projectsForEventHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		projects, err := e.judgeService.ProjectsForEvent(c.Param("event_name"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, projects)
	}
}

func (e *JudgeController) allocationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		allocations, err := e.allocationService.JudgeAllocations(c.Request.Context(), c.Param("jid"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, allocations)
	}
}

func (e *JudgeController) profileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		jid := c.Param("jid")
		if !requireSubject(c, jid) {
			return
		}
		judge, err := e.judgeService.GetJudge(jid)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, judge)
	}
}

// @Description Replaces, extends or shrinks the slots a judge is available for
// @Tags judge
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param jid path string true "Judge id"
// @Param body body SlotUpdate true "Slots and mode"
// @Success 200 {object} repository.Judge
// @Router /judge/modify_slots/{jid} [patch]
func (e *JudgeController) modifySlotsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		jid := c.Param("jid")
		if !requireSubject(c, jid) {
			return
		}
		var body SlotUpdate
		if err := c.ShouldBindJSON(&body); err != nil {
			app_error.Respond(c, app_error.ValidationFailed("invalid body: %v", err))
			return
		}
		mode, err := service.ParseSlotMode(body.Mode)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		judge, err := e.judgeService.ModifySlots(c.Request.Context(), jid, body.Slots, mode)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, judge)
	}
}

// @Description Records the evaluation of a project by the calling judge
// @Tags judge
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param event_name path string true "Event name"
// @Param body body service.EvaluationInput true "Scores"
// @Success 201 {object} repository.Evaluation
// @Router /judge/{event_name}/evaluate [post]
func (e *JudgeController) evaluateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input service.EvaluationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			app_error.Respond(c, app_error.ValidationFailed("invalid body: %v", err))
			return
		}
		claims := claimsFrom(c)
		if input.Jid == "" || !claims.HasAnyRole([]string{auth.RoleAdmin}) {
			input.Jid = claims.Subject
		}
		evaluation, err := e.evaluationService.EvaluateProject(c.Request.Context(), c.Param("event_name"), input)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, evaluation)
	}
}

// @Description Lists the evaluations a project received
// @Tags judge
// @Security ApiKeyAuth
// @Produce json
// @Param event_name path string true "Event name"
// @Param pid path string true "Project id"
// @Success 200 {array} repository.Evaluation
// @Router /judge/{event_name}/evaluations/{pid} [get]
func (e *JudgeController) projectEvaluationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		evaluations, err := e.evaluationService.ProjectEvaluations(c.Request.Context(), c.Param("event_name"), c.Param("pid"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, evaluations)
	}
}
