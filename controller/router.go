package controller

import (
	"net/http"
	"strings"
	"time"

	"inc/app_error"
	"inc/auth"
	"inc/client"
	"inc/config"
	"inc/service"

	"github.com/gin-contrib/cache/persistence"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const claimsKey = "claims"

type RouteInfo struct {
	Method        string
	Path          string
	HandlerFunc   gin.HandlerFunc
	Authenticated bool
	RoleRequired  []string
	RateLimited   bool
}

// Dependencies are the shared clients and services the controllers are built from.
// Backup and Export are nil when their stores are not configured.
type Dependencies struct {
	DB            *gorm.DB
	Events        *config.Events
	Notifications *service.NotificationService
	Files         *service.FileService
	Counter       client.Counter
	Cache         persistence.CacheStore
	Backup        *service.BackupService
	Export        *service.ExportService
}

func SetRoutes(r *gin.Engine, deps *Dependencies) {
	routes := make([]RouteInfo, 0)
	routes = append(routes, setupRegistrationController(deps)...)
	routes = append(routes, setupVerificationController(deps)...)
	routes = append(routes, setupJudgeController(deps)...)
	routes = append(routes, setupAllocationController(deps)...)
	routes = append(routes, setupAdminController(deps)...)
	routes = append(routes, setupBackupController(deps)...)
	limiter := RateLimitMiddleware(deps.Counter, config.Env().RegistrationRate, time.Minute)
	for _, route := range routes {
		handlerfuncs := make([]gin.HandlerFunc, 0)
		if route.RateLimited {
			handlerfuncs = append(handlerfuncs, limiter)
		}
		if route.Authenticated {
			handlerfuncs = append(handlerfuncs, AuthMiddleware(route.RoleRequired))
		}
		handlerfuncs = append(handlerfuncs, route.HandlerFunc)
		r.Handle(route.Method, route.Path, handlerfuncs...)
	}
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(authCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

func AuthMiddleware(roles []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "Unauthenticated"})
			return
		}
		claims, err := auth.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": "Unauthenticated"})
			return
		}
		if !claims.HasAnyRole(roles) {
			c.AbortWithStatusJSON(403, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *auth.Claims {
	value, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*auth.Claims)
	return claims
}

// requireSubject lets a judge act on their own id only; admins may act on any.
func requireSubject(c *gin.Context, subject string) bool {
	claims := claimsFrom(c)
	if claims == nil {
		app_error.Respond(c, app_error.Unauthorized("Unauthenticated"))
		return false
	}
	if claims.Subject == subject || claims.HasAnyRole([]string{auth.RoleAdmin}) {
		return true
	}
	app_error.Respond(c, app_error.Forbidden("not allowed to act for %s", subject))
	return false
}
