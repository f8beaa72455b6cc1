package controller

import (
	"net/http"

	"inc/config"

	"github.com/gin-gonic/gin"
)

const ticketCookie = "ticket"

type TicketResponse struct {
	Success bool   `json:"success"`
	Ticket  string `json:"ticket"`
}

// ticketFromRequest reads the ticket from the query first and falls back to the cookie.
func ticketFromRequest(c *gin.Context) string {
	if ticket := c.Query("ticket"); ticket != "" {
		return ticket
	}
	if ticket, err := c.Cookie(ticketCookie); err == nil {
		return ticket
	}
	return ""
}

func sendTicket(c *gin.Context, ticket string, created bool) {
	if config.Env().TicketTransport == config.TicketTransportCookie {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(ticketCookie, ticket, 60*60*24*30, "/", "", config.IsProduction(), true)
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, TicketResponse{Success: true, Ticket: ticket})
}

func eventFromQuery(c *gin.Context) string {
	if event := c.Query("event_name"); event != "" {
		return event
	}
	return c.Query("event")
}
