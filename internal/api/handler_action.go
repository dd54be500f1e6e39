package api

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventhub/internal/model"
	"eventhub/internal/service"
)

type ActionHandler struct {
	tokenService *service.TokenService
}

func NewActionHandler(tokenService *service.TokenService) *ActionHandler {
	return &ActionHandler{tokenService: tokenService}
}

var actionPage = template.Must(template.New("action").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Heading}}</title></head>
<body style="font-family: sans-serif; max-width: 480px; margin: 80px auto; text-align: center;">
  <h1>{{.Heading}}</h1>
  <p>{{.Body}}</p>
</body>
</html>`))

type actionPageData struct {
	Heading string
	Body    string
}

// Resolve handles GET /api/actions?token=...
//
// This endpoint is hit from email clients, so it answers with a human
// readable confirmation page rather than JSON, and each failure mode
// gets its own copy.
func (h *ActionHandler) Resolve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	result, err := h.tokenService.Resolve(c.Request.Context(), token)
	switch {
	case err == nil:
		h.render(c, http.StatusOK, successPage(result))
	case errors.Is(err, service.ErrNotFound):
		h.render(c, http.StatusNotFound, actionPageData{
			Heading: "Invalid link",
			Body:    "This action link is not recognized. It may have been mistyped or revoked.",
		})
	case errors.Is(err, service.ErrTokenExpired):
		h.render(c, http.StatusGone, actionPageData{
			Heading: "Link expired",
			Body:    "This action link has expired. Please sign in to record your decision instead.",
		})
	case errors.Is(err, service.ErrTokenAlreadyUsed):
		h.render(c, http.StatusConflict, actionPageData{
			Heading: "Already used",
			Body:    "This action link was already used. Each link works exactly once.",
		})
	default:
		h.render(c, http.StatusInternalServerError, actionPageData{
			Heading: "Something went wrong",
			Body:    "We could not process your decision. Please try again or sign in.",
		})
	}
}

func successPage(result *service.ResolveResult) actionPageData {
	title := result.EventTitle
	if title == "" {
		title = "the event"
	}
	switch result.Decision {
	case model.TokenApprove:
		return actionPageData{
			Heading: "Catering approved",
			Body:    "You approved the catering request for " + title + ". A payment request has been raised.",
		}
	case model.TokenReject:
		return actionPageData{
			Heading: "Catering rejected",
			Body:    "You rejected the catering request for " + title + ".",
		}
	default:
		return actionPageData{
			Heading: "Changes requested",
			Body:    "You requested changes to the catering request for " + title + ". The requester will resubmit.",
		}
	}
}

func (h *ActionHandler) render(c *gin.Context, status int, data actionPageData) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := actionPage.Execute(c.Writer, data); err != nil {
		c.String(http.StatusInternalServerError, "render error")
	}
}
