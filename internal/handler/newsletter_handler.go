package handler

import (
	"net/http"

	"github.com/badgeworks/affiliates/internal/config"
	"github.com/badgeworks/affiliates/internal/dto"
	"github.com/badgeworks/affiliates/internal/service"
	"github.com/badgeworks/affiliates/pkg/response"
	"github.com/gin-gonic/gin"
)

type NewsletterHandler struct {
	newsletter service.NewsletterService
	users      service.UserService
	cfg        *config.Config
}

func NewNewsletterHandler(newsletter service.NewsletterService, users service.UserService, cfg *config.Config) *NewsletterHandler {
	return &NewsletterHandler{newsletter: newsletter, users: users, cfg: cfg}
}

// Subscribe forwards the signup to the mailing-list API. The response is
// success regardless of outcome; subscription failures only get logged.
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.NewsletterSubscribeRequest
	if err := c.ShouldBind(&req); err == nil {
		country := req.Country
		if country == "" {
			if user, err := h.users.Get(c.Request.Context(), userID); err == nil {
				country = user.Country
			}
		}

		sourceURL := h.cfg.SiteURL + c.Request.URL.RequestURI()
		h.newsletter.Subscribe(c.Request.Context(), req.Email, req.Format, country, sourceURL)
	}

	c.JSON(http.StatusOK, gin.H{"success": "success"})
}
