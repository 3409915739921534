package handler

import (
	"net/http"

	"github.com/badgeworks/affiliates/internal/config"
	"github.com/gin-gonic/gin"
)

// PageHandler covers the static-ish iframe pages.
type PageHandler struct {
	cfg *config.Config
}

func NewPageHandler(cfg *config.Config) *PageHandler {
	return &PageHandler{cfg: cfg}
}

func (h *PageHandler) Landing(c *gin.Context) {
	c.HTML(http.StatusOK, "landing.html", gin.H{"AppURL": h.cfg.FacebookAppURL})
}

func (h *PageHandler) FAQ(c *gin.Context) {
	c.HTML(http.StatusOK, "faq.html", gin.H{})
}

func (h *PageHandler) Invite(c *gin.Context) {
	c.HTML(http.StatusOK, "invite.html", gin.H{
		"Next": h.cfg.SiteURL + "/fb/post-invite",
	})
}

// PostInvite lands the user back in the app after the invite dialog.
func (h *PageHandler) PostInvite(c *gin.Context) {
	c.Redirect(http.StatusFound, h.cfg.FacebookAppURL)
}
