package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/badgeworks/affiliates/internal/config"
	"github.com/badgeworks/affiliates/internal/dto"
	"github.com/badgeworks/affiliates/internal/service"
	"github.com/badgeworks/affiliates/pkg/apperror"
	"github.com/badgeworks/affiliates/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const linkAction = "link_accounts"

type LinkHandler struct {
	links service.LinkService
	rdb   *redis.Client
	cfg   *config.Config
}

func NewLinkHandler(links service.LinkService, rdb *redis.Client, cfg *config.Config) *LinkHandler {
	return &LinkHandler{links: links, rdb: rdb, cfg: cfg}
}

// LinkAccounts starts the link flow. The response is a uniform 200 no
// matter what happened, so callers can't probe which emails exist.
func (h *LinkHandler) LinkAccounts(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	allowed, err := service.CheckAndSetRateLimit(c.Request.Context(), h.rdb, userID, linkAction, h.cfg.LinkRateLimit)
	if err != nil {
		log.Printf("rate limit check failed for user %s: %v", userID, err)
		allowed = true
	}

	var req dto.LinkAccountsRequest
	if allowed && c.ShouldBind(&req) == nil {
		link, err := h.links.CreateLink(c.Request.Context(), userID, req.AffiliatesEmail)
		if err != nil {
			log.Printf("failed to create account link for user %s: %v", userID, err)
			// Give the failed attempt its slot back so a retry isn't locked out.
			if clearErr := service.ClearRateLimit(c.Request.Context(), h.rdb, userID, linkAction); clearErr != nil {
				log.Printf("failed to clear rate limit for user %s: %v", userID, clearErr)
			}
		}
		if link != nil {
			if err := h.links.SendActivationEmail(link); err != nil {
				log.Printf("failed to send activation email for link %s: %v", link.ID, err)
			}
		}
	}

	c.Status(http.StatusOK)
}

// Activate confirms a pending link from the emailed code. Anything short of
// a clean activation is a 404.
func (h *LinkHandler) Activate(c *gin.Context) {
	link, err := h.links.ActivateLink(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	if link == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "activation code invalid"})
		return
	}

	c.Redirect(http.StatusFound, h.cfg.FacebookAppURL)
}

// Remove unlinks the current user's account.
func (h *LinkHandler) Remove(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.links.RemoveLink(c.Request.Context(), userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = apperror.ErrNotFound
		}
		response.ResponseError(c, err)
		return
	}

	c.Redirect(http.StatusFound, h.cfg.SiteURL+"/fb/banners")
}
