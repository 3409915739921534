package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/badgeworks/affiliates/internal/config"
	"github.com/badgeworks/affiliates/internal/dto"
	"github.com/badgeworks/affiliates/internal/service"
	"github.com/badgeworks/affiliates/pkg/response"
	"github.com/badgeworks/affiliates/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BannerHandler struct {
	banners service.BannerService
	users   service.UserService
	cfg     *config.Config
}

func NewBannerHandler(banners service.BannerService, users service.UserService, cfg *config.Config) *BannerHandler {
	return &BannerHandler{banners: banners, users: users, cfg: cfg}
}

// CreatePage renders the create form with the banners available in the
// requester's locale.
func (h *BannerHandler) CreatePage(c *gin.Context) {
	locale := h.userLocale(c)
	banners, err := h.banners.ListForLocale(c.Request.Context(), locale, 0)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.HTML(http.StatusOK, "banner_create.html", gin.H{"Banners": banners})
}

// Create handles the AJAX form submit. 201 when the instance is immediately
// usable, 202 when image generation was deferred, 400 with field errors
// otherwise.
func (h *BannerHandler) Create(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.BannerInstanceCreateRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, validator.FormatFieldErrors(err))
		return
	}

	instance, accepted, err := h.banners.CreateInstance(c.Request.Context(), userID, h.userLocale(c), req)
	if errors.Is(err, service.ErrBannerUnavailable) {
		c.JSON(http.StatusBadRequest, validator.FieldErrors{
			"banner": {"banner is not available in your locale"},
		})
		return
	}
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var next string
	if req.NextAction == dto.NextActionShare {
		next = fmt.Sprintf("%s/fb/banners/%s/share", h.cfg.SiteURL, instance.ID)
	} else {
		next = h.cfg.SiteURL + "/fb/banners"
	}

	if accepted {
		c.JSON(http.StatusAccepted, gin.H{
			"check_url": fmt.Sprintf("/fb/banners/%s/image-check", instance.ID),
			"next":      next,
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"next": next})
}

// ImageCheck reports whether the deferred image job has finished. The
// frontend polls this until it flips.
func (h *BannerHandler) ImageCheck(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "banner instance not found"})
		return
	}

	instance, err := h.banners.GetInstance(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_processed": instance.Processed})
}

// List renders the user's processed banner instances, or the first-run page
// for users who haven't made one yet.
func (h *BannerHandler) List(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	isNew, err := h.users.IsNew(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	if isNew {
		c.HTML(http.StatusOK, "first_run.html", gin.H{})
		return
	}

	instances, err := h.banners.ListProcessedForUser(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.HTML(http.StatusOK, "banner_list.html", gin.H{"Instances": instances})
}

// Share renders the share page for one of the user's own instances.
func (h *BannerHandler) Share(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "banner instance not found"})
		return
	}

	instance, err := h.banners.GetInstanceForUser(c.Request.Context(), id, userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.HTML(http.StatusOK, "banner_share.html", gin.H{
		"Instance": instance,
		"Next":     h.cfg.SiteURL + "/fb/post-banner-share",
	})
}

// Delete removes one of the user's instances and sends them back to the
// list. An invalid or foreign instance id deletes nothing.
func (h *BannerHandler) Delete(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.BannerInstanceDeleteRequest
	if err := c.ShouldBind(&req); err == nil {
		if id, parseErr := uuid.Parse(req.BannerInstance); parseErr == nil {
			// Ownership is enforced by the service; a miss is a no-op here.
			_ = h.banners.DeleteInstance(c.Request.Context(), id, userID)
		}
	}

	c.Redirect(http.StatusFound, h.cfg.SiteURL+"/fb/banners")
}

// FollowLink counts a click and forwards the visitor to the banner's
// destination. Unknown instances fall back to the download page.
func (h *BannerHandler) FollowLink(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, h.cfg.DownloadURL)
		return
	}

	target, found, err := h.banners.FollowLink(c.Request.Context(), id, isPlatformBot(c.GetHeader("User-Agent")))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	if !found {
		c.Redirect(http.StatusFound, h.cfg.DownloadURL)
		return
	}

	c.Redirect(http.StatusFound, target)
}

// PostShare lands the user back in the app after the platform's share
// dialog closes.
func (h *BannerHandler) PostShare(c *gin.Context) {
	c.Redirect(http.StatusFound, h.cfg.FacebookAppURL)
}

// userLocale prefers the request's negotiated locale, falling back to the
// locale cached on the user row.
func (h *BannerHandler) userLocale(c *gin.Context) string {
	if locale := requestLocale(c); locale != "" {
		return locale
	}
	if userID, err := response.GetUserID(c); err == nil {
		if user, err := h.users.Get(c.Request.Context(), userID); err == nil {
			return user.Locale
		}
	}
	return ""
}
