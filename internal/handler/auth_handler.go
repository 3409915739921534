package handler

import (
	"log"
	"net/http"

	"github.com/badgeworks/affiliates/internal/config"
	"github.com/badgeworks/affiliates/internal/fbauth"
	"github.com/badgeworks/affiliates/internal/middleware"
	"github.com/badgeworks/affiliates/internal/service"
	"github.com/badgeworks/affiliates/pkg/response"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users   service.UserService
	banners service.BannerService
	auth    *middleware.AuthMiddleware
	cfg     *config.Config
}

func NewAuthHandler(users service.UserService, banners service.BannerService, auth *middleware.AuthMiddleware, cfg *config.Config) *AuthHandler {
	return &AuthHandler{users: users, banners: banners, auth: auth, cfg: cfg}
}

// LoadApp authenticates the canvas entry POST and routes the user to the
// right part of the app.
func (h *AuthHandler) LoadApp(c *gin.Context) {
	signedRequest := c.PostForm("signed_request")
	if signedRequest == "" {
		// App wasn't loaded within a canvas, send them to the landing page.
		c.Redirect(http.StatusFound, h.cfg.SiteURL+"/")
		return
	}

	payload := fbauth.Decode(signedRequest, []byte(h.cfg.FacebookAppSecret))
	if payload == nil {
		c.Redirect(http.StatusFound, h.cfg.SiteURL+"/")
		return
	}

	// Safari won't accept our session cookie inside the iframe until the
	// workaround has primed it.
	userAgent := c.GetHeader("User-Agent")
	if isSafari(userAgent) {
		if _, err := c.Cookie(safariWorkaroundCookie); err != nil {
			fbRedirect(c, h.cfg.SiteURL+"/fb/safari-workaround", true)
			return
		}
	}

	user, _, err := h.users.Authenticate(c.Request.Context(), payload)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	if user == nil {
		// Not yet authorized the app, show the promo instead.
		fbRedirect(c, h.cfg.SiteURL+"/fb/pre-auth-promo", false)
		return
	}

	session, err := h.auth.IssueSession(user.ID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	h.auth.SetSessionCookie(c, session)

	fbRedirect(c, h.cfg.SiteURL+"/fb/banners", false)
}

// PreAuthPromo shows banners to users who haven't authorized the app yet.
func (h *AuthHandler) PreAuthPromo(c *gin.Context) {
	locale := requestLocale(c)

	banners, err := h.banners.ListForLocale(c.Request.Context(), locale, 6)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	if len(banners) == 0 {
		banners, err = h.banners.ListForLocale(c.Request.Context(), h.cfg.DefaultLocale, 6)
		if err != nil {
			response.ResponseError(c, err)
			return
		}
	}

	c.HTML(http.StatusOK, "pre_auth_promo.html", gin.H{
		"AppID":        h.cfg.FacebookAppID,
		"AppNamespace": h.cfg.FacebookNamespace,
		"Banners":      banners,
	})
}

// Deauthorize is the callback the platform pings when a user removes the
// app. Purges the user and all their data.
func (h *AuthHandler) Deauthorize(c *gin.Context) {
	signedRequest := c.PostForm("signed_request")
	if signedRequest == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No signed_request parameter found."})
		return
	}

	payload := fbauth.Decode(signedRequest, []byte(h.cfg.FacebookAppSecret))
	if payload == nil || payload.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "signed_request invalid."})
		return
	}

	if err := h.users.Purge(c.Request.Context(), payload.UserID); err != nil {
		response.ResponseError(c, err)
		return
	}

	log.Printf("purged data for de-authorized user %s", payload.UserID)
	c.JSON(http.StatusOK, gin.H{"success": "User data purged successfully."})
}

// SafariWorkaround hands Safari a first-party cookie so that later
// third-party requests from the iframe may set the session cookie.
func (h *AuthHandler) SafariWorkaround(c *gin.Context) {
	c.SetCookie(safariWorkaroundCookie, "1", 0, "/", "", true, false)
	c.Redirect(http.StatusFound, h.cfg.FacebookAppURL)
}
