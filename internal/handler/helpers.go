package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// safariWorkaroundCookie marks that the third-party-cookie workaround has
// already been applied for this browser.
const safariWorkaroundCookie = "safari_workaround"

// requestLocale negotiates the request's locale: explicit ?locale= first,
// then the Accept-Language header's top choice. Empty means "any".
func requestLocale(c *gin.Context) string {
	if locale := c.Query("locale"); locale != "" {
		return strings.ToLower(locale)
	}

	header := c.GetHeader("Accept-Language")
	if header == "" {
		return ""
	}
	first, _, _ := strings.Cut(header, ",")
	tag, _, _ := strings.Cut(strings.TrimSpace(first), ";")
	return strings.ToLower(tag)
}

// isPlatformBot spots the platform's link-preview crawler so its visits
// never count as clicks.
func isPlatformBot(userAgent string) bool {
	return strings.Contains(strings.ToLower(userAgent), "facebookexternalhit")
}

// isSafari matters because Safari blocks third-party cookies inside the
// canvas iframe until we've run the workaround.
func isSafari(userAgent string) bool {
	return strings.Contains(userAgent, "Safari") && !strings.Contains(userAgent, "Chrome")
}

// fbRedirect breaks out of the platform iframe with a scripted redirect;
// a plain 302 would navigate only the frame.
func fbRedirect(c *gin.Context, url string, topWindow bool) {
	c.HTML(200, "fb_redirect.html", gin.H{
		"URL": url,
		"Top": topWindow,
	})
}
