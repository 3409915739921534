package handler

import (
	"net/url"
	"testing"

	"github.com/badgeworks/affiliates/internal/model"
	"github.com/badgeworks/affiliates/internal/repository"
	"github.com/badgeworks/affiliates/internal/service"
	"github.com/badgeworks/affiliates/internal/token"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLinkRouter(t *testing.T) (*gin.Engine, *gorm.DB, *fakeMailer) {
	t.Helper()
	db := setupTestDB(t)
	cfg := testConfig()
	mail := &fakeMailer{}

	links := service.NewLinkService(
		repository.NewLinkRepository(db),
		repository.NewAccountRepository(db),
		token.New([]byte("link-secret"), cfg.LinkActivationWindow),
		mail,
		cfg.SiteURL,
	)
	linkHandler := NewLinkHandler(links, nil, cfg)

	router := gin.New()
	router.GET("/fb/links/activate/:code", linkHandler.Activate)
	authed := router.Group("/fb", fakeAuth("100001"))
	authed.POST("/links", linkHandler.LinkAccounts)
	authed.POST("/links/remove", linkHandler.Remove)
	return router, db, mail
}

func seedLinkableAccount(t *testing.T, db *gorm.DB, email string) {
	t.Helper()
	user := &model.FacebookUser{ID: "100001", LeaderboardPosition: model.UnrankedPosition}
	require.NoError(t, db.Create(user).Error)
	account := &model.Account{Email: email, PasswordHash: "x"}
	require.NoError(t, db.Create(account).Error)
}

func TestLinkAccounts_UnknownEmailStillOK(t *testing.T) {
	router, db, mail := setupLinkRouter(t)
	seedLinkableAccount(t, db, "owner@example.com")

	rec := postForm(router, "/fb/links", url.Values{"affiliates_email": {"dne@example.com"}})

	assert.Equal(t, 200, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Zero(t, mail.count())
}

func TestLinkAccounts_SendsActivationEmail(t *testing.T) {
	router, db, mail := setupLinkRouter(t)
	seedLinkableAccount(t, db, "owner@example.com")

	rec := postForm(router, "/fb/links", url.Values{"affiliates_email": {"owner@example.com"}})

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, 1, mail.count())

	var link model.AccountLink
	require.NoError(t, db.Where("facebook_user_id = ?", "100001").First(&link).Error)
	assert.False(t, link.IsActive)
	assert.NotEmpty(t, link.ActivationCode)
}

func TestLinkAccounts_ServerErrorStillOK(t *testing.T) {
	router, db, mail := setupLinkRouter(t)
	seedLinkableAccount(t, db, "owner@example.com")

	// Break the store so the create fails mid-flight.
	require.NoError(t, db.Migrator().DropTable(&model.Account{}))

	rec := postForm(router, "/fb/links", url.Values{"affiliates_email": {"owner@example.com"}})

	assert.Equal(t, 200, rec.Code)
	assert.Zero(t, mail.count())
}

func TestLinkAccounts_MalformedEmailStillOK(t *testing.T) {
	router, db, mail := setupLinkRouter(t)
	seedLinkableAccount(t, db, "owner@example.com")

	rec := postForm(router, "/fb/links", url.Values{"affiliates_email": {"not-an-email"}})

	assert.Equal(t, 200, rec.Code)
	assert.Zero(t, mail.count())
}

func TestActivate_RedirectsToApp(t *testing.T) {
	router, db, _ := setupLinkRouter(t)
	seedLinkableAccount(t, db, "owner@example.com")

	postForm(router, "/fb/links", url.Values{"affiliates_email": {"owner@example.com"}})

	var link model.AccountLink
	require.NoError(t, db.Where("facebook_user_id = ?", "100001").First(&link).Error)

	rec := get(router, "/fb/links/activate/"+link.ActivationCode)

	assert.Equal(t, 302, rec.Code)
	assert.Equal(t, testConfig().FacebookAppURL, rec.Header().Get("Location"))

	require.NoError(t, db.First(&link, "id = ?", link.ID).Error)
	assert.True(t, link.IsActive)
}

func TestActivate_BadCodeIs404(t *testing.T) {
	router, _, _ := setupLinkRouter(t)

	rec := get(router, "/fb/links/activate/1abc2-0123456789abcdef0123")

	assert.Equal(t, 404, rec.Code)
}

func TestRemoveLink_NoLinkIs404(t *testing.T) {
	router, db, _ := setupLinkRouter(t)
	seedLinkableAccount(t, db, "owner@example.com")

	rec := postForm(router, "/fb/links/remove", url.Values{})

	assert.Equal(t, 404, rec.Code)
}

func TestRemoveLink_Redirects(t *testing.T) {
	router, db, _ := setupLinkRouter(t)
	seedLinkableAccount(t, db, "owner@example.com")

	postForm(router, "/fb/links", url.Values{"affiliates_email": {"owner@example.com"}})

	rec := postForm(router, "/fb/links/remove", url.Values{})

	assert.Equal(t, 302, rec.Code)
	assert.Equal(t, testConfig().SiteURL+"/fb/banners", rec.Header().Get("Location"))

	var count int64
	require.NoError(t, db.Model(&model.AccountLink{}).Count(&count).Error)
	assert.Zero(t, count)
}
