package server

import (
	"strings"
	"time"

	"github.com/badgeworks/affiliates/internal/basket"
	"github.com/badgeworks/affiliates/internal/config"
	"github.com/badgeworks/affiliates/internal/graph"
	"github.com/badgeworks/affiliates/internal/handler"
	"github.com/badgeworks/affiliates/internal/middleware"
	"github.com/badgeworks/affiliates/internal/queue"
	"github.com/badgeworks/affiliates/internal/repository"
	"github.com/badgeworks/affiliates/internal/service"
	"github.com/badgeworks/affiliates/internal/token"
	"github.com/badgeworks/affiliates/internal/worker"
	"github.com/badgeworks/affiliates/pkg/mailer"
	"github.com/badgeworks/affiliates/pkg/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine *gin.Engine
	worker *worker.Worker
	cfg    *config.Config
}

// New wires repositories, services and handlers together and builds the
// router. imageStorage may be nil in tests.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, imageStorage storage.ImageStorage) *Server {
	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	linkRepo := repository.NewLinkRepository(db)
	bannerRepo := repository.NewBannerRepository(db)
	instanceRepo := repository.NewInstanceRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	tasks := queue.NewRedisQueue(rdb)
	graphClient := graph.NewClient(cfg.GraphURL)
	mail := mailer.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPUser, cfg.SMTPPass, cfg.FromEmail)
	tokens := token.New([]byte(cfg.FacebookAppSecret), cfg.LinkActivationWindow)

	userService := service.NewUserService(userRepo, instanceRepo, tasks, graphClient, imageStorage, mail, cfg.ClickGoalEmail)
	linkService := service.NewLinkService(linkRepo, accountRepo, tokens, mail, cfg.SiteURL)
	bannerService := service.NewBannerService(bannerRepo, instanceRepo, tasks, imageStorage)
	leaderboardService := service.NewLeaderboardService(userRepo)
	statsService := service.NewStatsService(statsRepo)
	newsletterService := service.NewNewsletterService(basket.NewClient(cfg.BasketURL), cfg.BasketMailingList)

	authMiddleware := middleware.NewAuthMiddleware(cfg.SessionSecret, cfg.SessionMaxAge)

	authHandler := handler.NewAuthHandler(userService, bannerService, authMiddleware, cfg)
	bannerHandler := handler.NewBannerHandler(bannerService, userService, cfg)
	linkHandler := handler.NewLinkHandler(linkService, rdb, cfg)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService)
	newsletterHandler := handler.NewNewsletterHandler(newsletterService, userService, cfg)
	statsHandler := handler.NewStatsHandler(statsService)
	pageHandler := handler.NewPageHandler(cfg)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()
	engine.LoadHTMLGlob("templates/*.html")

	engine.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine.GET("/", pageHandler.Landing)

	fb := engine.Group("/fb")
	{
		fb.POST("/load", authHandler.LoadApp)
		fb.GET("/pre-auth-promo", authHandler.PreAuthPromo)
		fb.POST("/deauthorize", authHandler.Deauthorize)
		fb.GET("/safari-workaround", authHandler.SafariWorkaround)

		// Click redirect and link activation are reachable without a session:
		// clicks come from arbitrary visitors, activations from email links.
		fb.GET("/banners/:id/link", bannerHandler.FollowLink)
		fb.GET("/links/activate/:code", linkHandler.Activate)
		fb.GET("/post-banner-share", bannerHandler.PostShare)
		fb.GET("/post-invite", pageHandler.PostInvite)

		authed := fb.Group("")
		authed.Use(authMiddleware.RequireAuth())
		{
			authed.GET("/banners", bannerHandler.List)
			authed.GET("/banners/create", bannerHandler.CreatePage)
			authed.POST("/banners/create", bannerHandler.Create)
			authed.GET("/banners/:id/image-check", bannerHandler.ImageCheck)
			authed.GET("/banners/:id/share", bannerHandler.Share)
			authed.POST("/banners/delete", bannerHandler.Delete)

			authed.POST("/links", linkHandler.LinkAccounts)
			authed.POST("/links/remove", linkHandler.Remove)

			authed.GET("/leaderboard", leaderboardHandler.Leaderboard)
			authed.GET("/faq", pageHandler.FAQ)
			authed.GET("/invite", pageHandler.Invite)
			authed.POST("/newsletter/subscribe", newsletterHandler.Subscribe)
			authed.GET("/stats/:year/:month", statsHandler.Monthly)
		}
	}

	taskWorker := worker.New(tasks, instanceRepo, statsRepo, userService, graphClient, imageStorage, cfg.CloudinaryUploadFolder)

	return &Server{engine: engine, worker: taskWorker, cfg: cfg}
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) Worker() *worker.Worker { return s.worker }

func (s *Server) Run() error {
	return s.engine.Run(":" + s.cfg.Port)
}
