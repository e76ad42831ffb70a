package main

import (
	"time"

	"github.com/dilshat/mail-dispatch/controller"
	"github.com/dilshat/mail-dispatch/dao"
	"github.com/dilshat/mail-dispatch/log"
	"github.com/dilshat/mail-dispatch/pdfcache"
	"github.com/dilshat/mail-dispatch/progress"
	"github.com/dilshat/mail-dispatch/seed"
	"github.com/dilshat/mail-dispatch/service"
	"github.com/dilshat/mail-dispatch/util"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// @title Mail dispatch HTTP API
// @description Outbound mail job workspace backend

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Error.Println(err)
	}
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	zap.ReplaceGlobals(logger)

	//create db client
	dbClient, err := dao.GetClient(util.GetEnv("DB_PATH", "mail.db"))
	if err != nil {
		log.Fatal(err)
	}

	//load seed data; on failure the service starts with an empty document
	seedData, seedErr := seed.Load(util.GetEnv("SEED_PATH", "seed.json"))
	log.ErrIfErr("Error loading seed data", seedErr)

	cache := pdfcache.New(dbClient)
	//seeded uploads ship their data urls inline
	for _, doc := range seedData.UploadedFiles {
		if doc.CacheKey != "" && doc.FileUrl != "" {
			cache.Hydrate(doc.CacheKey, doc.FileUrl)
		}
	}

	mailService := service.NewService(
		dao.NewMailGroupDao(dbClient),
		dao.NewJobDao(dbClient),
		cache,
		progress.NewTracker(),
		seedData,
		seedErr,
		time.Duration(util.GetEnvAsInt("VALIDATION_TICK_MS", 150))*time.Millisecond,
	)

	//attach http handlers
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.BodyLimit(util.GetEnv("BODY_LIMIT", "32M")))

	bindRoutes(e, mailService)

	//start http server
	log.Fatal(e.Start(":" + util.GetEnv("HTTP_PORT", "8080")))
}

func bindRoutes(e *echo.Echo, srv service.Service) {
	limiter := controller.NewRateLimiter(
		rate.Limit(util.GetEnvAsInt("PDF_RPS", 5)),
		util.GetEnvAsInt("PDF_BURST", 10))

	e.GET("/api/data", controller.GetDataFunc(srv))
	e.GET("/api/pdfs/*", controller.GetServePdfFunc(util.GetEnv("PDF_DIR", "pdfs"), limiter))

	e.PUT("/api/wizard/selection", controller.GetSyncGroupsFunc(srv))
	e.GET("/api/wizard/groups", controller.GetGroupsFunc(srv))
	e.POST("/api/wizard/groups/:id/documents", controller.GetAttachFunc(srv))
	e.DELETE("/api/wizard/groups/:id/documents/:docId", controller.GetDetachFunc(srv))

	e.POST("/api/wizard/validation", controller.GetStartValidationFunc(srv))
	e.GET("/api/wizard/validation", controller.GetValidationStatusFunc(srv))
	e.POST("/api/wizard/validation/:id/skip", controller.GetSkipExceptionFunc(srv))
	e.POST("/api/wizard/validation/:id/fix", controller.GetFixExceptionFunc(srv))

	e.POST("/api/jobs", controller.GetDispatchFunc(srv))
	e.GET("/api/jobs", controller.GetJobsFunc(srv))
	e.GET("/api/jobs/:id/tracking", controller.GetTimelineFunc(srv))
	e.GET("/api/reports/summary", controller.GetReportFunc(srv))
}
