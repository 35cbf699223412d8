package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
	"travel-order-backend/config"
	apiv1 "travel-order-backend/controllers/v1"
	publicapi "travel-order-backend/controllers/v1/public"
	_ "travel-order-backend/docs"
	"travel-order-backend/fiberlog"
	"travel-order-backend/initializers"
	"travel-order-backend/middleware"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
)

// @title Travel Order API
// @version 1.0
// @description Travel order approval workflow
// @BasePath /
func main() {
	initializers.InitAllServices()

	bodyLimit := config.Conf.App.BodyLimitMb * 1024 * 1024
	app := fiber.New(fiber.Config{
		BodyLimit: bodyLimit,
	})
	app.Use(fiberRecover.New())

	swaggerCfg := swagger.Config{
		Path:     "/swagger",
		FilePath: "./docs/swagger.json",
	}
	app.Use(swagger.New(swaggerCfg))

	//api
	apiV1 := fiber.New(fiber.Config{
		BodyLimit: bodyLimit,
	})
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:  "GET, POST, PATCH, DELETE, PUT",
		ExposeHeaders: "Content-Disposition, X-Request-ID",
	}))
	apiV1.Use(middleware.WithBodyLimit(int64(bodyLimit)))
	if config.Conf.ErrNotify.Addr != "" {
		apiV1.Use(middleware.ErrNotify(config.Conf.ErrNotify.Addr))
	}
	app.Mount("/api/v1", apiV1)

	// public
	apiv1.InitAuthApiRouters(apiV1)
	publicapi.InitPublicBrandingApiRouters(apiV1)

	secured := []fiber.Handler{middleware.AuthorizationRequired(), middleware.RbacMiddleware()}

	apiv1.InitTravelOrderApiRouters(apiV1.Group("/travel-orders", secured...))
	apiv1.InitSettingsApiRouters(apiV1.Group("/settings", secured...))
	apiv1.InitPersonnelProfileApiRouters(apiV1.Group("/personnel", secured...))

	director := apiV1.Group("/director", secured...)
	apiv1.InitDirectorQueueApiRouters(director)
	apiv1.InitDirectorProfileApiRouters(director)

	admin := apiV1.Group("/admin", secured...)
	apiv1.InitAdminTravelOrderApiRouters(admin)
	apiv1.InitAdminPersonnelApiRouters(admin)
	apiv1.InitAdminDirectorApiRouters(admin)
	apiv1.InitAdminTimeLogApiRouters(admin)
	apiv1.InitAdminSettingsApiRouters(admin)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-c
		log.Info("Gracefully shutting down...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
