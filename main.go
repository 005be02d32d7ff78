package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"

	"miniflow-backend/config"
	apiv1 "miniflow-backend/controllers/v1"
	"miniflow-backend/controllers/v1/dict"
	"miniflow-backend/fiberlog"
	"miniflow-backend/initializers"
	"miniflow-backend/middleware"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024, // limit of 50MB
	})
	app.Use(fiberRecover.New())

	swaggerCfg := swagger.Config{
		Path:     "/swagger",
		FilePath: "./docs/swagger.json",
	}
	app.Use(swagger.New(swaggerCfg))

	//api
	apiV1 := fiber.New()
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	app.Mount("/api/v1", apiV1)
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, PUT",
	}))
	apiv1.InitHealthApiRouters(apiV1)
	apiv1.InitAuthApiRouters(apiV1)

	//заявки и согласование
	flow := fiber.New()
	apiV1.Mount("/flow", flow)
	flow.Use(middleware.AuthorizationRequired())
	apiv1.InitProfileApiRouters(flow)
	apiv1.InitRequestApiRouters(flow)
	apiv1.InitApprovalApiRouters(flow)
	apiv1.InitTemplateApiRouters(flow)
	apiv1.InitAttachmentApiRouters(flow)

	//справочники
	dicts := fiber.New()
	apiV1.Mount("/dict", dicts)
	dicts.Use(middleware.AuthorizationRequired())
	dict.InitDepartmentDictApiRouters(dicts)

	//админка
	adminPanel := fiber.New()
	apiV1.Mount("/admin_panel", adminPanel)
	adminPanel.Use(middleware.AuthorizationRequired())
	adminPanel.Use(middleware.AdminRequired())
	apiv1.InitAdminApiRouters(adminPanel)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	wg := sync.WaitGroup{}
	go func() {
		<-c
		wg.Add(1)
		defer wg.Done()
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		time.Sleep(time.Second)
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
