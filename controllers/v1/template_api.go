package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"miniflow-backend/controllers"
	templatehandler "miniflow-backend/lib/template"
	"miniflow-backend/middleware"
	apimodels "miniflow-backend/models/api"
	templateapimodels "miniflow-backend/models/api/template"
)

type templateApiController struct {
	controllers.BaseAPIController
}

func InitTemplateApiRouters(app *fiber.App) {
	controller := templateApiController{}
	app.Route("template", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", middleware.AdminRequired(), controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", middleware.AdminRequired(), controller.update)
		})
	})
}

// @Summary Список
// @Tags Шаблон заявки
// @Description Список шаблонов, по умолчанию только активные
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	with_inactive		query 	bool	false		 "включая неактивные"
// @Success 200 {object} apimodels.Response{data=[]templateapimodels.TemplateView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flow/template [get]
func (c *templateApiController) list(ctx *fiber.Ctx) error {
	onlyActive := !ctx.QueryBool("with_inactive", false)
	list, err := templatehandler.Instance.List(onlyActive)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка шаблонов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Получение по ИД
// @Tags Шаблон заявки
// @Description Получение шаблона
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=templateapimodels.TemplateView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flow/template/{id} [get]
func (c *templateApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := templatehandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения шаблона")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Создание
// @Tags Шаблон заявки
// @Description Создание шаблона, доступно администратору
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 templateapimodels.TemplateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flow/template [post]
func (c *templateApiController) create(ctx *fiber.Ctx) error {
	var payload templateapimodels.TemplateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	id, err := templatehandler.Instance.Create(userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания шаблона")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Обновление
// @Tags Шаблон заявки
// @Description Обновление шаблона, доступно администратору
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 templateapimodels.TemplateData	true	"request body"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flow/template/{id} [put]
func (c *templateApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload templateapimodels.TemplateData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = templatehandler.Instance.Update(id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка обновления шаблона")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
