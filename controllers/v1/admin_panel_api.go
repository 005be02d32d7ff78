package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"miniflow-backend/controllers"
	audithandler "miniflow-backend/lib/audit"
	usershandler "miniflow-backend/lib/users"
	apimodels "miniflow-backend/models/api"
	auditapimodels "miniflow-backend/models/api/audit"
	usersapimodels "miniflow-backend/models/api/users"
)

type adminPanelApiController struct {
	controllers.BaseAPIController
}

func InitAdminApiRouters(app *fiber.App) {
	controller := adminPanelApiController{}
	app.Route("users", func(router fiber.Router) {
		router.Post("list", controller.userList)
		router.Post("", controller.userCreate)
		router.Get(":id", controller.userGet)
	})
	app.Route("audit", func(router fiber.Router) {
		router.Post("list", controller.auditList)
	})
}

// @Summary Создание пользователя
// @Tags Админ панель
// @Description Создание пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 usersapimodels.UserCreateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin_panel/users [post]
func (c *adminPanelApiController) userCreate(ctx *fiber.Ctx) error {
	var payload usersapimodels.UserCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := usershandler.Instance.Create(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания пользователя")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Список пользователей
// @Tags Админ панель
// @Description Список пользователей с поиском по имени и почте
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 usersapimodels.UserFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]usersapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin_panel/users/list [post]
func (c *adminPanelApiController) userList(ctx *fiber.Ctx) error {
	var payload usersapimodels.UserFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := usershandler.Instance.List(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка пользователей")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Получение пользователя
// @Tags Админ панель
// @Description Получение пользователя по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=usersapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin_panel/users/{id} [get]
func (c *adminPanelApiController) userGet(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := usershandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения пользователя")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Журнал аудита
// @Tags Админ панель
// @Description Журнал действий по заявкам и этапам
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 auditapimodels.AuditFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]auditapimodels.AuditLogView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin_panel/audit/list [post]
func (c *adminPanelApiController) auditList(ctx *fiber.Ctx) error {
	var payload auditapimodels.AuditFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := audithandler.Instance.List(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения журнала аудита")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}
