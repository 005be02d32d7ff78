package apiv1

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"miniflow-backend/controllers"
	attachmenthandler "miniflow-backend/lib/attachment"
	"miniflow-backend/middleware"
	apimodels "miniflow-backend/models/api"
	attachmentapimodels "miniflow-backend/models/api/attachment"
)

type attachmentApiController struct {
	controllers.BaseAPIController
}

func InitAttachmentApiRouters(app *fiber.App) {
	controller := attachmentApiController{}
	app.Route("request/:id/attachment", func(router fiber.Router) {
		router.Post("", controller.upload)
		router.Get("", controller.list)
	})
	app.Route("attachment/:id", func(router fiber.Router) {
		router.Get("", controller.download)
		router.Delete("", controller.delete)
	})
}

// @Summary Загрузка
// @Tags Вложение
// @Description Загрузка файла к заявке (multipart, поле file)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "request ID"
// @Param	file				formData	file	true	"файл"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flow/request/{id}/attachment [post]
func (c *attachmentApiController) upload(ctx *fiber.Ctx) error {
	requestID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не удалось получить файл из запроса"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не удалось прочитать файл"))
	}
	defer file.Close()
	body, err := io.ReadAll(file)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не удалось прочитать файл"))
	}
	userID := middleware.GetUserID(ctx)
	id, err := attachmenthandler.Instance.Upload(ctx.Context(), userID, middleware.IsAdmin(ctx), requestID,
		attachmentapimodels.FileData{
			Name:        fileHeader.Filename,
			ContentType: fileHeader.Header.Get(fiber.HeaderContentType),
			Body:        body,
		})
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка загрузки вложения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Список
// @Tags Вложение
// @Description Список вложений заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "request ID"
// @Success 200 {object} apimodels.Response{data=[]attachmentapimodels.AttachmentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flow/request/{id}/attachment [get]
func (c *attachmentApiController) list(ctx *fiber.Ctx) error {
	requestID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	list, err := attachmenthandler.Instance.ListByRequest(userID, middleware.IsAdmin(ctx), requestID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка вложений")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Скачивание
// @Tags Вложение
// @Description Скачивание файла вложения
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flow/attachment/{id} [get]
func (c *attachmentApiController) download(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	file, err := attachmenthandler.Instance.Download(ctx.Context(), userID, middleware.IsAdmin(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка скачивания вложения")
	}
	ctx.Set(fiber.HeaderContentType, file.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Name+`"`)
	return ctx.Status(fiber.StatusOK).Send(file.Body)
}

// @Summary Удаление
// @Tags Вложение
// @Description Удаление вложения черновика
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flow/attachment/{id} [delete]
func (c *attachmentApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	err = attachmenthandler.Instance.Delete(ctx.Context(), userID, middleware.IsAdmin(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления вложения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
