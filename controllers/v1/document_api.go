package apiv1

import (
	"encoding/json"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"cpm-backend/controllers"
	documenthandler "cpm-backend/lib/document"
	"cpm-backend/middleware"
	apimodels "cpm-backend/models/api"
	documentapimodels "cpm-backend/models/api/document"
	dbmodels "cpm-backend/models/db"
)

type documentApiController struct {
	controllers.BaseAPIController
}

func InitDocumentApiRouters(app *fiber.App) {
	controller := documentApiController{}
	app.Route("documents", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("iso", controller.listISO)
		router.Post("", controller.upload)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Delete("", controller.delete)
			idRoute.Put("container", controller.moveToContainer)
			idRoute.Put("version", controller.uploadNewVersion)
			idRoute.Get("history", controller.history)
		})
	})
}

// @Summary Document list
// @Tags Documents
// @Description Filtered, paginated list of documents
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 documentapimodels.DocumentFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]documentapimodels.DocumentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/list [post]
func (c *documentApiController) list(ctx *fiber.Ctx) error {
	var payload documentapimodels.DocumentFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "document list request failed")
	}
	list, rowCount, err := documenthandler.Instance.List(middleware.GetUserID(ctx), middleware.GetUserRole(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "document list request failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary ISO document list
// @Tags Documents
// @Description Flattened ISO listing with metadata
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 documentapimodels.DocumentFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]documentapimodels.ISODocumentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/iso [post]
func (c *documentApiController) listISO(ctx *fiber.Ctx) error {
	var payload documentapimodels.DocumentFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "iso document list request failed")
	}
	list, rowCount, err := documenthandler.Instance.ListISO(middleware.GetUserID(ctx), middleware.GetUserRole(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "iso document list request failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Document upload
// @Tags Documents
// @Description Multipart upload of a new document into a container
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   file				formData	file	true	"document file"
// @Param   name				formData	string	true	"document name"
// @Param   project_id			formData	string	true	"project id"
// @Param   status				formData	string	false	"target container status"
// @Param   revision_code		formData	string	false	"revision code"
// @Param   metadata			formData	string	false	"metadata JSON object"
// @Success 200 {object} apimodels.Response{data=documentapimodels.DocumentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents [post]
func (c *documentApiController) upload(ctx *fiber.Ctx) error {
	payload := documentapimodels.DocumentUploadData{
		Name:         ctx.FormValue("name"),
		ProjectID:    ctx.FormValue("project_id"),
		RevisionCode: ctx.FormValue("revision_code"),
		Status:       ctx.FormValue("status"),
	}
	if raw := ctx.FormValue("metadata"); raw != "" {
		md := dbmodels.Metadata{}
		if err := json.Unmarshal([]byte(raw), &md); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("metadata is not a valid JSON object"))
		}
		payload.Metadata = md
	}
	if err := payload.Validate(); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "document upload failed")
	}
	fileName, contentType, file, err := c.readFile(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, events, err := documenthandler.Instance.Upload(ctx.UserContext(), middleware.GetUserID(ctx), middleware.GetUserRole(ctx), payload, fileName, contentType, file)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "document upload failed")
	}
	dispatchEvents(events)
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Document
// @Tags Documents
// @Description Single document with container and uploader
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string	true	"rec ID"
// @Success 200 {object} apimodels.Response{data=documentapimodels.DocumentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id} [get]
func (c *documentApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := documenthandler.Instance.GetByID(middleware.GetUserID(ctx), middleware.GetUserRole(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "document fetch failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Container move
// @Tags Documents
// @Description Moves the document to a container, the document takes the container's status
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 documentapimodels.ContainerMoveData	true	"request body"
// @Param   id          		path    string	true	"rec ID"
// @Success 200 {object} apimodels.Response{data=documentapimodels.DocumentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/container [put]
func (c *documentApiController) moveToContainer(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload documentapimodels.ContainerMoveData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "container move failed")
	}
	view, events, err := documenthandler.Instance.MoveToContainer(ctx.UserContext(), middleware.GetUserID(ctx), middleware.GetUserRole(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "container move failed")
	}
	dispatchEvents(events)
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary New document version
// @Tags Documents
// @Description Multipart upload of a new file version, the version increments
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   file				formData	file	true	"document file"
// @Param   revision_code		formData	string	false	"revision code"
// @Param   comment				formData	string	false	"history comment"
// @Param   id          		path    string	true	"rec ID"
// @Success 200 {object} apimodels.Response{data=documentapimodels.DocumentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/version [put]
func (c *documentApiController) uploadNewVersion(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	payload := documentapimodels.NewVersionData{
		RevisionCode: ctx.FormValue("revision_code"),
		Comment:      ctx.FormValue("comment"),
	}
	fileName, contentType, file, err := c.readFile(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, events, err := documenthandler.Instance.UploadNewVersion(ctx.UserContext(), middleware.GetUserID(ctx), middleware.GetUserRole(ctx), id, payload, fileName, contentType, file)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "new version upload failed")
	}
	dispatchEvents(events)
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Document history
// @Tags Documents
// @Description Upload and move ledger, newest first
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string	true	"rec ID"
// @Success 200 {object} apimodels.Response{data=[]documentapimodels.DocumentHistoryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/history [get]
func (c *documentApiController) history(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := documenthandler.Instance.History(middleware.GetUserID(ctx), middleware.GetUserRole(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "document history fetch failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Document deletion
// @Tags Documents
// @Description Deletes the document with its history and stored files
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string	true	"rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id} [delete]
func (c *documentApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = documenthandler.Instance.Delete(ctx.UserContext(), middleware.GetUserID(ctx), middleware.GetUserRole(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "document deletion failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse("ok"))
}

func (c *documentApiController) readFile(ctx *fiber.Ctx) (fileName, contentType string, data []byte, err error) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return "", "", nil, err
	}
	data, err = readMultipartFile(fileHeader)
	if err != nil {
		return "", "", nil, err
	}
	return fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data, nil
}

func readMultipartFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
