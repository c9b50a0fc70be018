package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"cpm-backend/config"
	apimodels "cpm-backend/models/api"
	"cpm-backend/models/api/apierrors"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("request body parsing failed")
		return errors.New("unable to read request data")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := ctx.Params("id")
	if id == "" {
		return "", errors.New("record id is not specified")
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
}

// SendError maps the error taxonomy onto HTTP status codes. Internal
// errors never leak details to the client outside of dev mode.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, hMsg string) error {
	kind := apierrors.KindOf(err)
	devMode := config.Conf.App.DevMode != nil && *config.Conf.App.DevMode
	message := apierrors.MessageOf(err, devMode)
	switch kind {
	case apierrors.KindNotFound:
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(message))
	case apierrors.KindUnauthenticated:
		return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError(message))
	case apierrors.KindForbidden:
		if hint := apierrors.HintOf(err); hint != "" {
			message = message + ": " + hint
		}
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(message))
	case apierrors.KindValidation:
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(message))
	case apierrors.KindConflict:
		return ctx.Status(fiber.StatusConflict).JSON(apimodels.NewError(message))
	case apierrors.KindUpstream:
		logger.WithError(err).Error(hMsg)
		return ctx.Status(fiber.StatusBadGateway).JSON(apimodels.NewError(message))
	}
	logger.WithError(err).Error(hMsg)
	if !devMode {
		message = hMsg
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(message))
}
