package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/rivr-station-service/internal/pkg/errors"
	"github.com/rivr-station-service/internal/pkg/utils"
	"github.com/rivr-station-service/internal/pkg/validator"
	"github.com/rivr-station-service/internal/usecase"
	"github.com/rivr-station-service/internal/usecase/dto"
)

// NameHandler - отображаемые имена станций
type NameHandler struct {
	namesUC *usecase.DisplayNameUseCase
	logger  *zap.Logger
}

func NewNameHandler(namesUC *usecase.DisplayNameUseCase, logger *zap.Logger) *NameHandler {
	return &NameHandler{
		namesUC: namesUC,
		logger:  logger,
	}
}

// Resolve godoc
// @Summary Resolve station display name
// @Description Имя по приоритету: пользовательское, из API, из карты, "Stream <id>". Имя из API запоминается.
// @Tags Names
// @Produce json
// @Param id path int true "Station ID"
// @Param api_name query string false "Name reported by the river API"
// @Param inline_name query string false "Name carried by the map feature"
// @Success 200 {object} utils.SuccessResponse{data=dto.NameResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/stations/{id}/name [get]
func (h *NameHandler) Resolve(c *fiber.Ctx) error {
	id, err := stationIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.ResolveNameRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.Wrap(err))
	}
	if err := validator.ValidateRequest(&req); err != nil {
		return utils.SendError(c, err)
	}

	resp, err := h.namesUC.ResolveDisplayName(c.UserContext(), id, req.APIName, req.InlineName)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, resp, nil)
}

// Info godoc
// @Summary Get stored name information
// @Tags Names
// @Produce json
// @Param id path int true "Station ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.NameResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/stations/{id}/name/info [get]
func (h *NameHandler) Info(c *fiber.Ctx) error {
	id, err := stationIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	resp, err := h.namesUC.GetNameInfo(c.UserContext(), id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, resp, nil)
}

// Set godoc
// @Summary Set custom display name
// @Description Пустое имя или имя из одних пробелов отклоняется, сохранённое имя не меняется.
// @Tags Names
// @Accept json
// @Produce json
// @Param id path int true "Station ID"
// @Param request body dto.SetNameRequest true "Custom name"
// @Success 200 {object} utils.SuccessResponse{data=dto.NameResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/stations/{id}/name [put]
func (h *NameHandler) Set(c *fiber.Ctx) error {
	id, err := stationIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.SetNameRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.Wrap(err))
	}
	if err := validator.ValidateRequest(&req); err != nil {
		return utils.SendError(c, err)
	}

	resp, err := h.namesUC.SetCustomDisplayName(c.UserContext(), id, req.DisplayName)
	if err != nil {
		if _, ok := errors.As(err); !ok {
			h.logger.Error("Failed to set display name", zap.Int64("station_id", id), zap.Error(err))
		}
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, resp, nil)
}

// Reset godoc
// @Summary Reset display name to the API name
// @Tags Names
// @Produce json
// @Param id path int true "Station ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.NameResponse}
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/stations/{id}/name/reset [post]
func (h *NameHandler) Reset(c *fiber.Ctx) error {
	id, err := stationIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	resp, err := h.namesUC.ResetToOriginalName(c.UserContext(), id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, resp, nil)
}
