package handler

import (
	"context"
	stderrors "errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/rivr-station-service/internal/domain"
	"github.com/rivr-station-service/internal/pkg/errors"
	"github.com/rivr-station-service/internal/pkg/utils"
	"github.com/rivr-station-service/internal/usecase"
)

// StationHandler обрабатывает запросы данных станции и панели
type StationHandler struct {
	stationUC *usecase.StationDataUseCase
	panelUC   *usecase.StationPanelUseCase
	logger    *zap.Logger
}

// NewStationHandler создает новый экземпляр StationHandler
func NewStationHandler(stationUC *usecase.StationDataUseCase, panelUC *usecase.StationPanelUseCase, logger *zap.Logger) *StationHandler {
	return &StationHandler{
		stationUC: stationUC,
		panelUC:   panelUC,
		logger:    logger,
	}
}

// GetStation godoc
// @Summary Get station data
// @Description Данные станции из локального кеша, при промахе из удалённого API. refresh=true всегда идёт в сеть.
// @Tags Stations
// @Produce json
// @Param id path int true "Station ID"
// @Param refresh query bool false "Force network fetch"
// @Success 200 {object} utils.SuccessResponse{data=dto.StationDataResult}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Failure 499 {object} utils.ErrorResponse
// @Failure 504 {object} utils.ErrorResponse
// @Router /api/v1/stations/{id} [get]
func (h *StationHandler) GetStation(c *fiber.Ctx) error {
	id, err := stationIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	ctx := c.UserContext()
	if c.QueryBool("refresh") {
		result, err := h.stationUC.RefreshStationData(ctx, id)
		if err != nil {
			return utils.SendError(c, cancellationAware(err))
		}
		return utils.SendSuccess(c, result, &utils.Meta{Provenance: string(result.Provenance)})
	}

	result, err := h.stationUC.FetchStationData(ctx, id)
	if err != nil {
		return utils.SendError(c, cancellationAware(err))
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Provenance: string(result.Provenance),
		Stale:      result.Stale,
	})
}

// GetPanel godoc
// @Summary Get station info panel
// @Description Состояние панели станции: Loaded с данными или Failed с баннером. Имя всегда разрешено.
// @Tags Stations
// @Produce json
// @Param id path int true "Station ID"
// @Param lat query number false "Latitude from the map"
// @Param lon query number false "Longitude from the map"
// @Param elevation query number false "Elevation"
// @Param name query string false "Inline name from the map feature"
// @Param refresh query bool false "Force network fetch"
// @Success 200 {object} utils.SuccessResponse{data=dto.PanelView}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 499 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/stations/{id}/panel [get]
func (h *StationHandler) GetPanel(c *fiber.Ctx) error {
	id, err := stationIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	rec := domain.StationRecord{
		StationID:  id,
		InlineName: c.Query("name"),
	}

	lat, err := optionalFloatQuery(c, "lat")
	if err != nil {
		return utils.SendError(c, err)
	}
	lon, err := optionalFloatQuery(c, "lon")
	if err != nil {
		return utils.SendError(c, err)
	}
	if (lat == nil) != (lon == nil) {
		return utils.SendError(c, errors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{
			"reason": "lat and lon must be provided together",
		}))
	}
	if lat != nil {
		rec.Coordinates = &domain.Coordinates{Lat: *lat, Lon: *lon}
	}
	if rec.Elevation, err = optionalFloatQuery(c, "elevation"); err != nil {
		return utils.SendError(c, err)
	}

	view, err := h.panelUC.Load(c.UserContext(), rec, c.QueryBool("refresh"))
	if err != nil {
		if stderrors.Is(err, usecase.ErrCallerGone) || stderrors.Is(err, context.Canceled) {
			return utils.SendError(c, errors.ErrRequestCancelled)
		}
		h.logger.Error("Failed to load station panel", zap.Int64("station_id", id), zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, view, nil)
}

// cancellationAware: клиент закрыл соединение раньше ответа
func cancellationAware(err error) error {
	if stderrors.Is(err, context.Canceled) {
		return errors.ErrRequestCancelled
	}
	return err
}
