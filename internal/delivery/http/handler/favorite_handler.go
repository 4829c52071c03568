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

// FavoriteHandler обрабатывает избранное пользователя. Пользователь передаётся в X-User-ID.
type FavoriteHandler struct {
	favoriteUC *usecase.FavoriteUseCase
	syncUC     *usecase.OfflineSyncUseCase
	logger     *zap.Logger
}

// NewFavoriteHandler создает новый экземпляр FavoriteHandler
func NewFavoriteHandler(favoriteUC *usecase.FavoriteUseCase, syncUC *usecase.OfflineSyncUseCase, logger *zap.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteUC: favoriteUC,
		syncUC:     syncUC,
		logger:     logger,
	}
}

// List godoc
// @Summary List favorite stations
// @Tags Favorites
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Success 200 {object} utils.SuccessResponse{data=[]domain.FavoriteEntry}
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/v1/favorites [get]
func (h *FavoriteHandler) List(c *fiber.Ctx) error {
	favorites, err := h.favoriteUC.ListFavorites(c.UserContext(), userID(c))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, favorites, &utils.Meta{Total: len(favorites)})
}

// Add godoc
// @Summary Add station to favorites
// @Description Если name не передан, сохраняется текущее отображаемое имя станции. Кеш станции прогревается в фоне.
// @Tags Favorites
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param request body dto.AddFavoriteRequest true "Favorite"
// @Success 201 {object} utils.SuccessResponse{data=domain.FavoriteEntry}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/v1/favorites [post]
func (h *FavoriteHandler) Add(c *fiber.Ctx) error {
	var req dto.AddFavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.Wrap(err))
	}

	fav, err := h.favoriteUC.AddFavorite(c.UserContext(), userID(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendCreated(c, fav)
}

// Update godoc
// @Summary Update favorite description, color or image
// @Tags Favorites
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param station_id path int true "Station ID"
// @Param request body dto.UpdateFavoriteRequest true "Fields to change"
// @Success 200 {object} utils.SuccessResponse{data=domain.FavoriteEntry}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/favorites/{station_id} [patch]
func (h *FavoriteHandler) Update(c *fiber.Ctx) error {
	id, err := stationIDParam(c, "station_id")
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.UpdateFavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.Wrap(err))
	}

	fav, err := h.favoriteUC.UpdateFavorite(c.UserContext(), userID(c), id, req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, fav, nil)
}

// Rename godoc
// @Summary Rename favorite
// @Tags Favorites
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param station_id path int true "Station ID"
// @Param request body dto.RenameFavoriteRequest true "New name"
// @Success 200 {object} utils.SuccessResponse{data=domain.FavoriteEntry}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/favorites/{station_id}/name [put]
func (h *FavoriteHandler) Rename(c *fiber.Ctx) error {
	id, err := stationIDParam(c, "station_id")
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.RenameFavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.Wrap(err))
	}
	if err := validator.ValidateRequest(&req); err != nil {
		return utils.SendError(c, err)
	}

	fav, err := h.favoriteUC.RenameFavorite(c.UserContext(), userID(c), id, req.Name)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, fav, nil)
}

// Remove godoc
// @Summary Remove station from favorites
// @Tags Favorites
// @Param X-User-ID header string true "User ID"
// @Param station_id path int true "Station ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/favorites/{station_id} [delete]
func (h *FavoriteHandler) Remove(c *fiber.Ctx) error {
	id, err := stationIDParam(c, "station_id")
	if err != nil {
		return utils.SendError(c, err)
	}

	if err := h.favoriteUC.RemoveFavorite(c.UserContext(), userID(c), id); err != nil {
		return utils.SendError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Sync godoc
// @Summary Refresh cached data of all favorites
// @Description Синхронно обновляет кеш каждой станции из избранного (одна повторная попытка при сетевой ошибке). async=true ставит запросы в очередь воркера.
// @Tags Favorites
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param async query bool false "Enqueue for the prefetch worker"
// @Success 200 {object} utils.SuccessResponse{data=dto.SyncSummary}
// @Success 202 {object} utils.SuccessResponse{data=dto.SyncEnqueuedResponse}
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/v1/favorites/sync [post]
func (h *FavoriteHandler) Sync(c *fiber.Ctx) error {
	user := userID(c)

	if c.QueryBool("async") {
		resp, err := h.syncUC.EnqueueUserFavorites(c.UserContext(), user)
		if err != nil {
			h.logger.Warn("Failed to enqueue favorites sync", zap.String("user_id", user), zap.Error(err))
			return utils.SendError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(utils.SuccessResponse{Data: resp})
	}

	summary, err := h.syncUC.SyncUserFavorites(c.UserContext(), user)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, summary, &utils.Meta{Total: summary.Total})
}
