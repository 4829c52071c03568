package usecase

import (
	"context"
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/rivr-station-service/internal/domain"
	"github.com/rivr-station-service/internal/pkg/errors"
	"github.com/rivr-station-service/internal/pkg/utils"
	"github.com/rivr-station-service/internal/usecase/dto"
)

// ErrCallerGone - результат пришёл, когда вызывающий уже ушёл; результат отброшен
var ErrCallerGone = stderrors.New("station panel: caller is no longer waiting")

// StationPanelUseCase собирает состояние информационной панели станции
type StationPanelUseCase struct {
	stations *StationDataUseCase
	names    *DisplayNameUseCase
	logger   *zap.Logger
}

// NewStationPanelUseCase - создание нового StationPanelUseCase
func NewStationPanelUseCase(stations *StationDataUseCase, names *DisplayNameUseCase, logger *zap.Logger) *StationPanelUseCase {
	return &StationPanelUseCase{
		stations: stations,
		names:    names,
		logger:   logger,
	}
}

// Load переводит панель из Loading в Loaded или Failed.
// При ошибке сети панель всё равно содержит id, координаты и имя.
func (uc *StationPanelUseCase) Load(ctx context.Context, rec domain.StationRecord, refresh bool) (*dto.PanelView, error) {
	if rec.StationID <= 0 {
		return nil, errors.ErrInvalidStationID
	}
	if rec.Coordinates != nil && !utils.ValidateCoordinates(rec.Coordinates.Lat, rec.Coordinates.Lon) {
		return nil, errors.ErrInvalidCoordinates
	}

	state := domain.Loading()

	var (
		result *dto.StationDataResult
		err    error
	)
	if refresh {
		result, err = uc.stations.RefreshStationData(ctx, rec.StationID)
	} else {
		result, err = uc.stations.FetchStationData(ctx, rec.StationID)
	}

	if ctx.Err() != nil {
		uc.logger.Debug("Discarding station panel result",
			zap.Int64("station_id", rec.StationID),
			zap.Error(ctx.Err()))
		return nil, ErrCallerGone
	}

	view := &dto.PanelView{
		StationID:   rec.StationID,
		Coordinates: rec.Coordinates,
		Elevation:   rec.Elevation,
	}

	apiName := ""
	if err != nil {
		if !errors.IsRemote(err) {
			return nil, err
		}
		appErr, _ := errors.As(err)
		state = state.Resolve(domain.Failed(toFetchError(appErr)))
	} else {
		state = state.Resolve(domain.Loaded(result.Payload(), result.Provenance, result.Stale))
		apiName = result.APIData.APIName()
		view.Class = result.APIData.Class
		view.Difficulty = result.APIData.Difficulty
		view.Description = result.APIData.Description
		if view.Coordinates == nil {
			view.Coordinates = result.APIData.Coordinates()
		}
	}

	name, err := uc.names.ResolveDisplayName(ctx, rec.StationID, apiName, rec.InlineName)
	if err != nil {
		return nil, err
	}
	view.Name = name
	view.State = state

	return view, nil
}

// toFetchError переводит классифицированную ошибку в вид для панели
func toFetchError(appErr *errors.AppError) domain.FetchError {
	fe := domain.FetchError{
		Kind:       appErr.Code,
		Message:    appErr.Message,
		Suggestion: appErr.Suggestion,
		Banner:     domain.BannerServer,
		Retryable:  true,
	}
	if stderrors.Is(appErr, errors.ErrNetworkUnavailable) || stderrors.Is(appErr, errors.ErrNetworkTimeout) {
		fe.Banner = domain.BannerConnectivity
	}
	return fe
}
