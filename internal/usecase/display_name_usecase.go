package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rivr-station-service/internal/domain"
	"github.com/rivr-station-service/internal/domain/repository"
	"github.com/rivr-station-service/internal/pkg/errors"
	"github.com/rivr-station-service/internal/usecase/dto"
)

// DisplayNameUseCase - выбор и редактирование отображаемых имён станций
type DisplayNameUseCase struct {
	nameRepo repository.NameRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewDisplayNameUseCase - создание нового DisplayNameUseCase
func NewDisplayNameUseCase(nameRepo repository.NameRepository, logger *zap.Logger) *DisplayNameUseCase {
	return &DisplayNameUseCase{
		nameRepo: nameRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// ResolveDisplayName выбирает имя: пользовательское → из API → inline → "Stream <id>".
// Непустое имя из API всегда сохраняется как OriginalAPIName. Ошибки хранилища
// не мешают вернуть имя.
func (uc *DisplayNameUseCase) ResolveDisplayName(ctx context.Context, stationID int64, candidateAPIName, inlineName string) (*dto.NameResponse, error) {
	if stationID <= 0 {
		return nil, errors.ErrInvalidStationID
	}

	candidate := strings.TrimSpace(candidateAPIName)
	inline := strings.TrimSpace(inlineName)

	stored, err := uc.nameRepo.GetNameInfo(ctx, stationID)
	readOK := err == nil
	if err != nil {
		uc.logger.Error("Failed to read station name",
			zap.Int64("station_id", stationID),
			zap.Error(err))
		stored = nil
	}

	var info domain.NameInfo
	if stored != nil {
		info = *stored
	} else {
		info = domain.NameInfo{StationID: stationID}
	}
	// решение о пользовательском имени принимается до обновления OriginalAPIName
	userChoice := stored != nil && stored.HasUserChoice()
	changed := stored == nil

	if candidate != "" && info.OriginalAPIName != candidate {
		info.OriginalAPIName = candidate
		changed = true
	}

	var display, source string
	switch {
	case userChoice:
		display, source = info.DisplayName, dto.NameSourceCustom
	case candidate != "":
		display, source = candidate, dto.NameSourceAPI
		if info.DisplayName != candidate {
			info.DisplayName = candidate
			changed = true
		}
	case inline != "":
		display, source = inline, dto.NameSourceInline
	default:
		display, source = domain.FallbackName(stationID), dto.NameSourceFallback
	}

	if stored == nil {
		info.DisplayName = display
	}

	if changed && readOK {
		info.UpdatedAt = uc.now().UTC()
		if err := uc.nameRepo.PutNameInfo(ctx, &info); err != nil {
			uc.logger.Error("Failed to persist station name",
				zap.Int64("station_id", stationID),
				zap.Error(err))
		}
	}

	resp := dto.NewNameResponse(&info)
	resp.DisplayName = display
	resp.Source = source
	resp.IsCustom = userChoice && info.IsCustom()
	return resp, nil
}

// SetCustomDisplayName сохраняет пользовательское имя; пустое имя отклоняется без изменений
func (uc *DisplayNameUseCase) SetCustomDisplayName(ctx context.Context, stationID int64, name string) (*dto.NameResponse, error) {
	if stationID <= 0 {
		return nil, errors.ErrInvalidStationID
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.ErrInvalidName
	}

	stored, err := uc.nameRepo.GetNameInfo(ctx, stationID)
	if err != nil {
		return nil, errors.ErrDatabaseError.Wrap(err)
	}

	info := domain.NameInfo{StationID: stationID}
	if stored != nil {
		info = *stored
	}

	now := uc.now().UTC()
	info.DisplayName = name
	info.EditedAt = &now
	info.UpdatedAt = now

	if err := uc.nameRepo.PutNameInfo(ctx, &info); err != nil {
		return nil, errors.ErrDatabaseError.Wrap(err)
	}

	uc.logger.Info("Custom station name set",
		zap.Int64("station_id", stationID),
		zap.String("display_name", name))

	return dto.NewNameResponse(&info), nil
}

// ResetToOriginalName возвращает имя из API. Повторный вызов ничего не меняет.
func (uc *DisplayNameUseCase) ResetToOriginalName(ctx context.Context, stationID int64) (*dto.NameResponse, error) {
	if stationID <= 0 {
		return nil, errors.ErrInvalidStationID
	}

	stored, err := uc.nameRepo.GetNameInfo(ctx, stationID)
	if err != nil {
		return nil, errors.ErrDatabaseError.Wrap(err)
	}
	if stored == nil || stored.OriginalAPIName == "" {
		return nil, errors.ErrNoOriginalName
	}

	info := *stored
	if info.DisplayName == info.OriginalAPIName && info.EditedAt == nil {
		return dto.NewNameResponse(&info), nil
	}

	info.DisplayName = info.OriginalAPIName
	info.EditedAt = nil
	info.UpdatedAt = uc.now().UTC()

	if err := uc.nameRepo.PutNameInfo(ctx, &info); err != nil {
		return nil, errors.ErrDatabaseError.Wrap(err)
	}

	return dto.NewNameResponse(&info), nil
}

// GetNameInfo - сохранённая запись без побочных эффектов
func (uc *DisplayNameUseCase) GetNameInfo(ctx context.Context, stationID int64) (*dto.NameResponse, error) {
	if stationID <= 0 {
		return nil, errors.ErrInvalidStationID
	}

	stored, err := uc.nameRepo.GetNameInfo(ctx, stationID)
	if err != nil {
		return nil, errors.ErrDatabaseError.Wrap(err)
	}
	if stored == nil {
		return nil, errors.ErrNameNotFound
	}
	return dto.NewNameResponse(stored), nil
}
