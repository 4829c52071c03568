package riverapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rivr-station-service/internal/config"
	"github.com/rivr-station-service/internal/domain"
	"github.com/rivr-station-service/internal/domain/repository"
	apperrors "github.com/rivr-station-service/internal/pkg/errors"
	"github.com/rivr-station-service/internal/pkg/validator"
)

const (
	// maxBodySize - ответы больше этого размера считаются некорректными
	maxBodySize = 1 << 20

	defaultTimeout = 15 * time.Second
)

type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

// NewRiverAPIClient создает клиент для API речных станций
func NewRiverAPIClient(cfg *config.RiverAPIConfig, logger *zap.Logger) repository.RiverAPIRepository {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

// FetchStation загружает данные станции. Повторов нет: это решает вызывающий код.
func (c *client) FetchStation(ctx context.Context, stationID int64) (*domain.StationAPIData, error) {
	url := fmt.Sprintf("%s/stations/%d", c.baseURL, stationID)

	c.logger.Debug("Calling river API", zap.Int64("station_id", stationID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		classified := Classify(err)
		c.logger.Warn("River API request failed",
			zap.Int64("station_id", stationID),
			zap.Error(classified))
		return nil, classified
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		classified := Classify(err)
		c.logger.Warn("Failed to read river API response",
			zap.Int64("station_id", stationID),
			zap.Error(classified))
		return nil, classified
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("River API returned error",
			zap.Int64("station_id", stationID),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", snippet(body)))
		return nil, apperrors.ErrServerError.WithDetails(map[string]interface{}{
			"status": resp.StatusCode,
		}).Wrap(fmt.Errorf("river API status %d", resp.StatusCode))
	}

	if len(body) > maxBodySize {
		return nil, apperrors.ErrParseError.Wrap(fmt.Errorf("response exceeds %d bytes", maxBodySize))
	}

	var data domain.StationAPIData
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error("Failed to decode response",
			zap.Int64("station_id", stationID),
			zap.Error(err))
		return nil, apperrors.ErrParseError.Wrap(err)
	}

	if err := validator.Validate(&data); err != nil {
		c.logger.Error("River API returned invalid station data",
			zap.Int64("station_id", stationID),
			zap.Error(err))
		return nil, apperrors.ErrParseError.Wrap(err)
	}

	c.logger.Debug("River API call successful",
		zap.Int64("station_id", stationID),
		zap.String("name", data.APIName()))

	return &data, nil
}

// Classify относит транспортную ошибку к NETWORK_TIMEOUT или NETWORK_UNAVAILABLE.
// Отмена контекста вызывающим кодом не классифицируется.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("river API request cancelled: %w", err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, syscall.ETIMEDOUT) {
		return apperrors.ErrNetworkTimeout.Wrap(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.ErrNetworkTimeout.Wrap(err)
	}

	// DNS, отказ в соединении, сброс, недоступная сеть и прочие транспортные ошибки
	return apperrors.ErrNetworkUnavailable.Wrap(err)
}

func snippet(body []byte) string {
	const limit = 256
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
