package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/rivr-station-service/internal/pkg/errors"
	"github.com/rivr-station-service/internal/pkg/utils"
)

// HeaderUserID - заголовок с идентификатором пользователя
const HeaderUserID = "X-User-ID"

// stationIDParam разбирает положительный id станции из пути
func stationIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := utils.ParseStationID(c.Params(name))
	if err != nil {
		return 0, errors.ErrInvalidStationID.WithDetails(map[string]interface{}{
			"value": c.Params(name),
		})
	}
	return id, nil
}

// optionalFloatQuery возвращает nil, если параметр не передан
func optionalFloatQuery(c *fiber.Ctx, key string) (*float64, error) {
	v, err := utils.OptionalFloat(c.Query(key))
	if err != nil {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"fields": map[string]interface{}{key: "number"},
		})
	}
	return v, nil
}

func userID(c *fiber.Ctx) string {
	return strings.TrimSpace(c.Get(HeaderUserID))
}
