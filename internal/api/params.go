package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"project-hub/internal/validation"
)

const reasonPositiveInt = "must be a positive integer"

// parseBody decodes the JSON body into dst and validates its tags. An empty body reads as {}.
func parseBody(c *fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return validation.Struct(dst)
	}
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot parse JSON")
	}
	return validation.Struct(dst)
}

func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, validation.Field("id", reasonPositiveInt)
	}
	return id, nil
}

// queryID reads an optional positive id filter. Absent means no filter.
func queryID(c *fiber.Ctx, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, validation.Field(name, reasonPositiveInt)
	}
	return &id, nil
}
