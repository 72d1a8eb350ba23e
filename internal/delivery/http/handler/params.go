package handler

import (
	"io"
	"strconv"
	"strings"

	"mammy-coker-hub/internal/delivery/http/middleware"
	"mammy-coker-hub/internal/domain/user"
	"mammy-coker-hub/internal/usecase/upload"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func actor(c fiber.Ctx) (user.Actor, error) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		return user.Actor{}, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return a, nil
}

func uuidParam(c fiber.Ctx, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(key))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+key, nil, err)
	}
	return id, nil
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+key, nil, err)
	}
	return v, nil
}

func parseQueryFloat(c fiber.Ctx, key string) (float64, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+key, nil, err)
	}
	return v, nil
}

func bindBody(c fiber.Ctx, out any) error {
	if err := c.Bind().Body(out); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	return nil
}

// formFile opens the multipart "file" field. The caller closes the body.
func formFile(c fiber.Ctx) (upload.File, io.Closer, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return upload.File{}, nil, middleware.NewAppError(fiber.StatusBadRequest, "File is required", nil, err)
	}
	if fh.Size > upload.MaxSize {
		return upload.File{}, nil, upload.ErrTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return upload.File{}, nil, err
	}
	return upload.File{Name: fh.Filename, Size: fh.Size, Body: f}, f, nil
}
