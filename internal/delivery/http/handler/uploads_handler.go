package handler

import (
	"context"

	"mammy-coker-hub/internal/domain/user"
	"mammy-coker-hub/internal/pkg/response"
	"mammy-coker-hub/internal/usecase/upload"

	"github.com/gofiber/fiber/v3"
)

type UploadService interface {
	Upload(ctx context.Context, actor user.Actor, bucket upload.Bucket, f upload.File) (upload.Object, error)
	Delete(ctx context.Context, actor user.Actor, bucket upload.Bucket, objectPath string) error
}

type UploadsHandler struct {
	svc UploadService
}

func NewUploadsHandler(svc UploadService) *UploadsHandler {
	return &UploadsHandler{svc: svc}
}

func (h *UploadsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/:bucket", h.Upload)
	r.Delete("/:bucket/*", h.Delete)
}

func (h *UploadsHandler) Upload(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	bucket, err := upload.ParseBucket(c.Params("bucket"))
	if err != nil {
		return err
	}
	f, closer, err := formFile(c)
	if err != nil {
		return err
	}
	defer closer.Close()

	obj, err := h.svc.Upload(c.Context(), a, bucket, f)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, "File uploaded", obj)
}

func (h *UploadsHandler) Delete(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	bucket, err := upload.ParseBucket(c.Params("bucket"))
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Context(), a, bucket, c.Params("*")); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "File deleted", nil)
}
