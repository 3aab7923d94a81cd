package controller

import (
	"path/filepath"
	"strings"

	"ai-medreport-be/internal/dto"
	"ai-medreport-be/internal/pkg/serverutils"
	"ai-medreport-be/internal/pkg/textextract"
	"ai-medreport-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IReportController interface {
	RegisterRoutes(r fiber.Router)
	Analyze(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
}

type reportController struct {
	service service.IReportService
}

func NewReportController(service service.IReportService) IReportController {
	return &reportController{service: service}
}

func (c *reportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/report/v1")
	h.Use(serverutils.ClientKeyMiddleware)
	h.Post("", c.Analyze)
	h.Get("", c.History)
	h.Get(":id", c.Show)
	h.Get(":id/export", c.Export)
}

// Analyze accepts either a JSON body with the document text or a
// multipart upload with a "file" field.
func (c *reportController) Analyze(ctx *fiber.Ctx) error {
	clientKey := ctx.Locals("client_key").(string)

	var req dto.AnalyzeReportRequest
	if strings.HasPrefix(ctx.Get("Content-Type"), "multipart/form-data") {
		fh, err := ctx.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "missing file field")
		}
		text, err := textextract.FromUpload(fh)
		if err != nil {
			return err
		}
		req.Text = text
		req.Filename = fh.Filename
		req.FileType = strings.ToLower(filepath.Ext(fh.Filename))
		req.SizeBytes = fh.Size
	} else {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		req.SizeBytes = int64(len(req.Text))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Analyze(ctx.Context(), clientKey, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success analyze report", res))
}

func (c *reportController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid report id")
	}

	res, err := c.service.Show(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show report", res))
}

func (c *reportController) History(ctx *fiber.Ctx) error {
	clientKey := ctx.Locals("client_key").(string)
	specialty := ctx.Query("specialty")
	limit := ctx.QueryInt("limit", 0)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.History(ctx.Context(), clientKey, specialty, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get report history", res))
}

func (c *reportController) Export(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid report id")
	}

	res, err := c.service.Export(ctx.Context(), id)
	if err != nil {
		return err
	}

	ctx.Set("Content-Disposition", `attachment; filename="report-`+id.String()+`.json"`)
	return ctx.JSON(res)
}
