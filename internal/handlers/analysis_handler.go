package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/ats-cv-scorer/internal/models"
	"alfredoptarigan/ats-cv-scorer/internal/services"
)

const cvFormField = "cv"

type AnalysisHandler struct {
	analyzer services.AnalyzerService
	logger   *zap.Logger
}

func NewAnalysisHandler(analyzer services.AnalyzerService, logger *zap.Logger) *AnalysisHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisHandler{
		analyzer: analyzer,
		logger:   logger,
	}
}

// HandleValidate handles POST /validate
func (h *AnalysisHandler) HandleValidate(c *fiber.Ctx) error {
	fh, err := c.FormFile(cvFormField)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cv file is required",
		})
	}

	result := h.analyzer.Validate(fileMeta(fh))
	return c.JSON(models.ValidateResponse{
		IsValid: result.IsValid,
		Reason:  result.Reason,
	})
}

// HandleAnalyze handles POST /analyze
func (h *AnalysisHandler) HandleAnalyze(c *fiber.Ctx) error {
	fh, err := c.FormFile(cvFormField)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cv file is required",
		})
	}

	// Reject before reading the body into memory.
	if res := h.analyzer.Validate(fileMeta(fh)); !res.IsValid {
		return invalidFile(c, res.Reason)
	}

	content, err := readFormFile(fh)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to read cv file: %v", err),
		})
	}

	result, err := h.analyzer.Analyze(c.UserContext(), services.AnalyzeRequest{
		Document: services.UploadedDocument{
			Name:      fh.Filename,
			MediaType: fh.Header.Get("Content-Type"),
			Size:      fh.Size,
			Content:   content,
		},
		JobTitle:       c.FormValue("job_title"),
		JobDescription: c.FormValue("job_description"),
	})
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return invalidFile(c, verr.Error())
		}

		h.logger.Error("❌ Analysis failed", zap.String("filename", fh.Filename), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to analyze CV",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(newAnalysisResponse(result))
}

func fileMeta(fh *multipart.FileHeader) services.FileMeta {
	return services.FileMeta{
		Name:      fh.Filename,
		Size:      fh.Size,
		MediaType: fh.Header.Get("Content-Type"),
	}
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

func invalidFile(c *fiber.Ctx, reason string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  "invalid file",
		"reason": reason,
	})
}
