package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ats-cv-scorer/internal/models"
	"alfredoptarigan/ats-cv-scorer/internal/services"
)

type ScoreHandler struct {
	analyzer services.AnalyzerService
	validate *validator.Validate
}

func NewScoreHandler(analyzer services.AnalyzerService) *ScoreHandler {
	return &ScoreHandler{
		analyzer: analyzer,
		validate: validator.New(),
	}
}

// HandleScore handles POST /score
func (h *ScoreHandler) HandleScore(c *fiber.Ctx) error {
	var req models.ScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "invalid request",
			"reason": validationReason(err),
		})
	}

	result := h.analyzer.ScoreText(c.UserContext(), req.CVText, req.JobDescription)

	return c.JSON(models.ScoreResponse{
		Score:    newScoreBreakdown(result.Score),
		JobMatch: newJobMatchData(result.JobMatch),
		Tips:     services.ToModelTips(result.Tips),
	})
}

// validationReason reports the first failing field as "<json field> <rule>".
func validationReason(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	field := fe.Field()
	switch field {
	case "CVText":
		field = "cv_text"
	case "JobDescription":
		field = "job_description"
	}
	return field + " " + fe.Tag()
}
