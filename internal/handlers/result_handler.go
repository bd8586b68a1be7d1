package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/ats-cv-scorer/internal/repositories"
	"alfredoptarigan/ats-cv-scorer/internal/services"
)

type ResultHandler struct {
	analyzer services.AnalyzerService
}

func NewResultHandler(analyzer services.AnalyzerService) *ResultHandler {
	return &ResultHandler{
		analyzer: analyzer,
	}
}

// HandleGetAnalysis handles GET /analyses/:id
func (h *ResultHandler) HandleGetAnalysis(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid analysis ID format",
		})
	}

	analysis, err := h.analyzer.GetAnalysis(c.UserContext(), id)
	switch {
	case errors.Is(err, services.ErrPersistenceDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "analysis storage is disabled",
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Analysis not found",
		})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load analysis",
		})
	}

	return c.JSON(storedAnalysisResponse(analysis))
}
