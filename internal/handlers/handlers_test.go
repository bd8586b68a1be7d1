package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/ats-cv-scorer/internal/models"
	"alfredoptarigan/ats-cv-scorer/internal/repositories"
	"alfredoptarigan/ats-cv-scorer/internal/services"
)

const testCV = "Email: jane@example.com\nEducation: Bachelor degree, University of Cape Town\nExperience: worked as a developer\nSkills: Go"

type fakeAnalysisRepo struct {
	analyses map[uuid.UUID]*models.Analysis
}

func (r *fakeAnalysisRepo) Create(a *models.Analysis) error {
	r.analyses[a.ID] = a
	return nil
}

func (r *fakeAnalysisRepo) FindByID(id uuid.UUID) (*models.Analysis, error) {
	if a, ok := r.analyses[id]; ok {
		return a, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeAnalysisRepo) UpdateFeedbackStatus(uuid.UUID, models.FeedbackStatus) error { return nil }
func (r *fakeAnalysisRepo) UpdateFeedback(uuid.UUID, string) error                      { return nil }
func (r *fakeAnalysisRepo) UpdateError(uuid.UUID, string) error                         { return nil }
func (r *fakeAnalysisRepo) FindQueuedFeedback(int) ([]models.Analysis, error)           { return nil, nil }

func newTestApp(repo repositories.AnalysisRepository) *fiber.App {
	validator := services.NewFileValidator()
	deps := services.AnalyzerDeps{
		Validator: validator,
		Extractor: services.NewTextExtractor(validator, services.NewPDFParserService(), services.ExtractorModePlaceholder, nil),
		Generator: services.NewScoreGenerator(services.NewRandomSource(1)),
	}
	if repo != nil {
		deps.AnalysisRepo = repo
	}
	analyzer := services.NewAnalyzerService(deps)

	analysisHandler := NewAnalysisHandler(analyzer, nil)
	scoreHandler := NewScoreHandler(analyzer)
	resultHandler := NewResultHandler(analyzer)

	app := fiber.New(fiber.Config{BodyLimit: 8 << 20})
	api := app.Group("/api/v1")
	api.Post("/validate", analysisHandler.HandleValidate)
	api.Post("/analyze", analysisHandler.HandleAnalyze)
	api.Post("/score", scoreHandler.HandleScore)
	api.Get("/analyses/:id", resultHandler.HandleGetAnalysis)
	return app
}

func multipartRequest(t *testing.T, path, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := mw.CreateFormFile("cv", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, v), string(b))
}

func TestHandleValidate(t *testing.T) {
	app := newTestApp(nil)

	resp, err := app.Test(multipartRequest(t, "/api/v1/validate", "cv.pdf", []byte("%PDF"), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var ok models.ValidateResponse
	decode(t, resp, &ok)
	assert.True(t, ok.IsValid)

	resp, err = app.Test(multipartRequest(t, "/api/v1/validate", "cv.png", []byte("png"), nil))
	require.NoError(t, err)
	var bad models.ValidateResponse
	decode(t, resp, &bad)
	assert.False(t, bad.IsValid)
	assert.Equal(t, "unsupported file type", bad.Reason)

	resp, err = app.Test(multipartRequest(t, "/api/v1/validate", "", nil, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleAnalyze(t *testing.T) {
	app := newTestApp(nil)

	req := multipartRequest(t, "/api/v1/analyze", "cv.txt", []byte(testCV), map[string]string{
		"job_description": "Golang developer based in Cape Town",
		"job_title":       "Go Developer",
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var out models.AnalysisResponse
	decode(t, resp, &out)
	assert.Empty(t, out.ID)
	assert.Equal(t, "cv.txt", out.Filename)
	assert.Equal(t, "Go Developer", out.JobTitle)
	assert.Equal(t, 16, out.WordCount)
	assert.Equal(t, string(models.FeedbackSkipped), out.FeedbackStatus)
	assert.False(t, out.Cached)
	assert.GreaterOrEqual(t, out.Score.Overall, 50)
	assert.LessOrEqual(t, out.Score.Overall, 98)
	require.NotNil(t, out.JobMatch)
	assert.Contains(t, out.JobMatch.Matched, "developer")
}

func TestHandleAnalyze_InvalidFile(t *testing.T) {
	app := newTestApp(nil)

	resp, err := app.Test(multipartRequest(t, "/api/v1/analyze", "cv.exe", []byte("MZ"), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var out map[string]string
	decode(t, resp, &out)
	assert.Equal(t, "invalid file", out["error"])
	assert.Equal(t, "unsupported file type", out["reason"])
}

func TestHandleAnalyze_TooLarge(t *testing.T) {
	app := newTestApp(nil)

	content := bytes.Repeat([]byte("a"), int(services.MaxUploadSize)+1)
	resp, err := app.Test(multipartRequest(t, "/api/v1/analyze", "cv.txt", content, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var out map[string]string
	decode(t, resp, &out)
	assert.Equal(t, "file too large", out["reason"])
}

func TestHandleScore(t *testing.T) {
	app := newTestApp(nil)

	body := `{"cv_text":"` + strings.ReplaceAll(testCV, "\n", `\n`) + `","job_description":"Python Django developer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out models.ScoreResponse
	decode(t, resp, &out)
	require.NotNil(t, out.JobMatch)
	assert.Contains(t, out.JobMatch.Missing, "python")
	assert.NotEmpty(t, out.Tips)
	assert.Equal(t, "job_match", out.Tips[0].Category)
}

func TestHandleScore_Validation(t *testing.T) {
	app := newTestApp(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", strings.NewReader(`{"job_description":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var out map[string]string
	decode(t, resp, &out)
	assert.Equal(t, "cv_text required", out["reason"])

	req = httptest.NewRequest(http.MethodPost, "/api/v1/score", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleGetAnalysis(t *testing.T) {
	feedback := "Great start."
	matchScore := 81
	id := uuid.New()
	repo := &fakeAnalysisRepo{analyses: map[uuid.UUID]*models.Analysis{
		id: {
			ID:             id,
			DocumentID:     uuid.New(),
			JobTitle:       "Accountant",
			OverallScore:   74,
			JobMatchScore:  &matchScore,
			FeedbackStatus: models.FeedbackCompleted,
			Feedback:       &feedback,
			Document:       models.Document{OriginalFileName: "thandi.pdf"},
		},
	}}
	app := newTestApp(repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+id.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out models.AnalysisResponse
	decode(t, resp, &out)
	assert.Equal(t, id.String(), out.ID)
	assert.Equal(t, "thandi.pdf", out.Filename)
	assert.Equal(t, 74, out.Score.Overall)
	require.NotNil(t, out.JobMatch)
	assert.Equal(t, 81, out.JobMatch.Score)
	require.NotNil(t, out.Feedback)
	assert.Equal(t, feedback, *out.Feedback)
	assert.NotNil(t, out.Tips)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleGetAnalysis_StorageDisabled(t *testing.T) {
	app := newTestApp(nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
