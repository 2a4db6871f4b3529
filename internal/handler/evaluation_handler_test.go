package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sahayak-edu/sahayak-api/internal/handler"
	"github.com/sahayak-edu/sahayak-api/internal/models"
	"github.com/sahayak-edu/sahayak-api/internal/repository"
	"github.com/sahayak-edu/sahayak-api/internal/service"
	"github.com/sahayak-edu/sahayak-api/internal/utils"
)

func newEvaluationApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Assignment{}, &models.Submission{}))

	assignments := repository.NewAssignmentRepository(db)
	submissions := repository.NewSubmissionRepository(db)
	evaluations := repository.NewEvaluationRepository(db)

	evaluationSvc := service.NewEvaluationService(submissions, assignments, evaluations, nil, nil, nil, zerolog.Nop())
	dispatcher := service.NewAsyncEvaluationDispatcher(evaluationSvc, 0, zerolog.Nop())
	batchSvc := service.NewBatchEvaluationService(submissions, assignments, dispatcher, zerolog.Nop())
	resultsSvc := service.NewEvaluationResultsService(evaluations, nil, 0, zerolog.Nop())

	h := handler.NewEvaluationHandler(evaluationSvc, batchSvc, resultsSvc, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	app := fiber.New()
	h.Register(app.Group("/api/v1"))
	return app, db
}

func seedEvaluationFixtures(t *testing.T, db *gorm.DB, submissionID, assignmentID string) {
	t.Helper()

	require.NoError(t, db.Create(&models.Assignment{
		AssignmentID: assignmentID,
		TeacherID:    "teacher-1",
		Subject:      "Mathematics",
		Questions: []models.Question{
			{QuestionNumber: "1", QuestionText: "Solve for x: 2x=8", SuggestedAnswer: "x=4", MaxScore: 10},
		},
	}).Error)
	require.NoError(t, db.Create(&models.Submission{
		SubmissionID:     submissionID,
		AssignmentID:     assignmentID,
		StudentName:      "Asha",
		SubmissionType:   models.SubmissionTypeGoogleForms,
		Answers:          []models.SubmissionAnswer{{QuestionNumber: "1", AnswerText: "x=4"}},
		Status:           models.SubmissionStatusSubmitted,
		EvaluationStatus: models.EvaluationStatusPending,
	}).Error)
}

func decodeResponse(t *testing.T, resp *http.Response) utils.APIResponse {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var payload utils.APIResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestEvaluationHandlerSingle(t *testing.T) {
	app, db := newEvaluationApp(t)
	seedEvaluationFixtures(t, db, "sub-h1", "asg-h1")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/evaluate/single", `{"submission_id":"sub-h1","assignment_id":"asg-h1"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeResponse(t, resp)
	require.True(t, payload.Success)

	record, ok := payload.Data.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, 10.0, record["final_score"])
	require.Equal(t, "completed", record["status"])
}

func TestEvaluationHandlerSingleValidation(t *testing.T) {
	app, _ := newEvaluationApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/evaluate/single", `{"submission_id":"sub-only"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/evaluate/single", `not json`))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEvaluationHandlerSingleNotFound(t *testing.T) {
	app, _ := newEvaluationApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/evaluate/single", `{"submission_id":"ghost","assignment_id":"nowhere"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEvaluationHandlerResultsLifecycle(t *testing.T) {
	app, db := newEvaluationApp(t)
	seedEvaluationFixtures(t, db, "sub-h2", "asg-h2")

	// Not evaluated yet.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/evaluations/sub-h2?assignment_id=asg-h2", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/evaluate/single", `{"submission_id":"sub-h2","assignment_id":"asg-h2"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/evaluations/sub-h2?assignment_id=asg-h2", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeResponse(t, resp)
	record, ok := payload.Data.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "sub-h2", record["submission_id"])
}

func TestEvaluationHandlerResultsRequiresAssignmentID(t *testing.T) {
	app, _ := newEvaluationApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/evaluations/sub-x", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEvaluationHandlerBatch(t *testing.T) {
	app, db := newEvaluationApp(t)
	seedEvaluationFixtures(t, db, "sub-h3", "asg-h3")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/evaluate/batch", `{"assignment_id":"asg-h3"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeResponse(t, resp)
	summary, ok := payload.Data.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "batch_completed", summary["status"])
	require.Equal(t, 1.0, summary["total_submissions"])
}

func TestEvaluationHandlerBatchUnknownAssignment(t *testing.T) {
	app, _ := newEvaluationApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/evaluate/batch", `{"assignment_id":"missing"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
