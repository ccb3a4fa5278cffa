package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"go-qualifier/internal/form"
	"go-qualifier/internal/metrics"
	"go-qualifier/internal/models"
	"go-qualifier/internal/present"
	"go-qualifier/internal/submission"
)

// Upstream is the qualification service as seen by the HTTP facade.
type Upstream interface {
	submission.Qualifier
	Health(ctx context.Context) (string, error)
}

type Handler struct {
	Upstream  Upstream
	Validator *validator.Validate
	Logger    zerolog.Logger
	Recorder  metrics.Recorder
}

type QualifyRequest struct {
	PersonName   string               `json:"person_name"`
	Mode         string               `json:"mode" validate:"required,oneof=url manual"`
	EventURL     string               `json:"event_url"`
	EventDetails *models.EventDetails `json:"event_details"`
}

type QualifyResponse struct {
	SubmissionID string                     `json:"submission_id"`
	Band         present.Band               `json:"band"`
	Label        string                     `json:"label"`
	Result       models.QualificationResult `json:"result"`
}

// @Summary Health check
// @Description Reports whether the qualification service answers its health endpoint
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]any
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	status, err := h.Upstream.Health(ctx)
	if err != nil {
		writeError(c, http.StatusServiceUnavailable, "DEPENDENCY_UNAVAILABLE", "Qualification service unavailable", err.Error())
		return
	}
	if status == "" {
		status = "ok"
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "upstream": status})
}

// @Summary Qualification bands
// @Description Score bands used to classify results, highest first
// @Tags qualifications
// @Produce json
// @Success 200 {array} present.BandInfo
// @Router /api/bands [get]
func (h *Handler) Bands(c *gin.Context) {
	c.JSON(http.StatusOK, present.Bands())
}

// @Summary Qualify a person for an event
// @Description Sends one qualification request to the service, by event URL or manual event details
// @Tags qualifications
// @Accept json
// @Produce json
// @Param request body QualifyRequest true "person and event"
// @Success 200 {object} QualifyResponse
// @Failure 400 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /api/qualifications [post]
func (h *Handler) Qualify(c *gin.Context) {
	var req QualifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	f, err := buildForm(req)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	if !f.CanSubmit() {
		writeError(c, http.StatusBadRequest, "INCOMPLETE_REQUEST", "Qualification request is incomplete", f.Missing())
		return
	}

	ctrl := submission.NewController(h.Upstream,
		submission.WithLogger(h.Logger),
		submission.WithRecorder(h.Recorder),
	)
	id := uuid.NewString()
	res, err := ctrl.SubmitWithID(c.Request.Context(), id, f, nil)
	switch {
	case errors.Is(err, submission.ErrIncomplete):
		writeError(c, http.StatusBadRequest, "INCOMPLETE_REQUEST", "Qualification request is incomplete", f.Missing())
		return
	case errors.Is(err, submission.ErrInFlight):
		writeError(c, http.StatusConflict, "IN_FLIGHT", "A qualification request is already in progress", nil)
		return
	case err != nil:
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Qualification failed", err.Error())
		return
	}

	band := present.Classify(res)
	c.JSON(http.StatusOK, QualifyResponse{
		SubmissionID: id,
		Band:         band,
		Label:        band.Label(),
		Result:       res,
	})
}

// buildForm replays the request through the same form the terminal uses, so
// both surfaces share one set of submit rules.
func buildForm(req QualifyRequest) (*form.Form, error) {
	mode, err := form.ParseMode(req.Mode)
	if err != nil {
		return nil, err
	}

	f := form.New()
	f.SetPersonName(req.PersonName)
	f.Next()
	f.SetEventURL(req.EventURL)
	if req.EventDetails != nil {
		f.SetDetails(*req.EventDetails)
	}
	f.SetMode(mode)
	return f, nil
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
