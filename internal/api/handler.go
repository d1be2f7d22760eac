package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/config"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/logger"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/model"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/queue"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/repository"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/storage"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/validation"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/pkg/errors"
)

// Handler shapes every outcome, success or failure, into the response
// envelope. No fault crosses this boundary unshaped.
type Handler struct {
	repo      *repository.Repository
	validator *validation.Validator
	producer  *queue.Producer
	archives  storage.Storage
	cfg       *config.Config
	log       zerolog.Logger
}

// NewHandler wires the request router. producer and archives are nil when
// archiving is disabled.
func NewHandler(
	repo *repository.Repository,
	validator *validation.Validator,
	producer *queue.Producer,
	archives storage.Storage,
	cfg *config.Config,
) *Handler {
	return &Handler{
		repo:      repo,
		validator: validator,
		producer:  producer,
		archives:  archives,
		cfg:       cfg,
		log:       logger.Get(),
	}
}

func (h *Handler) SubmitEntry(c *gin.Context) {
	var req model.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid request body: " + err.Error(),
		})
		return
	}

	if violations := h.validator.Validate(req); len(violations) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":          false,
			"error":            "validation failed",
			"validationErrors": violations.Messages(),
		})
		return
	}

	result, err := h.repo.Upsert(c.Request.Context(), req.Entry())
	if err != nil {
		h.log.Error().Err(err).Str("student", req.Student).Str("course", req.Course).
			Msg("Upsert failed")
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"action":  result.Action,
		"student": result.Student,
		"course":  result.Course,
	})
}

func (h *Handler) ListEntries(c *gin.Context) {
	ctx := c.Request.Context()

	var entries []model.GradeEntry
	var err error
	switch {
	case c.Query("teacher") != "":
		entries, err = h.repo.FilterByTeacher(ctx, c.Query("teacher"))
	case c.Query("student") != "":
		entries, err = h.repo.FilterByStudent(ctx, c.Query("student"))
	default:
		entries, err = h.repo.ListAll(ctx)
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list entries")
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "entries": entries})
}

func (h *Handler) ClearEntries(c *gin.Context) {
	if err := h.repo.ClearAll(c.Request.Context()); err != nil {
		h.log.Error().Err(err).Msg("Failed to clear entries")
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) ExportEntries(c *gin.Context) {
	csvText, err := h.repo.ExportCSV(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to export entries")
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="grades.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csvText))
}

func (h *Handler) ArchiveExport(c *gin.Context) {
	if h.producer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   errors.ErrArchiveDisabled.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	csvText, err := h.repo.ExportCSV(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to render export for archiving")
		h.fail(c, err)
		return
	}

	now := time.Now().UTC()
	job := model.ArchiveJob{
		Key:         fmt.Sprintf("%s%s.csv", h.cfg.Archive.KeyPrefix, now.Format("20060102T150405Z")),
		CSV:         csvText,
		RequestedAt: now,
	}
	if err := h.producer.EnqueueArchive(ctx, job); err != nil {
		h.log.Error().Err(err).Str("key", job.Key).Msg("Failed to enqueue archive job")
		h.fail(c, err)
		return
	}

	h.log.Info().Str("key", job.Key).Msg("Archive job enqueued")
	c.JSON(http.StatusOK, gin.H{"success": true, "key": job.Key})
}

func (h *Handler) ListArchives(c *gin.Context) {
	if h.archives == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   errors.ErrArchiveDisabled.Error(),
		})
		return
	}

	keys, err := h.archives.List(c.Request.Context(), h.cfg.Archive.KeyPrefix)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list archives")
		h.fail(c, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "archives": keys})
}

func (h *Handler) Summary(c *gin.Context) {
	report, err := h.repo.Summarize(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to summarize entries")
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "summary": report})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}

func (h *Handler) fail(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}
