package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mhoang/assessforms/internal/controller"
	"github.com/mhoang/assessforms/internal/dto"
	"github.com/mhoang/assessforms/internal/service"
)

// AdminReviewController serves the back-office read side: submissions,
// leads, the pending-submission queue and per-submission insights.
type AdminReviewController struct {
	reviewService  service.ReviewService
	retryService   service.RetryService
	insightService service.InsightService
}

func NewAdminReviewController(
	reviewService service.ReviewService,
	retryService service.RetryService,
	insightService service.InsightService,
) *AdminReviewController {
	return &AdminReviewController{
		reviewService:  reviewService,
		retryService:   retryService,
		insightService: insightService,
	}
}

// ListSubmissions godoc
// @Summary (Admin) List submissions across all forms
// @Tags Admin - Submissions
// @Produce json
// @Param limit query int false "Page size (default 50, max 200)"
// @Param offset query int false "Page offset"
// @Param form_id query string false "Only submissions for this form"
// @Success 200 {array} dto.SubmissionResponseDTO
// @Router /admin/submissions [get]
func (c *AdminReviewController) ListSubmissions(ctx *gin.Context) {
	if formID := ctx.Query("form_id"); formID != "" {
		resp, err := c.reviewService.ListSubmissionsForForm(ctx.Request.Context(), formID)
		if err != nil {
			controller.AbortWithError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, resp)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))
	resp, err := c.reviewService.ListSubmissions(ctx.Request.Context(), limit, offset)
	if err != nil {
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListLeads godoc
// @Summary (Admin) List leads
// @Tags Admin - Leads
// @Produce json
// @Param status query string false "Filter by status (new, contacted, qualified, closed)"
// @Success 200 {array} dto.LeadResponseDTO
// @Router /admin/leads [get]
func (c *AdminReviewController) ListLeads(ctx *gin.Context) {
	resp, err := c.reviewService.ListLeads(ctx.Request.Context(), ctx.Query("status"))
	if err != nil {
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateLeadStatus godoc
// @Summary (Admin) Move a lead through the funnel
// @Tags Admin - Leads
// @Accept json
// @Produce json
// @Param lead_id path string true "Lead ID"
// @Param status body dto.LeadStatusUpdateDTO true "New status"
// @Success 200 {object} dto.LeadResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/leads/{lead_id}/status [put]
func (c *AdminReviewController) UpdateLeadStatus(ctx *gin.Context) {
	var req dto.LeadStatusUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	resp, err := c.reviewService.UpdateLeadStatus(ctx.Request.Context(), ctx.Param("lead_id"), req)
	if err != nil {
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DrainQueue godoc
// @Summary (Admin) Drain the pending-submission queue now
// @Description Runs one retry pass over queued submissions. Failures stay queued.
// @Tags Admin - Queue
// @Produce json
// @Success 200 {object} dto.DrainSummaryDTO
// @Router /admin/queue/drain [post]
func (c *AdminReviewController) DrainQueue(ctx *gin.Context) {
	summary, err := c.retryService.DrainOnce(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Operator-initiated queue drain failed")
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// SummarizeSubmission godoc
// @Summary (Admin) Generate an insight summary for a submission
// @Tags Admin - Submissions
// @Produce json
// @Param submission_id path string true "Submission ID"
// @Success 200 {object} dto.InsightResponseDTO
// @Failure 503 {object} dto.ErrorResponse "Insight service not configured"
// @Router /admin/submissions/{submission_id}/insight [get]
func (c *AdminReviewController) SummarizeSubmission(ctx *gin.Context) {
	resp, err := c.insightService.SummarizeSubmission(ctx.Request.Context(), ctx.Param("submission_id"))
	if err != nil {
		if errors.Is(err, service.ErrInsightDisabled) {
			ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: err.Error()})
			return
		}
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
