package public

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mhoang/assessforms/internal/controller"
	"github.com/mhoang/assessforms/internal/dto"
	"github.com/mhoang/assessforms/internal/service"
)

// PublicFormController serves the respondent-facing surface: fetch a
// published schema, keep a draft, submit answers.
type PublicFormController struct {
	submissionService service.SubmissionService
}

func NewPublicFormController(submissionService service.SubmissionService) *PublicFormController {
	return &PublicFormController{submissionService: submissionService}
}

// GetForm godoc
// @Summary Get a published form schema
// @Description Draft forms are indistinguishable from missing ones.
// @Tags Public - Forms
// @Produce json
// @Param form_id path string true "Form ID"
// @Success 200 {object} dto.FormResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /forms/{form_id} [get]
func (c *PublicFormController) GetForm(ctx *gin.Context) {
	resp, err := c.submissionService.GetPublishedForm(ctx.Request.Context(), ctx.Param("form_id"))
	if err != nil {
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Submit godoc
// @Summary Submit answers for a published form
// @Description Validation failures return 400 with one message per invalid question id. An accepted submission may have been committed live or queued for retry; the caller cannot tell the difference.
// @Tags Public - Forms
// @Accept json
// @Produce json
// @Param form_id path string true "Form ID"
// @Param answers body dto.SubmitDTO true "Answers keyed by question id"
// @Success 201 {object} dto.SubmitResultDTO
// @Failure 400 {object} dto.SubmitResultDTO "Per-question validation errors"
// @Failure 404 {object} dto.ErrorResponse
// @Router /forms/{form_id}/submissions [post]
func (c *PublicFormController) Submit(ctx *gin.Context) {
	var req dto.SubmitDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	result, err := c.submissionService.Submit(ctx.Request.Context(), ctx.Param("form_id"), req.Answers)
	if err != nil {
		controller.AbortWithError(ctx, err)
		return
	}
	if !result.Accepted {
		ctx.JSON(http.StatusBadRequest, result)
		return
	}
	ctx.JSON(http.StatusCreated, result)
}

// SaveDraft godoc
// @Summary Save an in-progress answer map
// @Tags Public - Drafts
// @Accept json
// @Param form_id path string true "Form ID"
// @Param draft body dto.DraftDTO true "Current answers"
// @Success 204
// @Router /forms/{form_id}/draft [put]
func (c *PublicFormController) SaveDraft(ctx *gin.Context) {
	var req dto.DraftDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if err := c.submissionService.SaveDraft(ctx.Param("form_id"), req.Answers); err != nil {
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// LoadDraft godoc
// @Summary Load the saved draft for a form
// @Tags Public - Drafts
// @Produce json
// @Param form_id path string true "Form ID"
// @Success 200 {object} dto.DraftResponseDTO
// @Router /forms/{form_id}/draft [get]
func (c *PublicFormController) LoadDraft(ctx *gin.Context) {
	resp, err := c.submissionService.LoadDraft(ctx.Param("form_id"))
	if err != nil {
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ClearDraft godoc
// @Summary Discard the saved draft for a form
// @Tags Public - Drafts
// @Param form_id path string true "Form ID"
// @Success 204
// @Router /forms/{form_id}/draft [delete]
func (c *PublicFormController) ClearDraft(ctx *gin.Context) {
	if err := c.submissionService.ClearDraft(ctx.Param("form_id")); err != nil {
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
