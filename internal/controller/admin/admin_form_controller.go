package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mhoang/assessforms/internal/controller"
	"github.com/mhoang/assessforms/internal/dto"
	"github.com/mhoang/assessforms/internal/schema"
	"github.com/mhoang/assessforms/internal/service"
)

type AdminFormController struct {
	formBuilderService service.FormBuilderService
}

func NewAdminFormController(formBuilderService service.FormBuilderService) *AdminFormController {
	return &AdminFormController{formBuilderService: formBuilderService}
}

// ListQuestionTypes godoc
// @Summary (Admin) List question types
// @Description Lists every question type and the config keys it recognizes, for the form builder palette.
// @Tags Admin - Forms
// @Produce json
// @Success 200 {array} dto.QuestionTypeDTO
// @Router /admin/question-types [get]
func (c *AdminFormController) ListQuestionTypes(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.formBuilderService.ListQuestionTypes())
}

// CreateForm godoc
// @Summary (Admin) Create a new form
// @Tags Admin - Forms
// @Accept json
// @Produce json
// @Param form body dto.FormCreateDTO true "Form title and description"
// @Success 201 {object} dto.FormResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/forms [post]
func (c *AdminFormController) CreateForm(ctx *gin.Context) {
	var req dto.FormCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	resp, err := c.formBuilderService.CreateForm(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("Admin CreateForm failed")
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListForms godoc
// @Summary (Admin) List all forms
// @Tags Admin - Forms
// @Produce json
// @Success 200 {array} dto.FormSummaryDTO
// @Router /admin/forms [get]
func (c *AdminFormController) ListForms(ctx *gin.Context) {
	resp, err := c.formBuilderService.ListForms(ctx.Request.Context())
	if err != nil {
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetForm godoc
// @Summary (Admin) Get one form with its full schema
// @Tags Admin - Forms
// @Produce json
// @Param form_id path string true "Form ID"
// @Success 200 {object} dto.FormResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/forms/{form_id} [get]
func (c *AdminFormController) GetForm(ctx *gin.Context) {
	resp, err := c.formBuilderService.GetForm(ctx.Request.Context(), ctx.Param("form_id"))
	if err != nil {
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateFormMeta godoc
// @Summary (Admin) Update form title and description
// @Tags Admin - Forms
// @Accept json
// @Produce json
// @Param form_id path string true "Form ID"
// @Param form body dto.FormMetaUpdateDTO true "New metadata"
// @Success 200 {object} dto.FormResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/forms/{form_id} [put]
func (c *AdminFormController) UpdateFormMeta(ctx *gin.Context) {
	var req dto.FormMetaUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	resp, err := c.formBuilderService.UpdateFormMeta(ctx.Request.Context(), ctx.Param("form_id"), req)
	if err != nil {
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteForm godoc
// @Summary (Admin) Delete a form
// @Tags Admin - Forms
// @Param form_id path string true "Form ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/forms/{form_id} [delete]
func (c *AdminFormController) DeleteForm(ctx *gin.Context) {
	if err := c.formBuilderService.DeleteForm(ctx.Request.Context(), ctx.Param("form_id")); err != nil {
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// PublishForm godoc
// @Summary (Admin) Publish a form
// @Tags Admin - Forms
// @Produce json
// @Param form_id path string true "Form ID"
// @Success 200 {object} dto.FormResponseDTO
// @Router /admin/forms/{form_id}/publish [post]
func (c *AdminFormController) PublishForm(ctx *gin.Context) {
	c.setStatus(ctx, schema.StatusPublished)
}

// UnpublishForm godoc
// @Summary (Admin) Revert a form to draft
// @Tags Admin - Forms
// @Produce json
// @Param form_id path string true "Form ID"
// @Success 200 {object} dto.FormResponseDTO
// @Router /admin/forms/{form_id}/unpublish [post]
func (c *AdminFormController) UnpublishForm(ctx *gin.Context) {
	c.setStatus(ctx, schema.StatusDraft)
}

func (c *AdminFormController) setStatus(ctx *gin.Context, status schema.FormStatus) {
	resp, err := c.formBuilderService.SetStatus(ctx.Request.Context(), ctx.Param("form_id"), status)
	if err != nil {
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// AddSection godoc
// @Summary (Admin) Add a section
// @Tags Admin - Sections
// @Accept json
// @Produce json
// @Param form_id path string true "Form ID"
// @Param section body dto.SectionCreateDTO true "Section title"
// @Success 200 {object} dto.FormResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/forms/{form_id}/sections [post]
func (c *AdminFormController) AddSection(ctx *gin.Context) {
	var req dto.SectionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	resp, err := c.formBuilderService.AddSection(ctx.Request.Context(), ctx.Param("form_id"), req)
	if err != nil {
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// RemoveSection godoc
// @Summary (Admin) Remove a section and its questions
// @Tags Admin - Sections
// @Param form_id path string true "Form ID"
// @Param section_id path string true "Section ID"
// @Success 200 {object} dto.FormResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/forms/{form_id}/sections/{section_id} [delete]
func (c *AdminFormController) RemoveSection(ctx *gin.Context) {
	resp, err := c.formBuilderService.RemoveSection(ctx.Request.Context(), ctx.Param("form_id"), ctx.Param("section_id"))
	if err != nil {
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ReorderSections godoc
// @Summary (Admin) Reorder sections
// @Description The order list must contain every current section id exactly once.
// @Tags Admin - Sections
// @Accept json
// @Produce json
// @Param form_id path string true "Form ID"
// @Param order body dto.ReorderDTO true "Complete new section order"
// @Success 200 {object} dto.FormResponseDTO
// @Failure 409 {object} dto.ErrorResponse "Order list is not a permutation of current ids"
// @Router /admin/forms/{form_id}/sections/reorder [put]
func (c *AdminFormController) ReorderSections(ctx *gin.Context) {
	var req dto.ReorderDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	resp, err := c.formBuilderService.ReorderSections(ctx.Request.Context(), ctx.Param("form_id"), req)
	if err != nil {
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// MoveSection godoc
// @Summary (Admin) Move a section up or down
// @Tags Admin - Sections
// @Accept json
// @Produce json
// @Param form_id path string true "Form ID"
// @Param section_id path string true "Section ID"
// @Param move body dto.MoveDTO true "Signed position offset"
// @Success 200 {object} dto.FormResponseDTO
// @Router /admin/forms/{form_id}/sections/{section_id}/move [put]
func (c *AdminFormController) MoveSection(ctx *gin.Context) {
	var req dto.MoveDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	resp, err := c.formBuilderService.MoveSection(ctx.Request.Context(), ctx.Param("form_id"), ctx.Param("section_id"), req.Offset)
	if err != nil {
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// AddQuestion godoc
// @Summary (Admin) Add a question to a section
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param form_id path string true "Form ID"
// @Param section_id path string true "Section ID"
// @Param question body dto.QuestionCreateDTO true "Question type and label"
// @Success 200 {object} dto.FormResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Unknown question type or empty label"
// @Router /admin/forms/{form_id}/sections/{section_id}/questions [post]
func (c *AdminFormController) AddQuestion(ctx *gin.Context) {
	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	resp, err := c.formBuilderService.AddQuestion(ctx.Request.Context(), ctx.Param("form_id"), ctx.Param("section_id"), req)
	if err != nil {
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateQuestion godoc
// @Summary (Admin) Update question label, description, required flag
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param form_id path string true "Form ID"
// @Param question_id path string true "Question ID"
// @Param question body dto.QuestionUpdateDTO true "New question metadata"
// @Success 200 {object} dto.FormResponseDTO
// @Router /admin/forms/{form_id}/questions/{question_id} [put]
func (c *AdminFormController) UpdateQuestion(ctx *gin.Context) {
	var req dto.QuestionUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	resp, err := c.formBuilderService.UpdateQuestion(ctx.Request.Context(), ctx.Param("form_id"), ctx.Param("question_id"), req)
	if err != nil {
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateQuestionConfig godoc
// @Summary (Admin) Merge a config patch into a question
// @Description Keys the question type does not recognize are kept and reported as warnings.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param form_id path string true "Form ID"
// @Param question_id path string true "Question ID"
// @Param patch body dto.ConfigPatchDTO true "Config keys to merge"
// @Success 200 {object} dto.FormResponseDTO
// @Router /admin/forms/{form_id}/questions/{question_id}/config [patch]
func (c *AdminFormController) UpdateQuestionConfig(ctx *gin.Context) {
	var req dto.ConfigPatchDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	resp, err := c.formBuilderService.UpdateQuestionConfig(ctx.Request.Context(), ctx.Param("form_id"), ctx.Param("question_id"), req)
	if err != nil {
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// RemoveQuestion godoc
// @Summary (Admin) Remove a question
// @Tags Admin - Questions
// @Param form_id path string true "Form ID"
// @Param section_id path string true "Section ID"
// @Param question_id path string true "Question ID"
// @Success 200 {object} dto.FormResponseDTO
// @Router /admin/forms/{form_id}/sections/{section_id}/questions/{question_id} [delete]
func (c *AdminFormController) RemoveQuestion(ctx *gin.Context) {
	resp, err := c.formBuilderService.RemoveQuestion(ctx.Request.Context(), ctx.Param("form_id"), ctx.Param("section_id"), ctx.Param("question_id"))
	if err != nil {
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ReorderQuestions godoc
// @Summary (Admin) Reorder the questions in a section
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param form_id path string true "Form ID"
// @Param section_id path string true "Section ID"
// @Param order body dto.ReorderDTO true "Complete new question order"
// @Success 200 {object} dto.FormResponseDTO
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/forms/{form_id}/sections/{section_id}/questions/reorder [put]
func (c *AdminFormController) ReorderQuestions(ctx *gin.Context) {
	var req dto.ReorderDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	resp, err := c.formBuilderService.ReorderQuestions(ctx.Request.Context(), ctx.Param("form_id"), ctx.Param("section_id"), req)
	if err != nil {
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// MoveQuestion godoc
// @Summary (Admin) Move a question within its section
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param form_id path string true "Form ID"
// @Param section_id path string true "Section ID"
// @Param question_id path string true "Question ID"
// @Param move body dto.MoveDTO true "Signed position offset"
// @Success 200 {object} dto.FormResponseDTO
// @Router /admin/forms/{form_id}/sections/{section_id}/questions/{question_id}/move [put]
func (c *AdminFormController) MoveQuestion(ctx *gin.Context) {
	var req dto.MoveDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	resp, err := c.formBuilderService.MoveQuestion(ctx.Request.Context(), ctx.Param("form_id"), ctx.Param("section_id"), ctx.Param("question_id"), req.Offset)
	if err != nil {
		controller.AbortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
