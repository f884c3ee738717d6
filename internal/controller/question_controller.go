package controller

import (
	"ativflow_backend/internal/model"
	"ativflow_backend/internal/service"
	"ativflow_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// @Summary Add a question to a multiple-choice activity
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "activity id"
// @Param body body service.QuestionRequest true "question"
// @Success 201 {object} util.Response
// @Router /api/activities/{id}/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	activityID := util.MustParseUint(ctx.Param("id"))
	if activityID == 0 {
		util.BadRequest(ctx, "invalid activity id")
		return
	}
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	question, err := c.QuestionService.CreateQuestion(activityID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// @Summary List the questions of an activity
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "activity id"
// @Success 200 {object} util.Response
// @Router /api/activities/{id}/questions [get]
func (c *QuestionController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	activityID := util.MustParseUint(ctx.Param("id"))
	if activityID == 0 {
		util.BadRequest(ctx, "invalid activity id")
		return
	}
	// The answer key is stripped for students.
	includeKey := user.Role != model.Student
	questions, err := c.QuestionService.ListQuestions(activityID, includeKey)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// @Summary Update a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "question id"
// @Param body body service.QuestionRequest true "question"
// @Success 200 {object} util.Response
// @Router /api/questions/{id} [put]
func (c *QuestionController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid question id")
		return
	}
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	question, err := c.QuestionService.UpdateQuestion(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// @Summary Delete a question
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "question id"
// @Success 200 {object} util.Response
// @Router /api/questions/{id} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid question id")
		return
	}
	if err := c.QuestionService.DeleteQuestion(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// @Summary Submit answers for an activity
// @Tags answers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "activity id"
// @Param body body []service.AnswerSubmission true "answers"
// @Success 200 {object} util.Response
// @Router /api/activities/{id}/answers [post]
func (c *QuestionController) SubmitAnswers(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	activityID := util.MustParseUint(ctx.Param("id"))
	if activityID == 0 {
		util.BadRequest(ctx, "invalid activity id")
		return
	}
	var body struct {
		Answers []service.AnswerSubmission `json:"answers" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	result, err := c.QuestionService.SubmitAnswers(activityID, user.UserID, body.Answers)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary List the caller's graded answers for an activity
// @Tags answers
// @Produce json
// @Security BearerAuth
// @Param id path int true "activity id"
// @Success 200 {object} util.Response
// @Router /api/activities/{id}/answers/mine [get]
func (c *QuestionController) MyAnswers(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	activityID := util.MustParseUint(ctx.Param("id"))
	if activityID == 0 {
		util.BadRequest(ctx, "invalid activity id")
		return
	}
	attempts, err := c.QuestionService.MyAnswers(activityID, user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// @Summary Per-question accuracy statistics for an activity
// @Tags answers
// @Produce json
// @Security BearerAuth
// @Param id path int true "activity id"
// @Success 200 {object} util.Response
// @Router /api/activities/{id}/statistics [get]
func (c *QuestionController) Statistics(ctx *gin.Context) {
	activityID := util.MustParseUint(ctx.Param("id"))
	if activityID == 0 {
		util.BadRequest(ctx, "invalid activity id")
		return
	}
	stats, err := c.QuestionService.ActivityStatistics(activityID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
