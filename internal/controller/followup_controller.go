package controller

import (
	"time"

	"ativflow_backend/internal/model"
	"ativflow_backend/internal/repository"
	"ativflow_backend/internal/service"
	"ativflow_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FollowUpController struct {
	FollowUpService *service.FollowUpService
}

func NewFollowUpController(followUpService *service.FollowUpService) *FollowUpController {
	return &FollowUpController{FollowUpService: followUpService}
}

// @Summary Submit the daily follow-up entry
// @Tags followups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.FollowUpRequest true "entry"
// @Success 201 {object} util.Response
// @Router /api/followups [post]
func (c *FollowUpController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	var req service.FollowUpRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	entry, err := c.FollowUpService.Create(user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, entry)
}

// @Summary The caller's follow-up history
// @Tags followups
// @Produce json
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /api/followups/mine [get]
func (c *FollowUpController) ListMine(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	page, limit := pageParams(ctx)
	entries, total, err := c.FollowUpService.ListMine(user.UserID, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: entries, Total: total, Page: page, Limit: limit})
}

// @Summary List follow-up entries
// @Tags followups
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "student filter"
// @Param from query string false "start date (2006-01-02)"
// @Param to query string false "end date (2006-01-02)"
// @Param status query string false "pending | reviewed"
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /api/followups [get]
func (c *FollowUpController) List(ctx *gin.Context) {
	page, limit := pageParams(ctx)
	filter := repository.FollowUpFilter{
		StudentID: util.MustParseUint(ctx.Query("studentId")),
		Status:    model.FollowUpStatus(ctx.Query("status")),
	}
	if raw := ctx.Query("from"); raw != "" {
		from, err := time.Parse(util.DateFormat, raw)
		if err != nil {
			util.BadRequest(ctx, "invalid from date")
			return
		}
		filter.From = &from
	}
	if raw := ctx.Query("to"); raw != "" {
		to, err := time.Parse(util.DateFormat, raw)
		if err != nil {
			util.BadRequest(ctx, "invalid to date")
			return
		}
		filter.To = &to
	}
	entries, total, err := c.FollowUpService.List(filter, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: entries, Total: total, Page: page, Limit: limit})
}

// @Summary Get a follow-up entry
// @Tags followups
// @Produce json
// @Security BearerAuth
// @Param id path int true "entry id"
// @Success 200 {object} util.Response
// @Router /api/followups/{id} [get]
func (c *FollowUpController) Get(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid entry id")
		return
	}
	entry, err := c.FollowUpService.Get(id, user)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, entry)
}

// @Summary Amend the caller's follow-up entry
// @Tags followups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "entry id"
// @Param body body service.FollowUpRequest true "entry"
// @Success 200 {object} util.Response
// @Router /api/followups/{id} [put]
func (c *FollowUpController) Update(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid entry id")
		return
	}
	var req service.FollowUpRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	entry, err := c.FollowUpService.UpdateEntry(id, user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, entry)
}

// @Summary Review a follow-up entry
// @Tags followups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "entry id"
// @Param body body object true "feedback"
// @Success 200 {object} util.Response
// @Router /api/followups/{id}/review [post]
func (c *FollowUpController) Review(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid entry id")
		return
	}
	var body struct {
		Feedback string `json:"feedback"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	entry, err := c.FollowUpService.Review(id, body.Feedback)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, entry)
}

// @Summary Reopen a reviewed entry for the student
// @Tags followups
// @Produce json
// @Security BearerAuth
// @Param id path int true "entry id"
// @Success 200 {object} util.Response
// @Router /api/followups/{id}/release-edit [post]
func (c *FollowUpController) ReleaseEdit(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid entry id")
		return
	}
	entry, err := c.FollowUpService.ReleaseEdit(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, entry)
}
