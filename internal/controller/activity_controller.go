package controller

import (
	"strconv"

	"ativflow_backend/internal/model"
	"ativflow_backend/internal/repository"
	"ativflow_backend/internal/service"
	"ativflow_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ActivityController struct {
	ActivityService *service.ActivityService
}

func NewActivityController(activityService *service.ActivityService) *ActivityController {
	return &ActivityController{ActivityService: activityService}
}

// @Summary Create an activity
// @Tags activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ActivityRequest true "activity"
// @Success 201 {object} util.Response
// @Router /api/activities [post]
func (c *ActivityController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	var req service.ActivityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	activity, err := c.ActivityService.Create(user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, activity)
}

// @Summary List activities
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param kind query string false "individual | group | multiple_choice"
// @Param class query string false "class filter"
// @Param active query bool false "active filter"
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /api/activities [get]
func (c *ActivityController) List(ctx *gin.Context) {
	page, limit := pageParams(ctx)
	filter := repository.ActivityFilter{
		Kind:  model.ActivityKind(ctx.Query("kind")),
		Class: ctx.Query("class"),
	}
	if raw := ctx.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			util.BadRequest(ctx, "invalid active filter")
			return
		}
		filter.Active = &active
	}

	// Students only see activities targeting their class.
	user := util.GetUserFromContext(ctx)
	if user != nil && user.Role == model.Student {
		filter.Class = user.Class
	}

	activities, total, err := c.ActivityService.List(filter, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: activities, Total: total, Page: page, Limit: limit})
}

// @Summary Get an activity
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param id path int true "activity id"
// @Success 200 {object} util.Response
// @Router /api/activities/{id} [get]
func (c *ActivityController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid activity id")
		return
	}
	activity, err := c.ActivityService.Get(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, activity)
}

// @Summary Update an activity
// @Tags activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "activity id"
// @Param body body service.ActivityUpdateRequest true "fields to update"
// @Success 200 {object} util.Response
// @Router /api/activities/{id} [put]
func (c *ActivityController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid activity id")
		return
	}
	var req service.ActivityUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	activity, err := c.ActivityService.Update(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, activity)
}

// @Summary Deactivate an activity
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param id path int true "activity id"
// @Success 200 {object} util.Response
// @Router /api/activities/{id} [delete]
func (c *ActivityController) Deactivate(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid activity id")
		return
	}
	if err := c.ActivityService.Deactivate(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deactivated": true})
}
