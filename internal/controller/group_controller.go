package controller

import (
	"ativflow_backend/internal/service"
	"ativflow_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	GroupService *service.GroupService
}

func NewGroupController(groupService *service.GroupService) *GroupController {
	return &GroupController{GroupService: groupService}
}

// @Summary Create a group for a group activity
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.GroupRequest true "group"
// @Success 201 {object} util.Response
// @Router /api/groups [post]
func (c *GroupController) Create(ctx *gin.Context) {
	var req service.GroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	group, err := c.GroupService.Create(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, group)
}

// @Summary List groups
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param activityId query int false "activity filter"
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /api/groups [get]
func (c *GroupController) List(ctx *gin.Context) {
	page, limit := pageParams(ctx)
	groups, total, err := c.GroupService.List(util.MustParseUint(ctx.Query("activityId")), page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: groups, Total: total, Page: page, Limit: limit})
}

// @Summary Get a group with its members
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "group id"
// @Success 200 {object} util.Response
// @Router /api/groups/{id} [get]
func (c *GroupController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid group id")
		return
	}
	group, err := c.GroupService.Get(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, group)
}

// @Summary Update a group
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "group id"
// @Param body body service.GroupUpdateRequest true "fields to update"
// @Success 200 {object} util.Response
// @Router /api/groups/{id} [put]
func (c *GroupController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid group id")
		return
	}
	var req service.GroupUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	group, err := c.GroupService.Update(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, group)
}

// @Summary Add a student to a group
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "group id"
// @Param body body object true "studentId"
// @Success 200 {object} util.Response
// @Router /api/groups/{id}/members [post]
func (c *GroupController) AddMember(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid group id")
		return
	}
	var body struct {
		StudentID uint `json:"studentId" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.GroupService.AddMember(id, body.StudentID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"added": true})
}

// @Summary Remove a student from a group
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "group id"
// @Param studentId path int true "student id"
// @Success 200 {object} util.Response
// @Router /api/groups/{id}/members/{studentId} [delete]
func (c *GroupController) RemoveMember(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	studentID := util.MustParseUint(ctx.Param("studentId"))
	if id == 0 || studentID == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}
	if err := c.GroupService.RemoveMember(id, studentID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"removed": true})
}

// @Summary Groups the caller belongs to
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/groups/mine [get]
func (c *GroupController) MyGroups(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	groups, err := c.GroupService.MyGroups(user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, groups)
}
