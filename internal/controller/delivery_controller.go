package controller

import (
	"ativflow_backend/internal/model"
	"ativflow_backend/internal/repository"
	"ativflow_backend/internal/service"
	"ativflow_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DeliveryController struct {
	DeliveryService *service.DeliveryService
}

func NewDeliveryController(deliveryService *service.DeliveryService) *DeliveryController {
	return &DeliveryController{DeliveryService: deliveryService}
}

// @Summary Submit a delivery
// @Tags deliveries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.DeliveryRequest true "delivery"
// @Success 201 {object} util.Response
// @Router /api/deliveries [post]
func (c *DeliveryController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	var req service.DeliveryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	delivery, err := c.DeliveryService.Create(user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, delivery)
}

// @Summary List deliveries
// @Tags deliveries
// @Produce json
// @Security BearerAuth
// @Param activityId query int false "activity filter"
// @Param studentId query int false "student filter (teachers only)"
// @Param status query string false "status filter"
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /api/deliveries [get]
func (c *DeliveryController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	page, limit := pageParams(ctx)
	filter := repository.DeliveryFilter{
		ActivityID: util.MustParseUint(ctx.Query("activityId")),
		StudentID:  util.MustParseUint(ctx.Query("studentId")),
		Status:     model.DeliveryStatus(ctx.Query("status")),
	}
	deliveries, total, err := c.DeliveryService.List(user, filter, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: deliveries, Total: total, Page: page, Limit: limit})
}

// @Summary Get a delivery
// @Tags deliveries
// @Produce json
// @Security BearerAuth
// @Param id path int true "delivery id"
// @Success 200 {object} util.Response
// @Router /api/deliveries/{id} [get]
func (c *DeliveryController) Get(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid delivery id")
		return
	}
	delivery, err := c.DeliveryService.Get(id, user)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, delivery)
}

// @Summary Reopen a delivery for resubmission
// @Tags deliveries
// @Produce json
// @Security BearerAuth
// @Param id path int true "delivery id"
// @Success 200 {object} util.Response
// @Router /api/deliveries/{id}/allow-edit [post]
func (c *DeliveryController) AllowEdit(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid delivery id")
		return
	}
	delivery, err := c.DeliveryService.AllowEdit(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, delivery)
}

// @Summary Evaluate a delivery
// @Tags deliveries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "delivery id"
// @Param body body service.EvaluationRequest true "evaluation"
// @Success 200 {object} util.Response
// @Router /api/deliveries/{id}/evaluate [post]
func (c *DeliveryController) Evaluate(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid delivery id")
		return
	}
	var req service.EvaluationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	delivery, evaluation, err := c.DeliveryService.Evaluate(id, user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"delivery": delivery, "evaluation": evaluation})
}

// @Summary Routed deliveries waiting for the group leader
// @Tags deliveries
// @Produce json
// @Security BearerAuth
// @Param id path int true "group id"
// @Success 200 {object} util.Response
// @Router /api/groups/{id}/inbox [get]
func (c *DeliveryController) LeaderInbox(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	groupID := util.MustParseUint(ctx.Param("id"))
	if groupID == 0 {
		util.BadRequest(ctx, "invalid group id")
		return
	}
	deliveries, err := c.DeliveryService.LeaderInbox(groupID, user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, deliveries)
}

// @Summary Consolidate routed deliveries into the group delivery
// @Tags deliveries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "group id"
// @Param body body object false "observations"
// @Success 201 {object} util.Response
// @Router /api/groups/{id}/consolidate [post]
func (c *DeliveryController) Consolidate(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	groupID := util.MustParseUint(ctx.Param("id"))
	if groupID == 0 {
		util.BadRequest(ctx, "invalid group id")
		return
	}
	var body struct {
		Observations string `json:"observations"`
	}
	// The body is optional; observations default to empty.
	_ = ctx.ShouldBindJSON(&body)

	delivery, err := c.DeliveryService.Consolidate(groupID, user.UserID, body.Observations)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, delivery)
}
