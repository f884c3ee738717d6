package controller

import (
	"ativflow_backend/internal/model"
	"ativflow_backend/internal/service"
	"ativflow_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// @Summary Register a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.UserRequest true "user"
// @Success 201 {object} util.Response
// @Router /api/users [post]
func (c *UserController) Create(ctx *gin.Context) {
	var req service.UserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	user, err := c.UserService.Create(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, user)
}

// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param role query string false "student | teacher | admin"
// @Param class query string false "class filter"
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /api/users [get]
func (c *UserController) List(ctx *gin.Context) {
	page, limit := pageParams(ctx)
	users, total, err := c.UserService.List(model.UserRole(ctx.Query("role")), ctx.Query("class"), page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}

// @Summary Get a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "user id"
// @Success 200 {object} util.Response
// @Router /api/users/{id} [get]
func (c *UserController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid user id")
		return
	}
	user, err := c.UserService.Get(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// @Summary The caller's own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/users/me [get]
func (c *UserController) Me(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	user, err := c.UserService.Get(claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "user id"
// @Param body body service.UserUpdateRequest true "fields to update"
// @Success 200 {object} util.Response
// @Router /api/users/{id} [put]
func (c *UserController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid user id")
		return
	}
	var req service.UserUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	user, err := c.UserService.Update(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// @Summary Deactivate a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "user id"
// @Success 200 {object} util.Response
// @Router /api/users/{id} [delete]
func (c *UserController) Deactivate(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid user id")
		return
	}
	if err := c.UserService.Deactivate(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deactivated": true})
}
