package controller

import (
	"errors"
	"net/http"
	"strconv"

	"ativflow_backend/internal/util"

	"github.com/gin-gonic/gin"
)

func pageParams(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = util.DefaultPage
	}
	if limit < 1 || limit > util.MaxLimit {
		limit = util.DefaultLimit
	}
	return page, limit
}

// respondError translates service errors into the API envelope. Unknown
// errors are logged and reported as 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrActivityNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrDeliveryNotFound),
		errors.Is(err, util.ErrGroupNotFound),
		errors.Is(err, util.ErrMemberNotFound),
		errors.Is(err, util.ErrFollowUpNotFound),
		errors.Is(err, util.ErrNotificationNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrPermissionDenied),
		errors.Is(err, util.ErrOnlyLeader):
		util.Forbidden(ctx, err.Error())
	case errors.Is(err, util.ErrNotMultipleChoice),
		errors.Is(err, util.ErrNotGroupKind),
		errors.Is(err, util.ErrNoAnswersProvided),
		errors.Is(err, util.ErrNothingToConsolidate),
		errors.Is(err, util.ErrFollowUpLocked):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrAlreadyMember),
		errors.Is(err, util.ErrFollowUpExists),
		errors.Is(err, util.ErrEmailRegistered):
		util.Error(ctx, http.StatusConflict, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
