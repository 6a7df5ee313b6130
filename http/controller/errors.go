package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-wiki-gateway/service/file"
	"github.com/tnqbao/gau-wiki-gateway/utils"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// respondFileError maps upload failures onto HTTP statuses by kind.
func (ctrl *Controller) respondFileError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	switch file.KindOf(err) {
	case file.KindValidation:
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[File] Rejected request: %v", err)
		utils.JSON400(c, validationMessage(err))
	case file.KindNotFound:
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[File] %v", err)
		utils.JSON404(c, "Upload session not found or expired")
	case file.KindUpstream:
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Storage dependency failed: %v", err)
		utils.JSON503(c, "Storage temporarily unavailable, please retry")
	default:
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Unexpected failure: %v", err)
		utils.JSON500(c, "Internal server error")
	}
}

func validationMessage(err error) string {
	var fe *file.Error
	if errors.As(err, &fe) {
		return fe.Err.Error()
	}
	return err.Error()
}

// respondBackendError translates a wiki/auth backend gRPC failure.
func (ctrl *Controller) respondBackendError(c *gin.Context, component string, err error) {
	ctx := c.Request.Context()
	st, _ := status.FromError(err)
	message := st.Message()
	if message == "" {
		message = "Backend request failed"
	}

	switch st.Code() {
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[%s] Backend rejected request: %v", component, err)
		utils.JSON400(c, message)
	case codes.NotFound:
		utils.JSON404(c, message)
	case codes.PermissionDenied:
		utils.JSON403(c, message)
	case codes.Unauthenticated:
		utils.JSON401(c, message)
	case codes.AlreadyExists, codes.Aborted:
		utils.JSON409(c, message, nil)
	case codes.Unavailable, codes.DeadlineExceeded:
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[%s] Backend unavailable: %v", component, err)
		utils.JSON503(c, message)
	default:
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[%s] Backend call failed: %v", component, err)
		utils.JSON502(c, message)
	}
}
