package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-wiki-gateway/entity"
	"github.com/tnqbao/gau-wiki-gateway/http/controller/dto"
	"github.com/tnqbao/gau-wiki-gateway/service/file"
	"github.com/tnqbao/gau-wiki-gateway/utils"
)

func (ctrl *Controller) InitUpload(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.InitUploadRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[File] Failed to bind InitUpload request: %v", err)
		utils.JSON400(c, "Invalid request payload: "+err.Error())
		return
	}

	uploadedBy := file.AnonymousUploader
	if userID := utils.GetUserID(c); userID > 0 {
		uploadedBy = strconv.FormatInt(userID, 10)
	}

	result, err := ctrl.Files.InitUpload(ctx, file.InitUploadParams{
		FileHash:   req.FileHash,
		FileName:   req.FileName,
		FileSize:   req.FileSize,
		MimeType:   req.MimeType,
		UploadedBy: uploadedBy,
	})
	if err != nil {
		ctrl.respondFileError(c, err)
		return
	}

	utils.JSON200(c, result)
}

func (ctrl *Controller) SignUploadPart(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SignPartRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[File] Failed to bind SignUploadPart request: %v", err)
		utils.JSON400(c, "Invalid request payload: "+err.Error())
		return
	}

	url, err := ctrl.Files.GetUploadPartURL(ctx, req.UploadID, req.PartNumber)
	if err != nil {
		ctrl.respondFileError(c, err)
		return
	}

	utils.JSON200(c, dto.SignPartResponseDTO{URL: url})
}

func (ctrl *Controller) CompleteUpload(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CompleteUploadRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[File] Failed to bind CompleteUpload request: %v", err)
		utils.JSON400(c, "Invalid request payload: "+err.Error())
		return
	}

	result, err := ctrl.Files.CompleteUpload(ctx, req.UploadID)
	if err != nil {
		ctrl.respondFileError(c, err)
		return
	}

	utils.JSON200(c, result)
}

func (ctrl *Controller) BatchFileInfo(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.BatchInfoRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[File] Failed to bind BatchFileInfo request: %v", err)
		utils.JSON400(c, "Invalid request payload: "+err.Error())
		return
	}

	files, err := ctrl.Files.BatchInfo(ctx, req.FileIDs)
	if err != nil {
		ctrl.respondFileError(c, err)
		return
	}
	if files == nil {
		files = []entity.FileInfo{}
	}

	utils.JSON200(c, gin.H{"files": files})
}
