package controller

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-upload-service/entity"
	"github.com/tnqbao/gau-upload-service/http/controller/dto"
	"github.com/tnqbao/gau-upload-service/infra"
	"github.com/tnqbao/gau-upload-service/infra/produce"
	"github.com/tnqbao/gau-upload-service/utils"
)

const myUploadsCacheTTL = 30 * time.Second

// GetUploadToken mints a short-lived stateless token so browser clients can
// drive the cross-origin chunk endpoints without a session cookie.
func (ctrl *Controller) GetUploadToken(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	cfg := ctrl.Config.EnvConfig
	token, expires := utils.IssueUploadToken(userID.String(), cfg.Upload.TokenSecret, cfg.Upload.TokenTTL, time.Now())

	utils.JSON200(c, gin.H{
		"token":   token,
		"expires": expires,
	})
}

// UploadVideo handles the single-shot path for files small enough to arrive
// in one request. It shares the resolver and ledger with the chunked path.
func (ctrl *Controller) UploadVideo(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}
	username := c.GetString("username")

	var req dto.DirectUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.JSON400(c, "Missing parameters")
		return
	}

	model := strings.TrimSpace(req.Model)
	title := strings.TrimSpace(req.Title)
	if model == "" || title == "" {
		utils.JSON400(c, "Missing parameters")
		return
	}
	if !ctrl.Config.EnvConfig.IsAllowedBrand(req.Brand) {
		utils.JSON400(c, "Invalid brand")
		return
	}

	fileHeader, err := c.FormFile("video")
	if err != nil {
		utils.JSON400(c, "Please select a video file")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !infra.IsVideoExtension(ext) {
		utils.JSON400(c, "Invalid video format")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to open video part")
		utils.JSON500(c, "Failed to read video")
		return
	}
	defer src.Close()

	base := infra.SafeBaseName(model, title, username)
	dst, finalName, err := ctrl.Infra.Library.CreateExclusive(req.Brand, base, ext)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to create destination file")
		utils.JSON500(c, "Failed to create destination file")
		return
	}
	finalPath := dst.Name()

	_, writeErr := io.Copy(dst, src)
	if closeErr := dst.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, writeErr, "[Upload] Failed to write %s", finalPath)
		utils.JSON500(c, "Failed to save video")
		return
	}

	record := &entity.UploadRecord{
		ID:       uuid.New(),
		UserID:   userID,
		Brand:    req.Brand,
		Model:    model,
		Title:    title,
		Filename: finalName,
		FilePath: finalPath,
	}
	if err := ctrl.Repository.UploadRecordRepo.Create(record); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to record upload of %s", finalName)
		utils.JSON500(c, "Failed to record upload")
		return
	}

	ctrl.invalidateUploadsCache(ctx, userID)
	ctrl.publishUploadCompleted(ctx, record, username, produce.SourceDirect)

	c.JSON(http.StatusOK, dto.MergeChunksResponse{
		Message:  "Upload successful",
		Filename: finalName,
		Brand:    req.Brand,
		Model:    model,
		Title:    title,
	})
}

// MyUploads lists the caller's own ledger entries, newest first.
func (ctrl *Controller) MyUploads(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	cacheKey := infra.MyUploadsKey(userID.String())
	if ctrl.Infra.Redis != nil {
		var cached []dto.UploadListItem
		if err := ctrl.Infra.Redis.Get(ctx, cacheKey, &cached); err == nil {
			utils.JSON200(c, gin.H{"uploads": cached, "count": len(cached)})
			return
		}
	}

	records, err := ctrl.Repository.UploadRecordRepo.FindByUserID(userID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to list uploads for %s", userID)
		utils.JSON500(c, "Failed to list uploads")
		return
	}

	items := make([]dto.UploadListItem, 0, len(records))
	for _, record := range records {
		items = append(items, dto.UploadListItem{
			ID:        record.ID.String(),
			Brand:     record.Brand,
			Model:     record.Model,
			Title:     record.Title,
			Filename:  record.Filename,
			CreatedAt: record.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	if ctrl.Infra.Redis != nil {
		_ = ctrl.Infra.Redis.Set(ctx, cacheKey, items, myUploadsCacheTTL)
	}

	utils.JSON200(c, gin.H{"uploads": items, "count": len(items)})
}

func (ctrl *Controller) invalidateUploadsCache(ctx context.Context, userID uuid.UUID) {
	if ctrl.Infra.Redis == nil {
		return
	}
	if err := ctrl.Infra.Redis.Delete(ctx, infra.MyUploadsKey(userID.String())); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Upload] Failed to drop uploads cache for %s: %v", userID, err)
	}
}

// publishUploadCompleted is best effort: the ledger row is already durable,
// so a broker hiccup must not fail the client's request.
func (ctrl *Controller) publishUploadCompleted(ctx context.Context, record *entity.UploadRecord, username, source string) {
	if ctrl.Infra.Produce == nil {
		return
	}
	msg := produce.UploadCompletedMessage{
		UserID:   record.UserID.String(),
		Username: username,
		Brand:    record.Brand,
		Model:    record.Model,
		Title:    record.Title,
		Filename: record.Filename,
		FilePath: record.FilePath,
		Source:   source,
	}
	if err := ctrl.Infra.Produce.UploadService.PublishUploadCompleted(ctx, msg); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Upload] Failed to publish upload.completed for %s: %v", record.Filename, err)
	}
}
