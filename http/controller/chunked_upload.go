package controller

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-upload-service/entity"
	"github.com/tnqbao/gau-upload-service/http/controller/dto"
	"github.com/tnqbao/gau-upload-service/infra"
	"github.com/tnqbao/gau-upload-service/infra/produce"
	"github.com/tnqbao/gau-upload-service/utils"
)

// UploadChunk stores one chunk of an in-flight upload. The same handler
// serves the session and upload-token routes; the middleware already resolved
// the identity into the context. Re-sending an index overwrites the previous
// chunk, so client retries are safe.
func (ctrl *Controller) UploadChunk(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	var req dto.UploadChunkRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.JSON400(c, "Missing parameters")
		return
	}
	if !validUploadID(req.UploadID) {
		utils.JSON400(c, "Invalid uploadId")
		return
	}

	fileHeader, err := c.FormFile("chunk")
	if err != nil {
		utils.JSON400(c, "Missing parameters")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to open chunk part")
		utils.JSON500(c, "Failed to read chunk")
		return
	}
	defer src.Close()

	key := ctrl.Infra.Chunks.StagingKey(userID.String(), req.UploadID)
	count, err := ctrl.Infra.Chunks.PutChunk(key, *req.ChunkIndex, src)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to store chunk %d for %s", *req.ChunkIndex, key)
		utils.JSON500(c, "Failed to store chunk")
		return
	}

	c.JSON(http.StatusOK, dto.UploadChunkResponse{
		Message:        "Chunk uploaded",
		ChunkIndex:     *req.ChunkIndex,
		UploadedChunks: count,
		TotalChunks:    req.TotalChunks,
	})
}

// MergeChunks assembles the staged chunks of an upload id into the final
// artifact, retires the staging directory and appends the ledger row. Each
// request runs the full state machine; nothing is persisted between attempts,
// so a failed merge can simply be retried.
func (ctrl *Controller) MergeChunks(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}
	username := c.GetString("username")

	var req dto.MergeChunksRequest
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
	if !validUploadID(req.UploadID) {
		utils.JSON400(c, "Invalid uploadId")
		return
	}

	key := ctrl.Infra.Chunks.StagingKey(userID.String(), req.UploadID)
	if !ctrl.Infra.Chunks.Exists(key) {
		utils.JSON404(c, "Upload not found")
		return
	}

	uploaded := ctrl.Infra.Chunks.ChunkCount(key)
	missing := ctrl.Infra.Chunks.MissingChunks(key, req.TotalChunks)
	if uploaded < req.TotalChunks || len(missing) > 0 {
		c.JSON(http.StatusBadRequest, dto.IncompleteUploadResponse{
			Error:          fmt.Sprintf("Missing chunks: %d/%d", uploaded, req.TotalChunks),
			UploadedChunks: uploaded,
			TotalChunks:    req.TotalChunks,
			MissingChunks:  missing,
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(req.Filename))
	base := infra.SafeBaseName(model, title, username)

	dst, finalName, err := ctrl.Infra.Library.CreateExclusive(req.Brand, base, ext)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to create destination for %s", key)
		utils.JSON500(c, "Failed to create destination file")
		return
	}
	finalPath := dst.Name()

	writeErr := ctrl.concatenateChunks(dst, key, req.TotalChunks)
	if closeErr := dst.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		// The partially written destination file is left on disk.
		ctrl.Infra.Logger.ErrorWithContextf(ctx, writeErr, "[Upload] Failed to merge chunks for %s", key)
		utils.JSON500(c, "Failed to merge chunks")
		return
	}

	if err := ctrl.Infra.Chunks.Cleanup(key); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Upload] Failed to clean staging dir %s: %v", key, err)
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
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to record merge for %s", key)
		utils.JSON500(c, "Failed to record upload")
		return
	}

	ctrl.invalidateUploadsCache(ctx, userID)
	ctrl.publishUploadCompleted(ctx, record, username, produce.SourceChunked)

	c.JSON(http.StatusOK, dto.MergeChunksResponse{
		Message:  "Upload successful",
		Filename: finalName,
		Brand:    req.Brand,
		Model:    model,
		Title:    title,
	})
}

// concatenateChunks streams chunks 0..total-1 in index order into dst. The
// completeness check already guaranteed every index is present; a chunk that
// disappears mid-merge is an error, not a gap to skip.
func (ctrl *Controller) concatenateChunks(dst io.Writer, key string, total int) error {
	for i := 0; i < total; i++ {
		src, err := ctrl.Infra.Chunks.OpenChunk(key, i)
		if err != nil {
			return fmt.Errorf("open chunk %d: %w", i, err)
		}
		_, err = io.Copy(dst, src)
		src.Close()
		if err != nil {
			return fmt.Errorf("append chunk %d: %w", i, err)
		}
	}
	return nil
}

// validUploadID rejects ids that could escape the staging root. The id is
// opaque to the server, so anything path-like is refused outright.
func validUploadID(id string) bool {
	if id == "" {
		return false
	}
	return !strings.ContainsAny(id, "/\\") && !strings.Contains(id, "..")
}
