package controller_test

import (
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-upload-service/entity"
	"github.com/tnqbao/gau-upload-service/http/controller/dto"
	"github.com/tnqbao/gau-upload-service/utils"
)

func TestGetUploadToken(t *testing.T) {
	env := newTestEnv(t)
	headers := map[string]string{"Authorization": "Bearer " + env.defaultSessionJWT(t)}

	before := time.Now().Unix()
	w := env.do(t, http.MethodGet, "/api/v1/upload/token", nil, "", headers)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token   string `json:"token"`
		Expires int64  `json:"expires"`
	}
	decodeBody(t, w, &resp)

	userID, err := utils.VerifyUploadToken(resp.Token, testUploadSecret, env.cfg.Upload.TokenTTL, time.Now())
	require.NoError(t, err)
	assert.Equal(t, env.userID.String(), userID)

	assert.GreaterOrEqual(t, resp.Expires, before+3600)
	assert.LessOrEqual(t, resp.Expires, time.Now().Unix()+3600)
}

func TestSessionRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/upload/token", nil, "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Authorization is required"}`, w.Body.String())

	// Token signed with the wrong secret.
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": env.userID.String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	w = env.do(t, http.MethodGet, "/api/v1/upload/mine", nil, "", map[string]string{
		"Authorization": "Bearer " + forged,
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid or expired token"}`, w.Body.String())

	// Expired session token.
	expired := env.sessionJWT(t, jwt.MapClaims{
		"user_id": env.userID.String(),
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	w = env.do(t, http.MethodGet, "/api/v1/upload/mine", nil, "", map[string]string{
		"Authorization": "Bearer " + expired,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUploadVideoDirect(t *testing.T) {
	env := newTestEnv(t)
	headers := map[string]string{"Authorization": "Bearer " + env.defaultSessionJWT(t)}

	fields := map[string]string{"brand": "Canon", "model": "ModelX", "title": "Quick Fix"}
	body, contentType := multipartForm(t, fields, "video", "original name.mp4", []byte("video-bytes"))
	w := env.do(t, http.MethodPost, "/api/v1/upload/video", body, contentType, headers)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.MergeChunksResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "Upload successful", resp.Message)
	assert.Equal(t, "ModelX_Quick_Fix_alice.mp4", resp.Filename)

	data, err := os.ReadFile(env.pendingPath("Canon", resp.Filename))
	require.NoError(t, err)
	assert.Equal(t, "video-bytes", string(data))

	require.Len(t, env.records.records, 1)
	assert.Equal(t, "ModelX_Quick_Fix_alice.mp4", env.records.records[0].Filename)
}

func TestUploadVideoRejectsNonVideo(t *testing.T) {
	env := newTestEnv(t)
	headers := map[string]string{"Authorization": "Bearer " + env.defaultSessionJWT(t)}

	fields := map[string]string{"brand": "Canon", "model": "ModelX", "title": "Quick Fix"}
	body, contentType := multipartForm(t, fields, "video", "malware.exe", []byte("not a video"))
	w := env.do(t, http.MethodPost, "/api/v1/upload/video", body, contentType, headers)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid video format"}`, w.Body.String())
	assert.Empty(t, env.records.records)
}

func TestUploadVideoRequiresFilePart(t *testing.T) {
	env := newTestEnv(t)
	headers := map[string]string{"Authorization": "Bearer " + env.defaultSessionJWT(t)}

	fields := map[string]string{"brand": "Canon", "model": "ModelX", "title": "Quick Fix"}
	body, contentType := multipartForm(t, fields, "", "", nil)
	w := env.do(t, http.MethodPost, "/api/v1/upload/video", body, contentType, headers)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Please select a video file"}`, w.Body.String())
}

func TestSessionUsernameFallback(t *testing.T) {
	env := newTestEnv(t)

	// Older account-service tokens carry no username claim; the middleware
	// resolves it from the user record, so the filename still gets one.
	tokenWithoutUsername := env.sessionJWT(t, jwt.MapClaims{
		"user_id": env.userID.String(),
	})
	headers := map[string]string{"Authorization": "Bearer " + tokenWithoutUsername}

	fields := map[string]string{"brand": "Canon", "model": "ModelX", "title": "Quick Fix"}
	body, contentType := multipartForm(t, fields, "video", "clip.mp4", []byte("video-bytes"))
	w := env.do(t, http.MethodPost, "/api/v1/upload/video", body, contentType, headers)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.MergeChunksResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "ModelX_Quick_Fix_alice.mp4", resp.Filename)
}

func TestMyUploads(t *testing.T) {
	env := newTestEnv(t)
	headers := map[string]string{"Authorization": "Bearer " + env.defaultSessionJWT(t)}

	older := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 15, 14, 5, 0, 0, time.UTC)

	env.records.records = []entity.UploadRecord{
		{ID: uuid.New(), UserID: env.userID, Brand: "Canon", Model: "ModelX", Title: "First", Filename: "a.mp4", CreatedAt: older},
		{ID: uuid.New(), UserID: env.userID, Brand: "FUJI FILM", Model: "ModelY", Title: "Second", Filename: "b.mp4", CreatedAt: newer},
		{ID: uuid.New(), UserID: uuid.New(), Brand: "Canon", Model: "ModelZ", Title: "Other user", Filename: "c.mp4", CreatedAt: newer},
	}

	w := env.do(t, http.MethodGet, "/api/v1/upload/mine", nil, "", headers)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Uploads []dto.UploadListItem `json:"uploads"`
		Count   int                  `json:"count"`
	}
	decodeBody(t, w, &resp)

	require.Equal(t, 2, resp.Count)
	require.Len(t, resp.Uploads, 2)

	// Newest first, timestamps formatted to the minute.
	assert.Equal(t, "Second", resp.Uploads[0].Title)
	assert.Equal(t, "2026-08-15 14:05", resp.Uploads[0].CreatedAt)
	assert.Equal(t, "First", resp.Uploads[1].Title)
	assert.Equal(t, "2026-08-01 09:30", resp.Uploads[1].CreatedAt)
}

func TestMyUploadsEmpty(t *testing.T) {
	env := newTestEnv(t)
	headers := map[string]string{"Authorization": "Bearer " + env.defaultSessionJWT(t)}

	w := env.do(t, http.MethodGet, "/api/v1/upload/mine", nil, "", headers)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uploads":[],"count":0}`, w.Body.String())
}
