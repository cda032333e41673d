package controller_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-upload-service/config"
	"github.com/tnqbao/gau-upload-service/entity"
	"github.com/tnqbao/gau-upload-service/http/controller"
	routes "github.com/tnqbao/gau-upload-service/http/route"
	"github.com/tnqbao/gau-upload-service/infra"
	"github.com/tnqbao/gau-upload-service/repository"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testJWTSecret    = "session-secret"
	testUploadSecret = "upload-token-secret"
)

// testEnv wires the full router against fake repositories and a temp
// directory. Redis and the broker are left nil; the controller treats both as
// optional.
type testEnv struct {
	router  *gin.Engine
	cfg     *config.EnvConfig
	chunks  *infra.ChunkStorage
	users   *fakeUserRepo
	records *fakeUploadRecordRepo
	userID  uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.EnvConfig{}
	cfg.JWT.SecretKey = testJWTSecret
	cfg.Upload.BaseDir = t.TempDir()
	cfg.Upload.AllowedBrands = []string{"FUJI XEROX", "FUJI FILM", "Canon"}
	cfg.Upload.TokenSecret = testUploadSecret
	cfg.Upload.TokenTTL = 3600

	userID := uuid.New()
	users := &fakeUserRepo{users: map[uuid.UUID]*entity.User{
		userID: {ID: userID, Username: "alice", Department: "Service"},
	}}
	records := &fakeUploadRecordRepo{}

	chunks := infra.InitChunkStorage(cfg)
	infraClient := &infra.Infra{
		Logger:  infra.InitLoggerClient(cfg),
		Chunks:  chunks,
		Library: infra.InitMediaLibrary(cfg),
	}
	repo := &repository.Repository{
		UserRepo:         users,
		UploadRecordRepo: records,
	}
	ctrl := controller.NewController(&config.Config{EnvConfig: cfg}, infraClient, repo)

	return &testEnv{
		router:  routes.SetupRouter(ctrl),
		cfg:     cfg,
		chunks:  chunks,
		users:   users,
		records: records,
		userID:  userID,
	}
}

// sessionJWT signs an access token the way the account service does.
func (e *testEnv) sessionJWT(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func (e *testEnv) defaultSessionJWT(t *testing.T) string {
	return e.sessionJWT(t, jwt.MapClaims{
		"user_id":  e.userID.String(),
		"username": "alice",
	})
}

func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, contentType string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func multipartForm(t *testing.T, fields map[string]string, filePart, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if filePart != "" {
		part, err := writer.CreateFormFile(filePart, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func chunkFields(token, uploadID string, index, total int) map[string]string {
	fields := map[string]string{
		"uploadId":    uploadID,
		"chunkIndex":  strconv.Itoa(index),
		"totalChunks": strconv.Itoa(total),
	}
	if token != "" {
		fields["token"] = token
	}
	return fields
}

func mergeFields(token, uploadID, brand, model, title, filename string, total int) map[string]string {
	fields := map[string]string{
		"uploadId":    uploadID,
		"brand":       brand,
		"model":       model,
		"title":       title,
		"filename":    filename,
		"totalChunks": strconv.Itoa(total),
	}
	if token != "" {
		fields["token"] = token
	}
	return fields
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (r *fakeUserRepo) FindByID(id uuid.UUID) (*entity.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByUsername(username string) (*entity.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeUploadRecordRepo struct {
	records   []entity.UploadRecord
	createErr error
}

func (r *fakeUploadRecordRepo) Create(record *entity.UploadRecord) error {
	if r.createErr != nil {
		return r.createErr
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeUploadRecordRepo) FindByUserID(userID uuid.UUID) ([]entity.UploadRecord, error) {
	var out []entity.UploadRecord
	for _, record := range r.records {
		if record.UserID == userID {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
