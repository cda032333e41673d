package dto

// UploadChunkRequest carries one chunk's multipart form fields. The chunk
// payload itself arrives as the "chunk" file part. ChunkIndex is a pointer so
// index 0 survives the required check.
type UploadChunkRequest struct {
	UploadID    string `form:"uploadId" binding:"required"`
	ChunkIndex  *int   `form:"chunkIndex" binding:"required,min=0"`
	TotalChunks int    `form:"totalChunks" binding:"required,gt=0"`
}

// UploadChunkResponse reports running progress after a chunk write.
type UploadChunkResponse struct {
	Message        string `json:"message"`
	ChunkIndex     int    `json:"chunkIndex"`
	UploadedChunks int    `json:"uploadedChunks"`
	TotalChunks    int    `json:"totalChunks"`
}

// MergeChunksRequest asks for the chunks of an upload id to be assembled into
// the final artifact. Filename is used only for its extension.
type MergeChunksRequest struct {
	UploadID    string `form:"uploadId" binding:"required"`
	Brand       string `form:"brand" binding:"required"`
	Model       string `form:"model" binding:"required"`
	Title       string `form:"title" binding:"required"`
	Filename    string `form:"filename" binding:"required"`
	TotalChunks int    `form:"totalChunks" binding:"required,gt=0"`
}

// MergeChunksResponse echoes the metadata of a successful merge.
type MergeChunksResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	Brand    string `json:"brand"`
	Model    string `json:"model"`
	Title    string `json:"title"`
}

// IncompleteUploadResponse is the 400 body when declared and observed chunk
// counts disagree, so the client can resume by re-sending what is missing.
type IncompleteUploadResponse struct {
	Error          string `json:"error"`
	UploadedChunks int    `json:"uploadedChunks"`
	TotalChunks    int    `json:"totalChunks"`
	MissingChunks  []int  `json:"missingChunks,omitempty"`
}

// DirectUploadRequest carries the metadata of a single-shot video upload; the
// payload arrives as the "video" file part.
type DirectUploadRequest struct {
	Brand string `form:"brand" binding:"required"`
	Model string `form:"model" binding:"required"`
	Title string `form:"title" binding:"required"`
}

// UploadListItem is one row of the my-uploads listing.
type UploadListItem struct {
	ID        string `json:"id"`
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	Title     string `json:"title"`
	Filename  string `json:"filename"`
	CreatedAt string `json:"created_at"`
}
