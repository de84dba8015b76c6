package benchsdk

// PresignResponse carries the time-limited upload URL for one object.
type PresignResponse struct {
	URL string `json:"url"`
}

// UploadResponse is the outcome of a PUT to a presigned URL.
type UploadResponse struct {
	StatusCode int
	Body       string
}

// OK reports whether the object store accepted the upload.
func (r *UploadResponse) OK() bool {
	return IsUploadSuccess(r.StatusCode)
}

func IsUploadSuccess(code int) bool {
	switch code {
	case 200, 201, 204:
		return true
	}
	return false
}
