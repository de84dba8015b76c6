package benchsdk

import (
	"context"
	"fmt"
	"net/http"
)

const storagePresignUpload = "/storage/presign/upload"

// PresignUpload asks for a URL that accepts a PUT of objectName.
func (c *Client) PresignUpload(ctx context.Context, accessToken, objectName string) (*PresignResponse, error) {
	if objectName == "" {
		return nil, ErrNoObjectName
	}

	var presign PresignResponse
	resp, err := c.api.R().
		SetContext(ctx).
		SetBearerAuthToken(accessToken).
		SetQueryParam("object_name", objectName).
		SetSuccessResult(&presign).
		Post(storagePresignUpload)

	if err := handleAPIError(resp, err, "presign "+objectName, http.StatusOK); err != nil {
		return nil, err
	}

	if presign.URL == "" {
		return nil, fmt.Errorf("presign %s: %w", objectName, ErrNoUploadURL)
	}

	return &presign, nil
}
