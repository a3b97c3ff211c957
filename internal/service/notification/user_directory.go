package notification

import (
	"context"
	"fmt"

	"sneakerspot/internal/pkg/httpclient"
)

// HTTPUserDirectory looks up recipient names in the user service.
type HTTPUserDirectory struct {
	baseURL string
	client  *httpclient.Client
}

func NewHTTPUserDirectory(baseURL string, client *httpclient.Client) *HTTPUserDirectory {
	return &HTTPUserDirectory{baseURL: baseURL, client: client}
}

func (d *HTTPUserDirectory) FirstName(ctx context.Context, userID int64) (string, error) {
	var out struct {
		FirstName string `json:"first_name"`
	}
	url := fmt.Sprintf("%s/users/%d", d.baseURL, userID)
	if err := d.client.Get(ctx, url, nil, &out); err != nil {
		return "", err
	}
	return out.FirstName, nil
}
