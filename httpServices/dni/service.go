package dni

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Client queries the apiperu.dev DNI lookup service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient() *Client {
	baseURL := os.Getenv("DNI_API_URL")
	if baseURL == "" {
		baseURL = "https://apiperu.dev/api"
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		token:   os.Getenv("DNI_API_TOKEN"),
	}
}

// Lookup fetches the registered name for a DNI. A missing token disables
// the integration instead of failing requests at startup.
func (c *Client) Lookup(dniNumber string) (*LookupData, error) {
	if c.token == "" {
		return nil, errors.New("DNI lookup is not configured")
	}
	if len(dniNumber) != 8 {
		return nil, errors.New("dni must have 8 digits")
	}

	httpReq, err := http.NewRequest("GET", fmt.Sprintf("%s/dni/%s", c.baseURL, dniNumber), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("DNI API returned non-OK status: " + resp.Status)
	}

	var apiResp lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, err
	}
	if !apiResp.Success || apiResp.Data == nil {
		if apiResp.Message != "" {
			return nil, errors.New(apiResp.Message)
		}
		return nil, errors.New("DNI not found")
	}

	return apiResp.Data, nil
}
