// Package commands implements the streamlinkctl operator CLI: register,
// get, rm, purge, ls and count subcommands over the edge server's
// /admin API, in the teacher's one-constructor-per-command cobra style
// (_examples/leo-pony-model-runner/cmd/cli/commands/root.go).
package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// link mirrors the JSON shape served by pkg/edge's admin API.
type link struct {
	Token       string `json:"token"`
	ContainerID int64  `json:"container_id"`
	MessageID   int64  `json:"message_id"`
	FileName    string `json:"file_name"`
	MimeType    string `json:"mime_type"`
	Size        int64  `json:"size"`
	ExpiresAt   string `json:"expires_at,omitempty"`
}

// adminClient is a thin HTTP client for the edge server's /admin API.
type adminClient struct {
	baseURL string
	http    *http.Client
}

func newAdminClient(baseURL string) *adminClient {
	return &adminClient{baseURL: baseURL, http: http.DefaultClient}
}

func (c *adminClient) register(containerID, messageID int64, fileName, mimeType string, size int64) (link, error) {
	body, _ := json.Marshal(map[string]any{
		"container_id": containerID,
		"message_id":   messageID,
		"file_name":    fileName,
		"mime_type":    mimeType,
		"size":         size,
	})
	var out link
	err := c.do(http.MethodPost, "/admin/links", bytes.NewReader(body), &out)
	return out, err
}

func (c *adminClient) get(token string) (link, error) {
	var out link
	err := c.do(http.MethodGet, "/admin/links/"+token, nil, &out)
	return out, err
}

func (c *adminClient) remove(token string) error {
	return c.do(http.MethodDelete, "/admin/links/"+token, nil, nil)
}

func (c *adminClient) purge() (int, error) {
	var out struct {
		Removed int `json:"removed"`
	}
	err := c.do(http.MethodDelete, "/admin/links", nil, &out)
	return out.Removed, err
}

func (c *adminClient) list(skip, limit int) ([]link, error) {
	path := fmt.Sprintf("/admin/links?skip=%d&limit=%d", skip, limit)
	var out []link
	err := c.do(http.MethodGet, path, nil, &out)
	return out, err
}

func (c *adminClient) count() (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	err := c.do(http.MethodGet, "/admin/links/count", nil, &out)
	return out.Count, err
}

func (c *adminClient) do(method, path string, body io.Reader, out any) error {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("streamlinkctl: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("streamlinkctl: %s %s: %s: %s", method, path, resp.Status, string(msg))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
