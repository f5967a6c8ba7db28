package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/R0CKSAM/drive-cli/internal/models"
)

// Client talks to the drive store over HTTP. It is safe for concurrent use;
// the token is set once at construction or after Login.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(baseURL, token string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 60 * time.Second},
		log:     log,
	}
}

// errorBody is the JSON error envelope the server uses for 4xx responses.
type errorBody struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

type foldersResponse struct {
	Folders []models.Folder `json:"folders"`
}

type folderResponse struct {
	Folder *models.Folder `json:"folder"`
}

type filesResponse struct {
	Files []models.File `json:"files"`
}

type fileResponse struct {
	File *models.File `json:"file"`
}

type trashResponse struct {
	Folders []models.Folder `json:"folders"`
	Files   []models.File   `json:"files"`
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &APIError{Op: op, Path: path, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	observeCall(op, err)
	if err != nil {
		return &APIError{Op: op, Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.asAPIError(op, path, resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &APIError{Op: op, Path: path, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

func (c *Client) asAPIError(op, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	apiErr := &APIError{Op: op, Path: path, StatusCode: resp.StatusCode}

	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil && eb.Code != "" {
		apiErr.Message = eb.Message
		switch eb.Code {
		case "cycle_detected":
			apiErr.Err = ErrCycleDetected
		case "duplicate_name":
			apiErr.Err = ErrDuplicateName
		case "not_found":
			apiErr.Err = ErrNotFound
		}
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}

	if apiErr.Err == nil {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			apiErr.Err = ErrUnauthorized
		case http.StatusNotFound:
			apiErr.Err = ErrNotFound
		case http.StatusConflict:
			apiErr.Err = ErrDuplicateName
		}
	}

	c.log.Debug("remote call failed",
		zap.String("op", op),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode))
	return apiErr
}

// Login exchanges credentials for a bearer token and installs it on the
// client for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, "login", http.MethodPost, "/auth/login", body, &out); err != nil {
		return "", err
	}
	c.token = out.Token
	return out.Token, nil
}

// Me returns the account behind the installed token.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out struct {
		User *models.User `json:"user"`
	}
	if err := c.doJSON(ctx, "me", http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *Client) ListFolders(ctx context.Context, parentID *string) ([]models.Folder, error) {
	path := "/folders"
	if parentID != nil {
		path += "?parent_id=" + url.QueryEscape(*parentID)
	}
	var out foldersResponse
	if err := c.doJSON(ctx, "list_folders", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Folders, nil
}

// ListAllFolders asks for the whole folder universe in one call. Servers
// that do not support all=1 make us fall back to the root level only, which
// is reported through complete=false.
func (c *Client) ListAllFolders(ctx context.Context) ([]models.Folder, bool, error) {
	var out foldersResponse
	err := c.doJSON(ctx, "list_all_folders", http.MethodGet, "/folders?all=1", nil, &out)
	if err == nil {
		return out.Folders, true, nil
	}

	var apiErr *APIError
	if !(hasStatus(err, &apiErr, http.StatusBadRequest) ||
		hasStatus(err, &apiErr, http.StatusNotFound) ||
		hasStatus(err, &apiErr, http.StatusNotImplemented)) {
		return nil, false, err
	}

	c.log.Warn("server does not support full folder listing, validating against root level only")
	roots, err := c.ListFolders(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	return roots, false, nil
}

func hasStatus(err error, target **APIError, status int) bool {
	if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode == status {
		*target = apiErr
		return true
	}
	return false
}

func (c *Client) CreateFolder(ctx context.Context, name string, parentID *string) (*models.Folder, error) {
	body := map[string]any{"name": name, "parent_id": parentID}
	var out folderResponse
	if err := c.doJSON(ctx, "create_folder", http.MethodPost, "/folders", body, &out); err != nil {
		return nil, err
	}
	return out.Folder, nil
}

func (c *Client) RenameFolder(ctx context.Context, id, newName string) error {
	body := map[string]string{"name": newName}
	return c.doJSON(ctx, "rename_folder", http.MethodPatch, "/folders/"+url.PathEscape(id), body, nil)
}

func (c *Client) MoveFolder(ctx context.Context, id string, newParentID *string) error {
	body := map[string]any{"parent_id": newParentID}
	return c.doJSON(ctx, "move_folder", http.MethodPatch, "/folders/"+url.PathEscape(id)+"/move", body, nil)
}

func (c *Client) TrashFolder(ctx context.Context, id string) error {
	return c.doJSON(ctx, "trash_folder", http.MethodDelete, "/folders/"+url.PathEscape(id), nil, nil)
}

func (c *Client) RestoreFolder(ctx context.Context, id string) error {
	return c.doJSON(ctx, "restore_folder", http.MethodPost, "/restore/folder/"+url.PathEscape(id), nil, nil)
}

func (c *Client) PurgeFolder(ctx context.Context, id string) error {
	return c.doJSON(ctx, "purge_folder", http.MethodDelete, "/folders/"+url.PathEscape(id)+"/hard", nil, nil)
}

func (c *Client) ListFiles(ctx context.Context, folderID *string) ([]models.File, error) {
	segment := "root"
	if folderID != nil {
		segment = url.PathEscape(*folderID)
	}
	var out filesResponse
	if err := c.doJSON(ctx, "list_files", http.MethodGet, "/folders/"+segment+"/files", nil, &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

func (c *Client) UploadFile(ctx context.Context, name string, folderID *string, content io.Reader) (*models.File, error) {
	const op = "upload_file"
	path := "/files/upload"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, &APIError{Op: op, Path: path, Err: err}
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, &APIError{Op: op, Path: path, Err: err}
	}
	folderField := ""
	if folderID != nil {
		folderField = *folderID
	}
	if err := mw.WriteField("folder_id", folderField); err != nil {
		return nil, &APIError{Op: op, Path: path, Err: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &APIError{Op: op, Path: path, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, &APIError{Op: op, Path: path, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	observeCall(op, err)
	if err != nil {
		return nil, &APIError{Op: op, Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, c.asAPIError(op, path, resp)
	}

	var out fileResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &APIError{Op: op, Path: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return out.File, nil
}

func (c *Client) RenameFile(ctx context.Context, id, newName string) error {
	body := map[string]string{"name": newName}
	return c.doJSON(ctx, "rename_file", http.MethodPatch, "/files/"+url.PathEscape(id), body, nil)
}

func (c *Client) MoveFile(ctx context.Context, id string, folderID *string) error {
	body := map[string]any{"folder_id": folderID}
	return c.doJSON(ctx, "move_file", http.MethodPatch, "/files/"+url.PathEscape(id)+"/move", body, nil)
}

func (c *Client) TrashFile(ctx context.Context, id string) error {
	return c.doJSON(ctx, "trash_file", http.MethodDelete, "/files/"+url.PathEscape(id), nil, nil)
}

func (c *Client) RestoreFile(ctx context.Context, id string) error {
	return c.doJSON(ctx, "restore_file", http.MethodPost, "/restore/file/"+url.PathEscape(id), nil, nil)
}

func (c *Client) PurgeFile(ctx context.Context, id string) error {
	return c.doJSON(ctx, "purge_file", http.MethodDelete, "/files/"+url.PathEscape(id)+"/hard", nil, nil)
}

func (c *Client) DownloadURL(ctx context.Context, id string) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := c.doJSON(ctx, "download_url", http.MethodGet, "/files/"+url.PathEscape(id)+"/download", nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *Client) ListTrash(ctx context.Context) ([]models.Folder, []models.File, error) {
	var out trashResponse
	if err := c.doJSON(ctx, "list_trash", http.MethodGet, "/trash", nil, &out); err != nil {
		return nil, nil, err
	}
	return out.Folders, out.Files, nil
}

// SubscribeEvents opens the websocket change feed. The returned channel is
// closed when the connection drops or ctx is cancelled.
func (c *Client) SubscribeEvents(ctx context.Context) (<-chan models.ChangeEvent, error) {
	wsURL, err := url.Parse(c.baseURL + "/ws")
	if err != nil {
		return nil, err
	}
	switch wsURL.Scheme {
	case "https":
		wsURL.Scheme = "wss"
	default:
		wsURL.Scheme = "ws"
	}

	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL.String(), header)
	if err != nil {
		if resp != nil {
			return nil, &APIError{Op: "subscribe", Path: "/ws", StatusCode: resp.StatusCode, Err: err}
		}
		return nil, &APIError{Op: "subscribe", Path: "/ws", Err: err}
	}

	events := make(chan models.ChangeEvent)
	done := make(chan struct{})
	// The watchdog must not outlive the read loop: a connection that drops
	// on its own under a long-lived context has to release it too.
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	go func() {
		defer close(events)
		defer close(done)
		defer conn.Close()
		for {
			var ev models.ChangeEvent
			if err := conn.ReadJSON(&ev); err != nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}
