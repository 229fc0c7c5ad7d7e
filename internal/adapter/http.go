package adapter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/MKhiriev/go-pantry-keeper/internal/config"
	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
	"github.com/MKhiriev/go-pantry-keeper/internal/utils"
	"github.com/MKhiriev/go-pantry-keeper/models"
	"github.com/go-resty/resty/v2"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	// streamClient carries the live snapshot stream. It shares the base URL
	// with client but has no request timeout: the stream stays open until
	// the context is cancelled.
	streamClient *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and configures the underlying HTTP clients with the
// resolved base URL and request timeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as
// a valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	streamClient := utils.NewHTTPClient()
	streamClient.SetBaseURL(baseURL)

	return &httpServerAdapter{
		client:       client,
		streamClient: streamClient,
		logger:       logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed)
// for use in the Authorization header of all subsequent authenticated
// requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter]. It returns the bearer token currently
// held by the adapter, or an empty string if none has been set.
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpServerAdapter) Register(ctx context.Context, user models.User) (models.User, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post("/api/auth/register")
	if err != nil {
		return models.User{}, fmt.Errorf("register request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return h.adoptSession(resp.Header().Get("Authorization"), user)
}

func (h *httpServerAdapter) Login(ctx context.Context, user models.User) (models.User, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post("/api/auth/login")
	if err != nil {
		return models.User{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return h.adoptSession(resp.Header().Get("Authorization"), user)
}

// adoptSession extracts the bearer token from the Authorization response
// header, stores it for subsequent requests and fills the user's ID from
// the token's subject claim.
func (h *httpServerAdapter) adoptSession(authHeader string, user models.User) (models.User, error) {
	token, err := utils.ParseBearerToken(authHeader)
	if err != nil {
		return models.User{}, fmt.Errorf("parse bearer token: %w", err)
	}

	userID, err := utils.ParseUnverifiedUserID(token)
	if err != nil {
		return models.User{}, fmt.Errorf("parse user id from token: %w", err)
	}

	h.SetToken(token)

	user.UserID = userID
	user.Password = ""
	return user, nil
}

func (h *httpServerAdapter) CreateItem(ctx context.Context, draft models.ItemDraft) (models.Item, error) {
	var created models.Item

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(draft).
		SetResult(&created).
		Post("/api/items/")
	if err != nil {
		return models.Item{}, fmt.Errorf("create item request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Item{}, err
	}

	return created, nil
}

func (h *httpServerAdapter) UpdateItem(ctx context.Context, itemID string, patch models.ItemPatch) (models.Item, error) {
	var updated models.Item

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(patch).
		SetResult(&updated).
		Put("/api/items/" + url.PathEscape(itemID))
	if err != nil {
		return models.Item{}, fmt.Errorf("update item request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Item{}, err
	}

	return updated, nil
}

func (h *httpServerAdapter) DeleteItem(ctx context.Context, itemID string) error {
	resp, err := h.authedRequest(ctx).
		Delete("/api/items/" + url.PathEscape(itemID))
	if err != nil {
		return fmt.Errorf("delete item request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) GetItems(ctx context.Context, name string) (models.Snapshot, error) {
	req := h.authedRequest(ctx)
	if name != "" {
		req.SetQueryParam("name", name)
	}

	resp, err := req.Get("/api/items/")
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("get items request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Snapshot{}, err
	}

	var snapshot models.Snapshot
	if err = json.Unmarshal(resp.Body(), &snapshot); err != nil {
		return models.Snapshot{}, fmt.Errorf("decode items response: %w", err)
	}

	return snapshot, nil
}

func (h *httpServerAdapter) WatchItems(ctx context.Context, name string) (<-chan models.Snapshot, error) {
	req := h.streamClient.R().
		SetContext(ctx).
		SetHeader("Accept", "text/event-stream").
		SetDoNotParseResponse(true)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	if name != "" {
		req.SetQueryParam("name", name)
	}

	resp, err := req.Get("/api/items/watch")
	if err != nil {
		return nil, fmt.Errorf("watch request: %w", err)
	}

	rawBody := resp.RawBody()
	if resp.StatusCode() != http.StatusOK {
		defer rawBody.Close()
		if resp.StatusCode() == http.StatusUnauthorized {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("watch request: http %d", resp.StatusCode())
	}

	snapshots := make(chan models.Snapshot)

	go func() {
		defer close(snapshots)
		defer rawBody.Close()

		scanner := bufio.NewScanner(rawBody)
		scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

		for scanner.Scan() {
			line := scanner.Bytes()
			if !bytes.HasPrefix(line, []byte("data: ")) {
				continue
			}

			var snapshot models.Snapshot
			if err := json.Unmarshal(bytes.TrimPrefix(line, []byte("data: ")), &snapshot); err != nil {
				h.logger.Error().Err(err).Msg("undecodable snapshot event, stream closed")
				return
			}

			select {
			case snapshots <- snapshot:
			case <-ctx.Done():
				return
			}
		}
	}()

	return snapshots, nil
}

func (h *httpServerAdapter) UploadItemImage(ctx context.Context, asset models.Asset) (string, error) {
	return h.uploadAsset(ctx, asset, "item")
}

func (h *httpServerAdapter) UploadAvatar(ctx context.Context, asset models.Asset) (string, error) {
	return h.uploadAsset(ctx, asset, "avatar")
}

func (h *httpServerAdapter) uploadAsset(ctx context.Context, asset models.Asset, target string) (string, error) {
	resp, err := h.authedRequest(ctx).
		SetFileReader("file", asset.FileName, bytes.NewReader(asset.Data)).
		SetFormData(map[string]string{"target": target}).
		Post("/api/assets/")
	if err != nil {
		return "", fmt.Errorf("asset upload request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	var result models.AssetResponse
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("decode asset response: %w", err)
	}

	return result.URL, nil
}

func (h *httpServerAdapter) GetProfile(ctx context.Context) (models.Profile, error) {
	resp, err := h.authedRequest(ctx).Get("/api/profile/")
	if err != nil {
		return models.Profile{}, fmt.Errorf("get profile request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Profile{}, err
	}

	var profile models.Profile
	if err = json.Unmarshal(resp.Body(), &profile); err != nil {
		return models.Profile{}, fmt.Errorf("decode profile response: %w", err)
	}

	return profile, nil
}

func (h *httpServerAdapter) SaveProfile(ctx context.Context, profile models.Profile) (models.Profile, error) {
	var saved models.Profile

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(profile).
		SetResult(&saved).
		Put("/api/profile/")
	if err != nil {
		return models.Profile{}, fmt.Errorf("save profile request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Profile{}, err
	}

	return saved, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
