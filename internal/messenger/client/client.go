package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trigger-bot/internal/logger"
	"trigger-bot/internal/messenger/requests"
)

type (
	// Client клиент Bot API мессенджера
	Client struct {
		serverAddr string
		token      string

		log *logger.Logger
		cl  *http.Client
	}

	HttpError struct {
		Url     string
		Code    int
		Message string
	}

	apiResponse struct {
		Ok          bool            `json:"ok"`
		Result      json.RawMessage `json:"result"`
		Description string          `json:"description"`
		ErrorCode   int             `json:"error_code"`
	}
)

func New(serverAddr, token string, log *logger.Logger) *Client {
	return &Client{
		serverAddr: strings.TrimRight(serverAddr, "/"),
		token:      token,

		log: log,

		cl: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				IdleConnTimeout:     30 * time.Second,
				DisableKeepAlives:   false,
				MaxIdleConnsPerHost: 5,
			},
		},
	}
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("Http request failed for %s with code %d and message:\n%s", e.Url, e.Code, e.Message)
}

func (c *Client) SetHook(ctx context.Context, hookAddr, secret string) error {
	data := requests.HookSetupRequest{
		Url:            hookAddr,
		SecretToken:    secret,
		AllowedUpdates: []string{"message", "callback_query", "inline_query"},
	}
	_, err := c.Invoke(ctx, "setWebhook", data)
	return err
}

func (c *Client) DeleteHook(ctx context.Context) error {
	_, err := c.Invoke(ctx, "deleteWebhook", requests.HookDeleteRequest{DropPendingUpdates: false})
	return err
}

// Invoke вызывает метод API и возвращает поле result ответа.
func (c *Client) Invoke(ctx context.Context, method string, payload any) (json.RawMessage, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	// токен не должен попасть в логи и ошибки
	reqUrl := c.serverAddr + "/bot" + c.token + "/" + method
	logUrl := c.serverAddr + "/bot<token>/" + method

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqUrl, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", logUrl, err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug("---> request", method, string(jsonData))

	resp, err := c.cl.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %s", logUrl, strings.ReplaceAll(err.Error(), c.token, "<token>"))
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s: %w", logUrl, err)
	}
	c.log.Debug("<--- request", method, "with body", string(bodyBytes))

	var r apiResponse
	if err := json.Unmarshal(bodyBytes, &r); err != nil || resp.StatusCode != http.StatusOK || !r.Ok {
		msg := r.Description
		if msg == "" {
			msg = string(bodyBytes)
		}
		return nil, &HttpError{
			Url:     logUrl,
			Code:    resp.StatusCode,
			Message: msg,
		}
	}

	return r.Result, nil
}
