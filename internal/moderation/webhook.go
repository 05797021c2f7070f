package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/disintegration/imaging"

	"github.com/pixelcanvas/pixels/internal/yaerrors"
)

const (
	webhookWidth  = 1600
	webhookHeight = 900

	lastWebhookMessageKey = "last-webhook-message"
)

// Webhook renders the current canvas to a PNG, upscales it with nearest-
// neighbour resampling for visibility, and posts it to the configured
// webhook URL. If a previous post is still tracked in Redis it tries to
// edit that message in place first, falling back to posting a new one when
// the edit fails (the message may have been deleted on the other end).
func (m *Moderator) Webhook(ctx context.Context) yaerrors.Error {
	if m.webhookURL == "" {
		return yaerrors.FromString(http.StatusNotImplemented, "moderation: no webhook url configured")
	}

	pixels, err := m.canvas.GetPixels(ctx)
	if err != nil {
		return err.Wrap("moderation: webhook")
	}

	pngBytes, err := renderPNG(pixels, m.width, m.height)
	if err != nil {
		return err.Wrap("moderation: webhook")
	}

	now := time.Now()

	payload := webhookPayload(now)

	lastMessageID, rerr := m.redis.Get(ctx, lastWebhookMessageKey)
	if rerr != nil {
		return rerr.Wrap("moderation: webhook")
	}

	if lastMessageID != "" {
		editPayload := payload
		editPayload["attachments"] = []any{}

		ok, perr := m.patchMessage(ctx, lastMessageID, editPayload, pngBytes, now)
		if perr != nil {
			m.log.WithField("error", perr.Error()).Warn("moderation: webhook edit request errored")
		}

		if ok {
			return nil
		}

		m.log.Warn("moderation: webhook edit failed, posting a new message")
	}

	payload["username"] = "Pixels"

	messageID, perr := m.postMessage(ctx, payload, pngBytes, now)
	if perr != nil {
		return perr.Wrap("moderation: webhook")
	}

	if err := m.redis.Set(ctx, lastWebhookMessageKey, []byte(messageID)); err != nil {
		return err.Wrap("moderation: webhook")
	}

	return nil
}

func webhookPayload(now time.Time) map[string]any {
	return map[string]any{
		"content": "",
		"embeds": []any{
			map[string]any{
				"title": "Pixels State",
				"image": map[string]any{
					"url": fmt.Sprintf("attachment://pixels_%d.png", now.Unix()),
				},
				"footer":    map[string]any{"text": "Last updated"},
				"timestamp": now.Format(time.RFC3339),
			},
		},
	}
}

func renderPNG(pixels []byte, width, height int) ([]byte, yaerrors.Error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for i := 0; i < width*height; i++ {
		img.Pix[i*4] = pixels[i*3]
		img.Pix[i*4+1] = pixels[i*3+1]
		img.Pix[i*4+2] = pixels[i*3+2]
		img.Pix[i*4+3] = 0xFF
	}

	resized := imaging.Resize(img, webhookWidth, webhookHeight, imaging.NearestNeighbor)

	var buf bytes.Buffer

	if err := png.Encode(&buf, resized); err != nil {
		return nil, yaerrors.FromError(http.StatusInternalServerError, err, "encode png")
	}

	return buf.Bytes(), nil
}

func (m *Moderator) patchMessage(
	ctx context.Context,
	messageID string,
	payload map[string]any,
	pngBytes []byte,
	now time.Time,
) (bool, yaerrors.Error) {
	req, err := m.buildMultipartRequest(
		ctx,
		http.MethodPatch,
		fmt.Sprintf("%s/messages/%s", m.webhookURL, messageID),
		payload,
		pngBytes,
		now,
	)
	if err != nil {
		return false, err
	}

	resp, doErr := m.httpClient.Do(req)
	if doErr != nil {
		return false, yaerrors.FromError(http.StatusBadGateway, doErr, "patch webhook message")
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}

func (m *Moderator) postMessage(
	ctx context.Context,
	payload map[string]any,
	pngBytes []byte,
	now time.Time,
) (string, yaerrors.Error) {
	req, err := m.buildMultipartRequest(ctx, http.MethodPost, m.webhookURL, payload, pngBytes, now)
	if err != nil {
		return "", err
	}

	resp, doErr := m.httpClient.Do(req)
	if doErr != nil {
		return "", yaerrors.FromError(http.StatusBadGateway, doErr, "post webhook message")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", yaerrors.FromString(http.StatusBadGateway, "webhook post returned a non-2xx status")
	}

	var created struct {
		ID string `json:"id"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", yaerrors.FromError(http.StatusBadGateway, err, "decode webhook response")
	}

	return created.ID, nil
}

func (m *Moderator) buildMultipartRequest(
	ctx context.Context,
	method, url string,
	payload map[string]any,
	pngBytes []byte,
	now time.Time,
) (*http.Request, yaerrors.Error) {
	var body bytes.Buffer

	writer := multipart.NewWriter(&body)

	encodedPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, yaerrors.FromError(http.StatusInternalServerError, err, "marshal webhook payload")
	}

	if err := writer.WriteField("payload_json", string(encodedPayload)); err != nil {
		return nil, yaerrors.FromError(http.StatusInternalServerError, err, "write payload_json field")
	}

	fileWriter, err := writer.CreateFormFile("file", fmt.Sprintf("pixels_%d.png", now.Unix()))
	if err != nil {
		return nil, yaerrors.FromError(http.StatusInternalServerError, err, "create form file")
	}

	if _, err := fileWriter.Write(pngBytes); err != nil {
		return nil, yaerrors.FromError(http.StatusInternalServerError, err, "write png bytes")
	}

	if err := writer.Close(); err != nil {
		return nil, yaerrors.FromError(http.StatusInternalServerError, err, "close multipart writer")
	}

	req, err := http.NewRequestWithContext(ctx, method, url, &body)
	if err != nil {
		return nil, yaerrors.FromError(http.StatusInternalServerError, err, "build webhook request")
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())

	return req, nil
}
