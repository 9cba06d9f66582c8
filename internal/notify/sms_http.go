package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPSMSSender posts messages to an SMS gateway's JSON API.
type HTTPSMSSender struct {
	GatewayURL string
	APIKey     string
	Client     *http.Client
}

func NewHTTPSMSSender(gatewayURL, apiKey string) *HTTPSMSSender {
	return &HTTPSMSSender{
		GatewayURL: gatewayURL,
		APIKey:     apiKey,
		Client:     &http.Client{Timeout: 15 * time.Second},
	}
}

type smsRequest struct {
	To         string `json:"to"`
	Message    string `json:"message"`
	Originator string `json:"originator"`
}

type smsResponse struct {
	IsSent bool `json:"isSent"`
}

func (s *HTTPSMSSender) SendSMS(ctx context.Context, phone, message, originator string) (bool, error) {
	payload, err := json.Marshal(smsRequest{To: phone, Message: message, Originator: originator})
	if err != nil {
		return false, fmt.Errorf("encode sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.GatewayURL, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return false, fmt.Errorf("sms gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("sms gateway status %d", resp.StatusCode)
	}

	var out smsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("decode sms response: %w", err)
	}
	return out.IsSent, nil
}

var _ SMSSender = (*HTTPSMSSender)(nil)
