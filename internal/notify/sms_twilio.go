package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/medibook/hospital-booking/pkg/logging"
)

// TwilioSMSSender posts SMS messages through Twilio's REST API.
type TwilioSMSSender struct {
	accountSID string
	authToken  string
	from       string
	httpClient *http.Client
	logger     *logging.Logger
}

func NewTwilioSMSSender(accountSID, authToken, from string, logger *logging.Logger) *TwilioSMSSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &TwilioSMSSender{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

func (s *TwilioSMSSender) SendSMS(ctx context.Context, to, body string) error {
	if s.accountSID == "" || s.authToken == "" {
		return errors.New("notify: twilio credentials missing")
	}
	if to == "" {
		return errors.New("notify: sms recipient required")
	}
	if strings.TrimSpace(body) == "" {
		return errors.New("notify: sms body required")
	}

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", s.accountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.from)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("notify: build sms request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("twilio send failed", "error", err, "to", to)
		return fmt.Errorf("notify: twilio send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		s.logger.Error("twilio returned error status", "status", resp.StatusCode, "body", string(payload), "to", to)
		return fmt.Errorf("notify: twilio returned status %d", resp.StatusCode)
	}

	s.logger.Info("sms sent via twilio", "to", to)
	return nil
}

var _ SMSSender = (*TwilioSMSSender)(nil)
