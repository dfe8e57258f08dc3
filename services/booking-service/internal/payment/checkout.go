package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
)

// Session is the external checkout handle the guest gets redirected to.
type Session struct {
	ID          string
	RedirectURL string
	Amount      int64
	Currency    string
}

type SessionInput struct {
	BookingID  string
	Amount     int64
	Currency   string
	SuccessURL string
	CancelURL  string
}

// SessionCreator abstracts the payment provider so the checkout flow
// can be tested without network calls.
type SessionCreator interface {
	CreateSession(ctx context.Context, in SessionInput) (*Session, error)
}

// OmiseCheckout builds checkout sessions as an Omise source + charge.
// Redirect-style sources carry the success URL as return_uri, and the
// charge's authorize URI is the hosted payment page.
type OmiseCheckout struct {
	omc        *omise.Client
	secretKey  string // for REST calls Omise's SDK does not cover
	sourceType string
}

func NewOmiseCheckout(pub, sec, sourceType string) (*OmiseCheckout, error) {
	omc, err := omise.NewClient(pub, sec)
	if err != nil {
		return nil, err
	}
	omc.SetDebug(false)
	if sourceType == "" {
		sourceType = "alipay"
	}
	return &OmiseCheckout{omc: omc, secretKey: sec, sourceType: sourceType}, nil
}

func (c *OmiseCheckout) CreateSession(ctx context.Context, in SessionInput) (*Session, error) {
	if in.Amount <= 0 || in.Currency == "" || in.BookingID == "" {
		return nil, errors.New("invalid session params")
	}

	src, err := c.createSource(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create source: %w", err)
	}

	ch := &omise.Charge{}
	req := &operations.CreateCharge{
		Amount:    in.Amount,
		Currency:  in.Currency,
		Source:    src.ID,
		ReturnURI: in.SuccessURL,
		Metadata:  map[string]any{"booking_id": in.BookingID},
	}
	if err := c.omc.Do(ch, req); err != nil {
		return nil, fmt.Errorf("create charge: %w", err)
	}

	redirect := ch.AuthorizeURI
	if redirect == "" {
		// non-redirect sources (e.g. promptpay QR) finish on our side
		redirect = in.SuccessURL
	}
	return &Session{ID: ch.ID, RedirectURL: redirect, Amount: ch.Amount, Currency: ch.Currency}, nil
}

func (c *OmiseCheckout) createSource(ctx context.Context, in SessionInput) (*omise.Source, error) {
	// promptpay needs no return_uri, the SDK handles it directly
	if strings.EqualFold(c.sourceType, "promptpay") {
		src := &omise.Source{}
		req := &operations.CreateSource{
			Type:     c.sourceType,
			Amount:   in.Amount,
			Currency: in.Currency,
		}
		if err := c.omc.Do(src, req); err != nil {
			return nil, err
		}
		return src, nil
	}
	return c.createSourceViaREST(ctx, in)
}

// createSourceViaREST covers source types that require a return_uri,
// which the SDK's CreateSource operation does not expose.
func (c *OmiseCheckout) createSourceViaREST(ctx context.Context, in SessionInput) (*omise.Source, error) {
	if c.secretKey == "" {
		return nil, errors.New("missing Omise secret key for REST call")
	}

	form := url.Values{}
	form.Set("type", c.sourceType)
	form.Set("amount", strconv.FormatInt(in.Amount, 10))
	form.Set("currency", in.Currency)
	if in.SuccessURL != "" {
		form.Set("return_uri", in.SuccessURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.omise.co/sources", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.secretKey, "")

	httpClient := &http.Client{Timeout: 15 * time.Second}
	res, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("omise create source failed: %s (%d)", string(body), res.StatusCode)
	}

	var src omise.Source
	if err := json.Unmarshal(body, &src); err != nil {
		return nil, fmt.Errorf("parse source json failed: %w", err)
	}
	return &src, nil
}
