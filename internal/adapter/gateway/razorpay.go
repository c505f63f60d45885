package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/adarsh180/accidentaware/internal/entity"
	"github.com/adarsh180/accidentaware/internal/usecase"
)

// RazorpayClient creates payment intents ("orders" in Razorpay terms)
// through the gateway's REST API. The key secret used here is the same one
// the signature verifier holds; it never leaves the server.
type RazorpayClient struct {
	httpc     *http.Client
	baseURL   string
	keyID     string
	keySecret string
}

func NewRazorpayClient(baseURL, keyID, keySecret string, timeout time.Duration) *RazorpayClient {
	return &RazorpayClient{
		httpc:     &http.Client{Timeout: timeout},
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
	}
}

type createOrderReq struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResp struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
	Error    struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

func (g *RazorpayClient) CreateIntent(ctx context.Context, amountCents int64, currency, receiptRef string) (*usecase.PaymentIntent, error) {
	body, err := json.Marshal(createOrderReq{Amount: amountCents, Currency: currency, Receipt: receiptRef})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.httpc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: gateway timeout", entity.ErrGatewayUnavailable)
		}
		return nil, fmt.Errorf("%w: %v", entity.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", entity.ErrGatewayUnavailable, err)
	}

	var out createOrderResp
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: bad response: %v", entity.ErrGatewayUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return &usecase.PaymentIntent{
			ID:          out.ID,
			AmountCents: out.Amount,
			Currency:    out.Currency,
			Receipt:     out.Receipt,
			Status:      out.Status,
		}, nil
	case resp.StatusCode == http.StatusBadRequest:
		// Amount below the chargeable minimum comes back as BAD_REQUEST_ERROR.
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidAmount, out.Error.Description)
	default:
		return nil, fmt.Errorf("%w: gateway status %d", entity.ErrGatewayUnavailable, resp.StatusCode)
	}
}

var _ usecase.PaymentGateway = (*RazorpayClient)(nil)
