package payment

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/zitlabs/campus/config"
)

const requestTimeout = 15 * time.Second

// paystackTxResponse mirrors the fields of Paystack's transaction
// endpoints that this service reads.
type paystackTxResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status           string `json:"status"`
		Reference        string `json:"reference"`
		AuthorizationURL string `json:"authorization_url"`
		Metadata         struct {
			CourseID  string `json:"course_id"`
			StudentID string `json:"student_id"`
		} `json:"metadata"`
		Customer struct {
			Email string `json:"email"`
		} `json:"customer"`
	} `json:"data"`
}

type paystackInitResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// InitRequest carries what Paystack needs to start a checkout session.
type InitRequest struct {
	Email     string
	AmountNGN float64
	CourseID  uint
	StudentID uint
	Callback  string
}

// InitResult is the checkout handoff returned to the caller.
type InitResult struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
}

type PaystackClient struct {
	client *resty.Client
}

func NewPaystackClient(cfg *config.Config) *PaystackClient {
	client := resty.New().
		SetBaseURL(cfg.Paystack.BaseURL).
		SetTimeout(requestTimeout).
		SetAuthToken(cfg.Paystack.SecretKey).
		SetHeader("Content-Type", "application/json")
	return &PaystackClient{client: client}
}

// Initialize opens a transaction for a course purchase. The amount is
// converted to kobo and the course/student ids ride along as metadata so
// Verify can resolve them later.
func (p *PaystackClient) Initialize(ctx context.Context, req InitRequest) (*InitResult, error) {
	reference := uuid.NewString()
	payload := map[string]interface{}{
		"email":        req.Email,
		"amount":       int64(req.AmountNGN * 100),
		"reference":    reference,
		"callback_url": req.Callback,
		"metadata": map[string]string{
			"course_id":  strconv.FormatUint(uint64(req.CourseID), 10),
			"student_id": strconv.FormatUint(uint64(req.StudentID), 10),
		},
	}

	var out paystackInitResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&out).
		Post("/transaction/initialize")
	if err != nil {
		log.Error().Err(err).Str("reference", reference).Msg("Paystack initialize request failed")
		return nil, fmt.Errorf("paystack initialize: %w", err)
	}
	if resp.IsError() || !out.Status {
		log.Warn().Int("http_status", resp.StatusCode()).Str("message", out.Message).Msg("Paystack initialize rejected")
		return nil, fmt.Errorf("paystack initialize rejected: %s", out.Message)
	}

	return &InitResult{Reference: out.Data.Reference, AuthorizationURL: out.Data.AuthorizationURL}, nil
}

// Verify confirms a transaction by reference. A transport failure or a
// non-2xx response is an error; a clean response still carries the
// gateway's own success flag and transaction status for the caller.
func (p *PaystackClient) Verify(ctx context.Context, reference string) (*Verification, error) {
	var out paystackTxResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/transaction/verify/" + reference)
	if err != nil {
		log.Error().Err(err).Str("reference", reference).Msg("Paystack verify request failed")
		return nil, fmt.Errorf("paystack verify: %w", err)
	}
	if resp.IsError() {
		log.Warn().Int("http_status", resp.StatusCode()).Str("reference", reference).Msg("Paystack verify returned error status")
		return nil, fmt.Errorf("paystack verify: http %d", resp.StatusCode())
	}

	verification := &Verification{
		Success:    out.Status && out.Data.Status == "success",
		Status:     out.Data.Status,
		PayerEmail: out.Data.Customer.Email,
	}
	if id, err := strconv.ParseUint(out.Data.Metadata.CourseID, 10, 32); err == nil && id > 0 {
		courseID := uint(id)
		verification.CourseID = &courseID
	}
	if id, err := strconv.ParseUint(out.Data.Metadata.StudentID, 10, 32); err == nil && id > 0 {
		studentID := uint(id)
		verification.StudentID = &studentID
	}
	return verification, nil
}
