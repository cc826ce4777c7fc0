package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zitlabs/campus/config"
)

func newTestClient(baseURL string) *PaystackClient {
	cfg := &config.Config{}
	cfg.Paystack.SecretKey = "sk_test_secret"
	cfg.Paystack.BaseURL = baseURL
	return NewPaystackClient(cfg)
}

func TestInitializeSendsKoboAndMetadata(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transaction/initialize", r.URL.Path)
		require.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]interface{}{
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code":       "abc123",
				"reference":         captured["reference"],
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.Initialize(context.Background(), InitRequest{
		Email:     "stu@example.com",
		AmountNGN: 2500.50,
		CourseID:  7,
		StudentID: 42,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.Reference)
	assert.Equal(t, "https://checkout.paystack.com/abc123", result.AuthorizationURL)

	assert.Equal(t, "stu@example.com", captured["email"])
	assert.EqualValues(t, 250050, captured["amount"], "amount is sent in kobo")
	metadata := captured["metadata"].(map[string]interface{})
	assert.Equal(t, "7", metadata["course_id"])
	assert.Equal(t, "42", metadata["student_id"])
}

func TestInitializeRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  false,
			"message": "Invalid key",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Initialize(context.Background(), InitRequest{Email: "stu@example.com", AmountNGN: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")
}

func TestVerifySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.URL.Path, "/transaction/verify/"))
		assert.Equal(t, "ref-ok", strings.TrimPrefix(r.URL.Path, "/transaction/verify/"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]interface{}{
				"status":    "success",
				"reference": "ref-ok",
				"metadata": map[string]interface{}{
					"course_id":  "7",
					"student_id": "42",
				},
				"customer": map[string]interface{}{
					"email": "stu@example.com",
				},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	verification, err := client.Verify(context.Background(), "ref-ok")
	require.NoError(t, err)

	assert.True(t, verification.Success)
	assert.Equal(t, "success", verification.Status)
	require.NotNil(t, verification.CourseID)
	assert.EqualValues(t, 7, *verification.CourseID)
	require.NotNil(t, verification.StudentID)
	assert.EqualValues(t, 42, *verification.StudentID)
	assert.Equal(t, "stu@example.com", verification.PayerEmail)
}

func TestVerifyFailedTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]interface{}{
				"status":   "abandoned",
				"metadata": map[string]interface{}{},
				"customer": map[string]interface{}{"email": "stu@example.com"},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	verification, err := client.Verify(context.Background(), "ref-bad")
	require.NoError(t, err)
	assert.False(t, verification.Success)
	assert.Equal(t, "abandoned", verification.Status)
	assert.Nil(t, verification.CourseID)
}

func TestVerifyHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Verify(context.Background(), "ref-missing")
	require.Error(t, err)
}
