package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"
)

// SnapConfig holds Midtrans Snap configuration
type SnapConfig struct {
	ServerKey     string
	ClientKey     string
	IsProduction  bool
	BaseURL       string // overrides the environment-derived base URL when set
	MerchantName  string
	MerchantEmail string
	MerchantPhone string
}

// SnapClient is a thin wrapper over the Midtrans Snap create-transaction API.
type SnapClient struct {
	config     *SnapConfig
	httpClient *http.Client
}

var (
	snapClient *SnapClient
	snapOnce   sync.Once
)

// GetSnapClient returns the singleton SnapClient configured from environment
// variables. The server key is not defaulted: transactions fail closed when
// it is absent (see TransactionService).
func GetSnapClient() *SnapClient {
	snapOnce.Do(func() {
		config := &SnapConfig{
			ServerKey:     os.Getenv("MIDTRANS_SERVER_KEY"),
			ClientKey:     os.Getenv("MIDTRANS_CLIENT_KEY"),
			IsProduction:  os.Getenv("MIDTRANS_ENV") == "production",
			BaseURL:       os.Getenv("MIDTRANS_BASE_URL"),
			MerchantName:  os.Getenv("MIDTRANS_MERCHANT_NAME"),
			MerchantEmail: os.Getenv("MIDTRANS_MERCHANT_EMAIL"),
			MerchantPhone: os.Getenv("MIDTRANS_MERCHANT_PHONE"),
		}

		if config.MerchantName == "" {
			config.MerchantName = "School Catering"
		}
		if config.MerchantEmail == "" {
			config.MerchantEmail = "catering@example.com"
		}
		if config.MerchantPhone == "" {
			config.MerchantPhone = "08123456789"
		}

		snapClient = NewSnapClient(config)
	})
	return snapClient
}

// NewSnapClient creates a new instance of SnapClient
func NewSnapClient(config *SnapConfig) *SnapClient {
	return &SnapClient{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ValidateConfig validates the Snap configuration
func (sc *SnapClient) ValidateConfig() error {
	if sc.config.ServerKey == "" {
		return fmt.Errorf("MIDTRANS_SERVER_KEY is not set")
	}
	return nil
}

// SnapError is a non-2xx response from the Snap API. Status code and body
// are kept verbatim so operators can diagnose gateway-side rejections.
type SnapError struct {
	StatusCode int
	Body       string
}

func (e *SnapError) Error() string {
	return fmt.Sprintf("midtrans API error (status %d): %s", e.StatusCode, e.Body)
}

// SnapResponse represents the Snap create-transaction response
type SnapResponse struct {
	Token         string   `json:"token"`
	RedirectURL   string   `json:"redirect_url"`
	ErrorMessages []string `json:"error_messages,omitempty"`
}

// CreateTransaction posts the payload to the Snap create-transaction
// endpoint and returns the pay token plus redirect URL.
func (sc *SnapClient) CreateTransaction(payload map[string]interface{}) (*SnapResponse, error) {
	url := fmt.Sprintf("%s/snap/v1/transactions", sc.getBaseURL())

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %v", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}

	// Basic auth: base64(serverKey + ":"), empty password
	authString := "Basic " + base64.StdEncoding.EncodeToString([]byte(sc.config.ServerKey+":"))

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authString)

	resp, err := sc.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &SnapError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var snapResp SnapResponse
	if err := json.Unmarshal(body, &snapResp); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %v", err)
	}

	return &snapResp, nil
}

// getBaseURL returns the appropriate Snap API base URL
func (sc *SnapClient) getBaseURL() string {
	if sc.config.BaseURL != "" {
		return sc.config.BaseURL
	}
	if sc.config.IsProduction {
		return "https://app.midtrans.com"
	}
	return "https://app.sandbox.midtrans.com"
}
