package fraud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	// DefaultModelName is the model served when none is configured.
	DefaultModelName = "fraud_model"
	// DefaultModelVersion is the model version used when none is configured.
	DefaultModelVersion = "1"

	inputCountry = "country"
	inputAmount  = "amount"

	maxResponseBytes = 1 << 20
)

// ErrUnavailable marks failures to obtain a score from the model server.
var ErrUnavailable = errors.New("fraud: scoring service unavailable")

var defaultParameters = map[string]any{
	"binary_data_output": false,
}

// Client scores transactions against a KServe v2 inference endpoint.
// It is safe for concurrent use.
type Client struct {
	endpoint   string
	httpClient *http.Client
	parameters Parameters
	extra      map[string]any
}

// ClientOption customizes the [Client].
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client used for inference calls.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithParameters adds request level parameters sent with every inference call.
func WithParameters(params map[string]any) ClientOption {
	return func(cl *Client) {
		if cl.extra == nil {
			cl.extra = make(map[string]any, len(params))
		}
		for k, v := range params {
			cl.extra[k] = v
		}
	}
}

// NewClient builds a [Client] for the given model served under baseURL.
// Empty model name and version fall back to [DefaultModelName] and
// [DefaultModelVersion].
func NewClient(baseURL, model, version string, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("fraud: base URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("fraud: parse base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("fraud: base URL %q must be absolute", baseURL)
	}
	if model == "" {
		model = DefaultModelName
	}
	if version == "" {
		version = DefaultModelVersion
	}

	c := &Client{
		endpoint:   u.JoinPath("v2", "models", model, "versions", version, "infer").String(),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if err := c.parameters.Merge(defaultParameters); err != nil {
		return nil, fmt.Errorf("fraud: default parameters: %w", err)
	}
	if len(c.extra) > 0 {
		if err := c.parameters.Merge(c.extra); err != nil {
			return nil, fmt.Errorf("fraud: parameters: %w", err)
		}
	}
	return c, nil
}

// Endpoint returns the inference URL the client posts to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Score issues a single inference call and returns the model score.
func (c *Client) Score(ctx context.Context, country int64, amount float64) (float64, error) {
	inputs, err := buildInputs(country, amount)
	if err != nil {
		return 0, err
	}
	params := c.parameters
	body, err := json.Marshal(InferenceRequest{
		Parameters: &params,
		Inputs:     inputs,
	})
	if err != nil {
		return 0, fmt.Errorf("fraud: marshal inference request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("fraud: build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: send inference request: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, fmt.Errorf("%w: %s returned %s: %s", ErrUnavailable, c.endpoint, resp.Status, strings.TrimSpace(string(snippet)))
	}

	var out InferenceResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return 0, fmt.Errorf("%w: decode inference response: %w", ErrUnavailable, err)
	}
	return scoreFrom(out)
}

func buildInputs(country int64, amount float64) ([]Tensor, error) {
	var countryData, amountData TensorData
	if err := countryData.FromInt64Data([]int64{country}); err != nil {
		return nil, fmt.Errorf("fraud: encode %s input: %w", inputCountry, err)
	}
	if err := amountData.FromFloat32Data([]float32{float32(amount)}); err != nil {
		return nil, fmt.Errorf("fraud: encode %s input: %w", inputAmount, err)
	}
	return []Tensor{
		{Name: inputCountry, Datatype: DatatypeINT64, Shape: []int64{1}, Data: countryData},
		{Name: inputAmount, Datatype: DatatypeFP32, Shape: []int64{1}, Data: amountData},
	}, nil
}

func scoreFrom(out InferenceResponse) (float64, error) {
	if len(out.Outputs) == 0 {
		return 0, fmt.Errorf("%w: response has no outputs", ErrUnavailable)
	}
	data, err := out.Outputs[0].Data.AsFloat64Data()
	if err != nil {
		return 0, fmt.Errorf("%w: output %q is not numeric: %w", ErrUnavailable, out.Outputs[0].Name, err)
	}
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: output %q is empty", ErrUnavailable, out.Outputs[0].Name)
	}
	return data[0], nil
}
