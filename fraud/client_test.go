package fraud

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		baseURL      string
		model        string
		version      string
		wantEndpoint string
		wantErr      bool
	}{
		"defaults": {
			baseURL:      "http://triton:8000",
			wantEndpoint: "http://triton:8000/v2/models/fraud_model/versions/1/infer",
		},
		"explicit model": {
			baseURL:      "https://models.example.com/base/",
			model:        "risk",
			version:      "7",
			wantEndpoint: "https://models.example.com/base/v2/models/risk/versions/7/infer",
		},
		"empty": {
			baseURL: "  ",
			wantErr: true,
		},
		"relative": {
			baseURL: "triton:8000",
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c, err := NewClient(tt.baseURL, tt.model, tt.version)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEndpoint, c.Endpoint())
		})
	}
}

func TestClientScore(t *testing.T) {
	t.Parallel()

	var received struct {
		method string
		path   string
		body   []byte
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.method = r.Method
		received.path = r.URL.Path
		received.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"model_name":"fraud_model","model_version":"1","outputs":[{"name":"score","datatype":"FP32","shape":[1,1],"data":[0.25]}]}`)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, "", "", WithHTTPClient(srv.Client()), WithParameters(map[string]any{"priority": 1}))
	require.NoError(t, err)

	score, err := c.Score(context.Background(), 5, 20.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, score, 1e-9)

	assert.Equal(t, http.MethodPost, received.method)
	assert.Equal(t, "/v2/models/fraud_model/versions/1/infer", received.path)

	var req InferenceRequest
	require.NoError(t, json.Unmarshal(received.body, &req))
	require.Len(t, req.Inputs, 2)

	country := req.Inputs[0]
	assert.Equal(t, "country", country.Name)
	assert.Equal(t, DatatypeINT64, country.Datatype)
	assert.Equal(t, []int64{1}, country.Shape)
	countryData, err := country.Data.AsInt64Data()
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, countryData)

	amount := req.Inputs[1]
	assert.Equal(t, "amount", amount.Name)
	assert.Equal(t, DatatypeFP32, amount.Datatype)
	amountData, err := amount.Data.AsFloat32Data()
	require.NoError(t, err)
	assert.Equal(t, []float32{20.5}, amountData)

	require.NotNil(t, req.Parameters)
	params, err := req.Parameters.AsMap()
	require.NoError(t, err)
	assert.Equal(t, false, params["binary_data_output"])
	assert.EqualValues(t, 1, params["priority"])
}

func TestClientScoreUnavailable(t *testing.T) {
	t.Parallel()

	tests := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not ready", http.StatusInternalServerError)
		},
		"not found": func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		},
		"malformed body": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"outputs":`)
		},
		"no outputs": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"model_name":"fraud_model","outputs":[]}`)
		},
		"empty data": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"outputs":[{"name":"score","datatype":"FP32","shape":[0],"data":[]}]}`)
		},
		"non numeric data": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"outputs":[{"name":"score","datatype":"BYTES","shape":[1],"data":["high"]}]}`)
		},
	}

	for name, handler := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(handler)
			t.Cleanup(srv.Close)

			c, err := NewClient(srv.URL, "", "", WithHTTPClient(srv.Client()))
			require.NoError(t, err)

			_, err = c.Score(context.Background(), 0, 1)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnavailable), "expected ErrUnavailable, got %v", err)
		})
	}
}

func TestClientScoreTransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	c, err := NewClient(endpoint, "", "")
	require.NoError(t, err)

	_, err = c.Score(context.Background(), 0, 1)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestClientScoreHonoursContext(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	c, err := NewClient(srv.URL, "", "", WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = c.Score(ctx, 0, 1)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
