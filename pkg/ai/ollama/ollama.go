package ollama

import (
	"net/http"
	"net/url"

	"github.com/caredx/genogram/pkg/ai"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/semaphore"
)

// GraphOllamaClient implements the ai.GraphAIClient interface using a
// locally hosted Ollama server.
type GraphOllamaClient struct {
	extractionModel string

	reqLock *semaphore.Weighted

	metrics ai.MetricsRecorder

	Client *api.Client
}

// NewGraphOllamaClientParams contains configuration options for creating a new GraphOllamaClient.
type NewGraphOllamaClientParams struct {
	ExtractionModel string

	BaseURL string
	ApiKey  string

	MaxConcurrentRequests int64
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewGraphOllamaClient creates a new Ollama client. An empty BaseURL connects
// to the default local server. At most MaxConcurrentRequests requests run at
// the same time; values below 1 mean 1.
func NewGraphOllamaClient(
	params NewGraphOllamaClientParams,
) (*GraphOllamaClient, error) {
	var (
		u   *url.URL
		err error
	)

	if params.BaseURL != "" {
		u, err = url.Parse(params.BaseURL)
		if err != nil {
			return nil, err
		}
	}

	headers := map[string]string{}
	if params.ApiKey != "" {
		headers["Authorization"] = "Bearer " + params.ApiKey
	}
	httpClient := &http.Client{
		Transport: &headerTransport{
			headers: headers,
			rt:      http.DefaultTransport,
		},
	}

	var cli *api.Client
	if u != nil {
		cli = api.NewClient(u, httpClient)
	} else {
		cli, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, err
		}
	}

	maxReq := params.MaxConcurrentRequests
	if maxReq < 1 {
		maxReq = 1
	}

	return &GraphOllamaClient{
		extractionModel: params.ExtractionModel,
		reqLock:         semaphore.NewWeighted(maxReq),
		Client:          cli,
	}, nil
}

// ResetMetrics clears all accumulated token and timing metrics to zero.
func (c *GraphOllamaClient) ResetMetrics() {
	c.metrics.Reset()
}

// GetMetrics returns the accumulated token usage and timing metrics since the last reset.
func (c *GraphOllamaClient) GetMetrics() ai.ModelMetrics {
	return c.metrics.Snapshot()
}
