package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/cloudwego/eino-ext/components/tool/duckduckgo/v2"
	"github.com/cloudwego/eino/components/tool"
)

const (
	defaultBaseURL = "https://api.tavily.com"
	httpTimeout    = 10 * time.Second
	maxResults     = 5
)

// Result is one normalized search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Response is the adapter's structured output. Failures are carried in
// Error rather than a Go error so a failing search degrades the tool's
// contribution without aborting the agent run.
type Response struct {
	Query   string   `json:"query"`
	Results []Result `json:"results"`
	Error   string   `json:"error,omitempty"`
}

// Client wraps the Tavily search API with a credential-free DuckDuckGo
// fallback. A client without a Tavily key still serves queries through
// the fallback when that is available.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	fallback   tool.InvokableTool
}

// NewClient reads TAVILY_API_KEY from the environment and prepares the
// fallback provider.
func NewClient(ctx context.Context) *Client {
	apiKey := os.Getenv("TAVILY_API_KEY")
	if apiKey == "" {
		log.Printf("search: TAVILY_API_KEY not set, web search degraded to fallback provider")
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: httpTimeout},
		fallback:   newDuckDuckGo(ctx),
	}
}

// Available reports whether any provider can serve queries.
func (c *Client) Available() bool {
	return c != nil && (c.apiKey != "" || c.fallback != nil)
}

// Search runs the query against Tavily, falling back to DuckDuckGo.
// The returned response always has Query set; on total failure Results
// is empty and Error describes the cause.
func (c *Client) Search(ctx context.Context, query string) *Response {
	resp := &Response{Query: query, Results: []Result{}}

	if c.apiKey != "" {
		results, err := c.searchTavily(ctx, query)
		if err == nil {
			resp.Results = results
			return resp
		}
		log.Printf("search: tavily failed: %v", err)
		resp.Error = err.Error()
	} else {
		resp.Error = "Tavily API key not configured"
	}

	if c.fallback != nil {
		payload, err := json.Marshal(map[string]string{"query": query})
		if err == nil {
			if raw, err := c.fallback.InvokableRun(ctx, string(payload)); err == nil {
				resp.Results = []Result{{Title: "duckduckgo", Content: raw}}
				resp.Error = ""
				return resp
			} else {
				log.Printf("search: duckduckgo failed: %v", err)
			}
		}
	}
	return resp
}

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

func (c *Client) searchTavily(ctx context.Context, query string) ([]Result, error) {
	body, err := json.Marshal(tavilyRequest{
		APIKey:      c.apiKey,
		Query:       query,
		SearchDepth: "advanced",
		MaxResults:  maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		return nil, fmt.Errorf("tavily status %s: %s", httpResp.Status, bytes.TrimSpace(data))
	}

	var parsed tavilyResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode tavily response: %w", err)
	}
	results := make([]Result, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		results = append(results, Result{Title: r.Title, URL: r.URL, Content: r.Content})
	}
	return results, nil
}

func newDuckDuckGo(ctx context.Context) tool.InvokableTool {
	duckTool, err := duckduckgo.NewTextSearchTool(ctx, &duckduckgo.Config{
		ToolName:   "web_search_ddg",
		ToolDesc:   "DuckDuckGo Search Tool (no token required)",
		MaxResults: 3,
		Region:     duckduckgo.RegionWT,
		Timeout:    httpTimeout,
	})
	if err != nil {
		log.Printf("search: duckduckgo fallback disabled: %v", err)
		return nil
	}
	return duckTool
}
