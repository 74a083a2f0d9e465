package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"waygen/internal/service/rag"
	"waygen/internal/service/search"
)

// passageSeparator joins retrieved passages in CareerDocs output.
const passageSeparator = "\n\n"

type queryParams struct {
	Query string `json:"query"`
}

// newCareerDocsTool exposes the document retriever as an agent tool.
// Retrieval failures are returned as readable tool text so a degraded
// knowledge base never aborts the agent run.
func newCareerDocsTool(retriever *rag.Retriever) tool.InvokableTool {
	info := &schema.ToolInfo{
		Name: "CareerDocs",
		Desc: "Search career reports, salary data, automation risks, and job market trends " +
			"from our knowledge base. Use this for specific career-related questions.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {
				Desc:     "Natural language query over the career knowledge base",
				Type:     schema.String,
				Required: true,
			},
		}),
	}
	run := func(ctx context.Context, params *queryParams) (string, error) {
		if params == nil || strings.TrimSpace(params.Query) == "" {
			return "", errors.New("query must not be empty")
		}
		passages, err := retriever.Search(ctx, params.Query, 0)
		if err != nil {
			return fmt.Sprintf("Error searching career knowledge base: %v", err), nil
		}
		if len(passages) == 0 {
			return "No relevant passages found in the career knowledge base.", nil
		}
		return strings.Join(passages, passageSeparator), nil
	}
	return utils.NewTool(info, run)
}

// newWebSearchTool exposes the web search adapter as an agent tool. The
// adapter already folds provider failures into its structured payload.
func newWebSearchTool(searcher *search.Client) tool.InvokableTool {
	if searcher == nil {
		return nil
	}
	info := &schema.ToolInfo{
		Name: "WebSearch",
		Desc: "Search the live web for current job market data, recent salary trends, " +
			"and real-time career information. Use this for up-to-date information.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {
				Desc:     "Natural language web search query",
				Type:     schema.String,
				Required: true,
			},
		}),
	}
	run := func(ctx context.Context, params *queryParams) (string, error) {
		if params == nil || strings.TrimSpace(params.Query) == "" {
			return "", errors.New("query must not be empty")
		}
		resp := searcher.Search(ctx, params.Query)
		data, err := json.Marshal(resp)
		if err != nil {
			return fmt.Sprintf("Error formatting search results: %v", err), nil
		}
		return string(data), nil
	}
	return utils.NewTool(info, run)
}
