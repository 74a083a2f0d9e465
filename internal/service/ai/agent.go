package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"

	"waygen/internal/config"
	"waygen/internal/service/rag"
	"waygen/internal/service/search"
)

// NotAvailableMessage is the sentinel a disabled agent returns instead
// of an error, so callers can apply their fallback text.
const NotAvailableMessage = "Agent not available. Please configure GROQ_API_KEY to enable AI responses."

// Agent produces a final answer for a prompt, internally deciding
// whether to call the CareerDocs and WebSearch tools. Treated as an
// opaque, non-deterministic (prompt) -> text function.
type Agent interface {
	Run(ctx context.Context, prompt string) (string, error)
}

// NewAgent builds the react agent over the Groq chat model. A missing
// GROQ_API_KEY yields a disabled agent that answers with the sentinel.
func NewAgent(ctx context.Context, cfg *config.Config, retriever *rag.Retriever, searcher *search.Client) (Agent, error) {
	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		log.Printf("ai: GROQ_API_KEY not set, agent disabled")
		return disabledAgent{}, nil
	}

	provCfg, ok := cfg.Providers["groq"]
	if !ok {
		return nil, errors.New("groq provider not configured")
	}
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: provCfg.BaseURL,
		Model:   provCfg.Model,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}

	tools := buildTools(retriever, searcher)
	reactAgent, err := react.NewAgent(ctx, &react.AgentConfig{
		ToolCallingModel: chatModel,
		ToolsConfig: compose.ToolsNodeConfig{
			Tools: tools,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("init react agent: %w", err)
	}
	return &reactAgentRunner{agent: reactAgent}, nil
}

type reactAgentRunner struct {
	agent *react.Agent
}

func (r *reactAgentRunner) Run(ctx context.Context, prompt string) (string, error) {
	resp, err := r.agent.Generate(ctx, []*schema.Message{
		{Role: schema.User, Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("agent generate: %w", err)
	}
	return resp.Content, nil
}

type disabledAgent struct{}

func (disabledAgent) Run(context.Context, string) (string, error) {
	return NotAvailableMessage, nil
}

func buildTools(retriever *rag.Retriever, searcher *search.Client) []tool.BaseTool {
	var tools []tool.BaseTool
	tools = append(tools, newCareerDocsTool(retriever))
	if ws := newWebSearchTool(searcher); ws != nil {
		tools = append(tools, ws)
	}
	return tools
}
