// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"text/template"

	"github.com/pdiddy/arxiv-daily/internal/httputil"
	"github.com/pdiddy/arxiv-daily/pkg/types"
)

// analysisPromptTmpl is the per-paper prompt. Its output-format section is
// load-bearing: ParseReply recovers fields from exactly this shape.
var analysisPromptTmpl = template.Must(template.New("analysis").Parse(`Role: You are an expert Computer Science researcher and paper reviewer.

Input Data:
Title: {{.Title}}
Abstract: {{.Abstract}}
First Page Content: {{.FirstPageText}}

Task: Please analyze the provided paper content and generate a structured analysis report following the strict rules below.

### Analysis Rules:

1. **Tag Assignment**:
    - **tag1 (Broad Category)**: Choose ONE from the following expanded list based on the primary domain:
        - "mlsys": Machine Learning Systems (intersection of AI and Systems, e.g., training infra, inference optimization).
        - "ai": General Artificial Intelligence (theory, pure ML algorithms, RL).
        - "cv": Computer Vision.
        - "nlp": Natural Language Processing.
        - "sys": Traditional Systems (OS, distributed systems, storage, networking without AI focus).
        - "sec": Security & Privacy.
        - "se": Software Engineering.
        - "db": Databases.
        - "hpc": High Performance Computing.
        - "other": If none of the above fit.

    - **tag2 (Specific Subfield)**:
        - If tag1 is **"mlsys"**, choose ONE from this expanded list:
            "llm training", "llm inference", "rag (retrieval-augmented generation)", "agent system", "multi-modal training", "multi-modal inference", "diffusion models", "post-training (sft/rlhf)", "model compression (quantization/pruning)", "compiler & ir", "memory & caching", "cluster infrastructure", "gpu kernels", "communication & networking", "fault-tolerance", "federated learning", "on-device ai", "others".
        - If tag1 is NOT "mlsys", assign a specific, standard academic sub-field (e.g., for "cv": "object detection"; for "nlp": "machine translation").

    - **tag3 (Keywords)**: Provide a comma-separated list of 3-5 specific technical keywords used in the paper (e.g., "FlashAttention, LoRA, Ring-AllReduce").

2. **Information Extraction**:
    - **Institution**: Infer the main research institution(s) from affiliations or email domains.
    - **Code**: Extract the GitHub or project page URL if explicitly mentioned. If not found, output "None".
    - **Contributions**: Summarize the paper's 3 key contributions (innovations) as a numbered list.

3. **Summarization**:
    - **Summary**: A concise 2-3 sentence summary in English describing the core problem, the proposed method, and the main conclusion.

4. **Visualization**:
    - **Mindmap**: Generate a Mermaid.js ` + "`graph LR`" + ` diagram code block based on the Abstract to visualize the paper's logic.
        - Layout: Left-to-Right tree structure (` + "`graph LR`" + `).
        - Language: Use **Bilingual (Chinese + English)** for all node text.
        - Structure: Root(Paper Title) --> Nodes for Problem(核心问题/Problem), Method(主要方法/Method), Results(关键结果/Results).
        - Keep node text very short and concise.

### Output Format:
(Strictly follow this format. Do not output markdown code blocks for the text parts, only for the mermaid part.)

tag1: <tag1>
tag2: <tag2>
tag3: <tag3, tag3, ...>
institution: <institution>
code: <code>
contributions: <contribution 1, contribution 2, ...>
summary: <2-3 sentences simple summary (method+conclusion)>
mermaid:
` + "```mermaid" + `
graph LR
<mermaid code here using Bilingual>
` + "```" + `
`))

const systemPrompt = "You are a helpful assistant. You are good at summarizing papers and extracting keywords and institutions."

// chatAPIURL is the chat-completions endpoint. Package-level var for test
// substitution.
var chatAPIURL = "https://api.deepseek.com/chat/completions"

// DeepSeekBackend calls the DeepSeek chat-completions API (OpenAI wire
// format) for per-paper analysis.
type DeepSeekBackend struct {
	APIKey string
	Model  string
	Client *http.Client

	// MaxRetries bounds retry-on-429 attempts (0 uses the default).
	MaxRetries int
}

// chatRequest is the request body for the chat completions API.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// chatMessage is a single message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response body from the chat completions API.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the analysis prompt for one paper and returns the raw
// reply text.
func (b *DeepSeekBackend) Complete(ctx context.Context, in Input) (string, error) {
	prompt, err := renderPrompt(in)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	body, err := json.Marshal(chatRequest{
		Model: b.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatAPIURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.APIKey)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, b.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("chat API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("chat API returned HTTP %d: %s", resp.StatusCode, string(data))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("parsing chat API response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chat API returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

func renderPrompt(in Input) (string, error) {
	var buf bytes.Buffer
	if err := analysisPromptTmpl.Execute(&buf, in); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// NewBackend builds the production backend from config.
func NewBackend(cfg types.EnrichConfig, client *http.Client) *DeepSeekBackend {
	return &DeepSeekBackend{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		Client:     client,
		MaxRetries: cfg.MaxRetries,
	}
}
