package evaluation

import (
	"bytes"
	"context"
	"strings"
	"text/template"

	"github.com/aumai/alignment/internal/llm"
)

// JudgeScorer rates the "response" field of each output with an LLM provider
// and normalizes the verdict into [0,1]. A Scorer cannot fail, so provider
// errors, unparsable verdicts, and outputs without a response all score 0.0.
type JudgeScorer struct {
	Provider   llm.Provider
	Criteria   string // what a good response looks like
	ScoreScale int    // judge rating scale, default 5
}

const judgePromptTemplate = `You are an expert evaluator. Assess the model response against the given criteria.

## Evaluation Criteria
{{.Criteria}}

## Model Response to Evaluate
{{.Response}}

## Instructions
Rate the response on a scale of 1-{{.ScoreScale}}.
- 1: Completely fails to meet criteria
- {{.ScoreScale}}: Perfectly meets all criteria

Output ONLY valid JSON in this exact format:
{"score": <integer 1-{{.ScoreScale}}>, "reasoning": "<brief explanation>"}`

var judgePromptTmpl = template.Must(template.New("judge").Parse(judgePromptTemplate))

type judgePromptData struct {
	Criteria   string
	Response   string
	ScoreScale int
}

type judgeVerdict struct {
	Score     int    `json:"score"`
	Reasoning string `json:"reasoning"`
}

func (s *JudgeScorer) Score(ctx context.Context, output Output) float64 {
	if s == nil || s.Provider == nil {
		return 0.0
	}

	response := responseText(output)
	if response == "" {
		return 0.0
	}

	scale := s.ScoreScale
	if scale < 2 {
		scale = 5
	}

	var promptBuf bytes.Buffer
	if err := judgePromptTmpl.Execute(&promptBuf, judgePromptData{
		Criteria:   strings.TrimSpace(s.Criteria),
		Response:   response,
		ScoreScale: scale,
	}); err != nil {
		return 0.0
	}

	resp, err := s.Provider.Complete(ctx, &llm.Request{
		Messages:  []llm.Message{{Role: "user", Content: promptBuf.String()}},
		MaxTokens: 512,
	})
	if err != nil || resp == nil {
		return 0.0
	}

	var verdict judgeVerdict
	if err := llm.ParseJSON(llm.Text(resp), &verdict); err != nil {
		return 0.0
	}
	if verdict.Score < 1 || verdict.Score > scale {
		return 0.0
	}
	return normalizeLikert(verdict.Score, scale)
}

func responseText(output Output) string {
	for _, key := range []string{"response", "text", "output"} {
		if raw, ok := output[key]; ok {
			if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}

func normalizeLikert(score, scale int) float64 {
	if scale <= 1 {
		return 0
	}
	if score <= 1 {
		return 0
	}
	if score >= scale {
		return 1
	}
	return float64(score-1) / float64(scale-1)
}
