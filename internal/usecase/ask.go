package usecase

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"inspire/internal/domain"
	"inspire/internal/port"
)

//go:embed templates/answer_prompt.txt
var promptTemplates embed.FS

// NoInformationReply is returned verbatim when retrieval finds nothing. The
// model is never consulted in that case, so it cannot invent projects.
const NoInformationReply = "I don't have enough information from the indexed publications to list projects for this request."

const systemPrompt = "You are the Developer Inspiration Assistant, a tool that helps AI engineers " +
	"discover award-winning projects. Use only the provided context. Never invent projects."

const snippetLimit = 500

// AskUseCase turns a retrieval result into a grounded natural-language
// answer.
type AskUseCase struct {
	retrieve   *RetrieveUseCase
	llm        port.LLM
	maxResults int
	tmpl       *template.Template
}

func NewAskUseCase(retrieve *RetrieveUseCase, llm port.LLM, maxResults int) (*AskUseCase, error) {
	if maxResults <= 0 {
		maxResults = 5
	}

	tmpl, err := template.ParseFS(promptTemplates, "templates/answer_prompt.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse answer template: %w", err)
	}

	return &AskUseCase{
		retrieve:   retrieve,
		llm:        llm,
		maxResults: maxResults,
		tmpl:       tmpl,
	}, nil
}

// Ask retrieves candidates for the query and generates an answer from them.
// It returns the answer plus the results it was grounded on.
func (u *AskUseCase) Ask(ctx context.Context, rawQuery string) (string, []domain.Result, error) {
	results, err := u.retrieve.Retrieve(ctx, rawQuery)
	if err != nil {
		return "", nil, err
	}

	if len(results) == 0 {
		return NoInformationReply, nil, nil
	}

	prompt, err := u.buildPrompt(rawQuery, results)
	if err != nil {
		return "", nil, err
	}

	answer, err := u.llm.GenerateWithSystem(ctx, systemPrompt, prompt)
	if err != nil {
		return "", nil, fmt.Errorf("answer generation failed: %w", err)
	}

	return answer, results, nil
}

type promptData struct {
	Query      string
	MaxResults int
	Results    []promptResult
}

type promptResult struct {
	Title     string
	ProjectID string
	Award     string
	Snippet   string
}

func (u *AskUseCase) buildPrompt(query string, results []domain.Result) (string, error) {
	data := promptData{
		Query:      query,
		MaxResults: u.maxResults,
	}

	for _, r := range results {
		snippet := r.Text
		if len(snippet) > snippetLimit {
			snippet = snippet[:snippetLimit] + "..."
		}
		data.Results = append(data.Results, promptResult{
			Title:     r.Title,
			ProjectID: r.ProjectID,
			Award:     r.Award,
			Snippet:   snippet,
		})
	}

	var b strings.Builder
	if err := u.tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render answer prompt: %w", err)
	}
	return b.String(), nil
}
