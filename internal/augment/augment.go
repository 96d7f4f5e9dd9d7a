// Package augment synthesizes additional training pairs by backtranslating
// monolingual target-language sentences through the platform's reverse
// translation models.
package augment

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"

	"github.com/pricofy/corpus-pipeline/internal/corpus"
)

// romanceCodes lists the language codes served by the romance-en and
// en-romance model family, regional variants included.
var romanceCodes = []string{
	"es", "es_AR", "es_CL", "es_CO", "es_CR", "es_DO", "es_EC", "es_ES",
	"es_GT", "es_HN", "es_MX", "es_NI", "es_PA", "es_PE", "es_PR", "es_SV",
	"es_UY", "es_VE",
	"fr", "fr_BE", "fr_CA", "fr_FR", "wa", "frp", "oc",
	"it", "co", "nap", "scn", "vec",
	"pt", "pt_BR", "pt_PT", "gl", "mwl",
	"ca", "an", "lad",
	"ro",
	"la", "rm", "lld", "fur", "lij", "lmo", "sc",
}

var romance = make(map[string]bool, len(romanceCodes))

func init() {
	for _, code := range romanceCodes {
		romance[code] = true
	}
}

// reverseModel picks the translator Lambda that maps target-language text
// back into the source language. modelTarget carries the target_lang
// parameter the en-romance model requires; the other models take none.
func reverseModel(sourceLang, targetLang string) (functionName, modelTarget string) {
	switch {
	case targetLang == "en" && romance[sourceLang]:
		return "pricofy-translator-en-romance", sourceLang
	case targetLang == "en" && sourceLang == "de":
		return "pricofy-translator-en-de", ""
	case sourceLang == "en" && romance[targetLang]:
		return "pricofy-translator-romance-en", ""
	case sourceLang == "en" && targetLang == "de":
		return "pricofy-translator-de-en", ""
	}
	return "", ""
}

// SupportedPair reports whether the platform can prepare and augment a
// corpus for the pair: one side must be English, the other a romance
// language or German, matching the deployed model families.
func SupportedPair(sourceLang, targetLang string) bool {
	functionName, _ := reverseModel(sourceLang, targetLang)
	return functionName != ""
}

// Backtranslator turns monolingual target-language sentences into
// synthetic sentence pairs by running them through a reverse translation
// model.
type Backtranslator struct {
	lambdaClient *lambda.Client
	environment  string
	tokenBudget  int
}

// translatorRequest is the chunked request format the translator Lambdas
// accept.
type translatorRequest struct {
	Chunks     [][]string `json:"chunks"`
	TargetLang string     `json:"target_lang,omitempty"`
}

// translatorResponse is the chunked response format the translator
// Lambdas return.
type translatorResponse struct {
	Translations [][]string `json:"translations"`
	Error        string     `json:"error,omitempty"`
}

// New creates a Backtranslator using the ambient AWS configuration.
func New(ctx context.Context) (*Backtranslator, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	return &Backtranslator{
		lambdaClient: lambda.NewFromConfig(cfg),
		environment:  env,
		tokenBudget:  defaultTokenBudget,
	}, nil
}

// Synthesize backtranslates target-language sentences into the source
// language and pairs each original sentence with its backtranslation.
// Pairs come back in input order. All chunks travel in a single
// invocation; the translator works through them sequentially.
func (b *Backtranslator) Synthesize(ctx context.Context, sentences []string, sourceLang, targetLang string) ([]corpus.Pair, error) {
	if len(sentences) == 0 {
		return []corpus.Pair{}, nil
	}

	functionName, modelTarget := reverseModel(sourceLang, targetLang)
	if functionName == "" {
		return nil, fmt.Errorf("no reverse model for %s-%s", sourceLang, targetLang)
	}

	chunks := chunkByBudget(sentences, b.tokenBudget)
	translated, err := b.invoke(ctx, functionName, modelTarget, chunks)
	if err != nil {
		return nil, err
	}

	backtranslations := make([]string, 0, len(sentences))
	for _, chunk := range translated {
		backtranslations = append(backtranslations, chunk...)
	}
	if len(backtranslations) != len(sentences) {
		return nil, fmt.Errorf("translator returned %d sentences for %d inputs", len(backtranslations), len(sentences))
	}

	pairs := make([]corpus.Pair, len(sentences))
	for i, sentence := range sentences {
		pairs[i] = corpus.Pair{Source: backtranslations[i], Target: sentence}
	}
	return pairs, nil
}

// invoke calls a translator Lambda with the given chunks.
func (b *Backtranslator) invoke(ctx context.Context, functionName, modelTarget string, chunks [][]string) ([][]string, error) {
	payload, err := json.Marshal(translatorRequest{
		Chunks:     chunks,
		TargetLang: modelTarget,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	result, err := b.lambdaClient.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: &functionName,
		Payload:      payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", functionName, err)
	}
	if result.FunctionError != nil {
		return nil, fmt.Errorf("lambda error: %s", *result.FunctionError)
	}

	var resp translatorResponse
	if err := json.Unmarshal(result.Payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("translator error: %s", resp.Error)
	}

	return resp.Translations, nil
}
