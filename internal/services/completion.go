package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// Completer is the generative-text capability used for free-form chat
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrNoCompleter is returned when no provider is configured
var ErrNoCompleter = errors.New("no completion provider configured")

// GeminiCompleter answers through Google Gemini via langchaingo
type GeminiCompleter struct {
	llm llms.Model
}

// NewGeminiCompleter connects to Gemini with the given key and model
func NewGeminiCompleter(ctx context.Context, apiKey, model string) (*GeminiCompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key not set")
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiCompleter{llm: llm}, nil
}

// Complete sends prompt to Gemini and returns the generated text
func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	text, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("gemini completion: %w", err)
	}
	return text, nil
}

// chatCompletions is the slice of the OpenAI SDK we call, kept small for test doubles
type chatCompletions interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAICompleter answers through the OpenAI chat completions API
type OpenAICompleter struct {
	chat  chatCompletions
	model string
}

// NewOpenAICompleter creates an OpenAI-backed completer
func NewOpenAICompleter(apiKey, model string) (*OpenAICompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	if model == "" {
		model = string(openai.ChatModelGPT4oMini)
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAICompleter{chat: &client.Chat.Completions, model: model}, nil
}

// Complete sends prompt as a single user message and returns the first choice
func (o *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.chat.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// Register is the language register a user wrote in
type Register string

const (
	RegisterRomanUrdu Register = "roman-urdu"
	RegisterUrdu      Register = "urdu-script"
	RegisterEnglish   Register = "english"
)

var romanUrduMarkers = []string{
	"hai", "hain", "kya", "nahi", "mujhe", "bhai", "yar", "yaar", "kar", "karo",
	"mein", "ho", "raha", "rahi", "acha", "theek", "kaise", "kab", "chahiye",
}

// DetectRegister sniffs the register from script and a few common Roman Urdu words
func DetectRegister(utterance string) Register {
	for _, r := range utterance {
		if unicode.Is(unicode.Arabic, r) {
			return RegisterUrdu
		}
	}
	for _, w := range strings.Fields(strings.ToLower(utterance)) {
		w = strings.Trim(w, ".,!?;:'\"")
		for _, m := range romanUrduMarkers {
			if w == m {
				return RegisterRomanUrdu
			}
		}
	}
	return RegisterEnglish
}

// BuildPrompt wraps the user's words in the pharmacy persona
func BuildPrompt(utterance string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User ne ye likha: %q\n", utterance)
	b.WriteString("Sirf Roman Urdu mein reply karo, Karachi style, funny aur dostana.\n")
	b.WriteString("Medical advice mat dena. Agar samajh na aaye to \"pharmacist se baat karo\" bol do.\n")
	switch DetectRegister(utterance) {
	case RegisterUrdu:
		b.WriteString("User ne Urdu script mein likha hai, tum phir bhi Roman Urdu mein jawab do.\n")
	case RegisterEnglish:
		b.WriteString("User ne English mein likha hai, aasan Roman Urdu use karo.\n")
	}
	b.WriteString("Sirf ek message mein reply karo.")
	return b.String()
}

// dosagePattern catches replies that name a quantity of a medicine
var dosagePattern = regexp.MustCompile(`(?i)\b\d+(\.\d+)?\s*(mg|ml|mcg|tablets?|goli|golian|capsules?)\b`)

// LooksLikeDosage reports whether completion output reads like dosing advice
func LooksLikeDosage(text string) bool {
	return dosagePattern.MatchString(text)
}

// CompletionFallback turns a Completer into a reply that never fails
type CompletionFallback struct {
	completer Completer
	timeout   time.Duration
}

// NewCompletionFallback wraps completer; a nil completer always degrades
func NewCompletionFallback(completer Completer, timeout time.Duration) *CompletionFallback {
	return &CompletionFallback{completer: completer, timeout: timeout}
}

// Reply asks the completer and maps every failure to a fixed message
func (c *CompletionFallback) Reply(ctx context.Context, utterance string) string {
	if c.completer == nil {
		log.Printf("⚠️ Completion skipped: %v", ErrNoCompleter)
		return CompletionFailed
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	text, err := c.completer.Complete(ctx, BuildPrompt(utterance))
	if err != nil {
		log.Printf("❌ Completion failed: %v", err)
		return CompletionFailed
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return EmptyCompletion
	}
	if LooksLikeDosage(text) {
		log.Printf("🛑 Completion mentioned a dosage, deflecting to pharmacist")
		return DosageDeflection
	}
	return text
}
