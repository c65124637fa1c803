package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/cardpoint"
	"github.com/fwojciec/cardpoint/retry"
	"google.golang.org/genai"
)

// MinGroundingLength is the shortest page text a phrase is written from.
const MinGroundingLength = 200

// noPhrase is the reply the model gives when the text has no promotion.
const noPhrase = "NONE"

// Ensure Copywriter implements cardpoint.Copywriter at compile time.
var _ cardpoint.Copywriter = (*Copywriter)(nil)

// Copywriter implements cardpoint.Copywriter using Google Gemini.
type Copywriter struct {
	gen     Generator
	model   string
	policy  retry.Policy
	timeout time.Duration
}

// CopywriterOption configures a Copywriter.
type CopywriterOption func(*Copywriter)

// WithCopywriterRetryPolicy sets the backoff used on rate limits.
func WithCopywriterRetryPolicy(p retry.Policy) CopywriterOption {
	return func(c *Copywriter) {
		c.policy = p
	}
}

// NewCopywriter creates a new Copywriter.
func NewCopywriter(gen Generator, model string, opts ...CopywriterOption) *Copywriter {
	c := &Copywriter{
		gen:     gen,
		model:   model,
		policy:  retry.DefaultPolicy(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Catchphrase writes a one-line phrase strictly from text. Short text
// and refusals yield "".
func (c *Copywriter) Catchphrase(ctx context.Context, label, text string) (string, error) {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinGroundingLength {
		return "", nil
	}

	temp := float32(0)
	config := &genai.GenerateContentConfig{
		Temperature:    &temp,
		SafetySettings: safetySettings(),
	}

	prompt := BuildCatchphrasePrompt(label, text)
	policy := c.policy
	policy.Retryable = IsRateLimited

	var out string
	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		var err error
		out, err = generate(ctx, c.gen, c.model, c.timeout, prompt, config)
		return err
	})
	if err != nil {
		return "", err
	}

	out = strings.Trim(strings.TrimSpace(out), "「」\"'")
	if out == "" || strings.EqualFold(out, noPhrase) {
		return "", nil
	}
	return out, nil
}

// BuildCatchphrasePrompt builds the instruction for a promotional phrase.
func BuildCatchphrasePrompt(label, text string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "以下は「%s」のキャンペーンページのテキストです。\n", label)
	sb.WriteString("このテキストに書かれている特典だけを根拠に、40文字以内の日本語のキャッチコピーを1つ作成してください。\n")
	sb.WriteString("金額や還元率はテキストに書かれている数値のみを使い、書かれていない特典を作らないでください。\n")
	fmt.Fprintf(&sb, "特典が読み取れない場合は %s とだけ出力してください。キャッチコピー以外は出力しないでください。\n\n", noPhrase)
	sb.WriteString("# テキスト\n")
	sb.WriteString(text)
	return sb.String()
}
