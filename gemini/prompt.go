package gemini

import (
	"fmt"
	"strings"

	"github.com/fwojciec/cardpoint"
	"google.golang.org/genai"
)

// RecordSchema describes the JSON the model must return.
const RecordSchema = `[
  {
    "name": "店舗の正式名称",
    "group": "業態（コンビニ、ファストフード、カフェ、ファミレスなど）",
    "aliases": ["別名", "略称", "英語表記", "カタカナ・ひらがな表記"],
    "conditions": {
      "rate": "還元率",
      "payment": "対象の支払い方法",
      "note": "補足事項"
    },
    "caution": "注意事項",
    "official_list_url": "対象店舗一覧ページのURL（なければ空文字）"
  }
]`

// BuildConfig returns the GenerateContentConfig for extraction calls:
// deterministic decoding, JSON output and no safety blocking.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0)
	return &genai.GenerateContentConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		SafetySettings:   safetySettings(),
	}
}

func safetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  c,
			Threshold: genai.HarmBlockThresholdBlockNone,
		})
	}
	return settings
}

// BuildExtractionPrompt builds the extraction instruction for req.
func BuildExtractionPrompt(req *cardpoint.ExtractionRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "以下は「%s」のポイント還元プログラムのページから抽出したテキストです。\n", req.Source.Label)
	sb.WriteString("ポイント還元の対象となる店舗をすべて抽出し、JSON配列のみを出力してください。\n\n")

	sb.WriteString("# ルール\n")
	rules := []string{
		"出力はJSON配列のみとし、説明文やMarkdownのコードブロックは含めないでください。",
		"すべての値は日本語で記述してください。",
		"name には店舗のブランドとしての正式名称を記載し、運営会社名は含めないでください。",
		"group には店舗の業態を記載してください。",
		"aliases には利用者が検索に使いそうな別名、略称、英語表記、カタカナ・ひらがな表記を含めてください。",
		"conditions には還元率 (rate)、対象の支払い方法 (payment)、補足 (note) を記載してください。",
		"対象店舗の一覧ページや対象外店舗の案内ページへのリンクがある場合は、そのURLを official_list_url にそのまま記載してください。",
		"テキストに書かれていない情報は推測せず、空文字にしてください。",
	}
	if c := strings.TrimSpace(req.Source.Caution); c != "" {
		rules = append(rules, fmt.Sprintf("caution には必ず次の文言を含めてください: 「%s」", c))
	}
	for i, r := range rules {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, r)
	}

	sb.WriteString("\n# 出力形式\n")
	sb.WriteString(RecordSchema)
	sb.WriteString("\n\n# テキスト\n")
	sb.WriteString(req.Text)
	return sb.String()
}
