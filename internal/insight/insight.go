// Package insight asks a text-generation model for short business advice
// based on dashboard figures. Any failure degrades to a fixed message.
package insight

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"
)

const SystemInstruction = "You are a world-class hospitality data analyst. Format output as clean HTML bullet points. Use standard business English."

// Messages shown instead of generated text.
const (
	FallbackUnavailable = "Unable to reach AI Analyst. Ensure API_KEY is configured in your environment."
	FallbackEmpty       = "Insight generation failed. Please check connection."
)

// Stats are the aggregate figures sent to the model.
type Stats struct {
	CurrencySymbol string
	TotalSales     decimal.Decimal
	TotalOrders    int
	Branches       []string
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt, systemInstruction string) (string, error)
}

// Analyst wraps a Generator with the prompt and the fallbacks. A nil
// Generator means no API key was configured.
type Analyst struct {
	gen Generator
}

func NewAnalyst(gen Generator) *Analyst {
	return &Analyst{gen: gen}
}

// Insight never fails: errors are logged and replaced by a fallback message.
func (a *Analyst) Insight(ctx context.Context, s Stats) string {
	if a.gen == nil {
		return FallbackUnavailable
	}
	text, err := a.gen.Generate(ctx, Prompt(s), SystemInstruction)
	if err != nil {
		log.Printf("ERROR: generate insight: %v", err)
		return FallbackUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return FallbackEmpty
	}
	return text
}

func Prompt(s Stats) string {
	var b strings.Builder
	b.WriteString("As an Enterprise Restaurant Consultant, analyze this POS data and provide 3 brief, high-impact bullet points for business improvement:\n")
	fmt.Fprintf(&b, "- Total Revenue: %s%s\n", s.CurrencySymbol, s.TotalSales.String())
	fmt.Fprintf(&b, "- Total Orders: %d\n", s.TotalOrders)
	fmt.Fprintf(&b, "- Branches: %s\n", strings.Join(s.Branches, ", "))
	fmt.Fprintf(&b, "- Period Activity: %d transactions.\n", s.TotalOrders)
	b.WriteString("Provide professional, actionable advice on pricing, labor, or inventory. Keep it under 100 words.")
	return b.String()
}
