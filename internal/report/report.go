// Package report projects a prediction result into the two display panels
// (imbalanced and balanced model) plus the disagreement notice. It is pure:
// no styling, no I/O. The terminal and browser front ends both render from
// the same Report.
package report

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"sentimen/internal/predict"
)

// DisagreementNotice is shown under the panels when the two models predict
// different sentiments.
const DisagreementNotice = "⚠ Prediction mismatch: the two models disagree on this text. " +
	"The balanced model tends to be more stable because it was trained on evenly distributed data."

// UnknownSentiment is shown when neither the panel nor the top level
// carries a predicted_sentiment.
const UnknownSentiment = "unknown"

// Tone is the color pairing derived from a sentiment label. Badge text and
// badge background always share the tone.
type Tone int

const (
	ToneGray Tone = iota
	ToneGreen
	ToneRed
)

// String returns the tone's color name, also used as a CSS class.
func (t Tone) String() string {
	switch t {
	case ToneGreen:
		return "green"
	case ToneRed:
		return "red"
	}
	return "gray"
}

// ToneOf maps a label to its tone. Matching is exact: "Positif" is gray.
func ToneOf(label string) Tone {
	switch label {
	case "positif":
		return ToneGreen
	case "negatif":
		return ToneRed
	}
	return ToneGray
}

// Side identifies one of the two compared models.
type Side struct {
	Key   string // sub-object key in the response
	Title string
	Tag   string
}

var (
	SideImbalanced = Side{Key: predict.ModelImbalanced, Title: "Model Imbalanced", Tag: "Model 1"}
	SideBalanced   = Side{Key: predict.ModelBalanced, Title: "Model Balanced", Tag: "Model 2"}
)

// Row is one line of the probability detail.
type Row struct {
	Label   string  // as received
	Display string  // capitalized for display
	Value   float64 // raw probability
	Percent float64 // bar fill, clamped to [0,100]
	Text    string  // one decimal place, e.g. "25.6%"
	Tone    Tone
}

// Panel is everything needed to draw one model's result.
type Panel struct {
	Side Side

	Sentiment string // resolved label, UnknownSentiment when absent
	Badge     string // uppercase label
	Tone      Tone

	Confidence     float64
	ConfidenceText string  // two decimal places, e.g. "87.34%"
	Fill           float64 // bar fill, clamped to [0,100]

	Rows             []Row
	HasProbabilities bool
}

// Report is the projection of a whole result.
type Report struct {
	Imbalanced   Panel
	Balanced     Panel
	Disagreement bool
}

// Panels returns both panels in display order.
func (r Report) Panels() []Panel {
	return []Panel{r.Imbalanced, r.Balanced}
}

// Build projects a result. A nil result yields two unknown panels.
func Build(res *predict.Result) Report {
	return Report{
		Imbalanced:   ResolvePanel(res, SideImbalanced),
		Balanced:     ResolvePanel(res, SideBalanced),
		Disagreement: Disagree(res),
	}
}

// ResolvePanel takes sentiment and confidence from the side's sub-object,
// falling back field by field to the top-level values when absent.
// Probabilities come from the sub-object only.
func ResolvePanel(res *predict.Result, side Side) Panel {
	p := Panel{Side: side, Sentiment: UnknownSentiment}
	if res == nil {
		p.Badge = strings.ToUpper(p.Sentiment)
		p.ConfidenceText = FormatConfidence(0)
		return p
	}

	sub := res.Side(side.Key)

	switch {
	case sub != nil && sub.HasSentiment:
		p.Sentiment = sub.Sentiment
	case res.HasSentiment:
		p.Sentiment = res.Sentiment
	}

	switch {
	case sub != nil && sub.HasConfidence:
		p.Confidence = sub.Confidence
	case res.HasConfidence:
		p.Confidence = res.Confidence
	}

	p.Tone = ToneOf(p.Sentiment)
	p.Badge = strings.ToUpper(p.Sentiment)
	p.ConfidenceText = FormatConfidence(p.Confidence)
	p.Fill = FillPercent(p.Confidence)

	if sub != nil && sub.HasProbabilities {
		p.HasProbabilities = true
		p.Rows = make([]Row, 0, len(sub.Probabilities))
		for _, prob := range sub.Probabilities {
			p.Rows = append(p.Rows, Row{
				Label:   prob.Label,
				Display: Capitalize(prob.Label),
				Value:   prob.Value,
				Percent: FillPercent(prob.Value),
				Text:    FormatProbability(prob.Value),
				Tone:    ToneOf(prob.Label),
			})
		}
	}
	return p
}

// ResolveSingle builds the panel for a single-model endpoint response,
// whose fields sit at the top level rather than under a sub-object.
func ResolveSingle(res *predict.Result, side Side) Panel {
	if res == nil {
		return ResolvePanel(nil, side)
	}
	single := *res
	top := res.Prediction
	switch side.Key {
	case predict.ModelImbalanced:
		single.Imbalanced = &top
	case predict.ModelBalanced:
		single.Balanced = &top
	}
	return ResolvePanel(&single, side)
}

// Disagree reports whether both sub-objects are present and predict
// different sentiments. Top-level fallbacks never count.
func Disagree(res *predict.Result) bool {
	if res == nil || res.Imbalanced == nil || res.Balanced == nil {
		return false
	}
	return res.Imbalanced.Sentiment != res.Balanced.Sentiment
}

// FormatConfidence renders c as a percentage with two decimals.
func FormatConfidence(c float64) string {
	return fmt.Sprintf("%.2f%%", c*100)
}

// FormatProbability renders p as a percentage with one decimal.
func FormatProbability(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// FillPercent converts a [0,1] score to a bar width in percent.
func FillPercent(v float64) float64 {
	pct := v * 100
	if pct < 0 || math.IsNaN(pct) {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Capitalize upper-cases the first letter of each word.
func Capitalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	atStart := true
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if unicode.IsSpace(r) {
			atStart = true
			b.WriteRune(r)
			continue
		}
		if atStart {
			r = unicode.ToUpper(r)
			atStart = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
