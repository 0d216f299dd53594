package predict

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Model names accepted by the single-model endpoints.
const (
	ModelImbalanced = "imbalanced"
	ModelBalanced   = "balanced"
)

// ValidModels lists the models that PredictModel accepts.
var ValidModels = []string{ModelImbalanced, ModelBalanced}

// PredictRequest is the body posted to every prediction endpoint.
type PredictRequest struct {
	Text string `json:"text"`
}

// Probability is one class entry of a model's probability distribution.
type Probability struct {
	Label string
	Value float64
}

// Prediction is a single model's output. Every field carries a presence
// flag because the service does not guarantee any of them.
type Prediction struct {
	Sentiment    string
	HasSentiment bool

	Confidence    float64
	HasConfidence bool

	// Probabilities keeps the key order of the JSON object as received.
	Probabilities    []Probability
	HasProbabilities bool
}

// Result is the decoded response of POST /predict (or a single-model
// endpoint). The embedded Prediction holds the top-level fields.
type Result struct {
	Prediction

	InputText string
	Model     string

	// Imbalanced and Balanced are nil when the sub-object is absent.
	Imbalanced *Prediction
	Balanced   *Prediction

	// Raw is the response body verbatim.
	Raw []byte
}

// Side returns the sub-object for the named model, or nil.
func (r *Result) Side(model string) *Prediction {
	if r == nil {
		return nil
	}
	switch model {
	case ModelImbalanced:
		return r.Imbalanced
	case ModelBalanced:
		return r.Balanced
	}
	return nil
}

// ParseResult decodes a prediction response body. Any syntactically valid
// JSON is accepted; fields that are missing or of the wrong shape are
// reported through the presence flags instead of failing.
func ParseResult(body []byte) (*Result, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON in prediction response")
	}
	doc := gjson.ParseBytes(body)

	res := &Result{
		Prediction: parsePrediction(doc),
		InputText:  doc.Get("input_text").String(),
		Model:      doc.Get("model").String(),
		Raw:        append([]byte(nil), body...),
	}
	if sub := doc.Get(ModelImbalanced); sub.IsObject() {
		p := parsePrediction(sub)
		res.Imbalanced = &p
	}
	if sub := doc.Get(ModelBalanced); sub.IsObject() {
		p := parsePrediction(sub)
		res.Balanced = &p
	}
	return res, nil
}

func parsePrediction(obj gjson.Result) Prediction {
	var p Prediction
	if !obj.IsObject() {
		return p
	}

	if v := obj.Get("predicted_sentiment"); v.Exists() && v.Type != gjson.Null {
		p.Sentiment = v.String()
		p.HasSentiment = true
	}
	if v := obj.Get("confidence"); v.Exists() && v.Type != gjson.Null {
		p.Confidence = v.Float()
		p.HasConfidence = true
	}
	if v := obj.Get("probabilities"); v.IsObject() {
		p.HasProbabilities = true
		p.Probabilities = make([]Probability, 0, 4)
		v.ForEach(func(key, value gjson.Result) bool {
			p.Probabilities = append(p.Probabilities, Probability{
				Label: key.String(),
				Value: value.Float(),
			})
			return true
		})
	}
	return p
}

// ModelInfo describes one model in the /models/info catalogue.
type ModelInfo struct {
	Name        string
	File        string
	Description string
	Classes     []string
}

// ModelsInfo is the decoded response of GET /models/info.
type ModelsInfo struct {
	TotalModels int
	Models      []ModelInfo
	Vectorizer  string
}

func parseModelsInfo(body []byte) (*ModelsInfo, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON in models response")
	}
	doc := gjson.ParseBytes(body)

	info := &ModelsInfo{
		TotalModels: int(doc.Get("total_models").Int()),
		Vectorizer:  doc.Get("vectorizer").String(),
	}
	for _, m := range doc.Get("models").Array() {
		mi := ModelInfo{
			Name:        m.Get("name").String(),
			File:        m.Get("file").String(),
			Description: m.Get("description").String(),
		}
		for _, c := range m.Get("classes").Array() {
			mi.Classes = append(mi.Classes, c.String())
		}
		info.Models = append(info.Models, mi)
	}
	return info, nil
}

// Endpoint is one entry of the service root's endpoint listing.
type Endpoint struct {
	Path        string
	Description string
}

// ServiceStatus is the decoded response of GET /.
type ServiceStatus struct {
	Message   string
	Endpoints []Endpoint
}

func parseServiceStatus(body []byte) (*ServiceStatus, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON in status response")
	}
	doc := gjson.ParseBytes(body)

	st := &ServiceStatus{Message: doc.Get("message").String()}
	doc.Get("endpoints").ForEach(func(key, value gjson.Result) bool {
		st.Endpoints = append(st.Endpoints, Endpoint{Path: key.String(), Description: value.String()})
		return true
	})
	return st, nil
}
