// Package classifier sends an image to the remote classification endpoint and
// maps the raw response to a typed result or a typed error.
package classifier

import "strconv"

// Classification is a successful prediction. Confidence is carried exactly as
// the service returned it.
type Classification struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Percent renders the confidence with a percent designator.
func (c Classification) Percent() string {
	return strconv.FormatFloat(c.Confidence, 'f', -1, 64) + "%"
}

// predictResponse is the union of the service's success and error bodies.
// Pointer fields distinguish absent keys from zero values.
type predictResponse struct {
	PredictedClass *string  `json:"predicted_class"`
	Confidence     *float64 `json:"confidence"`
	Error          *string  `json:"error"`
}
