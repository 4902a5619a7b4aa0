package fraud

import (
	"encoding/json"

	"github.com/oapi-codegen/runtime"
)

// Datatype defines model for Tensor.Datatype.
type Datatype string

// Defines values for Datatype.
const (
	DatatypeINT64 Datatype = "INT64"
	DatatypeFP32  Datatype = "FP32"
	DatatypeFP64  Datatype = "FP64"
)

// InferenceRequest mirrors the KServe v2 inference request body.
type InferenceRequest struct {
	ID         string      `json:"id,omitempty"`
	Parameters *Parameters `json:"parameters,omitempty"`
	Inputs     []Tensor    `json:"inputs"`
}

// InferenceResponse mirrors the KServe v2 inference response body.
type InferenceResponse struct {
	ModelName    string   `json:"model_name"`
	ModelVersion string   `json:"model_version,omitempty"`
	ID           string   `json:"id,omitempty"`
	Outputs      []Tensor `json:"outputs"`
}

// Tensor defines model for an input or output tensor.
type Tensor struct {
	Name     string     `json:"name"`
	Datatype Datatype   `json:"datatype"`
	Shape    []int64    `json:"shape"`
	Data     TensorData `json:"data"`
}

// TensorData holds the flattened tensor contents. The element type depends on
// the tensor datatype, so the raw JSON is kept until read.
type TensorData struct {
	union json.RawMessage
}

// Parameters holds the free-form parameters object of a request.
type Parameters struct {
	union json.RawMessage
}

// AsInt64Data returns the union data inside the TensorData as a []int64
func (t TensorData) AsInt64Data() ([]int64, error) {
	var body []int64
	err := json.Unmarshal(t.union, &body)
	return body, err
}

// FromInt64Data overwrites any union data inside the TensorData as the provided []int64
func (t *TensorData) FromInt64Data(v []int64) error {
	b, err := json.Marshal(v)
	t.union = b
	return err
}

// AsFloat32Data returns the union data inside the TensorData as a []float32
func (t TensorData) AsFloat32Data() ([]float32, error) {
	var body []float32
	err := json.Unmarshal(t.union, &body)
	return body, err
}

// FromFloat32Data overwrites any union data inside the TensorData as the provided []float32
func (t *TensorData) FromFloat32Data(v []float32) error {
	b, err := json.Marshal(v)
	t.union = b
	return err
}

// AsFloat64Data returns the union data inside the TensorData as a []float64
func (t TensorData) AsFloat64Data() ([]float64, error) {
	var body []float64
	err := json.Unmarshal(t.union, &body)
	return body, err
}

// MarshalJSON serializes the underlying union for TensorData.
func (t TensorData) MarshalJSON() ([]byte, error) {
	b, err := t.union.MarshalJSON()
	return b, err
}

// UnmarshalJSON loads union data for TensorData.
func (t *TensorData) UnmarshalJSON(b []byte) error {
	err := t.union.UnmarshalJSON(b)
	return err
}

// AsMap returns the parameters as a generic map.
func (p Parameters) AsMap() (map[string]any, error) {
	var body map[string]any
	err := json.Unmarshal(p.union, &body)
	return body, err
}

// Merge performs a merge with the parameters already set, using the provided values.
// Keys present in v win.
func (p *Parameters) Merge(v map[string]any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if len(p.union) == 0 {
		p.union = b
		return nil
	}

	merged, err := runtime.JSONMerge(p.union, b)
	p.union = merged
	return err
}

// MarshalJSON serializes the underlying union for Parameters.
func (p Parameters) MarshalJSON() ([]byte, error) {
	b, err := p.union.MarshalJSON()
	return b, err
}

// UnmarshalJSON loads union data for Parameters.
func (p *Parameters) UnmarshalJSON(b []byte) error {
	err := p.union.UnmarshalJSON(b)
	return err
}
