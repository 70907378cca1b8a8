// internal/workers/admission/predict-rank/models.go
package predictrank

// Input mirrors the raw query fields the prediction needs. Marks may be a number or a numeric
// string; Institute is only consulted to infer the exam when Exam is empty.
type Input struct {
	Marks     interface{} `json:"marks"`
	Exam      string      `json:"exam"`
	Institute interface{} `json:"institute"`
}

type Output struct {
	Exam      string `json:"exam"`
	Rank      *int   `json:"rank"`
	Predicted bool   `json:"predicted"`
}
