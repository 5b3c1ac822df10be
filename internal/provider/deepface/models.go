package deepface

// AnalyzeRequest for POST /analyze
type AnalyzeRequest struct {
	Img      string   `json:"img"`     // base64 encoded image
	Actions  []string `json:"actions"` // empty for plain detection
	Detector string   `json:"detector"`
}

// AnalyzeResponse from POST /analyze
type AnalyzeResponse struct {
	Results []AnalyzeResult `json:"results"`
}

type AnalyzeResult struct {
	Region FacialArea `json:"region"`
}

type FacialArea struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}
