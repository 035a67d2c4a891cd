package crowd

import (
	"encoding/json"
	"time"

	"CrowdMonitor/pkg/camera"
	"CrowdMonitor/pkg/density"
)

type AnalyzeRequest struct {
	CameraURL string `json:"camera_url" validate:"required,url"`
}

type ReportRequest struct {
	CameraURL string `json:"camera_url" validate:"required,url"`
	Email     string `json:"email" validate:"required,email"`
}

// AnalysisResult is one analysed frame together with its provenance.
type AnalysisResult struct {
	CameraURL   string
	ContentType string
	FrameSize   int
	Record      density.Record
	Summary     string
	Preview     string
	AnalyzedAt  time.Time
}

// AnalysisData carries the record rounded to its precision. Numbers are
// written with exactly that many decimals, so 0 density reads as 0.0.
type AnalysisData struct {
	Count     int            `json:"count"`
	Density   json.Number    `json:"density"`
	FreeSpace json.Number    `json:"free_space"`
	Status    density.Status `json:"status"`
}

func NewAnalysisData(r density.Record) AnalysisData {
	rounded := r.Rounded()
	return AnalysisData{
		Count:     rounded.Count,
		Density:   json.Number(rounded.FormatDensity()),
		FreeSpace: json.Number(rounded.FormatFreeSpace()),
		Status:    rounded.Status,
	}
}

type AnalyzeResponse struct {
	Success bool         `json:"success"`
	Data    AnalysisData `json:"data"`
	Message string       `json:"message"`
	Frame   string       `json:"frame"`
}

func NewAnalyzeResponse(res *AnalysisResult) AnalyzeResponse {
	return AnalyzeResponse{
		Success: true,
		Data:    NewAnalysisData(res.Record),
		Message: res.Summary,
		Frame:   res.Preview,
	}
}

// LiveUpdate is pushed over the live feed for each tick.
type LiveUpdate struct {
	AnalyzeResponse
	Timestamp time.Time `json:"timestamp"`
}

type ReportResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Email   string       `json:"email"`
	Data    AnalysisData `json:"data"`
}

type ProbeResponse = camera.ProbeResult

type ProbeFailureDetail struct {
	Tried []camera.Attempt `json:"tried"`
}

type DecodeFailureDetail struct {
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// Snapshot is one still image relayed as-is from the camera.
type Snapshot struct {
	ContentType string
	Body        []byte
}

type HealthResponse struct {
	Status string `json:"status"`
	Server string `json:"server"`
}
