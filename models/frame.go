package models

// Frame is one message pushed to live console viewers
type Frame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Frame types
const (
	FrameCountdowns = "countdowns"
	FrameBanner     = "banner"
	FrameRefresh    = "refresh"
)
