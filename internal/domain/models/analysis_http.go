package models

// AnalyzeRequest is the POST /api/analyze payload.
type AnalyzeRequest struct {
	Address      string `json:"address" validate:"required,len=42,startswith=0x"`
	Chain        string `json:"chain" default:"ethereum" validate:"oneof=ethereum bsc polygon"`
	ForceRefresh bool   `json:"force_refresh"`
}

// QuickCheckRequest is the GET /api/quick-check query binding.
type QuickCheckRequest struct {
	Address string `query:"address" validate:"required,len=42,startswith=0x"`
	Chain   string `query:"chain" default:"ethereum" validate:"oneof=ethereum bsc polygon"`
}
