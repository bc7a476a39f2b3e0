package gateway

// DiffusionDefaults is the lcm_diffusion_setting section of the server
// config: the defaults the server would generate with when left alone.
type DiffusionDefaults struct {
	ModelID        string `json:"openvino_lcm_model_id"`
	InferenceSteps int    `json:"inference_steps"`
	ImageWidth     int    `json:"image_width"`
	ImageHeight    int    `json:"image_height"`
}

// ServerConfig is a per-session snapshot of server settings. A missing
// section decodes to its zero value.
type ServerConfig struct {
	Diffusion DiffusionDefaults `json:"lcm_diffusion_setting"`
}

// ServerInfo describes the device the server runs on. Display only.
type ServerInfo struct {
	DeviceType string `json:"device_type"`
	DeviceName string `json:"device_name"`
}

// GenerationRequest is the body posted to /api/generate. Built once per
// invocation and never mutated after submission.
type GenerationRequest struct {
	Prompt             string `json:"prompt"`
	InferenceSteps     int    `json:"inference_steps"`
	UseOpenVINO        bool   `json:"use_openvino"`
	UseTinyAutoEncoder bool   `json:"use_tiny_auto_encoder"`
	ModelID            string `json:"openvino_lcm_model_id"`
	ImageWidth         int    `json:"image_width"`
	ImageHeight        int    `json:"image_height"`
}

// GenerationResult holds the base64-encoded images the server returned.
// Only the first entry is ever consumed.
type GenerationResult struct {
	Images []string `json:"images"`
}
