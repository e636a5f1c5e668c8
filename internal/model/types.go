package model

// Tool describes one dashboard page for the index and the startup log.
type Tool struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// Tools is every page the dashboard serves, in menu order.
var Tools = []Tool{
	{Name: "Image Filter", Path: "/image-filter/", Description: "Apply a custom 3x3 convolution kernel to an image"},
	{Name: "Image Normalizer", Path: "/image-normalizer/", Description: "Subtract per-channel means and rescale for display"},
	{Name: "Token Checker", Path: "/token-checker/", Description: "Split text into tokens and count them"},
	{Name: "One-Hot Vector", Path: "/one-hot-vector/", Description: "Build a vocabulary and encode words as one-hot vectors"},
	{Name: "CNN Visualizer", Path: "/cnn-visualizer/", Description: "Explore how each CNN block would see an image"},
}

type HealthResponse struct {
	Status string `json:"status"`
	Text   bool   `json:"text_generation"`
	Image  bool   `json:"image_generation"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type AITokenizeRequest struct {
	Text string `json:"text"`
}

type AITokenizeResponse struct {
	Tokens      []string `json:"ai_tokens"`
	Count       int      `json:"ai_count"`
	Explanation string   `json:"explanation"`
	Raw         string   `json:"raw_response"`
}

type VisualizeBlockRequest struct {
	BlockNumber      int    `json:"block_number"`
	ImageDescription string `json:"image_description"`
	GenerateImage    bool   `json:"generate_image"`
}

type VisualizeBlockResponse struct {
	Success        bool   `json:"success"`
	BlockNumber    int    `json:"block_number"`
	Visualization  string `json:"visualization"`
	GeneratedImage string `json:"generated_image,omitempty"`
	ImageError     string `json:"image_error,omitempty"`
	Error          string `json:"error,omitempty"`
}
