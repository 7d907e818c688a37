package types

// Category represents provider categories
type Category string

const (
	CategoryAutomation Category = "automation"
	CategoryFilesystem Category = "filesystem"
	CategoryClipboard  Category = "clipboard"
	CategorySystem     Category = "system"
	CategoryAI         Category = "ai"
	CategoryUI         Category = "ui"
)

// Service represents a provider definition
type Service struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     Category `json:"category"`
	Capabilities []string `json:"capabilities"`
	Tools        []Tool   `json:"tools"`
}

// Tool represents a provider tool
type Tool struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Returns     string      `json:"returns"`
}

// Parameter represents a tool parameter
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Context carries per-call execution context for providers
type Context struct {
	SessionID *string `json:"session_id,omitempty"`
	WorkDir   *string `json:"work_dir,omitempty"`
	User      *string `json:"user,omitempty"`
}

// Result represents a provider execution result
type Result struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *string                `json:"error,omitempty"`
}

// Success creates a successful result
func Success(data map[string]interface{}) (*Result, error) {
	return &Result{Success: true, Data: data}, nil
}

// Failure creates a failed result
func Failure(message string) (*Result, error) {
	return &Result{Success: false, Error: &message}, nil
}
