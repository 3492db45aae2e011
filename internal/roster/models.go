package roster

type Class struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	TeacherID string `json:"teacher_id"`
}

type Assignment struct {
	ID          string `json:"id"`
	ClassID     string `json:"class_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Points      int    `json:"points"`
}

// StoredFile records an uploaded class material. Key is the collision-
// resistant blob key; DisplayName is the original filename, kept for display
// only and never used to build paths.
type StoredFile struct {
	Key         string `json:"key"`
	ClassID     string `json:"class_id"`
	DisplayName string `json:"display_name"`
	UploadedBy  string `json:"uploaded_by"`
	UploadedAt  int64  `json:"uploaded_at"`
}
