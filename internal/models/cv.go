package models

import (
	"fmt"
	"time"
)

// CV is an uploaded resume file
type CV struct {
	ID        string    `json:"id"`
	FilePath  string    `json:"-"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	FileSize  int64     `json:"file_size"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CVView adds the formatted size for admin listings
type CVView struct {
	*CV
	HumanSize string `json:"human_size"`
}

// HumanSize formats a byte count using 1024-based units
func HumanSize(bytes int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(bytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", bytes)
	}
	return fmt.Sprintf("%.2f %s", size, units[i])
}
