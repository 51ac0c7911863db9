package inventory

import "time"

type ResourceInput struct {
	Code        string
	Type        string
	Name        string
	Description string
	PhotoURL    string
}

type ResourceDTO struct {
	Code         string    `json:"code"`
	Type         string    `json:"type"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	Available    bool      `json:"available"`
	DepartmentID string    `json:"department_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// TypeGroup lists the resources of one type, sorted by name.
type TypeGroup struct {
	Type      string        `json:"type"`
	Resources []ResourceDTO `json:"resources"`
}

type DepartmentDTO struct {
	DepartmentID string `json:"department_id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	AdminName    string `json:"admin_name,omitempty"`
	Resources    int64  `json:"resources"`
	Available    int64  `json:"available"`
}

type CatalogDTO struct {
	Department DepartmentDTO `json:"department"`
	Groups     []TypeGroup   `json:"groups"`
}
