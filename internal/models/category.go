package models

import "time"

// Category is a node in the self-referential category tree. A nil ParentID
// marks a root category. Deleting a category cascades to its subtree and to
// its products (enforced by the schema).
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ParentID  *int64    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateCategoryRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// UpdateCategoryRequest is a partial update; absent fields stay unchanged.
// ClearParent detaches the category back to a root, since an absent
// parent_id already means "leave the parent alone".
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	ParentID    *int64  `json:"parent_id,omitempty"`
	ClearParent bool    `json:"clear_parent,omitempty"`
}
