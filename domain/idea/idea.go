package idea

import (
	"time"

	"ideaflow-backend/pkg/errors"
)

// Category is the closed set of idea categories
type Category string

const (
	CategoryProjectIdeas      Category = "project-ideas"
	CategoryBlogTopics        Category = "blog-topics"
	CategoryTechnicalConcepts Category = "technical-concepts"
	CategoryBusinessIdeas     Category = "business-ideas"
	CategoryCreativeProjects  Category = "creative-projects"
	CategoryLearningGoals     Category = "learning-goals"
	CategoryPersonal          Category = "personal"
	CategoryOther             Category = "other"
)

// Categories returns all valid categories in display order
func Categories() []Category {
	return []Category{
		CategoryProjectIdeas,
		CategoryBlogTopics,
		CategoryTechnicalConcepts,
		CategoryBusinessIdeas,
		CategoryCreativeProjects,
		CategoryLearningGoals,
		CategoryPersonal,
		CategoryOther,
	}
}

// Valid reports whether c is a member of the category enumeration
func (c Category) Valid() bool {
	switch c {
	case CategoryProjectIdeas, CategoryBlogTopics, CategoryTechnicalConcepts,
		CategoryBusinessIdeas, CategoryCreativeProjects, CategoryLearningGoals,
		CategoryPersonal, CategoryOther:
		return true
	}
	return false
}

// ParseCategory maps a raw external value onto the category enumeration.
// Unknown members are rejected, never silently accepted.
func ParseCategory(raw string) (Category, error) {
	c := Category(raw)
	if !c.Valid() {
		return "", errors.NewUnknownError("invalid category value", nil).
			WithDetails(map[string]interface{}{"value": raw})
	}
	return c, nil
}

// Priority is the closed set of idea priorities
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is a member of the priority enumeration
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ParsePriority maps a raw external value onto the priority enumeration
func ParsePriority(raw string) (Priority, error) {
	p := Priority(raw)
	if !p.Valid() {
		return "", errors.NewUnknownError("invalid priority value", nil).
			WithDetails(map[string]interface{}{"value": raw})
	}
	return p, nil
}

// Status is the closed set of idea statuses
type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusArchived   Status = "archived"
)

// Valid reports whether s is a member of the status enumeration
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// ParseStatus maps a raw external value onto the status enumeration
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", errors.NewUnknownError("invalid status value", nil).
			WithDetails(map[string]interface{}{"value": raw})
	}
	return s, nil
}

// ResourceType is the closed set of resource types
type ResourceType string

const (
	ResourceLink ResourceType = "link"
	ResourceFile ResourceType = "file"
	ResourceNote ResourceType = "note"
)

// Valid reports whether t is a member of the resource type enumeration
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceLink, ResourceFile, ResourceNote:
		return true
	}
	return false
}

// ParseResourceType maps a raw external value onto the resource type enumeration
func ParseResourceType(raw string) (ResourceType, error) {
	t := ResourceType(raw)
	if !t.Valid() {
		return "", errors.NewUnknownError("invalid resource type value", nil).
			WithDetails(map[string]interface{}{"value": raw})
	}
	return t, nil
}

// Idea is a user-authored note with category/priority/status metadata
// and optional attached resources. Resources are owned by the idea:
// deleting the idea deletes them.
type Idea struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Category     Category   `json:"category"`
	Priority     Priority   `json:"priority"`
	Status       Status     `json:"status"`
	Tags         []string   `json:"tags"`
	Resources    []Resource `json:"resources"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	ReminderDate *time.Time `json:"reminderDate,omitempty"`
}

// Resource is a link, file reference, or free-text note attached to an idea
type Resource struct {
	ID        string       `json:"id"`
	Type      ResourceType `json:"type"`
	Title     string       `json:"title"`
	URL       string       `json:"url,omitempty"`
	Content   string       `json:"content,omitempty"`
	Preview   *LinkPreview `json:"preview,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// LinkPreview holds fetched metadata for a link resource
type LinkPreview struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	Domain      string `json:"domain"`
}

// Input is the create payload for an idea. ID and timestamps are
// store-assigned; status is forced to StatusNew on quick capture.
type Input struct {
	Title        string
	Description  string
	Category     Category
	Priority     Priority
	Tags         []string
	Resources    []Resource
	ReminderDate *time.Time
}

// Validate checks enumeration membership on the input. Title emptiness
// is a View Layer concern and is not re-checked here.
func (in Input) Validate() error {
	if !in.Category.Valid() {
		return errors.NewValidationError("category must be a known value")
	}
	if !in.Priority.Valid() {
		return errors.NewValidationError("priority must be a known value")
	}
	for _, r := range in.Resources {
		if !r.Type.Valid() {
			return errors.NewValidationError("resource type must be a known value")
		}
	}
	return nil
}

// Patch carries a partial update. Nil fields are left untouched; a
// non-nil Resources pointer fully replaces the previous resource set.
type Patch struct {
	Title        *string
	Description  *string
	Category     *Category
	Priority     *Priority
	Status       *Status
	Tags         *[]string
	Resources    *[]Resource
	ReminderDate *time.Time
}

// Validate checks enumeration membership on the fields present
func (p Patch) Validate() error {
	if p.Category != nil && !p.Category.Valid() {
		return errors.NewValidationError("category must be a known value")
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return errors.NewValidationError("priority must be a known value")
	}
	if p.Status != nil && !p.Status.Valid() {
		return errors.NewValidationError("status must be a known value")
	}
	if p.Resources != nil {
		for _, r := range *p.Resources {
			if !r.Type.Valid() {
				return errors.NewValidationError("resource type must be a known value")
			}
		}
	}
	return nil
}

// Empty reports whether the patch carries no fields at all
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil &&
		p.Priority == nil && p.Status == nil && p.Tags == nil &&
		p.Resources == nil && p.ReminderDate == nil
}

// Apply copies the present fields of the patch onto the idea.
// Timestamps are the store's responsibility, not the patch's.
func (p Patch) Apply(i *Idea) {
	if p.Title != nil {
		i.Title = *p.Title
	}
	if p.Description != nil {
		i.Description = *p.Description
	}
	if p.Category != nil {
		i.Category = *p.Category
	}
	if p.Priority != nil {
		i.Priority = *p.Priority
	}
	if p.Status != nil {
		i.Status = *p.Status
	}
	if p.Tags != nil {
		i.Tags = *p.Tags
	}
	if p.Resources != nil {
		i.Resources = *p.Resources
	}
	if p.ReminderDate != nil {
		i.ReminderDate = p.ReminderDate
	}
}
