package models

import "time"

// CourseType is the pricing class of a course
type CourseType string

const (
	CourseTypeFree CourseType = "FREE"
	CourseTypePaid CourseType = "PAID"
)

func (t CourseType) IsValid() bool {
	return t == CourseTypeFree || t == CourseTypePaid
}

// CustomAmountPriceRange is the price range choice that takes a free-form amount
const CustomAmountPriceRange = "Custom Amount"

// Course is a catalog entry describing a learning resource.
// ImageURL holds either an object storage URL or, for legacy records, an inline data URI.
type Course struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Type        CourseType `json:"type"`
	Provider    string     `json:"provider"`
	Description string     `json:"description"`
	CourseURL   string     `json:"course_url"`
	Category    string     `json:"category,omitempty"`
	Subcategory string     `json:"subcategory,omitempty"`
	Platform    string     `json:"platform,omitempty"`
	SkillLevel  string     `json:"skill_level,omitempty"`
	PriceRange  string     `json:"price_range,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateCourseRequest is the body of a course creation, from JSON or the dashboard form.
// ImageURL may be a URL or a data URI; data URIs are moved to object storage when it is configured.
type CreateCourseRequest struct {
	Title        string     `json:"title" form:"title" validate:"required,max=300"`
	Type         CourseType `json:"type" form:"type" validate:"omitempty,oneof=FREE PAID"`
	Provider     string     `json:"provider" form:"provider" validate:"required,max=200"`
	Description  string     `json:"description" form:"description" validate:"required,max=10000"`
	CourseURL    string     `json:"course_url" form:"course_url" validate:"required,url,max=2048"`
	Category     string     `json:"category" form:"category" validate:"max=100"`
	Subcategory  string     `json:"subcategory" form:"subcategory" validate:"max=100"`
	Platform     string     `json:"platform" form:"platform" validate:"max=100"`
	SkillLevel   string     `json:"skill_level" form:"skill_level" validate:"max=50"`
	PriceRange   string     `json:"price_range" form:"price_range" validate:"max=100"`
	CustomAmount string     `json:"custom_amount" form:"custom_amount" validate:"omitempty,numeric,max=20"`
	ImageURL     string     `json:"image_url" form:"image_url"`
}

// UpdateCourseRequest is a partial update; nil fields are left unchanged.
// An empty optional field clears it; required fields cannot be blanked.
type UpdateCourseRequest struct {
	Title        *string     `json:"title" validate:"omitnil,min=1,max=300"`
	Type         *CourseType `json:"type" validate:"omitnil,oneof=FREE PAID"`
	Provider     *string     `json:"provider" validate:"omitnil,min=1,max=200"`
	Description  *string     `json:"description" validate:"omitnil,min=1,max=10000"`
	CourseURL    *string     `json:"course_url" validate:"omitnil,url,max=2048"`
	Category     *string     `json:"category" validate:"omitempty,max=100"`
	Subcategory  *string     `json:"subcategory" validate:"omitempty,max=100"`
	Platform     *string     `json:"platform" validate:"omitempty,max=100"`
	SkillLevel   *string     `json:"skill_level" validate:"omitempty,max=50"`
	PriceRange   *string     `json:"price_range" validate:"omitempty,max=100"`
	CustomAmount *string     `json:"custom_amount" validate:"omitempty,numeric,max=20"`
	ImageURL     *string     `json:"image_url"`
}

// IsEmpty reports whether the update changes nothing
func (r *UpdateCourseRequest) IsEmpty() bool {
	return r.Title == nil && r.Type == nil && r.Provider == nil && r.Description == nil &&
		r.CourseURL == nil && r.Category == nil && r.Subcategory == nil && r.Platform == nil &&
		r.SkillLevel == nil && r.PriceRange == nil && r.ImageURL == nil
}

// CourseFilter narrows course listings; zero value lists everything
type CourseFilter struct {
	Type       CourseType `form:"type"`
	Category   string     `form:"category"`
	Platform   string     `form:"platform"`
	SkillLevel string     `form:"skill_level"`
	Query      string     `form:"q"`
}

type CourseResponse struct {
	Course *Course `json:"course"`
}

type CoursesListResponse struct {
	Courses []*Course `json:"courses"`
	Total   int       `json:"total"`
}
