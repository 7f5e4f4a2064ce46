package handlers

import (
	"net/http"

	"github.com/certiswift/certiswift-api/internal/models"
	"github.com/certiswift/certiswift-api/internal/services"
	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	service services.CourseServiceInterface
}

func NewCourseHandler(service services.CourseServiceInterface) *CourseHandler {
	return &CourseHandler{service: service}
}

// ListCourses handles GET /api/courses and GET /api/admin/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	var filter models.CourseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	courses, err := h.service.ListCourses(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch courses")
		return
	}

	c.JSON(http.StatusOK, models.CoursesListResponse{
		Courses: courses,
		Total:   len(courses),
	})
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	course, err := h.service.GetCourse(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch course")
		return
	}

	c.JSON(http.StatusOK, models.CourseResponse{Course: course})
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req models.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondServiceError(c, bindError(err), "Failed to create course")
		return
	}

	course, err := h.service.AddCourse(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err, "Failed to create course")
		return
	}

	c.JSON(http.StatusCreated, models.CourseResponse{Course: course})
}

func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondServiceError(c, bindError(err), "Failed to update course")
		return
	}

	course, err := h.service.UpdateCourse(c.Request.Context(), id, &req)
	if err != nil {
		respondServiceError(c, err, "Failed to update course")
		return
	}

	c.JSON(http.StatusOK, models.CourseResponse{Course: course})
}

// DeleteCourse answers 204 with no body, or 404 when the course does not exist
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCourse(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete course")
		return
	}

	c.Status(http.StatusNoContent)
}
