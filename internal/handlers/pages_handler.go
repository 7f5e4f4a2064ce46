package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/certiswift/certiswift-api/internal/middleware"
	"github.com/certiswift/certiswift-api/internal/models"
	"github.com/certiswift/certiswift-api/internal/services"
	pkgerrors "github.com/certiswift/certiswift-api/pkg/errors"
	"github.com/certiswift/certiswift-api/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const dashboardPath = "/admin"

// PagesHandler renders the public catalog and the admin dashboard.
// Form posts redirect back with a notice or error in the query string.
type PagesHandler struct {
	courses services.CourseServiceInterface
	ratings services.RatingServiceInterface
	auth    services.AdminAuthServiceInterface
	images  services.ImageServiceInterface
	catalog services.CatalogServiceInterface
}

func NewPagesHandler(
	courses services.CourseServiceInterface,
	ratings services.RatingServiceInterface,
	auth services.AdminAuthServiceInterface,
	images services.ImageServiceInterface,
	catalog services.CatalogServiceInterface,
) *PagesHandler {
	return &PagesHandler{
		courses: courses,
		ratings: ratings,
		auth:    auth,
		images:  images,
		catalog: catalog,
	}
}

// CourseForm describes the dashboard's add or edit form
type CourseForm struct {
	Action  string
	Editing bool
	Course  models.Course
}

// page builds template data with the fields the layout reads
func (h *PagesHandler) page(c *gin.Context, title string) gin.H {
	data := gin.H{
		"Title":  title,
		"Notice": c.Query("notice"),
		"Error":  c.Query("error"),
		"Admin":  (*models.AdminSession)(nil),
	}
	if session, err := middleware.GetAdminSession(c); err == nil {
		data["Admin"] = session
	}
	return data
}

func (h *PagesHandler) renderError(c *gin.Context, status int, title, message string, err error) {
	attachError(c, err)
	data := h.page(c, title)
	data["Message"] = message
	c.HTML(status, "error.html", data)
}

// renderServiceError shows a not-found page for missing records and a generic page otherwise
func (h *PagesHandler) renderServiceError(c *gin.Context, err error) {
	if errors.Is(err, pkgerrors.ErrNotFound) {
		h.renderError(c, http.StatusNotFound, "Not found", "The page you are looking for does not exist.", err)
		return
	}
	h.renderError(c, http.StatusInternalServerError, "Something went wrong", "Please try again later.", err)
}

// redirectWith sends the browser to path with a notice or error message
func redirectWith(c *gin.Context, path, key, message string) {
	c.Redirect(http.StatusSeeOther, path+"?"+url.Values{key: {message}}.Encode())
}

// formErrorMessage turns a service error into text for a form notice
func formErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return ValidationSummary(verrs)
	}
	return publicMessage(err, "Something went wrong, please try again")
}

func pageID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Home redirects to the course list
func (h *PagesHandler) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, "/courses")
}

func (h *PagesHandler) CoursesPage(c *gin.Context) {
	var filter models.CourseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.renderError(c, http.StatusBadRequest, "Bad request", "The search filters are invalid.", err)
		return
	}

	courses, err := h.courses.ListCourses(c.Request.Context(), filter)
	if err != nil {
		h.renderServiceError(c, err)
		return
	}

	data := h.page(c, "Courses")
	data["Courses"] = courses
	data["Filter"] = filter
	data["Options"] = h.catalog.Options()
	c.HTML(http.StatusOK, "courses.html", data)
}

func (h *PagesHandler) CoursePage(c *gin.Context) {
	id, ok := pageID(c)
	if !ok {
		h.renderError(c, http.StatusNotFound, "Not found", "The page you are looking for does not exist.", nil)
		return
	}

	ctx := c.Request.Context()
	course, err := h.courses.GetCourse(ctx, id)
	if err != nil {
		h.renderServiceError(c, err)
		return
	}

	ratings, err := h.ratings.ListRatings(ctx, id)
	if err != nil {
		h.renderServiceError(c, err)
		return
	}

	data := h.page(c, course.Title)
	data["Course"] = course
	data["Ratings"] = ratings
	data["Summary"] = models.Summarize(ratings)
	data["Options"] = h.catalog.Options()
	c.HTML(http.StatusOK, "course.html", data)
}

func (h *PagesHandler) SubmitRating(c *gin.Context) {
	id, ok := pageID(c)
	if !ok {
		h.renderError(c, http.StatusNotFound, "Not found", "The page you are looking for does not exist.", nil)
		return
	}
	coursePath := "/course/" + strconv.FormatInt(id, 10)

	var req models.CreateRatingRequest
	if err := c.ShouldBind(&req); err != nil {
		attachError(c, err)
		redirectWith(c, coursePath, "error", "Please choose a rating between 1 and 5")
		return
	}

	if _, err := h.ratings.AddRating(c.Request.Context(), id, &req); err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			h.renderServiceError(c, err)
			return
		}
		attachError(c, err)
		redirectWith(c, coursePath, "error", formErrorMessage(err))
		return
	}

	redirectWith(c, coursePath, "notice", "Thanks for rating this course!")
}

// LoginPage shows the login form. A visitor with a live session goes straight to the dashboard.
func (h *PagesHandler) LoginPage(c *gin.Context) {
	if token, err := c.Cookie(middleware.AdminSessionCookieName); err == nil {
		if _, err := h.auth.ValidateSession(token); err == nil {
			c.Redirect(http.StatusFound, safeNext(c.Query("next")))
			return
		}
	}

	data := h.page(c, "Admin login")
	data["Next"] = c.Query("next")
	data["Email"] = ""
	c.HTML(http.StatusOK, "admin_login.html", data)
}

func (h *PagesHandler) Login(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBind(&req); err != nil {
		attachError(c, err)
		redirectWith(c, middleware.AdminLoginPath, "error", "Invalid login form")
		return
	}

	session, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		attachError(c, err)
		data := h.page(c, "Admin login")
		data["Next"] = c.PostForm("next")
		data["Email"] = req.Email
		status := statusForError(err)
		if errors.Is(err, pkgerrors.ErrUnauthorized) {
			data["Error"] = "Invalid email or password"
		} else {
			data["Error"] = formErrorMessage(err)
		}
		c.HTML(status, "admin_login.html", data)
		return
	}

	middleware.SetAdminSessionCookie(c, session.Token, h.auth.SessionTTL(), h.auth.CookieSecure())
	c.Redirect(http.StatusSeeOther, safeNext(c.PostForm("next")))
}

func (h *PagesHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(middleware.AdminSessionCookieName); err == nil {
		h.auth.Logout(token)
	}
	middleware.ClearAdminSessionCookie(c, h.auth.CookieSecure())
	redirectWith(c, middleware.AdminLoginPath, "notice", "You have been logged out")
}

// safeNext keeps post-login redirects on gated admin pages of this site
func safeNext(next string) string {
	if next == "" || strings.HasPrefix(next, "//") || !middleware.IsGatedAdminPath(strings.SplitN(next, "?", 2)[0]) {
		return dashboardPath
	}
	return next
}

func (h *PagesHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	courses, err := h.courses.ListCourses(ctx, models.CourseFilter{})
	if err != nil {
		h.renderServiceError(c, err)
		return
	}

	form := CourseForm{Action: "/admin/courses", Course: models.Course{Type: models.CourseTypeFree}}
	if edit := c.Query("edit"); edit != "" {
		id, err := strconv.ParseInt(edit, 10, 64)
		if err != nil {
			h.renderError(c, http.StatusBadRequest, "Bad request", "Invalid course id.", err)
			return
		}
		course, err := h.courses.GetCourse(ctx, id)
		if err != nil {
			h.renderServiceError(c, err)
			return
		}
		form = CourseForm{
			Action:  "/admin/courses/" + strconv.FormatInt(id, 10),
			Editing: true,
			Course:  *course,
		}
	}

	data := h.page(c, "Dashboard")
	data["Courses"] = courses
	data["Options"] = h.catalog.Options()
	data["Form"] = form
	data["StorageEnabled"] = h.images.Enabled()
	c.HTML(http.StatusOK, "admin_dashboard.html", data)
}

func (h *PagesHandler) CreateCourse(c *gin.Context) {
	var req models.CreateCourseRequest
	if err := c.ShouldBind(&req); err != nil {
		attachError(c, err)
		redirectWith(c, dashboardPath, "error", "Invalid course form")
		return
	}

	image, uploaded, err := h.formImage(c)
	if err != nil {
		attachError(c, err)
		redirectWith(c, dashboardPath, "error", formErrorMessage(err))
		return
	}
	if image != "" {
		req.ImageURL = image
	}

	course, err := h.courses.AddCourse(c.Request.Context(), &req)
	if err != nil {
		h.discardUpload(c, image, uploaded)
		attachError(c, err)
		redirectWith(c, dashboardPath, "error", formErrorMessage(err))
		return
	}

	redirectWith(c, dashboardPath, "notice", fmt.Sprintf("Course %q added", course.Title))
}

func (h *PagesHandler) UpdateCourse(c *gin.Context) {
	id, ok := pageID(c)
	if !ok {
		redirectWith(c, dashboardPath, "error", "Invalid course id")
		return
	}
	editPath := dashboardPath + "?edit=" + strconv.FormatInt(id, 10)

	req := updateRequestFromForm(c)

	image, uploaded, err := h.formImage(c)
	if err != nil {
		attachError(c, err)
		c.Redirect(http.StatusSeeOther, editPath+"&"+url.Values{"error": {formErrorMessage(err)}}.Encode())
		return
	}
	switch {
	case image != "":
		req.ImageURL = &image
	case c.PostForm("remove_image") != "":
		empty := ""
		req.ImageURL = &empty
	}

	course, err := h.courses.UpdateCourse(c.Request.Context(), id, req)
	if err != nil {
		h.discardUpload(c, image, uploaded)
		attachError(c, err)
		if errors.Is(err, pkgerrors.ErrNotFound) {
			redirectWith(c, dashboardPath, "error", "Course not found")
			return
		}
		c.Redirect(http.StatusSeeOther, editPath+"&"+url.Values{"error": {formErrorMessage(err)}}.Encode())
		return
	}

	redirectWith(c, dashboardPath, "notice", fmt.Sprintf("Course %q updated", course.Title))
}

func (h *PagesHandler) DeleteCourse(c *gin.Context) {
	id, ok := pageID(c)
	if !ok {
		redirectWith(c, dashboardPath, "error", "Invalid course id")
		return
	}

	if err := h.courses.DeleteCourse(c.Request.Context(), id); err != nil {
		attachError(c, err)
		redirectWith(c, dashboardPath, "error", formErrorMessage(err))
		return
	}

	redirectWith(c, dashboardPath, "notice", "Course deleted")
}

func (h *PagesHandler) CreateAdmin(c *gin.Context) {
	var req models.CreateAdminRequest
	if err := c.ShouldBind(&req); err != nil {
		attachError(c, err)
		redirectWith(c, dashboardPath, "error", "Invalid admin form")
		return
	}

	admin, err := h.auth.CreateAdmin(c.Request.Context(), &req)
	if err != nil {
		attachError(c, err)
		redirectWith(c, dashboardPath, "error", formErrorMessage(err))
		return
	}

	redirectWith(c, dashboardPath, "notice", "Admin "+admin.Email+" created")
}

func (h *PagesHandler) TestConnection(c *gin.Context) {
	if h.auth.TestConnection(c.Request.Context()) {
		redirectWith(c, dashboardPath, "notice", "Database connection OK")
		return
	}
	redirectWith(c, dashboardPath, "error", "Database connection failed")
}

// updateRequestFromForm sets only the fields present in the posted form
func updateRequestFromForm(c *gin.Context) *models.UpdateCourseRequest {
	field := func(name string) *string {
		if v, ok := c.GetPostForm(name); ok {
			return &v
		}
		return nil
	}

	req := &models.UpdateCourseRequest{
		Title:        field("title"),
		Provider:     field("provider"),
		Description:  field("description"),
		CourseURL:    field("course_url"),
		Category:     field("category"),
		Subcategory:  field("subcategory"),
		Platform:     field("platform"),
		SkillLevel:   field("skill_level"),
		PriceRange:   field("price_range"),
		CustomAmount: field("custom_amount"),
	}
	if t := field("type"); t != nil {
		courseType := models.CourseType(*t)
		req.Type = &courseType
	}
	return req
}

// formImage reads the optional "image" upload. With object storage it is uploaded
// and its URL returned with uploaded set; otherwise it comes back as a data URI for
// inline storage.
func (h *PagesHandler) formImage(c *gin.Context) (image string, uploaded bool, err error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", false, nil
		}
		return "", false, pkgerrors.InvalidInputError("image", "could not read uploaded file")
	}
	if fh.Size == 0 {
		return "", false, nil
	}
	if fh.Size > storage.MaxImageSize {
		return "", false, pkgerrors.InvalidInputError("image", "image must be at most 5MB")
	}

	data, err := readUpload(fh)
	if err != nil {
		return "", false, err
	}

	declaredType := fh.Header.Get("Content-Type")
	if !h.images.Enabled() {
		image, err = inlineImage(data, declaredType)
		return image, false, err
	}
	image, err = h.images.Upload(c.Request.Context(), data, declaredType)
	if err != nil {
		return "", false, err
	}
	return image, true, nil
}

// discardUpload removes an image uploaded for a form the service then rejected
func (h *PagesHandler) discardUpload(c *gin.Context, image string, uploaded bool) {
	if uploaded {
		h.images.Delete(c.Request.Context(), image)
	}
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, pkgerrors.InvalidInputError("image", "could not read uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, storage.MaxImageSize+1))
	if err != nil {
		return nil, pkgerrors.InvalidInputError("image", "could not read uploaded file")
	}
	return data, nil
}

// inlineImage encodes an upload as a data URI using its sniffed type
func inlineImage(data []byte, declaredType string) (string, error) {
	if declaredType != "" && !strings.HasPrefix(strings.ToLower(declaredType), "image/") {
		return "", pkgerrors.InvalidInputError("image", "only image files are allowed")
	}
	contentType, _, err := storage.DetectImage(data)
	if err != nil {
		if errors.Is(err, storage.ErrImageTooLarge) {
			return "", pkgerrors.InvalidInputError("image", "image must be at most 5MB")
		}
		return "", pkgerrors.InvalidInputError("image", "only JPEG, PNG, WebP and GIF images are allowed")
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
