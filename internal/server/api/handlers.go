package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/saydemoon/internship-portal/internal/common"
	"github.com/saydemoon/internship-portal/internal/logging"
	"github.com/saydemoon/internship-portal/internal/server/artifact"
	"github.com/saydemoon/internship-portal/internal/server/guard"
	"github.com/saydemoon/internship-portal/internal/server/models"
)

type handlers struct {
	log         logging.Logger
	guard       *guard.Guard
	users       UserService
	profiles    ProfileService
	submissions SubmissionService
	reviews     ReviewService
	set         WorkingSet
	resolver    *artifact.Resolver
	uploader    Uploader
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

func (h *handlers) signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := h.users.Signup(c.Request.Context(), req.Email, req.Password, models.Role(req.Role))
	switch {
	case errors.Is(err, common.ErrorInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
	case errors.Is(err, common.ErrorAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
	case err != nil:
		h.log.Error(c.Request.Context(), "signup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		c.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email})
	}
}

func (h *handlers) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	pair, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case err != nil:
		h.log.Error(c.Request.Context(), "login failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		c.JSON(http.StatusOK, gin.H{
			"access_token":  pair.AccessToken,
			"refresh_token": pair.RefreshToken,
		})
	}
}

func (h *handlers) refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refresh_token is required"})
		return
	}

	pair, err := h.users.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

func (h *handlers) ensureProfile(c *gin.Context) {
	var req struct {
		Role string `json:"role"`
	}
	// Body is optional; an empty body means "no explicit selection".
	_ = c.ShouldBindJSON(&req)

	ident := identityFrom(c)
	res, err := h.profiles.EnsureProfile(c.Request.Context(), ident, models.Role(req.Role))
	switch {
	case errors.Is(err, common.ErrorNoUser):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, common.ErrorInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
	case errors.Is(err, common.ErrorMissingRole):
		// No stored role and no selection; the client must prompt.
		c.JSON(http.StatusConflict, gin.H{"error": "role selection required"})
	case err != nil:
		h.log.Error(c.Request.Context(), "profile provisioning failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		c.JSON(http.StatusOK, gin.H{
			"created": res.Created,
			"role":    res.Role,
			"home":    guard.RoleHome(res.Role),
		})
	}
}

// guardCheck answers the page-level access question for a path, plus the
// safe post-login continuation for a ?next= value.
func (h *handlers) guardCheck(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}
	required := models.Role(c.Query("required"))

	token := guard.TokenFromRequest(c.Request)
	d := h.guard.Check(c.Request.Context(), token, path, required)

	resp := gin.H{"state": guardStateName(d.State)}
	if d.Location != "" {
		resp["location"] = d.Location
	}
	if next := c.Query("next"); d.State == guard.Allowed && d.Role != "" {
		resp["continue"] = guard.SafeContinuation(next, d.Role)
	}
	c.JSON(http.StatusOK, resp)
}

func guardStateName(s guard.State) string {
	switch s {
	case guard.RedirectLogin:
		return "redirect_login"
	case guard.RedirectForbidden:
		return "redirect_forbidden"
	default:
		return "allowed"
	}
}

type submissionRequest struct {
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Location       string `json:"location"`
	Hobby          string `json:"hobby"`
	ProfilePicture string `json:"profile_picture"`
	ZipFile        string `json:"zip_file"`
}

func (h *handlers) createSubmission(c *gin.Context) {
	var req submissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission body"})
		return
	}

	ident := identityFrom(c)
	created, err := h.submissions.Create(c.Request.Context(), ident.UserID, &models.Submission{
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		Location:       req.Location,
		Hobby:          req.Hobby,
		ProfilePicture: req.ProfilePicture,
		ZipFile:        req.ZipFile,
	})
	switch {
	case errors.Is(err, common.ErrorInvalidSubmission):
		c.JSON(http.StatusBadRequest, gin.H{"error": "full_name and email are required"})
	case err != nil:
		h.log.Error(c.Request.Context(), "submission create failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		c.JSON(http.StatusCreated, created)
	}
}

func (h *handlers) latestSubmission(c *gin.Context) {
	ident := identityFrom(c)
	sub, err := h.submissions.Latest(c.Request.Context(), ident.UserID)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no submission yet"})
	case err != nil:
		h.log.Error(c.Request.Context(), "submission read failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		c.JSON(http.StatusOK, h.withLinks(sub))
	}
}

// submissionView is a submission plus resolved artifact URLs. The stored
// references stay untouched; only the view carries browsable links.
type submissionView struct {
	*models.Submission
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
	ZipFileURL        string `json:"zip_file_url,omitempty"`
}

func (h *handlers) withLinks(sub *models.Submission) submissionView {
	v := submissionView{Submission: sub}
	if url, ok := h.resolver.Resolve(sub.ProfilePicture); ok {
		v.ProfilePictureURL = url
	}
	if url, ok := h.resolver.Resolve(sub.ZipFile); ok {
		v.ZipFileURL = url
	}
	return v
}

func (h *handlers) listSubmissions(c *gin.Context) {
	if err := h.set.Err(); err != nil {
		h.log.Error(c.Request.Context(), "submission list unavailable", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "submission list unavailable, retry"})
		return
	}

	items := h.set.Snapshot()
	views := make([]submissionView, 0, len(items))
	for _, sub := range items {
		views = append(views, h.withLinks(sub))
	}
	c.JSON(http.StatusOK, views)
}

func (h *handlers) setFeedback(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	var req struct {
		Feedback string `json:"feedback"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid feedback body"})
		return
	}

	if err := h.set.SetFeedback(id, req.Feedback); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) decide(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	var req struct {
		Decision string `json:"decision" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "decision is required"})
		return
	}

	out, err := h.reviews.Decide(c.Request.Context(), id, models.Decision(req.Decision))
	switch {
	case errors.Is(err, common.ErrorInvalidDecision):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid decision"})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
	case errors.Is(err, common.ErrorDecisionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "decision already in progress"})
	case errors.Is(err, common.ErrorPersist):
		h.log.Error(c.Request.Context(), "decision persist failed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save decision"})
	case errors.Is(err, common.ErrorNotify):
		// The decision is saved; the caller sees a success with a flag
		// instead of an error that would invite a double-send retry.
		h.log.Warn(c.Request.Context(), "decision saved but notification failed", "id", id, "error", err)
		c.JSON(http.StatusOK, gin.H{"persisted": true, "notified": false})
	case err != nil:
		h.log.Error(c.Request.Context(), "decision failed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		c.JSON(http.StatusOK, gin.H{"persisted": out.Persisted, "notified": out.Notified})
	}
}

// dashboardPage is the server-side stand-in for a dashboard view: the SPA
// asks for it after passing the guard and renders from the API endpoints.
func (h *handlers) dashboardPage(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := guard.IdentityFromContext(c)
		resp := gin.H{"page": name}
		if ident != nil {
			resp["user_id"] = ident.UserID
		}
		c.JSON(http.StatusOK, resp)
	}
}

func (h *handlers) uploadArtifact(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	key := artifact.RandomKey()
	contentType := header.Header.Get("Content-Type")
	if _, err := h.uploader.Upload(c.Request.Context(), key, contentType, file); err != nil {
		h.log.Error(c.Request.Context(), "artifact upload failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"key": key, "url": h.resolver.PublicURL(key)})
}
