package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hrm/backend/internal/application/notification"
	"github.com/hrm/backend/internal/interfaces/http/dto"
	"github.com/hrm/backend/internal/interfaces/http/middleware"
)

// NotificationHandler handles the user inbox and the HR announcement
// back office
type NotificationHandler struct {
	BaseHandler
	notificationService *notification.Service
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *notification.Service) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// AnnouncementRequest is the announcement create/update request body
type AnnouncementRequest struct {
	Title string `json:"title" binding:"required,max=200"`
	Body  string `json:"body" binding:"required,max=10000"`
}

// ScheduleRequest sets the announcement send time
type ScheduleRequest struct {
	At time.Time `json:"at" binding:"required"`
}

// Inbox godoc
// @Summary      My notification inbox
// @Tags         notification
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]notification.InboxItemDTO,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) Inbox(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	filter, err := bindFilter(c)
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.notificationService.Inbox(c.Request.Context(), tenantID, userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// UnreadCount godoc
// @Summary      Count unread notifications
// @Tags         notification
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"unread": count})
}

// MarkRead godoc
// @Summary      Mark a notification as read
// @Tags         notification
// @Produce      json
// @Param        id path string true "Notification ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	notificationID, ok := h.bindNotificationID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), tenantID, userID, notificationID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Notification marked as read"})
}

// MarkAllRead godoc
// @Summary      Mark all notifications as read
// @Tags         notification
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	marked, err := h.notificationService.MarkAllRead(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"marked": marked})
}

// CreateAnnouncement godoc
// @Summary      Create an announcement draft
// @Tags         hrAnnouncements
// @Accept       json
// @Produce      json
// @Param        request body AnnouncementRequest true "Announcement"
// @Success      201 {object} dto.Response{data=notification.NotificationDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/announcements [post]
func (h *NotificationHandler) CreateAnnouncement(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	ann, err := h.notificationService.CreateAnnouncement(c.Request.Context(), notification.CreateAnnouncementInput{
		TenantID: tenantID,
		AuthorID: userID,
		Title:    req.Title,
		Body:     req.Body,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, ann)
}

// List godoc
// @Summary      List announcements and notifications
// @Tags         hrAnnouncements
// @Produce      json
// @Param        kind query string false "Filter by kind"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]notification.NotificationDTO,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /hr/announcements [get]
func (h *NotificationHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	filter, err := bindFilter(c)
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.notificationService.List(c.Request.Context(), tenantID, c.Query("kind"), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @Summary      Get an announcement
// @Tags         hrAnnouncements
// @Produce      json
// @Param        id path string true "Notification ID"
// @Success      200 {object} dto.Response{data=notification.NotificationDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/announcements/{id} [get]
func (h *NotificationHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	notificationID, ok := h.bindNotificationID(c)
	if !ok {
		return
	}

	ann, err := h.notificationService.Get(c.Request.Context(), tenantID, notificationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ann)
}

// UpdateDraft godoc
// @Summary      Edit an announcement draft
// @Tags         hrAnnouncements
// @Accept       json
// @Produce      json
// @Param        id path string true "Notification ID"
// @Param        request body AnnouncementRequest true "Announcement"
// @Success      200 {object} dto.Response{data=notification.NotificationDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/announcements/{id} [put]
func (h *NotificationHandler) UpdateDraft(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	notificationID, ok := h.bindNotificationID(c)
	if !ok {
		return
	}

	var req AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	ann, err := h.notificationService.UpdateDraft(c.Request.Context(), notification.UpdateDraftInput{
		TenantID:       tenantID,
		NotificationID: notificationID,
		Title:          req.Title,
		Body:           req.Body,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ann)
}

// Schedule godoc
// @Summary      Schedule an announcement
// @Tags         hrAnnouncements
// @Accept       json
// @Produce      json
// @Param        id path string true "Notification ID"
// @Param        request body ScheduleRequest true "Send time"
// @Success      200 {object} dto.Response{data=notification.NotificationDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/announcements/{id}/schedule [post]
func (h *NotificationHandler) Schedule(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	notificationID, ok := h.bindNotificationID(c)
	if !ok {
		return
	}

	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	ann, err := h.notificationService.Schedule(c.Request.Context(), tenantID, notificationID, req.At)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ann)
}

// SendNow godoc
// @Summary      Send an announcement immediately
// @Tags         hrAnnouncements
// @Produce      json
// @Param        id path string true "Notification ID"
// @Success      200 {object} dto.Response{data=notification.NotificationDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/announcements/{id}/send [post]
func (h *NotificationHandler) SendNow(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	notificationID, ok := h.bindNotificationID(c)
	if !ok {
		return
	}

	ann, err := h.notificationService.SendNow(c.Request.Context(), tenantID, notificationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ann)
}

// CancelScheduled godoc
// @Summary      Cancel a scheduled announcement
// @Tags         hrAnnouncements
// @Produce      json
// @Param        id path string true "Notification ID"
// @Success      200 {object} dto.Response{data=notification.NotificationDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/announcements/{id}/cancel [post]
func (h *NotificationHandler) CancelScheduled(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	notificationID, ok := h.bindNotificationID(c)
	if !ok {
		return
	}

	ann, err := h.notificationService.Cancel(c.Request.Context(), tenantID, notificationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ann)
}

func (h *NotificationHandler) bindNotificationID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid notification ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid notification ID")
		return uuid.Nil, false
	}
	return id, true
}
