package contact

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sutthiphatchuenban/nisio-portfolio/internal/gateway"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/models"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/pagination"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/response"
)

type CreateContactDTO struct {
	Name    string `json:"name"    binding:"required"`
	Email   string `json:"email"   binding:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

type UpdateStatusDTO struct {
	Status string `json:"status" binding:"required,oneof=pending read replied"`
}

type Service struct {
	db  *gorm.DB
	hub *gateway.Hub
}

func NewService(db *gorm.DB, hub *gateway.Hub) *Service { return &Service{db: db, hub: hub} }

// Create stores the message and notifies dashboard listeners. The
// notification is advisory; its failure never surfaces to the sender.
func (s *Service) Create(dto *CreateContactDTO, ip, ua string) (*models.ContactModel, error) {
	m := models.ContactModel{
		Name:      dto.Name,
		Email:     dto.Email,
		Subject:   dto.Subject,
		Message:   dto.Message,
		Status:    models.ContactPending,
		IPAddress: ip,
		UserAgent: ua,
	}
	if err := s.db.Create(&m).Error; err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.EmitDashboard(gateway.EventContactNew, gin.H{
			"id":      m.ID,
			"name":    m.Name,
			"subject": m.Subject,
		})
	}
	return &m, nil
}

func (s *Service) List(q pagination.Query, status string) ([]models.ContactModel, response.Pagination, error) {
	tx := s.db.Model(&models.ContactModel{}).Order("created_at DESC")
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	var items []models.ContactModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

func (s *Service) UnreadCount() (int64, error) {
	var count int64
	err := s.db.Model(&models.ContactModel{}).
		Where("status = ?", models.ContactPending).Count(&count).Error
	return count, err
}

func (s *Service) UpdateStatus(id, status string) (*models.ContactModel, error) {
	var m models.ContactModel
	if err := s.db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, s.db.Model(&m).Update("status", status).Error
}

func (s *Service) Delete(id string) (bool, error) {
	result := s.db.Delete(&models.ContactModel{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes wires the public submission endpoint (behind rateMW) and the
// admin inbox.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, rateMW gin.HandlerFunc) {
	g := rg.Group("/contact")
	if rateMW != nil {
		g.POST("", rateMW, h.create)
	} else {
		g.POST("", h.create)
	}

	a := g.Group("", authMW)
	a.GET("", h.list)
	a.GET("/unread-count", h.unreadCount)
	a.PATCH("/:id/status", h.updateStatus)
	a.DELETE("/:id", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateContactDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.svc.Create(&dto, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, m)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	items, pag, err := h.svc.List(q, c.Query("status"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

func (h *Handler) unreadCount(c *gin.Context) {
	count, err := h.svc.UnreadCount()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"count": count})
}

func (h *Handler) updateStatus(c *gin.Context) {
	var dto UpdateStatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.svc.UpdateStatus(c.Param("id"), dto.Status)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, m)
}

func (h *Handler) delete(c *gin.Context) {
	deleted, err := h.svc.Delete(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !deleted {
		response.NotFound(c)
		return
	}
	response.NoContent(c)
}
