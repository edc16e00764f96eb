package skill

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sutthiphatchuenban/nisio-portfolio/internal/models"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/response"
)

type CreateSkillDTO struct {
	Name        string `json:"name"        binding:"required"`
	Category    string `json:"category"    binding:"required"`
	Proficiency int    `json:"proficiency" binding:"min=0,max=100"`
	Icon        string `json:"icon"`
	OrderIndex  int    `json:"orderIndex"`
}

type UpdateSkillDTO struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Proficiency *int    `json:"proficiency" binding:"omitempty,min=0,max=100"`
	Icon        *string `json:"icon"`
	OrderIndex  *int    `json:"orderIndex"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns skills ordered for display: category groups, then the manual
// order within each group.
func (s *Service) List(category string) ([]models.SkillModel, error) {
	tx := s.db.Order("category ASC, order_index ASC, name ASC")
	if category != "" {
		tx = tx.Where("category = ?", category)
	}
	var items []models.SkillModel
	err := tx.Find(&items).Error
	return items, err
}

// Categories returns the distinct skill categories in display order.
func (s *Service) Categories() ([]string, error) {
	var categories []string
	err := s.db.Model(&models.SkillModel{}).
		Distinct("category").Order("category ASC").Pluck("category", &categories).Error
	return categories, err
}

func (s *Service) GetByID(id string) (*models.SkillModel, error) {
	var sk models.SkillModel
	if err := s.db.First(&sk, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sk, nil
}

func (s *Service) Create(dto *CreateSkillDTO) (*models.SkillModel, error) {
	sk := models.SkillModel{
		Name:        dto.Name,
		Category:    dto.Category,
		Proficiency: dto.Proficiency,
		Icon:        dto.Icon,
		OrderIndex:  dto.OrderIndex,
	}
	return &sk, s.db.Create(&sk).Error
}

func (s *Service) Update(id string, dto *UpdateSkillDTO) (*models.SkillModel, error) {
	sk, err := s.GetByID(id)
	if err != nil || sk == nil {
		return sk, err
	}
	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Category != nil {
		updates["category"] = *dto.Category
	}
	if dto.Proficiency != nil {
		updates["proficiency"] = *dto.Proficiency
	}
	if dto.Icon != nil {
		updates["icon"] = *dto.Icon
	}
	if dto.OrderIndex != nil {
		updates["order_index"] = *dto.OrderIndex
	}
	return sk, s.db.Model(sk).Updates(updates).Error
}

func (s *Service) Delete(id string) (bool, error) {
	result := s.db.Delete(&models.SkillModel{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/skills")
	g.GET("", h.list)
	g.GET("/categories", h.categories)

	a := g.Group("", authMW)
	a.POST("", h.create)
	a.PUT("/:id", h.update)
	a.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Query("category"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) categories(c *gin.Context) {
	categories, err := h.svc.Categories()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, categories)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateSkillDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	sk, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, sk)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateSkillDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	sk, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if sk == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, sk)
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
