package category

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sutthiphatchuenban/nisio-portfolio/internal/database"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/models"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/response"
	slugpkg "github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/slug"
)

// ErrNameTaken signals a duplicate category name or slug.
var ErrNameTaken = errors.New("category already exists")

type CreateCategoryDTO struct {
	Name  string `json:"name" binding:"required"`
	Slug  string `json:"slug"`
	Color string `json:"color"`
}

type UpdateCategoryDTO struct {
	Name  *string `json:"name"`
	Slug  *string `json:"slug"`
	Color *string `json:"color"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) List() ([]models.CategoryModel, error) {
	var items []models.CategoryModel
	err := s.db.Order("name ASC").Find(&items).Error
	return items, err
}

func (s *Service) GetByID(id string) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := s.db.Preload("Projects").First(&cat, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (s *Service) taken(name, slug, excludeID string) (bool, error) {
	tx := s.db.Model(&models.CategoryModel{}).Where("name = ? OR slug = ?", name, slug)
	if excludeID != "" {
		tx = tx.Where("id <> ?", excludeID)
	}
	var count int64
	err := tx.Count(&count).Error
	return count > 0, err
}

func (s *Service) Create(dto *CreateCategoryDTO) (*models.CategoryModel, error) {
	slug := dto.Slug
	if slug == "" {
		slug = slugpkg.Derive(dto.Name)
	}
	if dup, err := s.taken(dto.Name, slug, ""); err != nil {
		return nil, err
	} else if dup {
		return nil, ErrNameTaken
	}

	cat := models.CategoryModel{Name: dto.Name, Slug: slug, Color: dto.Color}
	if err := s.insert(&cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// insert writes the row, mapping a unique-index violation to ErrNameTaken so
// a concurrent create racing past the pre-check still reports a conflict.
func (s *Service) insert(cat *models.CategoryModel) error {
	if err := s.db.Create(cat).Error; err != nil {
		if database.IsDuplicateEntry(err) {
			return ErrNameTaken
		}
		return err
	}
	return nil
}

func (s *Service) Update(id string, dto *UpdateCategoryDTO) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := s.db.First(&cat, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	name := cat.Name
	if dto.Name != nil {
		name = *dto.Name
	}
	slug := cat.Slug
	if dto.Slug != nil {
		slug = *dto.Slug
	}
	if dup, err := s.taken(name, slug, cat.ID); err != nil {
		return nil, err
	} else if dup {
		return nil, ErrNameTaken
	}

	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Slug != nil {
		updates["slug"] = *dto.Slug
	}
	if dto.Color != nil {
		updates["color"] = *dto.Color
	}
	if err := s.db.Model(&cat).Updates(updates).Error; err != nil {
		if database.IsDuplicateEntry(err) {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	return &cat, nil
}

// Delete removes a category and detaches its projects rather than deleting
// them.
func (s *Service) Delete(id string) (bool, error) {
	var deleted bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ProjectModel{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.CategoryModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/categories")
	g.GET("", h.list)
	g.GET("/:id", h.get)

	a := g.Group("", authMW)
	a.POST("", h.create)
	a.PUT("/:id", h.update)
	a.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) get(c *gin.Context) {
	cat, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if cat == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, cat)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cat, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, ErrNameTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, cat)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateCategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cat, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		if errors.Is(err, ErrNameTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if cat == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, cat)
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
