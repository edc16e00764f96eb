package project

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sutthiphatchuenban/nisio-portfolio/internal/middleware"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/models"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/pagination"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/response"
)

const relatedLimit = 4

type CreateProjectDTO struct {
	Title            string   `json:"title" binding:"required"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"shortDescription"`
	ImageURL         string   `json:"imageUrl"`
	Images           []string `json:"images"`
	ProjectURL       string   `json:"projectUrl"`
	GithubURL        string   `json:"githubUrl"`
	Technologies     []string `json:"technologies"`
	CategoryID       *string  `json:"categoryId"`
	Featured         bool     `json:"featured"`
	Status           string   `json:"status" binding:"omitempty,oneof=draft published"`
}

type UpdateProjectDTO struct {
	Title            *string  `json:"title"`
	Description      *string  `json:"description"`
	ShortDescription *string  `json:"shortDescription"`
	ImageURL         *string  `json:"imageUrl"`
	Images           []string `json:"images"`
	ProjectURL       *string  `json:"projectUrl"`
	GithubURL        *string  `json:"githubUrl"`
	Technologies     []string `json:"technologies"`
	CategoryID       *string  `json:"categoryId"`
	Featured         *bool    `json:"featured"`
	Status           *string  `json:"status" binding:"omitempty,oneof=draft published"`
}

type ListQuery struct {
	CategoryID string
	Technology string
	Search     string
	Featured   *bool
	// Sort is "newest" (default), "oldest", or "featured".
	Sort          string
	IncludeDrafts bool
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) List(q pagination.Query, lq ListQuery) ([]models.ProjectModel, response.Pagination, error) {
	tx := s.db.Model(&models.ProjectModel{}).Preload("Category")
	if !lq.IncludeDrafts {
		tx = tx.Where("status = ?", models.StatusPublished)
	}
	if lq.CategoryID != "" {
		tx = tx.Where("category_id = ?", lq.CategoryID)
	}
	if lq.Technology != "" {
		// technologies are stored as a JSON array; match the quoted element
		quoted, _ := json.Marshal(lq.Technology)
		tx = tx.Where("technologies LIKE ?", "%"+string(quoted)+"%")
	}
	if lq.Search != "" {
		like := "%" + lq.Search + "%"
		tx = tx.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	if lq.Featured != nil {
		tx = tx.Where("featured = ?", *lq.Featured)
	}
	switch lq.Sort {
	case "oldest":
		tx = tx.Order("created_at ASC")
	case "featured":
		tx = tx.Order("featured DESC, created_at DESC")
	default:
		tx = tx.Order("created_at DESC")
	}

	var items []models.ProjectModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

func (s *Service) GetByID(id string, includeDrafts bool) (*models.ProjectModel, error) {
	tx := s.db.Preload("Category").Where("id = ?", id)
	if !includeDrafts {
		tx = tx.Where("status = ?", models.StatusPublished)
	}
	var p models.ProjectModel
	if err := tx.First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Related returns published projects sharing the category, newest first.
func (s *Service) Related(p *models.ProjectModel) ([]models.ProjectModel, error) {
	if p.CategoryID == nil {
		return []models.ProjectModel{}, nil
	}
	var items []models.ProjectModel
	err := s.db.Where("category_id = ? AND status = ? AND id <> ?",
		*p.CategoryID, models.StatusPublished, p.ID).
		Order("created_at DESC").Limit(relatedLimit).Find(&items).Error
	return items, err
}

func (s *Service) IncrementView(id string) error {
	return s.db.Model(&models.ProjectModel{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (s *Service) Create(dto *CreateProjectDTO) (*models.ProjectModel, error) {
	status := dto.Status
	if status == "" {
		status = models.StatusDraft
	}
	p := models.ProjectModel{
		Title:            dto.Title,
		Description:      dto.Description,
		ShortDescription: dto.ShortDescription,
		ImageURL:         dto.ImageURL,
		Images:           dto.Images,
		ProjectURL:       dto.ProjectURL,
		GithubURL:        dto.GithubURL,
		Technologies:     dto.Technologies,
		CategoryID:       normalizeCategoryID(dto.CategoryID),
		Featured:         dto.Featured,
		Status:           status,
	}
	return &p, s.db.Create(&p).Error
}

func (s *Service) Update(id string, dto *UpdateProjectDTO) (*models.ProjectModel, error) {
	p, err := s.GetByID(id, true)
	if err != nil || p == nil {
		return p, err
	}

	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.ShortDescription != nil {
		updates["short_description"] = *dto.ShortDescription
	}
	if dto.ImageURL != nil {
		updates["image_url"] = *dto.ImageURL
	}
	if dto.Images != nil {
		updates["images"] = models.StringArray(dto.Images)
	}
	if dto.ProjectURL != nil {
		updates["project_url"] = *dto.ProjectURL
	}
	if dto.GithubURL != nil {
		updates["github_url"] = *dto.GithubURL
	}
	if dto.Technologies != nil {
		updates["technologies"] = models.StringArray(dto.Technologies)
	}
	if dto.CategoryID != nil {
		updates["category_id"] = normalizeCategoryID(dto.CategoryID)
	}
	if dto.Featured != nil {
		updates["featured"] = *dto.Featured
	}
	if dto.Status != nil {
		updates["status"] = *dto.Status
	}
	return p, s.db.Model(p).Updates(updates).Error
}

func (s *Service) Delete(id string) (bool, error) {
	result := s.db.Delete(&models.ProjectModel{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

// normalizeCategoryID maps an empty string to NULL so a project can be
// detached from its category.
func normalizeCategoryID(id *string) *string {
	if id == nil {
		return nil
	}
	v := strings.TrimSpace(*id)
	if v == "" {
		return nil
	}
	return &v
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/projects")
	g.GET("", middleware.OptionalAdmin(h.svc.db), h.list)
	g.GET("/:id", middleware.OptionalAdmin(h.svc.db), h.get)
	g.GET("/:id/related", h.related)

	a := g.Group("", authMW)
	a.POST("", h.create)
	a.PUT("/:id", h.update)
	a.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	lq := ListQuery{
		CategoryID: strings.TrimSpace(c.Query("category")),
		Technology: strings.TrimSpace(c.Query("technology")),
		Search:     strings.TrimSpace(c.Query("search")),
		Sort:       c.Query("sort"),
	}
	if v := c.Query("featured"); v != "" {
		featured := v == "true" || v == "1"
		lq.Featured = &featured
	}
	if c.Query("all") == "true" && middleware.IsAdmin(c) {
		lq.IncludeDrafts = true
	}

	items, pag, err := h.svc.List(q, lq)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

func (h *Handler) get(c *gin.Context) {
	isAdmin := middleware.IsAdmin(c)
	p, err := h.svc.GetByID(c.Param("id"), isAdmin)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFound(c)
		return
	}
	if p.Status == models.StatusPublished {
		if err := h.svc.IncrementView(p.ID); err == nil {
			p.ViewCount++
		}
	}
	response.OK(c, p)
}

func (h *Handler) related(c *gin.Context) {
	p, err := h.svc.GetByID(c.Param("id"), false)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFound(c)
		return
	}
	items, err := h.svc.Related(p)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateProjectDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, p)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateProjectDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, p)
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
