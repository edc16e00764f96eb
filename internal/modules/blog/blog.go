package blog

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sutthiphatchuenban/nisio-portfolio/internal/database"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/gateway"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/middleware"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/models"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/pagination"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/response"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/slug"
)

var (
	// ErrSlugTaken signals a slug collision with another post.
	ErrSlugTaken = errors.New("slug already exists")
	// ErrEmptySlug is returned when neither the given slug nor the title
	// yields any usable characters.
	ErrEmptySlug = errors.New("slug cannot be derived from title")
)

type CreatePostDTO struct {
	Title      string   `json:"title" binding:"required"`
	Slug       string   `json:"slug"`
	Excerpt    string   `json:"excerpt"`
	Content    string   `json:"content"`
	CoverImage string   `json:"coverImage"`
	Images     []string `json:"images"`
	Tags       []string `json:"tags"`
	Published  bool     `json:"published"`
	Featured   bool     `json:"featured"`
}

type UpdatePostDTO struct {
	Title      *string  `json:"title"`
	Slug       *string  `json:"slug"`
	Excerpt    *string  `json:"excerpt"`
	Content    *string  `json:"content"`
	CoverImage *string  `json:"coverImage"`
	Images     []string `json:"images"`
	Tags       []string `json:"tags"`
	Published  *bool    `json:"published"`
	Featured   *bool    `json:"featured"`
}

// ListQuery captures the public listing filters.
type ListQuery struct {
	Tag      string
	Search   string
	Featured *bool
	// Sort is "newest" (default) or "oldest".
	Sort string
	// IncludeDrafts widens the listing beyond published posts; only
	// authenticated admins may set it.
	IncludeDrafts bool
}

type Service struct {
	db  *gorm.DB
	hub *gateway.Hub
}

func NewService(db *gorm.DB, hub *gateway.Hub) *Service { return &Service{db: db, hub: hub} }

func (s *Service) List(q pagination.Query, lq ListQuery) ([]models.BlogPostModel, response.Pagination, error) {
	tx := s.db.Model(&models.BlogPostModel{})
	if !lq.IncludeDrafts {
		tx = tx.Where("published = ?", true)
	}
	if lq.Tag != "" {
		// tags are stored as a JSON array; match the quoted element
		quoted, _ := json.Marshal(lq.Tag)
		tx = tx.Where("tags LIKE ?", "%"+string(quoted)+"%")
	}
	if lq.Featured != nil {
		tx = tx.Where("featured = ?", *lq.Featured)
	}
	if lq.Search != "" {
		like := "%" + lq.Search + "%"
		tx = tx.Where("title LIKE ? OR excerpt LIKE ? OR content LIKE ?", like, like, like)
	}
	if lq.Sort == "oldest" {
		tx = tx.Order("created_at ASC")
	} else {
		tx = tx.Order("created_at DESC")
	}

	var items []models.BlogPostModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// GetBySlug looks the post up by its exact stored slug. Percent-decoding of
// the path segment happens in the handler.
func (s *Service) GetBySlug(slugStr string, includeDrafts bool) (*models.BlogPostModel, error) {
	tx := s.db.Where("slug = ?", slugStr)
	if !includeDrafts {
		tx = tx.Where("published = ?", true)
	}
	var p models.BlogPostModel
	if err := tx.First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) GetByID(id string) (*models.BlogPostModel, error) {
	var p models.BlogPostModel
	if err := s.db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// IncrementView bumps the view counter atomically; concurrent readers never
// lose an increment.
func (s *Service) IncrementView(id string) error {
	return s.db.Model(&models.BlogPostModel{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// resolveSlug picks the post's slug: an explicit slug is taken verbatim,
// otherwise one is derived from the title. Either way it must be unique.
func (s *Service) resolveSlug(explicit, title, excludeID string) (string, error) {
	candidate := strings.TrimSpace(explicit)
	if candidate == "" {
		candidate = slug.Derive(title)
	}
	if candidate == "" {
		return "", ErrEmptySlug
	}

	tx := s.db.Model(&models.BlogPostModel{}).Where("slug = ?", candidate)
	if excludeID != "" {
		tx = tx.Where("id <> ?", excludeID)
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "", ErrSlugTaken
	}
	return candidate, nil
}

func (s *Service) Create(dto *CreatePostDTO) (*models.BlogPostModel, error) {
	slugStr, err := s.resolveSlug(dto.Slug, dto.Title, "")
	if err != nil {
		return nil, err
	}

	p := models.BlogPostModel{
		Title:      dto.Title,
		Slug:       slugStr,
		Excerpt:    dto.Excerpt,
		Content:    dto.Content,
		CoverImage: dto.CoverImage,
		Images:     dto.Images,
		Tags:       dto.Tags,
		Published:  dto.Published,
		Featured:   dto.Featured,
	}
	if dto.Published {
		now := time.Now()
		p.PublishedAt = &now
	}
	if err := s.insert(&p); err != nil {
		return nil, err
	}

	if p.Published && s.hub != nil {
		s.hub.EmitDashboard(gateway.EventContentUpdate, gin.H{
			"type": "blog", "action": "published", "slug": p.Slug,
		})
	}
	return &p, nil
}

// insert writes the row, mapping a unique-index violation on slug to
// ErrSlugTaken so a concurrent create racing past resolveSlug still reports
// a conflict.
func (s *Service) insert(p *models.BlogPostModel) error {
	if err := s.db.Create(p).Error; err != nil {
		if database.IsDuplicateEntry(err) {
			return ErrSlugTaken
		}
		return err
	}
	return nil
}

// Update applies partial changes by slug. PublishedAt is stamped on the first
// transition to published and never rewritten afterwards, so the original
// publication date survives later unpublish/republish cycles.
func (s *Service) Update(slugStr string, dto *UpdatePostDTO) (*models.BlogPostModel, error) {
	p, err := s.GetBySlug(slugStr, true)
	if err != nil || p == nil {
		return p, err
	}

	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Slug != nil {
		next, err := s.resolveSlug(*dto.Slug, p.Title, p.ID)
		if err != nil {
			return nil, err
		}
		updates["slug"] = next
	}
	if dto.Excerpt != nil {
		updates["excerpt"] = *dto.Excerpt
	}
	if dto.Content != nil {
		updates["content"] = *dto.Content
	}
	if dto.CoverImage != nil {
		updates["cover_image"] = *dto.CoverImage
	}
	if dto.Images != nil {
		updates["images"] = models.StringArray(dto.Images)
	}
	if dto.Tags != nil {
		updates["tags"] = models.StringArray(dto.Tags)
	}
	if dto.Featured != nil {
		updates["featured"] = *dto.Featured
	}

	firstPublish := false
	if dto.Published != nil {
		updates["published"] = *dto.Published
		if *dto.Published && !p.Published && p.PublishedAt == nil {
			updates["published_at"] = time.Now()
			firstPublish = true
		}
	}

	if err := s.db.Model(p).Updates(updates).Error; err != nil {
		if database.IsDuplicateEntry(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	if firstPublish && s.hub != nil {
		s.hub.EmitDashboard(gateway.EventContentUpdate, gin.H{
			"type": "blog", "action": "published", "slug": p.Slug,
		})
	}
	return p, nil
}

// Delete removes a post addressed by slug, or by id when one is given; the
// id always wins over the path slug.
func (s *Service) Delete(slugStr, id string) (bool, error) {
	tx := s.db
	if id != "" {
		tx = tx.Where("id = ?", id)
	} else {
		tx = tx.Where("slug = ?", slugStr)
	}
	result := tx.Delete(&models.BlogPostModel{})
	return result.RowsAffected > 0, result.Error
}

// Tags returns the distinct tag set across published posts.
func (s *Service) Tags() ([]string, error) {
	var rows []models.BlogPostModel
	if err := s.db.Select("tags").Where("published = ?", true).Find(&rows).Error; err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	out := []string{}
	for _, row := range rows {
		for _, tag := range row.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out, nil
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/blog")
	g.GET("", middleware.OptionalAdmin(h.svc.db), h.list)
	g.GET("/tags", h.tags)
	g.GET("/:slug", middleware.OptionalAdmin(h.svc.db), h.get)

	a := g.Group("", authMW)
	a.POST("", h.create)
	a.PUT("/:slug", h.update)
	a.DELETE("/:slug", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	lq := ListQuery{
		Tag:    strings.TrimSpace(c.Query("tag")),
		Search: strings.TrimSpace(c.Query("search")),
		Sort:   c.Query("sort"),
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

func (h *Handler) tags(c *gin.Context) {
	tags, err := h.svc.Tags()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, tags)
}

// slugCandidates returns the percent-decoded path slug first and, when
// decoding changed it, the raw segment as a fallback. Posts whose stored slug
// contains a literal escape sequence stay reachable that way.
func slugCandidates(c *gin.Context) []string {
	raw := c.Param("slug")
	decoded := slug.Decode(raw)
	if decoded == raw {
		return []string{decoded}
	}
	return []string{decoded, raw}
}

func (h *Handler) get(c *gin.Context) {
	isAdmin := middleware.IsAdmin(c)

	var p *models.BlogPostModel
	for _, candidate := range slugCandidates(c) {
		var err error
		p, err = h.svc.GetBySlug(candidate, isAdmin)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		if p != nil {
			break
		}
	}
	if p == nil {
		response.NotFound(c)
		return
	}

	// drafts previewed by admins do not accumulate views
	if p.Published {
		if err := h.svc.IncrementView(p.ID); err == nil {
			p.ViewCount++
		}
	}
	response.OK(c, p)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Create(&dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrSlugTaken):
			response.Conflict(c, err.Error())
		case errors.Is(err, ErrEmptySlug):
			response.UnprocessableEntity(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, p)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	var p *models.BlogPostModel
	for _, candidate := range slugCandidates(c) {
		var err error
		p, err = h.svc.Update(candidate, &dto)
		if err != nil {
			switch {
			case errors.Is(err, ErrSlugTaken):
				response.Conflict(c, err.Error())
			case errors.Is(err, ErrEmptySlug):
				response.UnprocessableEntity(c, err.Error())
			default:
				response.InternalError(c, err)
			}
			return
		}
		if p != nil {
			break
		}
	}
	if p == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, p)
}

func (h *Handler) delete(c *gin.Context) {
	id := strings.TrimSpace(c.Query("id"))

	var deleted bool
	for _, candidate := range slugCandidates(c) {
		var err error
		deleted, err = h.svc.Delete(candidate, id)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		if deleted || id != "" {
			break
		}
	}
	if !deleted {
		response.NotFound(c)
		return
	}
	response.NoContent(c)
}
