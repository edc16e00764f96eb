package settings

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sutthiphatchuenban/nisio-portfolio/internal/config"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/database"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/models"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/response"
)

type UpdateSettingsDTO struct {
	SiteName        *string `json:"siteName"`
	SiteDescription *string `json:"siteDescription"`
	Name            *string `json:"name"`
	Title           *string `json:"title"`
	Bio             *string `json:"bio"`
	Avatar          *string `json:"avatar"`
	HeroImage       *string `json:"heroImage"`
	Email           *string `json:"email"`
	Location        *string `json:"location"`
	ResumeURL       *string `json:"resumeUrl"`
	GithubURL       *string `json:"githubUrl"`
	LinkedinURL     *string `json:"linkedinUrl"`
	TwitterURL      *string `json:"twitterUrl"`
}

type Service struct {
	db   *gorm.DB
	site config.Site
}

func NewService(db *gorm.DB, site config.Site) *Service {
	return &Service{db: db, site: site}
}

func (s *Service) defaults() models.SiteSettingsModel {
	return models.SiteSettingsModel{
		ID:              models.SettingsID,
		SiteName:        s.site.Name,
		Title:           s.site.Title,
		SiteDescription: s.site.Description,
	}
}

// EnsureExists creates the singleton row if missing. Two instances racing the
// insert is fine: the loser's duplicate-key error is treated as success.
func (s *Service) EnsureExists() error {
	var count int64
	if err := s.db.Model(&models.SiteSettingsModel{}).
		Where("id = ?", models.SettingsID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	row := s.defaults()
	if err := s.db.Create(&row).Error; err != nil && !database.IsDuplicateEntry(err) {
		return err
	}
	return nil
}

// Get returns the settings row, creating it with defaults on first read.
func (s *Service) Get() (*models.SiteSettingsModel, error) {
	var row models.SiteSettingsModel
	err := s.db.First(&row, "id = ?", models.SettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.EnsureExists(); err != nil {
			return nil, err
		}
		err = s.db.First(&row, "id = ?", models.SettingsID).Error
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Service) Update(dto *UpdateSettingsDTO) (*models.SiteSettingsModel, error) {
	row, err := s.Get()
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	set := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	set("site_name", dto.SiteName)
	set("site_description", dto.SiteDescription)
	set("name", dto.Name)
	set("title", dto.Title)
	set("bio", dto.Bio)
	set("avatar", dto.Avatar)
	set("hero_image", dto.HeroImage)
	set("email", dto.Email)
	set("location", dto.Location)
	set("resume_url", dto.ResumeURL)
	set("github_url", dto.GithubURL)
	set("linkedin_url", dto.LinkedinURL)
	set("twitter_url", dto.TwitterURL)

	if len(updates) == 0 {
		return row, nil
	}
	return row, s.db.Model(row).Updates(updates).Error
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/settings")
	g.GET("", h.get)
	g.PUT("", authMW, h.update)
}

func (h *Handler) get(c *gin.Context) {
	row, err := h.svc.Get()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, row)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateSettingsDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	row, err := h.svc.Update(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, row)
}
