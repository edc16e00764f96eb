package analytics

import (
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mileusna/useragent"
	"gorm.io/gorm"

	"github.com/sutthiphatchuenban/nisio-portfolio/internal/gateway"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/models"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/response"
)

const (
	defaultRangeDays = 30
	maxRangeDays     = 365
	topPageLimit     = 10
)

type TrackDTO struct {
	PagePath  string `json:"pagePath" binding:"required"`
	PageTitle string `json:"pageTitle"`
	Referrer  string `json:"referrer"`
	SessionID string `json:"sessionId"`
	Duration  int    `json:"duration"`
}

// Overview is the admin dashboard summary assembled in one transaction so
// the numbers are mutually consistent.
type Overview struct {
	PublishedPosts  int64 `json:"publishedPosts"`
	DraftPosts      int64 `json:"draftPosts"`
	Projects        int64 `json:"projects"`
	Skills          int64 `json:"skills"`
	PendingContacts int64 `json:"pendingContacts"`
	TotalPostViews  int64 `json:"totalPostViews"`
	TotalPageViews  int64 `json:"totalPageViews"`
	UniqueSessions  int64 `json:"uniqueSessions"`
}

type pageCount struct {
	PagePath string `json:"pagePath"`
	Views    int64  `json:"views"`
}

type dayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Views int64  `json:"views"`
}

type deviceCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Service struct {
	db  *gorm.DB
	hub *gateway.Hub
}

func NewService(db *gorm.DB, hub *gateway.Hub) *Service { return &Service{db: db, hub: hub} }

// Track records one page view. Failures stay with the caller, but the
// dashboard push is fire-and-forget.
func (s *Service) Track(dto *TrackDTO, ip, ua string) (*models.AnalyticsModel, error) {
	m := models.AnalyticsModel{
		PagePath:  dto.PagePath,
		PageTitle: dto.PageTitle,
		Referrer:  dto.Referrer,
		SessionID: dto.SessionID,
		Duration:  dto.Duration,
		IPAddress: ip,
		UserAgent: ua,
	}
	if err := s.db.Create(&m).Error; err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.EmitDashboard(gateway.EventPageView, gin.H{
			"pagePath":  m.PagePath,
			"sessionId": m.SessionID,
		})
	}
	return &m, nil
}

func (s *Service) Overview() (*Overview, error) {
	var o Overview
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.BlogPostModel{}).
			Where("published = ?", true).Count(&o.PublishedPosts).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.BlogPostModel{}).
			Where("published = ?", false).Count(&o.DraftPosts).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.ProjectModel{}).Count(&o.Projects).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.SkillModel{}).Count(&o.Skills).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.ContactModel{}).
			Where("status = ?", models.ContactPending).Count(&o.PendingContacts).Error; err != nil {
			return err
		}

		var postViews *int64
		if err := tx.Model(&models.BlogPostModel{}).
			Select("SUM(view_count)").Scan(&postViews).Error; err != nil {
			return err
		}
		if postViews != nil {
			o.TotalPostViews = *postViews
		}
		if err := tx.Model(&models.AnalyticsModel{}).Count(&o.TotalPageViews).Error; err != nil {
			return err
		}
		return tx.Model(&models.AnalyticsModel{}).
			Where("session_id <> ''").Distinct("session_id").Count(&o.UniqueSessions).Error
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// TopPages returns the most viewed paths inside the window.
func (s *Service) TopPages(days int) ([]pageCount, error) {
	cutoff := rangeCutoff(normalizeRange(days))
	var rows []pageCount
	err := s.db.Model(&models.AnalyticsModel{}).
		Select("page_path, COUNT(*) as views").
		Where("created_at >= ?", cutoff).
		Group("page_path").
		Order("views DESC").
		Limit(topPageLimit).
		Scan(&rows).Error
	if rows == nil {
		rows = []pageCount{}
	}
	return rows, err
}

// Timeseries buckets views per day over the window. Bucketing happens in Go
// because date truncation is not portable across SQL dialects.
func (s *Service) Timeseries(days int) ([]dayCount, error) {
	days = normalizeRange(days)
	cutoff := rangeCutoff(days)
	var rows []models.AnalyticsModel
	if err := s.db.Select("created_at").
		Where("created_at >= ?", cutoff).Find(&rows).Error; err != nil {
		return nil, err
	}

	counts := map[string]int64{}
	for _, row := range rows {
		counts[row.CreatedAt.Format("2006-01-02")]++
	}

	out := make([]dayCount, 0, days)
	day := cutoff
	today := time.Now()
	for !day.After(today) {
		key := day.Format("2006-01-02")
		out = append(out, dayCount{Date: key, Views: counts[key]})
		day = day.AddDate(0, 0, 1)
	}
	return out, nil
}

// Devices summarizes browser and device families from stored user agents.
func (s *Service) Devices(days int) (map[string][]deviceCount, error) {
	cutoff := rangeCutoff(normalizeRange(days))
	var rows []models.AnalyticsModel
	if err := s.db.Select("user_agent").
		Where("created_at >= ? AND user_agent <> ''", cutoff).Find(&rows).Error; err != nil {
		return nil, err
	}

	browsers := map[string]int{}
	devices := map[string]int{}
	for _, row := range rows {
		ua := useragent.Parse(row.UserAgent)
		name := ua.Name
		if name == "" {
			name = "Other"
		}
		browsers[name]++

		switch {
		case ua.Mobile:
			devices["Mobile"]++
		case ua.Tablet:
			devices["Tablet"]++
		case ua.Bot:
			devices["Bot"]++
		default:
			devices["Desktop"]++
		}
	}

	return map[string][]deviceCount{
		"browsers": sortCounts(browsers),
		"devices":  sortCounts(devices),
	}, nil
}

func sortCounts(m map[string]int) []deviceCount {
	out := make([]deviceCount, 0, len(m))
	for name, count := range m {
		out = append(out, deviceCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// normalizeRange maps out-of-range day windows back to the default.
func normalizeRange(days int) int {
	if days <= 0 || days > maxRangeDays {
		return defaultRangeDays
	}
	return days
}

func rangeCutoff(days int) time.Time {
	year, month, day := time.Now().AddDate(0, 0, -(days - 1)).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, rateMW gin.HandlerFunc) {
	g := rg.Group("/analytics")
	if rateMW != nil {
		g.POST("/track", rateMW, h.track)
	} else {
		g.POST("/track", h.track)
	}

	a := g.Group("", authMW)
	a.GET("/overview", h.overview)
	a.GET("/top-pages", h.topPages)
	a.GET("/timeseries", h.timeseries)
	a.GET("/devices", h.devices)
}

func (h *Handler) track(c *gin.Context) {
	var dto TrackDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if _, err := h.svc.Track(&dto, c.ClientIP(), c.Request.UserAgent()); err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"tracked": true})
}

func (h *Handler) overview(c *gin.Context) {
	o, err := h.svc.Overview()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, o)
}

func (h *Handler) topPages(c *gin.Context) {
	rows, err := h.svc.TopPages(daysParam(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, rows)
}

func (h *Handler) timeseries(c *gin.Context) {
	rows, err := h.svc.Timeseries(daysParam(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, rows)
}

func (h *Handler) devices(c *gin.Context) {
	rows, err := h.svc.Devices(daysParam(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, rows)
}

func daysParam(c *gin.Context) int {
	days := defaultRangeDays
	if v := c.Query("days"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			days = parsed
		}
	}
	return days
}
