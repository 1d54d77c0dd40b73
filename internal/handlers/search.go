package handlers

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campuslink-server/internal/models"
	"campuslink-server/internal/utils"
)

// SearchHandler handles the global cross-entity search.
type SearchHandler struct {
	DB *gorm.DB
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(db *gorm.DB) *SearchHandler {
	return &SearchHandler{DB: db}
}

// SearchResult is one match, tagged with the entity kind it came from.
type SearchResult struct {
	Kind string      `json:"kind"`
	Item interface{} `json:"item"`
}

// Search fans out over every searchable entity concurrently and merges
// the tagged results. An empty query returns an empty list.
func (h *SearchHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		utils.Success(c, "Search results", []SearchResult{})
		return
	}

	cleaned := strings.TrimPrefix(q, "#")
	pattern := "%" + cleaned + "%"

	var (
		teamPosts []models.TeamPost
		rides     []models.Ride
		listings  []models.MarketplaceListing
		ventures  []models.Venture
		tutors    []models.TutorProfile
		users     []models.User
	)

	var wg sync.WaitGroup
	run := func(f func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}

	run(func() {
		h.DB.Preload("Author").
			Joins("JOIN users ON users.id = team_posts.author_id").
			Where("team_posts.status = ?", models.TeamPostStatusOpen).
			Where("team_posts.title LIKE ? OR team_posts.description LIKE ? OR team_posts.looking_for LIKE ? OR team_posts.tags LIKE ? OR users.name LIKE ?",
				pattern, pattern, pattern, pattern, pattern).
			Find(&teamPosts)
	})
	run(func() {
		h.DB.Preload("Host").
			Where("status = ?", models.RideStatusActive).
			Where("`from` LIKE ? OR `to` LIKE ? OR description LIKE ?", pattern, pattern, pattern).
			Find(&rides)
	})
	run(func() {
		h.DB.Preload("Seller").
			Where("status = ?", models.ListingStatusAvailable).
			Where("title LIKE ? OR description LIKE ? OR category LIKE ?", pattern, pattern, pattern).
			Find(&listings)
	})
	run(func() {
		h.DB.Where("name LIKE ? OR description LIKE ? OR category LIKE ? OR hostel LIKE ? OR catalog LIKE ?",
			pattern, pattern, pattern, pattern, pattern).
			Find(&ventures)
	})
	run(func() {
		h.DB.Preload("User").
			Joins("JOIN users ON users.id = tutor_profiles.user_id").
			Where("tutor_profiles.subjects LIKE ? OR tutor_profiles.bio LIKE ? OR users.name LIKE ?",
				pattern, pattern, pattern).
			Find(&tutors)
	})
	run(func() {
		h.DB.Where("name LIKE ?", pattern).Find(&users)
	})
	wg.Wait()

	results := make([]SearchResult, 0)
	for i := range teamPosts {
		results = append(results, SearchResult{Kind: "team", Item: teamPosts[i]})
	}
	for i := range rides {
		results = append(results, SearchResult{Kind: "ride", Item: rides[i]})
	}
	for i := range listings {
		results = append(results, SearchResult{Kind: "listing", Item: listings[i]})
	}
	for i := range ventures {
		results = append(results, SearchResult{Kind: "venture", Item: ventures[i]})
	}
	for i := range tutors {
		results = append(results, SearchResult{Kind: "tutor", Item: tutors[i]})
	}
	for i := range users {
		results = append(results, SearchResult{Kind: "user", Item: users[i].Sanitize()})
	}

	utils.Success(c, "Search results", results)
}
