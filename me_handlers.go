package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type MeResponse struct {
	ClientID   string     `json:"clientId"`
	LoggedIn   bool       `json:"loggedIn"`
	Username   string     `json:"username,omitempty"`
	Screen     ScreenID   `json:"screen"`
	HighScores []ScoreRow `json:"highScores,omitempty"`
}

// GET /api/v1/me
func GetMe(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		nav := navigatorFrom(c)
		if nav == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no client"})
			return
		}
		resp := MeResponse{ClientID: c.GetString("clientID"), Screen: nav.Current()}
		id := nav.Player().Identity
		if id.LoggedIn {
			rows, err := store.HighScoresForUser(c.Request.Context(), id.UserID)
			if err != nil {
				abortWithError(c, err)
				return
			}
			resp.LoggedIn = true
			resp.Username = id.Username
			resp.HighScores = rows
		}
		c.JSON(http.StatusOK, resp)
	}
}
