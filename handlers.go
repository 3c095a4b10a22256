package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// writeView answers with the view, adding the error when the action failed.
func writeView(c *gin.Context, v View, err error) {
	if err == nil {
		c.JSON(http.StatusOK, v)
		return
	}
	status, body := statusFor(err)
	if status == http.StatusServiceUnavailable {
		log.Printf("action on %s: %v", v.Screen, err)
	}
	body["view"] = v
	c.JSON(status, body)
}

/*** Screen machine ***/

func GetScreen() gin.HandlerFunc {
	return func(c *gin.Context) {
		nav := navigatorFrom(c)
		if nav == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no client"})
			return
		}
		c.JSON(http.StatusOK, nav.Render())
	}
}

func PostAction() gin.HandlerFunc {
	return func(c *gin.Context) {
		nav := navigatorFrom(c)
		if nav == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no client"})
			return
		}
		var a Action
		if err := c.ShouldBindJSON(&a); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad request", "view": nav.Render()})
			return
		}
		v, err := nav.Dispatch(c.Request.Context(), a)
		writeView(c, v, err)
	}
}

/*** Catalog ***/

type CatalogResponse struct {
	Characters []Character `json:"characters"`
	Subjects   []Subject   `json:"subjects"`
}

func GetCatalog(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		chars, err := store.Characters(ctx)
		if err != nil {
			abortWithError(c, err)
			return
		}
		subjects, err := store.Subjects(ctx)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, CatalogResponse{Characters: chars, Subjects: subjects})
	}
}
