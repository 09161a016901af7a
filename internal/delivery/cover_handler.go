package delivery

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"covercart-backend/internal/domain"
)

type CoverHandler struct {
	covers domain.CoverStore
	log    *logrus.Logger
}

func NewCoverHandler(covers domain.CoverStore, logger *logrus.Logger) *CoverHandler {
	return &CoverHandler{covers: covers, log: logger}
}

func (h *CoverHandler) List(c *gin.Context) {
	q := domain.CoverQuery{
		Search: c.Query("search"),
		Brand:  c.Query("brand"),
		Page:   intQuery(c, "page", 1),
		Limit:  intQuery(c, "limit", 20),
	}
	if q.Limit > 100 {
		q.Limit = 100
	}

	covers, total, err := h.covers.List(c.Request.Context(), q)
	if err != nil {
		h.log.Errorf("Failed to list covers: %v", err)
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if covers == nil {
		covers = []domain.Cover{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  covers,
		"total": total,
		"page":  q.Page,
		"limit": q.Limit,
	})
}

func (h *CoverHandler) Get(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	cover, err := h.covers.FindByID(c.Request.Context(), id)
	if err != nil {
		status, msg := statusFromError(err)
		respondError(c, status, msg)
		return
	}
	c.JSON(http.StatusOK, cover)
}

func (h *CoverHandler) Create(c *gin.Context) {
	var cover domain.Cover
	if err := c.ShouldBindJSON(&cover); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(cover.Name) == "" || cover.Price < 0 || cover.Stock < 0 {
		respondError(c, http.StatusBadRequest, "name is required, price and stock must be non-negative")
		return
	}
	cover.ID = primitive.NilObjectID

	id, err := h.covers.Insert(c.Request.Context(), cover)
	if err != nil {
		h.log.Errorf("Failed to create cover: %v", err)
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	cover.ID = id
	h.log.Infof("Cover %s created: %s", id.Hex(), cover.Name)
	c.JSON(http.StatusCreated, cover)
}

func (h *CoverHandler) Update(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var cover domain.Cover
	if err := c.ShouldBindJSON(&cover); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(cover.Name) == "" || cover.Price < 0 || cover.Stock < 0 {
		respondError(c, http.StatusBadRequest, "name is required, price and stock must be non-negative")
		return
	}

	if err := h.covers.Update(c.Request.Context(), id, cover); err != nil {
		status, msg := statusFromError(err)
		if status == http.StatusInternalServerError {
			h.log.Errorf("Failed to update cover %s: %v", id.Hex(), err)
		}
		respondError(c, status, msg)
		return
	}
	cover.ID = id
	c.JSON(http.StatusOK, cover)
}

func (h *CoverHandler) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.covers.Delete(c.Request.Context(), id); err != nil {
		status, msg := statusFromError(err)
		if status == http.StatusInternalServerError {
			h.log.Errorf("Failed to delete cover %s: %v", id.Hex(), err)
		}
		respondError(c, status, msg)
		return
	}
	h.log.Infof("Cover %s deleted", id.Hex())
	c.JSON(http.StatusOK, gin.H{"message": "cover deleted"})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(fallback)))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}
