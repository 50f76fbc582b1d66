package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"assetflow/auth"
	"assetflow/authz"
	"assetflow/record"
)

func (a *API) listDocuments(c *gin.Context) {
	collection, ok := a.collection(c)
	if !ok {
		return
	}
	user := requestUser(c)

	docs, err := a.Store.List(c.Request.Context(), collection)
	if err != nil {
		a.renderStoreError(c, err)
		return
	}

	docs = authz.Apply(auth.RoleOf(user), collection, docs, user.String("email"))
	c.JSON(http.StatusOK, docs)
}

func (a *API) getDocument(c *gin.Context) {
	collection, ok := a.collection(c)
	if !ok {
		return
	}

	doc, err := a.Store.Get(c.Request.Context(), collection, c.Param("id"))
	if err != nil {
		a.renderStoreError(c, notFoundIn(err, collection))
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (a *API) createDocument(c *gin.Context) {
	collection, ok := a.collection(c)
	if !ok {
		return
	}
	user := requestUser(c)
	email := user.String("email")

	var payload record.Document
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	// Server-side metadata wins over anything the client sent.
	delete(payload, record.KeyID)
	delete(payload, record.KeyCreatedDate)
	payload["created_by"] = email

	switch collection {
	case record.CollectionUsers:
		if payload.String("full_name") == "" {
			payload["full_name"] = user.String("full_name")
		}
		if payload.String("role") == "" {
			payload["role"] = user.String("role")
		}
	case record.CollectionNotifications:
		if payload.String("user_email") == "" {
			payload["user_email"] = email
		}
		payload["read"] = false
	case record.CollectionProcurements:
		payload["total_cost"] = procurementTotal(payload["quantity"], payload["estimated_cost"])
	}

	doc, err := a.Store.Insert(c.Request.Context(), collection, payload)
	if err != nil {
		a.renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (a *API) updateDocument(c *gin.Context) {
	collection, ok := a.collection(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var payload record.Document
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	// Immutable metadata cannot be rewritten through the API.
	delete(payload, record.KeyID)
	delete(payload, record.KeyCreatedDate)
	delete(payload, "created_by")

	_, hasQty := payload["quantity"]
	_, hasCost := payload["estimated_cost"]
	if collection == record.CollectionProcurements && (hasQty || hasCost) {
		existing, err := a.Store.Get(c.Request.Context(), collection, id)
		if err != nil {
			a.renderStoreError(c, notFoundIn(err, collection))
			return
		}
		qty, cost := payload["quantity"], payload["estimated_cost"]
		if !hasQty {
			qty = existing["quantity"]
		}
		if !hasCost {
			cost = existing["estimated_cost"]
		}
		payload["total_cost"] = procurementTotal(qty, cost)
	}

	doc, err := a.Store.Update(c.Request.Context(), collection, id, payload)
	if err != nil {
		a.renderStoreError(c, notFoundIn(err, collection))
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (a *API) deleteDocument(c *gin.Context) {
	collection, ok := a.collection(c)
	if !ok {
		return
	}
	id := c.Param("id")

	if _, err := a.Store.Get(c.Request.Context(), collection, id); err != nil {
		a.renderStoreError(c, notFoundIn(err, collection))
		return
	}
	if err := a.Store.Delete(c.Request.Context(), collection, id); err != nil {
		a.renderStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// collection validates the :collection route parameter against the fixed
// set, rendering a 404 when unknown.
func (a *API) collection(c *gin.Context) (string, bool) {
	name := c.Param("collection")
	if !record.ValidCollection(name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
		return "", false
	}
	return name, true
}

// notFoundError tags a store miss with the collection it came from so the
// response can name the missing resource.
type notFoundError struct {
	collection string
}

func (e *notFoundError) Error() string {
	singular := strings.TrimSuffix(e.collection, "s")
	return strings.ToUpper(singular[:1]) + singular[1:] + " not found"
}

func notFoundIn(err error, collection string) error {
	if errors.Is(err, record.ErrNotFound) {
		return &notFoundError{collection: collection}
	}
	return err
}

func (a *API) renderStoreError(c *gin.Context, err error) {
	var nf *notFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
		return
	}
	if errors.Is(err, record.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	a.Logger.Error("store request failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// procurementTotal computes quantity * estimated_cost with the original
// defaulting: a missing or zero quantity counts as 1, a missing cost as 0.
func procurementTotal(quantity, cost any) float64 {
	q := numeric(quantity)
	if q == 0 {
		q = 1
	}
	return q * numeric(cost)
}

func numeric(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	default:
		return 0
	}
}
