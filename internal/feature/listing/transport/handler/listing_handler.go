// Package handler provides the HTTP handlers for the listing feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace_backend/internal/api"
	"marketplace_backend/internal/feature/listing/domain/entity"
	"marketplace_backend/internal/feature/listing/transport/http/dto"
	"marketplace_backend/internal/feature/listing/usecase"
	"marketplace_backend/internal/platform/bearer"
	"marketplace_backend/internal/shared/apperr"
)

// CatalogUsecase is the search side.
type CatalogUsecase interface {
	Search(ctx context.Context, p usecase.SearchParams) (*usecase.SearchResult, error)
}

// ListingUsecase is the lifecycle side.
type ListingUsecase interface {
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	Publish(ctx context.Context, ownerID string, in usecase.ListingInput) (*entity.Listing, error)
	Update(ctx context.Context, id string, in usecase.ListingInput) (*entity.Listing, error)
	Remove(ctx context.Context, id string) (string, error)
}

// ListingHandler serves the /offer routes.
type ListingHandler struct {
	catalog  CatalogUsecase
	listings ListingUsecase
}

// NewListingHandler creates a ListingHandler.
func NewListingHandler(catalog CatalogUsecase, listings ListingUsecase) *ListingHandler {
	return &ListingHandler{catalog: catalog, listings: listings}
}

// Search handles GET /offer?title&priceMin&priceMax&sort&page.
func (h *ListingHandler) Search(c *gin.Context) {
	var q dto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "invalid request"})
		return
	}
	params, err := usecase.ParseSearchParams(q.Title, q.PriceMin, q.PriceMax, q.Sort, q.Page)
	if err != nil {
		api.Error(c, err)
		return
	}

	res, err := h.catalog.Search(c.Request.Context(), params)
	if err != nil {
		slog.Error("offer search failed", "error", err)
		api.Error(c, err)
		return
	}

	out := api.SearchResponse{Count: res.Count, Offers: make([]api.ListingResponse, 0, len(res.Items))}
	for i := range res.Items {
		out.Offers = append(out.Offers, toListingResponse(&res.Items[i]))
	}
	c.JSON(http.StatusOK, out)
}

// GetByID handles GET /offer/:id.
func (h *ListingHandler) GetByID(c *gin.Context) {
	l, err := h.listings.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		logFailure("offer lookup failed", err, "offer_id", c.Param("id"))
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toListingResponse(l))
}

// Publish handles POST /offer/publish. Requires bearer authentication.
func (h *ListingHandler) Publish(c *gin.Context) {
	in, ok := bindListingInput(c)
	if !ok {
		return
	}

	l, err := h.listings.Publish(c.Request.Context(), bearer.UserID(c), in)
	if err != nil {
		logFailure("offer publish failed", err, "user_id", bearer.UserID(c))
		api.Error(c, err)
		return
	}

	slog.Info("offer published", "offer_id", l.ID, "user_id", l.OwnerID)
	c.JSON(http.StatusOK, toListingResponse(l))
}

// Update handles PUT /offer/publish/:id. Requires bearer authentication.
func (h *ListingHandler) Update(c *gin.Context) {
	in, ok := bindListingInput(c)
	if !ok {
		return
	}

	l, err := h.listings.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		logFailure("offer update failed", err, "offer_id", c.Param("id"), "user_id", bearer.UserID(c))
		api.Error(c, err)
		return
	}

	slog.Info("offer updated", "offer_id", l.ID, "user_id", bearer.UserID(c))
	c.JSON(http.StatusOK, toListingResponse(l))
}

// Remove handles DELETE /offer/publish/:id.
func (h *ListingHandler) Remove(c *gin.Context) {
	msg, err := h.listings.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		logFailure("offer delete failed", err, "offer_id", c.Param("id"))
		api.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: msg})
}

// bindListingInput reads the multipart form. It writes the error response itself.
func bindListingInput(c *gin.Context) (usecase.ListingInput, bool) {
	var form dto.ListingForm
	if err := c.ShouldBind(&form); err != nil {
		slog.Warn("offer form binding failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "invalid request"})
		return usecase.ListingInput{}, false
	}
	price, err := usecase.ParsePrice(form.Price)
	if err != nil {
		api.Error(c, err)
		return usecase.ListingInput{}, false
	}
	picture, err := api.FormFile(c, "picture")
	if err != nil {
		slog.Warn("offer picture unreadable", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "invalid request"})
		return usecase.ListingInput{}, false
	}

	return usecase.ListingInput{
		Name:        form.Title,
		Description: form.Description,
		Price:       price,
		Brand:       form.Brand,
		Size:        form.Size,
		Condition:   form.Condition,
		Color:       form.Color,
		Location:    form.City,
		Image:       picture,
	}, true
}

func logFailure(msg string, err error, args ...any) {
	args = append(args, "error", err)
	if apperr.KindOf(err) == apperr.KindServer {
		slog.Error(msg, args...)
		return
	}
	slog.Warn(msg, args...)
}

func toListingResponse(l *entity.Listing) api.ListingResponse {
	return api.ListingResponse{
		ID:                 l.ID,
		ProductName:        l.Name,
		ProductDescription: l.Description,
		ProductPrice:       l.Price,
		ProductDetails:     l.Details.Entries(),
		ProductImage:       api.ImageResponse{URL: l.Image.URL, PublicID: l.Image.PublicID},
		Owner:              l.OwnerID,
		CreatedAt:          l.CreatedAt.UTC().Format(time.RFC3339),
	}
}
