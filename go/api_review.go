package cateringserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	reviewsdomain "github.com/Apurer/catering-api/internal/domains/reviews/domain"
	reviewsports "github.com/Apurer/catering-api/internal/domains/reviews/ports"
)

type Review struct {
	Id           string    `json:"id"`
	OrderId      string    `json:"orderId"`
	CustomerName string    `json:"customerName"`
	CustomerCity string    `json:"customerCity"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	IsApproved   bool      `json:"isApproved"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ReviewRequest is a customer's review of an order. Rating may arrive as a
// number or a numeric string.
type ReviewRequest struct {
	OrderId      string          `json:"orderId"`
	CustomerName string          `json:"customerName"`
	CustomerCity string          `json:"customerCity"`
	Rating       json.RawMessage `json:"rating"`
	Comment      string          `json:"comment"`
}

func (r ReviewRequest) toSubmission() reviewsdomain.Submission {
	submission := reviewsdomain.Submission{
		OrderID:      r.OrderId,
		CustomerName: r.CustomerName,
		CustomerCity: r.CustomerCity,
		Comment:      r.Comment,
	}
	if rating, ok := parseIntField(r.Rating); ok {
		submission.Rating = &rating
	}
	return submission
}

func toReview(review *reviewsdomain.Review) Review {
	return Review{
		Id:           review.ID,
		OrderId:      review.OrderID,
		CustomerName: review.CustomerName,
		CustomerCity: review.CustomerCity,
		Rating:       review.Rating,
		Comment:      review.Comment,
		IsApproved:   review.IsApproved,
		CreatedAt:    review.CreatedAt,
		UpdatedAt:    review.UpdatedAt,
	}
}

func toReviews(reviews []*reviewsdomain.Review) []Review {
	out := make([]Review, 0, len(reviews))
	for _, review := range reviews {
		out = append(out, toReview(review))
	}
	return out
}

// ReviewAPI handles review submission and moderation.
type ReviewAPI struct {
	service reviewsports.Service
}

func NewReviewAPI(service reviewsports.Service) ReviewAPI {
	return ReviewAPI{service: service}
}

// Get /api/reviews
// Approved reviews for the public testimonial feed
func (api *ReviewAPI) ListApprovedReviews(c *gin.Context) {
	reviews, err := api.service.ListApproved(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReviews(reviews))
}

// Get /api/reviews/all
func (api *ReviewAPI) ListAllReviews(c *gin.Context) {
	reviews, err := api.service.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReviews(reviews))
}

// Post /api/reviews
// Create the review of an order, or replace it and send it back to moderation
func (api *ReviewAPI) SubmitReview(c *gin.Context) {
	var payload ReviewRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "Corps de requête invalide", err)
		return
	}
	review, created, err := api.service.Submit(c.Request.Context(), payload.toSubmission())
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, toReview(review))
}

// Patch /api/reviews/:id/approve
func (api *ReviewAPI) ApproveReview(c *gin.Context) {
	review, err := api.service.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReview(review))
}

// Delete /api/reviews/:id
func (api *ReviewAPI) DeleteReview(c *gin.Context) {
	if err := api.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
