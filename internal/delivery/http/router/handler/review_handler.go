package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/response"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ReviewHandler holds dependencies for review handlers.
type ReviewHandler struct {
	uc     usecase.ReviewUsecase
	logger *slog.Logger
}

// NewReviewHandler is the constructor for ReviewHandler, injected by Fx.
func NewReviewHandler(uc usecase.ReviewUsecase, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		uc:     uc,
		logger: logger,
	}
}

type submitReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// SubmitReview handles creating or revising the caller's review of a product.
// A first submission answers 201, a revision answers 200.
func (h *ReviewHandler) SubmitReview(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	productID, err := pathUUID(c, "id", domainerrors.ErrProductNotFound)
	if err != nil {
		return err
	}

	var req submitReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.SubmitReview(c.Request().Context(), &usecase.SubmitReviewInput{
		UserID:    userID,
		ProductID: productID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	statusCode := http.StatusOK
	message := "Review updated successfully"
	if output.Created {
		statusCode = http.StatusCreated
		message = "Review created successfully"
	}

	return response.Success(c, statusCode, output.Review, message)
}

// ListProductReviews returns all reviews for a product.
func (h *ReviewHandler) ListProductReviews(c echo.Context) error {
	productID, err := pathUUID(c, "id", domainerrors.ErrProductNotFound)
	if err != nil {
		return err
	}

	reviews, err := h.uc.ListProductReviews(c.Request().Context(), productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, reviews, "")
}
