package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/validator"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	mockUC "storefront/internal/mocks/usecase"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReviewTestContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validator.New()
	req := httptest.NewRequest(http.MethodPost, "/api/products/:id/reviews", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	return c, rec
}

func TestReviewHandler_SubmitReview_FirstSubmissionAnswers201(t *testing.T) {
	uc := mockUC.NewMockReviewUsecase(t)
	h := NewReviewHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	userID := uuid.New()
	productID := uuid.New()

	c, rec := newReviewTestContext(`{"rating":5,"comment":"Great"}`)
	c.Set(middleware.ContextKeyUserID, userID)
	c.SetParamNames("id")
	c.SetParamValues(productID.String())

	uc.EXPECT().
		SubmitReview(mock.Anything, mock.AnythingOfType("*usecase.SubmitReviewInput")).
		Run(func(ctx context.Context, input *usecase.SubmitReviewInput) {
			assert.Equal(t, userID, input.UserID)
			assert.Equal(t, productID, input.ProductID)
			assert.Equal(t, 5, input.Rating)
		}).
		Return(&usecase.SubmitReviewOutput{
			Review:  &entity.Review{UserID: userID, ProductID: productID, Rating: 5, Comment: "Great"},
			Created: true,
		}, nil)

	err := h.SubmitReview(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Review created successfully")
}

func TestReviewHandler_SubmitReview_RevisionAnswers200(t *testing.T) {
	uc := mockUC.NewMockReviewUsecase(t)
	h := NewReviewHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	userID := uuid.New()
	productID := uuid.New()

	c, rec := newReviewTestContext(`{"rating":2,"comment":"Changed my mind"}`)
	c.Set(middleware.ContextKeyUserID, userID)
	c.SetParamNames("id")
	c.SetParamValues(productID.String())

	uc.EXPECT().
		SubmitReview(mock.Anything, mock.AnythingOfType("*usecase.SubmitReviewInput")).
		Return(&usecase.SubmitReviewOutput{
			Review:  &entity.Review{UserID: userID, ProductID: productID, Rating: 2},
			Created: false,
		}, nil)

	err := h.SubmitReview(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Review updated successfully")
}

func TestReviewHandler_SubmitReview_RequiresAuthentication(t *testing.T) {
	uc := mockUC.NewMockReviewUsecase(t)
	h := NewReviewHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	c, _ := newReviewTestContext(`{"rating":5}`)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.SubmitReview(c)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

func TestReviewHandler_SubmitReview_MalformedProductID(t *testing.T) {
	uc := mockUC.NewMockReviewUsecase(t)
	h := NewReviewHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	c, _ := newReviewTestContext(`{"rating":5}`)
	c.Set(middleware.ContextKeyUserID, uuid.New())
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.SubmitReview(c)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestReviewHandler_SubmitReview_RejectsOutOfRangeRating(t *testing.T) {
	uc := mockUC.NewMockReviewUsecase(t)
	h := NewReviewHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	c, _ := newReviewTestContext(`{"rating":9}`)
	c.Set(middleware.ContextKeyUserID, uuid.New())
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.SubmitReview(c)

	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestReviewHandler_ListProductReviews_Success(t *testing.T) {
	uc := mockUC.NewMockReviewUsecase(t)
	h := NewReviewHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	productID := uuid.New()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/products/:id/reviews", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(productID.String())

	uc.EXPECT().
		ListProductReviews(mock.Anything, productID).
		Return([]*entity.Review{{ProductID: productID, Rating: 4}}, nil)

	err := h.ListProductReviews(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
