package prediction

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/surgewatch/surgewatch/internal/platform/db"
	"github.com/surgewatch/surgewatch/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts prediction routes on the authenticated group.
func (h *Handler) RegisterRoutes(authed *echo.Group) {
	authed.POST("/predict/daily", h.PredictDaily)
	authed.GET("/predictions", h.ListPredictions)
	authed.GET("/predictions/today", h.GetToday)
}

func (h *Handler) hospitalID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(db.HospitalFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	return id, nil
}

func (h *Handler) PredictDaily(c echo.Context) error {
	id, err := h.hospitalID(c)
	if err != nil {
		return err
	}

	var snap Snapshot
	if err := c.Bind(&snap); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := h.svc.PredictDaily(c.Request().Context(), id, &snap)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return echo.NewHTTPError(http.StatusBadRequest, verr.Msg)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "prediction engine error")
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) ListPredictions(c echo.Context) error {
	id, err := h.hospitalID(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.History(c.Request().Context(), id, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetToday(c echo.Context) error {
	id, err := h.hospitalID(c)
	if err != nil {
		return err
	}
	rec, err := h.svc.Today(c.Request().Context(), id)
	if err != nil {
		if ErrNotFound(err) {
			return echo.NewHTTPError(http.StatusNotFound, "no prediction for today")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rec)
}
