package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/totegamma/itemtag/docs/openapi"
	"github.com/totegamma/itemtag/internal/domain"
	"github.com/totegamma/itemtag/internal/present/rest/presenter"
	"github.com/totegamma/itemtag/internal/usecase"
)

type Handler struct {
	item        *usecase.ItemUsecase
	tag         *usecase.TagUsecase
	association *usecase.AssociationUsecase
	health      *usecase.HealthUsecase
}

func NewHandler(
	item *usecase.ItemUsecase,
	tag *usecase.TagUsecase,
	association *usecase.AssociationUsecase,
	health *usecase.HealthUsecase,
) *Handler {
	return &Handler{
		item:        item,
		tag:         tag,
		association: association,
		health:      health,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.handleHome)
	e.GET("/healthz", h.handleHealth)
	e.POST("/items", h.handleCreateItem)
	e.GET("/items", h.handleListItems)
	e.POST("/tags", h.handleCreateTag)
	e.GET("/tags", h.handleListTags)
	e.POST("/items/:item_id/tags", h.handleAssociate)
	e.GET("/items/:item_id/tags", h.handleTagsForItem)
	e.GET("/apidocs", h.handleAPIDocs)
	e.GET("/apispec_1.json", h.handleAPISpec)
}

type insertedResponse struct {
	InsertedID string `json:"inserted_id"`
}

type associateRequest struct {
	TagIDs any `json:"tag_ids"`
}

func (h *Handler) handleHome(c echo.Context) error {
	return presenter.OK(c, echo.Map{"message": "itemtag API is running"})
}

func (h *Handler) handleHealth(c echo.Context) error {
	err := h.health.Check(c.Request().Context())
	if err != nil {
		return presenter.ServiceUnavailable(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleCreateItem(c echo.Context) error {
	ctx := c.Request().Context()

	fields, err := bindDocument(c)
	if err != nil {
		return presenter.BadRequestMessage(c, "request body must be a JSON object")
	}

	id, err := h.item.Create(ctx, fields)
	if err != nil {
		return h.fail(c, err)
	}

	return presenter.Created(c, insertedResponse{InsertedID: id})
}

func (h *Handler) handleListItems(c echo.Context) error {
	items, err := h.item.List(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return presenter.OK(c, items)
}

// handleCreateTag answers 200, unlike handleCreateItem.
func (h *Handler) handleCreateTag(c echo.Context) error {
	ctx := c.Request().Context()

	fields, err := bindDocument(c)
	if err != nil {
		return presenter.BadRequestMessage(c, "request body must be a JSON object")
	}

	id, err := h.tag.Create(ctx, fields)
	if err != nil {
		return h.fail(c, err)
	}

	return presenter.OK(c, insertedResponse{InsertedID: id})
}

func (h *Handler) handleListTags(c echo.Context) error {
	tags, err := h.tag.List(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return presenter.OK(c, tags)
}

func (h *Handler) handleAssociate(c echo.Context) error {
	ctx := c.Request().Context()

	var req associateRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, domain.ErrInvalidInput)
	}

	list, ok := req.TagIDs.([]any)
	if !ok || len(list) == 0 {
		return presenter.BadRequest(c, domain.ErrInvalidInput)
	}

	tagIDs := make([]string, len(list))
	for i, v := range list {
		s, ok := v.(string)
		if !ok {
			return presenter.BadRequest(c, domain.InvalidIdentifierError{
				Field: fmt.Sprintf("tag_ids[%d]", i),
				Value: fmt.Sprint(v),
			})
		}
		tagIDs[i] = s
	}

	result, err := h.association.Associate(ctx, c.Param("item_id"), tagIDs)
	if err != nil {
		return h.fail(c, err)
	}

	return presenter.OK(c, result)
}

func (h *Handler) handleTagsForItem(c echo.Context) error {
	tags, err := h.association.TagsFor(c.Request().Context(), c.Param("item_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return presenter.OK(c, tags)
}

func (h *Handler) handleAPIDocs(c echo.Context) error {
	return c.HTML(http.StatusOK, openapi.SwaggerUI("/apispec_1.json"))
}

func (h *Handler) handleAPISpec(c echo.Context) error {
	spec, err := openapi.JSON()
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return c.JSONBlob(http.StatusOK, spec)
}

// bindDocument decodes a create body without rounding numbers. Bodies that
// are not declared as JSON carry no data.
func bindDocument(c echo.Context) (domain.Document, error) {
	req := c.Request()
	if req.Body == nil || !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return nil, nil
	}
	return domain.DecodeDocument(req.Body)
}

func (h *Handler) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyPayload),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidIdentifier):
		return presenter.BadRequest(c, err)
	case errors.Is(err, domain.ErrNotFound):
		return presenter.NotFound(c, err.Error())
	default:
		return presenter.InternalError(c, err)
	}
}
