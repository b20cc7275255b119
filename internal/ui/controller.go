// Package ui serves the small JSON endpoints behind the progressive
// enhancement scripts: the prisoner autocomplete and accordion state.
package ui

import (
	"context"
	"net/http"
	"strings"

	"activitiesui/internal/activities"
	"activitiesui/internal/shared/components"
	"activitiesui/internal/shared/middleware"
	"activitiesui/internal/shared/session"
	"activitiesui/internal/shared/utils/response"
	"activitiesui/pkg/logger"

	"github.com/gin-gonic/gin"
)

// MinQueryLength stops single letter searches hitting prisoner search
const MinQueryLength = 2

type Service interface {
	SearchPrisoners(ctx context.Context, prisonCode, term string) ([]activities.Prisoner, error)
}

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// PrisonerResult is one autocomplete option
type PrisonerResult struct {
	PrisonerNumber string `json:"prisonerNumber"`
	Name           string `json:"name"`
	CellLocation   string `json:"cellLocation,omitempty"`
}

func (c *Controller) PrisonerSearch(ctx *gin.Context) {
	query := strings.TrimSpace(ctx.Query("query"))
	results := []PrisonerResult{}
	if len(query) < MinQueryLength {
		response.RespondJSON(ctx, "success", http.StatusOK, "Query too short", results, nil)
		return
	}

	user := middleware.CurrentUser(ctx)
	prisoners, err := c.service.SearchPrisoners(ctx.Request.Context(), user.ActiveCaseLoadID, query)
	if err != nil {
		logger.GetDefault().LogBackendError(ctx.Request.Context(), "prisoner search", query, err)
		_ = ctx.Error(err)
		return
	}

	for _, p := range prisoners {
		results = append(results, PrisonerResult{
			PrisonerNumber: p.PrisonerNumber,
			Name:           p.DisplayName(),
			CellLocation:   p.CellLocation,
		})
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Prisoners found", results, nil)
}

type accordionForm struct {
	Expanded *bool `form:"expanded" json:"expanded"`
}

// Accordion records a section opening or closing. Without an explicit
// expanded flag the section is toggled.
func (c *Controller) Accordion(ctx *gin.Context) {
	contentID := ctx.Param("contentId")
	var form accordionForm
	_ = ctx.ShouldBind(&form)

	store := components.NewSessionState(session.FromContext(ctx))
	accordion := components.NewAccordion(store, contentID)

	expanded := false
	var err error
	if form.Expanded != nil {
		expanded = *form.Expanded
		err = store.SetExpanded(contentID, expanded)
	} else {
		expanded, err = accordion.Toggle(contentID)
	}
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Accordion state saved",
		gin.H{"contentId": contentID, "expanded": expanded}, nil)
}

type accordionAllForm struct {
	ContentIDs []string `form:"contentId" json:"contentId"`
	Expanded   *bool    `form:"expanded" json:"expanded"`
}

// AccordionAll backs the "Show all sections" button. Without an explicit
// expanded flag it opens everything unless everything is already open.
func (c *Controller) AccordionAll(ctx *gin.Context) {
	var form accordionAllForm
	_ = ctx.ShouldBind(&form)
	if len(form.ContentIDs) == 0 {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "contentId is required", nil, nil)
		return
	}

	accordion := components.NewAccordion(components.NewSessionState(session.FromContext(ctx)), form.ContentIDs...)
	expand := !accordion.AllExpanded()
	if form.Expanded != nil {
		expand = *form.Expanded
	}

	var err error
	if expand {
		err = accordion.ExpandAll()
	} else {
		err = accordion.CollapseAll()
	}
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Accordion state saved",
		gin.H{"sections": accordion.State(), "allExpanded": accordion.AllExpanded()}, nil)
}

// AccordionState returns the saved flags for the requested sections
func (c *Controller) AccordionState(ctx *gin.Context) {
	sections := ctx.QueryArray("contentId")
	accordion := components.NewAccordion(components.NewSessionState(session.FromContext(ctx)), sections...)
	response.RespondJSON(ctx, "success", http.StatusOK, "Accordion state",
		gin.H{"sections": accordion.State(), "allExpanded": accordion.AllExpanded()}, nil)
}
