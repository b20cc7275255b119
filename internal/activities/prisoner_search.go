package activities

import (
	"context"
	"fmt"
	"net/url"
)

// PrisonerSearchAPI wraps the prisoner search REST API
type PrisonerSearchAPI struct {
	client *Client
}

func NewPrisonerSearchAPI(client *Client) *PrisonerSearchAPI {
	return &PrisonerSearchAPI{client: client}
}

func (p *PrisonerSearchAPI) GetPrisoner(ctx context.Context, prisonerNumber string) (*Prisoner, error) {
	var out Prisoner
	if err := p.client.get(ctx, "prisoner", "/prisoner/"+url.PathEscape(prisonerNumber), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type prisonerPage struct {
	Content []Prisoner `json:"content"`
}

// SearchPrisoners matches term against names and numbers within one prison
func (p *PrisonerSearchAPI) SearchPrisoners(ctx context.Context, prisonCode, term string) ([]Prisoner, error) {
	var page prisonerPage
	path := fmt.Sprintf("/prison/%s/prisoners", url.PathEscape(prisonCode))
	query := url.Values{"term": {term}, "size": {"50"}}
	if err := p.client.get(ctx, "prisoner-search", path, query, &page); err != nil {
		return nil, err
	}
	return page.Content, nil
}
