package api

import (
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/lens"
	"github.com/xraph/lens/engine"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// ListJobsRequest carries slice pagination over the job listing.
type ListJobsRequest struct {
	Limit  int `query:"limit" json:"limit,omitempty"`
	Offset int `query:"offset" json:"offset,omitempty"`
}

// ListJobsResponse is one page of aggregate job descriptors. Total
// counts the whole listing, not the page.
type ListJobsResponse struct {
	Jobs  []lens.JobDescriptor `json:"jobs"`
	Total int                  `json:"total"`
}

// ListTriggersResponse holds one job's classified triggers.
type ListTriggersResponse struct {
	Triggers []lens.TriggerDescriptor `json:"triggers"`
	Total    int                      `json:"total"`
}

// ListParametersResponse holds one job's stringified data map.
type ListParametersResponse struct {
	Parameters []lens.JobParameter `json:"parameters"`
	Total      int                 `json:"total"`
}

// ListGroupsResponse holds job or trigger group names.
type ListGroupsResponse struct {
	Groups []string `json:"groups"`
	Total  int      `json:"total"`
}

func (a *API) listJobs(ctx forge.Context, req *ListJobsRequest) (*ListJobsResponse, error) {
	jobs := a.inspector.ListJobs(ctx.Context())

	total := len(jobs)
	jobs = pageSlice(jobs, defaultLimit(req.Limit), req.Offset)

	resp := &ListJobsResponse{Jobs: jobs, Total: total}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) listJobTriggers(ctx forge.Context) error {
	key, err := jobKeyFromPath(ctx)
	if err != nil {
		return err
	}

	triggers := a.inspector.ListJobTriggers(ctx.Context(), key)
	return ctx.JSON(http.StatusOK, ListTriggersResponse{Triggers: triggers, Total: len(triggers)})
}

func (a *API) listJobParameters(ctx forge.Context) error {
	key, err := jobKeyFromPath(ctx)
	if err != nil {
		return err
	}

	params := a.inspector.ListJobParameters(ctx.Context(), key)
	return ctx.JSON(http.StatusOK, ListParametersResponse{Parameters: params, Total: len(params)})
}

func (a *API) listJobGroups(ctx forge.Context) error {
	groups := a.inspector.ListJobGroups(ctx.Context())
	return ctx.JSON(http.StatusOK, ListGroupsResponse{Groups: groups, Total: len(groups)})
}

func (a *API) listTriggerGroups(ctx forge.Context) error {
	groups := a.inspector.ListTriggerGroups(ctx.Context())
	return ctx.JSON(http.StatusOK, ListGroupsResponse{Groups: groups, Total: len(groups)})
}

// jobKeyFromPath reads the :jobGroup/:jobName pair every per-job route
// carries.
func jobKeyFromPath(ctx forge.Context) (engine.JobKey, error) {
	group := ctx.Param("jobGroup")
	name := ctx.Param("jobName")
	if group == "" || name == "" {
		return engine.JobKey{}, forge.BadRequest("jobGroup and jobName are required")
	}
	return engine.JobKey{Name: name, Group: group}, nil
}

func defaultLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func pageSlice[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}
