package api

import (
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/lens"
)

// API wires the Forge-style HTTP handlers for scheduler introspection.
type API struct {
	inspector *lens.Inspector
	router    forge.Router
}

// New creates an API over a lens Inspector.
func New(inspector *lens.Inspector, router forge.Router) *API {
	return &API{inspector: inspector, router: router}
}

// Handler returns the fully assembled http.Handler with all routes.
func (a *API) Handler() http.Handler {
	if a.router == nil {
		a.router = forge.NewRouter()
	}
	a.RegisterRoutes(a.router)
	return a.router.Handler()
}

// RegisterRoutes registers the scheduler introspection routes into the
// given Forge router with full OpenAPI metadata.
//
// Every route is read-only; there are no pause, resume, fire, or
// delete routes. Engine failures never surface as HTTP errors either:
// the inspector absorbs them, so these endpoints answer 200 with empty
// lists when the scheduler is unreachable.
func (a *API) RegisterRoutes(router forge.Router) {
	g := router.Group("/v1/scheduler", forge.WithGroupTags("scheduler"))

	_ = g.GET("/jobs", a.listJobs,
		forge.WithSummary("List jobs"),
		forge.WithDescription("Returns every job with its aggregate status: activity flag, last fire time, next fire time."),
		forge.WithOperationID("listSchedulerJobs"),
		forge.WithRequestSchema(ListJobsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Job list", ListJobsResponse{}),
		forge.WithErrorResponses(),
	)

	_ = g.GET("/jobs/:jobGroup/:jobName/triggers", a.listJobTriggers,
		forge.WithSummary("List job triggers"),
		forge.WithDescription("Returns the named job's triggers classified by schedule kind."),
		forge.WithOperationID("listSchedulerJobTriggers"),
		forge.WithResponseSchema(http.StatusOK, "Trigger list", ListTriggersResponse{}),
		forge.WithErrorResponses(),
	)

	_ = g.GET("/jobs/:jobGroup/:jobName/parameters", a.listJobParameters,
		forge.WithSummary("List job parameters"),
		forge.WithDescription("Returns the named job's data map entries with values rendered as strings."),
		forge.WithOperationID("listSchedulerJobParameters"),
		forge.WithResponseSchema(http.StatusOK, "Parameter list", ListParametersResponse{}),
		forge.WithErrorResponses(),
	)

	_ = g.GET("/job-groups", a.listJobGroups,
		forge.WithSummary("List job groups"),
		forge.WithDescription("Returns the scheduler's job group names."),
		forge.WithOperationID("listSchedulerJobGroups"),
		forge.WithResponseSchema(http.StatusOK, "Group list", ListGroupsResponse{}),
		forge.WithErrorResponses(),
	)

	_ = g.GET("/trigger-groups", a.listTriggerGroups,
		forge.WithSummary("List trigger groups"),
		forge.WithDescription("Returns the scheduler's trigger group names."),
		forge.WithOperationID("listSchedulerTriggerGroups"),
		forge.WithResponseSchema(http.StatusOK, "Group list", ListGroupsResponse{}),
		forge.WithErrorResponses(),
	)
}
