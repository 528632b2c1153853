package extension_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	forgetesting "github.com/xraph/forge/testing"

	"github.com/xraph/lens/engine"
	"github.com/xraph/lens/engine/memory"
	"github.com/xraph/lens/extension"
	mw "github.com/xraph/lens/middleware"
)

// seedEngine returns a memory engine with one job and one trigger.
func seedEngine(t *testing.T) *memory.Engine {
	t.Helper()

	eng := memory.New()
	if err := eng.AddJob(memory.JobConfig{
		Name:    "report",
		JobType: "jobs.Report",
	}); err != nil {
		t.Fatalf("AddJob: %v", err)
	}
	if err := eng.AddTrigger(memory.TriggerConfig{
		Name:     "report-hourly",
		JobName:  "report",
		Schedule: engine.ExpressionSchedule{Expression: "0 * * * *"},
	}); err != nil {
		t.Fatalf("AddTrigger: %v", err)
	}
	return eng
}

// ──────────────────────────────────────────────────
// Metadata
// ──────────────────────────────────────────────────

func TestExtension_Metadata(t *testing.T) {
	ext := extension.New()

	if ext.Name() != extension.ExtensionName {
		t.Errorf("Name() = %q, want %q", ext.Name(), extension.ExtensionName)
	}
	if ext.Description() != extension.ExtensionDescription {
		t.Errorf("Description() = %q, want %q", ext.Description(), extension.ExtensionDescription)
	}
	if ext.Version() != extension.ExtensionVersion {
		t.Errorf("Version() = %q, want %q", ext.Version(), extension.ExtensionVersion)
	}
	if deps := ext.Dependencies(); len(deps) != 0 {
		t.Errorf("Dependencies() = %v, want empty", deps)
	}
}

// ──────────────────────────────────────────────────
// Register → Inspector + API initialized
// ──────────────────────────────────────────────────

func TestExtension_Register(t *testing.T) {
	ext := extension.New(
		extension.WithEngine(seedEngine(t)),
	)

	fapp := forgetesting.NewTestApp("test-app", "0.1.0")

	if err := ext.Register(fapp); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if ext.Inspector() == nil {
		t.Fatal("expected inspector to be initialized after Register")
	}
	if ext.API() == nil {
		t.Fatal("expected API handler to be initialized after Register")
	}
}

// ──────────────────────────────────────────────────
// Full lifecycle: Register → Start → Health → Stop
// ──────────────────────────────────────────────────

func TestExtension_Lifecycle(t *testing.T) {
	ext := extension.New(
		extension.WithEngine(seedEngine(t)),
	)

	fapp := forgetesting.NewTestApp("lifecycle-app", "0.1.0")

	if err := ext.Register(fapp); err != nil {
		t.Fatalf("Register: %v", err)
	}

	ctx := context.Background()
	if err := ext.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Health should pass.
	if err := ext.Health(ctx); err != nil {
		t.Errorf("Health: %v", err)
	}

	// Stop gracefully.
	stopCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := ext.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

// ──────────────────────────────────────────────────
// Register + list via inspector
// ──────────────────────────────────────────────────

func TestExtension_RegisterAndList(t *testing.T) {
	ext := extension.New(
		extension.WithEngine(seedEngine(t)),
	)

	fapp := forgetesting.NewTestApp("list-app", "0.1.0")

	if err := ext.Register(fapp); err != nil {
		t.Fatalf("Register: %v", err)
	}

	jobs := ext.Inspector().ListJobs(context.Background())
	if len(jobs) != 1 {
		t.Fatalf("ListJobs returned %d jobs, want 1", len(jobs))
	}
	if jobs[0].Name != "report" {
		t.Errorf("jobs[0].Name = %q, want %q", jobs[0].Name, "report")
	}
	if !jobs[0].Active {
		t.Error("expected the seeded job to be active")
	}
}

// ──────────────────────────────────────────────────
// Start before Register fails
// ──────────────────────────────────────────────────

func TestExtension_StartBeforeRegister(t *testing.T) {
	ext := extension.New()

	err := ext.Start(context.Background())
	if err == nil {
		t.Fatal("expected error when starting before Register")
	}
}

// ──────────────────────────────────────────────────
// Health before Register fails
// ──────────────────────────────────────────────────

func TestExtension_HealthBeforeRegister(t *testing.T) {
	ext := extension.New()

	err := ext.Health(context.Background())
	if err == nil {
		t.Fatal("expected error when checking health before Register")
	}
}

// ──────────────────────────────────────────────────
// Stop before Register is safe (no-op)
// ──────────────────────────────────────────────────

func TestExtension_StopBeforeRegister(t *testing.T) {
	ext := extension.New()

	err := ext.Stop(context.Background())
	if err != nil {
		t.Fatalf("Stop before Register should be no-op, got: %v", err)
	}
}

// ──────────────────────────────────────────────────
// Register without engine fails
// ──────────────────────────────────────────────────

func TestExtension_RegisterNoEngine(t *testing.T) {
	ext := extension.New()
	fapp := forgetesting.NewTestApp("no-engine-app", "0.1.0")

	err := ext.Register(fapp)
	if err == nil {
		t.Fatal("expected error when registering without an engine")
	}
}

// ──────────────────────────────────────────────────
// DisableRoutes option
// ──────────────────────────────────────────────────

func TestExtension_DisableRoutes(t *testing.T) {
	ext := extension.New(
		extension.WithEngine(seedEngine(t)),
		extension.WithDisableRoutes(),
	)

	fapp := forgetesting.NewTestApp("no-routes-app", "0.1.0")

	if err := ext.Register(fapp); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Inspector should be initialized even without routes.
	if ext.Inspector() == nil {
		t.Fatal("expected inspector even with DisableRoutes")
	}
}

// ──────────────────────────────────────────────────
// WithMiddleware wraps the engine the inspector reads
// ──────────────────────────────────────────────────

func TestExtension_WithMiddleware(t *testing.T) {
	var calls atomic.Int64
	counting := func(ctx context.Context, _ mw.Op, next mw.Handler) error {
		calls.Add(1)
		return next(ctx)
	}

	ext := extension.New(
		extension.WithEngine(seedEngine(t)),
		extension.WithMiddleware(counting),
		extension.WithDisableRoutes(),
	)

	fapp := forgetesting.NewTestApp("mw-app", "0.1.0")

	if err := ext.Register(fapp); err != nil {
		t.Fatalf("Register: %v", err)
	}

	ext.Inspector().ListJobGroups(context.Background())
	if calls.Load() == 0 {
		t.Error("expected middleware to observe inspector queries")
	}
}

// ──────────────────────────────────────────────────
// Handler returns working HTTP handler (standalone)
// ──────────────────────────────────────────────────

func TestExtension_Handler(t *testing.T) {
	ext := extension.New(
		extension.WithEngine(seedEngine(t)),
		extension.WithDisableRoutes(), // Disable auto-registration so Handler() can register.
	)

	fapp := forgetesting.NewTestApp("handler-app", "0.1.0")

	if err := ext.Register(fapp); err != nil {
		t.Fatalf("Register: %v", err)
	}

	h := ext.Handler()
	if h == nil {
		t.Fatal("expected non-nil handler")
	}
}

// ──────────────────────────────────────────────────
// Handler before Register returns NotFound
// ──────────────────────────────────────────────────

func TestExtension_HandlerBeforeRegister(t *testing.T) {
	ext := extension.New()

	h := ext.Handler()
	if h == nil {
		t.Fatal("expected non-nil handler even before Register (should be NotFoundHandler)")
	}
}
