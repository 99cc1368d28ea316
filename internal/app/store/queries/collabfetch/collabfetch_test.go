// internal/app/store/queries/collabfetch/collabfetch_test.go
package collabfetch_test

import (
	"testing"

	"github.com/dalemusser/coursehub/internal/app/store/queries/collabfetch"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/coursehub/internal/testutil"
	"go.uber.org/zap"
)

func TestFetchSeparate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	coord := collabfetch.New(db, zap.NewNop())

	fx.CreateLegacyCourse(ctx, "Legacy One", "recorded")
	fx.CreateLegacyCourse(ctx, "Legacy Two", "Live Courses")
	fx.CreateTypedCourse(ctx, "Typed One", models.CourseTypeLive)

	resp := coord.Fetch(ctx, collabfetch.Options{})

	if resp.Metadata.Source != collabfetch.SourceBoth {
		t.Errorf("default source = %q, want both", resp.Metadata.Source)
	}
	if resp.Metadata.MergeStrategy != collabfetch.MergeSeparate {
		t.Errorf("default merge = %q, want separate", resp.Metadata.MergeStrategy)
	}
	if resp.New == nil || resp.New.Count != 1 {
		t.Errorf("new side = %+v, want count 1", resp.New)
	}
	if resp.Legacy == nil || resp.Legacy.Count != 2 {
		t.Errorf("legacy side = %+v, want count 2", resp.Legacy)
	}
	if resp.Data != nil {
		t.Error("separate strategy must not populate the merged list")
	}
	if resp.Metadata.NewCount != 1 || resp.Metadata.LegacyCount != 2 {
		t.Errorf("metadata counts = %+v", resp.Metadata)
	}

	// Legacy side comes back adapted.
	for _, h := range resp.Legacy.Data {
		if !h.Legacy || h.Source != models.LegacyCollection {
			t.Errorf("legacy hit %q not adapted: legacy=%v source=%q", h.Title, h.Legacy, h.Source)
		}
	}
}

func TestFetchSingleSource(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	coord := collabfetch.New(db, zap.NewNop())

	fx.CreateLegacyCourse(ctx, "Legacy Only", "recorded")
	fx.CreateTypedCourse(ctx, "Typed Only", models.CourseTypeFree)

	resp := coord.Fetch(ctx, collabfetch.Options{Source: collabfetch.SourceNew})
	if resp.Legacy != nil {
		t.Error("source=new must not fetch the legacy side")
	}
	if resp.New == nil || resp.New.Count != 1 {
		t.Errorf("new side = %+v", resp.New)
	}

	resp = coord.Fetch(ctx, collabfetch.Options{Source: collabfetch.SourceLegacy})
	if resp.New != nil {
		t.Error("source=legacy must not fetch the typed side")
	}
	if resp.Legacy == nil || resp.Legacy.Count != 1 {
		t.Errorf("legacy side = %+v", resp.Legacy)
	}
}

func TestFetchPrioritizeNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	coord := collabfetch.New(db, zap.NewNop())

	fx.CreateTypedCourse(ctx, "Python Basics", models.CourseTypeLive)
	fx.CreateLegacyCourse(ctx, "python basics", "recorded") // same title, suppressed
	fx.CreateLegacyCourse(ctx, "Unique Legacy", "recorded")

	resp := coord.Fetch(ctx, collabfetch.Options{
		MergeStrategy: collabfetch.MergePrioritizeNew,
	})

	if len(resp.Data) != 2 {
		t.Fatalf("merged count = %d, want 2: %+v", len(resp.Data), resp.Data)
	}
	for _, h := range resp.Data {
		if h.Title == "python basics" {
			t.Error("legacy record with a matching typed title should be suppressed")
		}
	}
	// Per-side lists stay intact for provenance.
	if resp.Legacy.Count != 2 {
		t.Errorf("legacy side count = %d, want 2", resp.Legacy.Count)
	}
}

func TestFetchUnifiedWithDedup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	coord := collabfetch.New(db, zap.NewNop())

	fx.CreateTypedCourse(ctx, "Machine Learning Fundamentals", models.CourseTypeLive)
	fx.CreateLegacyCourse(ctx, "Machine Learning Fundamentals!", "recorded")
	fx.CreateLegacyCourse(ctx, "Pottery", "recorded")

	resp := coord.Fetch(ctx, collabfetch.Options{
		MergeStrategy: collabfetch.MergeUnified,
		Dedup:         true,
	})

	if resp.Dedup == nil {
		t.Fatal("expected a dedup report")
	}
	if resp.Dedup.DuplicateCount != 1 {
		t.Errorf("DuplicateCount = %d, want 1", resp.Dedup.DuplicateCount)
	}
	if len(resp.Data) != 2 {
		t.Errorf("merged data = %d records, want 2 after dedup", len(resp.Data))
	}
}

func TestFetchComparison(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	coord := collabfetch.New(db, zap.NewNop())

	fx.CreateTypedCourse(ctx, "Typed", models.CourseTypeFree)
	fx.CreateLegacyCourse(ctx, "Legacy", "Live Courses")

	resp := coord.Fetch(ctx, collabfetch.Options{Comparison: collabfetch.CompareDetailed})
	if resp.Comparison == nil {
		t.Fatal("expected a comparison report")
	}
	if resp.Comparison.Level != collabfetch.CompareDetailed {
		t.Errorf("Level = %q", resp.Comparison.Level)
	}
	if len(resp.Comparison.NewFields) == 0 || len(resp.Comparison.LegacyFields) == 0 {
		t.Error("both field sets should be populated")
	}
	if resp.Comparison.NewCoverage == nil {
		t.Error("detailed comparison should include coverage")
	}
}

func TestFetchPerSideLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	coord := collabfetch.New(db, zap.NewNop())

	for _, title := range []string{"L1", "L2", "L3"} {
		fx.CreateLegacyCourse(ctx, title, "recorded")
	}

	resp := coord.Fetch(ctx, collabfetch.Options{
		Source:       collabfetch.SourceLegacy,
		PerSideLimit: 2,
	})
	if resp.Legacy.Count != 2 {
		t.Errorf("legacy count = %d, want limit of 2", resp.Legacy.Count)
	}
}

func TestFetchPerSidePaging(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	coord := collabfetch.New(db, zap.NewNop())

	for _, title := range []string{"L1", "L2", "L3"} {
		fx.CreateLegacyCourse(ctx, title, "recorded")
	}
	for _, title := range []string{"N1", "N2", "N3"} {
		fx.CreateTypedCourse(ctx, title, models.CourseTypeFree)
	}

	// Two consecutive pages per side partition each side's records.
	first := coord.Fetch(ctx, collabfetch.Options{PerSideLimit: 2})
	second := coord.Fetch(ctx, collabfetch.Options{PerSideLimit: 2, PerSideOffset: 2})

	if first.Legacy.Count != 2 || second.Legacy.Count != 1 {
		t.Errorf("legacy pages = %d, %d, want 2 then 1", first.Legacy.Count, second.Legacy.Count)
	}
	if first.New.Count != 2 || second.New.Count != 1 {
		t.Errorf("new pages = %d, %d, want 2 then 1", first.New.Count, second.New.Count)
	}

	seen := map[string]bool{}
	for _, page := range []*collabfetch.SideResult{first.Legacy, second.Legacy} {
		for _, hit := range page.Data {
			if seen[hit.Title] {
				t.Errorf("title %q appears on both legacy pages", hit.Title)
			}
			seen[hit.Title] = true
		}
	}
	if len(seen) != 3 {
		t.Errorf("legacy pages cover %d titles, want all 3", len(seen))
	}

	// An offset past the end yields an empty page, not an error.
	past := coord.Fetch(ctx, collabfetch.Options{Source: collabfetch.SourceNew, PerSideOffset: 10})
	if past.New.Count != 0 || past.New.Error != "" {
		t.Errorf("past-the-end page = %+v, want empty without error", past.New)
	}
}
