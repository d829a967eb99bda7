package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djewell11/cmti-tools/internal/config"
	"github.com/djewell11/cmti-tools/internal/domain"
	"github.com/djewell11/cmti-tools/internal/service/identifier"
	"github.com/djewell11/cmti-tools/internal/service/importer"
	"github.com/djewell11/cmti-tools/internal/service/quality"
	"github.com/djewell11/cmti-tools/internal/service/units"
	"github.com/djewell11/cmti-tools/internal/testutil"
)

func TestVersionCmd(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "cmti version")
}

func TestBuilderFor(t *testing.T) {
	e := &env{lookups: testutil.Lookups(), alloc: identifier.NewAllocator()}

	for _, source := range []string{"worksheet", "omi", "oam", "bcahm", "nsmtd"} {
		b, err := builderFor(e, source)
		require.NoError(t, err, source)
		assert.Equal(t, source, b.Source())
	}

	_, err := builderFor(e, "unknown")
	assert.ErrorAs(t, err, new(*domain.ValidationError))
}

func TestAddProfileSchedules(t *testing.T) {
	e := &env{
		lookups: testutil.Lookups(),
		alloc:   identifier.NewAllocator(),
		profile: &config.ImportProfile{
			Sources: map[string]config.SourceProfile{
				"worksheet": {Path: "worksheet.csv", Schedule: "@daily"},
				"omi":       {Path: "omi.csv"}, // no schedule, not registered
			},
		},
		pipeline: importer.NewPipeline(
			units.NewRegistry(),
			identifier.NewAllocator(),
			quality.NewGrader(quality.DefaultWeights(), nil),
			testutil.Lookups(),
			&testutil.MockInventoryRepo{},
			&testutil.MockImportRunRepo{},
			nil,
			nil,
		),
	}

	sched := importer.NewScheduler(e.pipeline, nil)
	n, err := addProfileSchedules(e, sched)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	e.profile.Sources["mystery"] = config.SourceProfile{Path: "x.csv", Schedule: "@daily"}
	_, err = addProfileSchedules(e, importer.NewScheduler(e.pipeline, nil))
	assert.ErrorAs(t, err, new(*domain.ValidationError))
}

func TestImportCmdRequiresArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"import", "worksheet"})
	assert.Error(t, cmd.Execute())
}
