package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/milosgajdos/go-bodycomp/config"
	"github.com/milosgajdos/go-bodycomp/estimate"
	"github.com/milosgajdos/go-bodycomp/record"
	"github.com/milosgajdos/go-bodycomp/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func steady(t *testing.T, v tracker.Variant, n int) *tracker.Result {
	t.Helper()

	c := config.Default()
	c.Pounds = false
	c.InitialBodyFat = 20
	c.Target = &config.Target{Kcal: 2900, Date: "2025-01-10"}

	bf := 20.0
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	recs := make([]record.Record, n)
	for i := range recs {
		recs[i] = record.Record{
			Date:       start.AddDate(0, 0, i),
			Weight:     100,
			IntakeKcal: 3100,
			BodyFat:    &bf,
		}
	}

	res, err := tracker.Run(v, c, recs)
	require.NoError(t, err)

	return res
}

func TestParseFormat(t *testing.T) {
	assert := assert.New(t)

	for _, s := range []string{"text", "csv", "table"} {
		f, err := ParseFormat(s)
		assert.NoError(err)
		assert.Equal(Format(s), f)
	}

	_, err := ParseFormat("json")
	assert.Error(err)
}

func TestLine(t *testing.T) {
	assert := assert.New(t)

	res := steady(t, tracker.Weight, 1)
	assert.Equal("final est: 220.50 lb  TDEE 3100 kcal", Line(res.Last().Estimate))

	res = steady(t, tracker.Exertion, 1)
	assert.Equal("final est: 220.50 lb  TDEE 3100 kcal  k/RE 70.0", Line(res.Last().Estimate))

	res = steady(t, tracker.BodyFat, 1)
	assert.Equal("final est: 220.50 lb  TDEE 3100 kcal  BF 20.0%", Line(res.Last().Estimate))
}

func TestText(t *testing.T) {
	assert := assert.New(t)

	res := steady(t, tracker.Weight, 15)

	var buf bytes.Buffer
	err := Write(&buf, res, nil, Text)
	assert.NoError(err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(lines, 15+3)
	assert.Equal("final est: 220.50 lb  TDEE 3100 kcal", lines[0])
	assert.Equal("7-day Kalman gain 0.00lb, 14-day gain 0.00lb, %gain/week: 0.000%", lines[15])
	assert.Equal("Suggest -200 kcal/day T: 2900", lines[16])
	assert.Equal("Target: 2900 kcal/day since 2025-01-10", lines[17])

	sm, err := res.Smooth()
	assert.NoError(err)

	buf.Reset()
	err = Write(&buf, res, sm, Text)
	assert.NoError(err)
	assert.True(strings.HasPrefix(buf.String(), "final est: 220.50 lb  TDEE 3100 kcal  smoothed 220.50 lb\n"))
}

func TestSummaryLines(t *testing.T) {
	assert := assert.New(t)

	s := tracker.Summary{}
	s.Deltas.Week = -1
	s.Deltas.Fortnight = -2
	s.Deltas.LossPerWeek = 0.0075

	lines := SummaryLines(s)
	assert.Len(lines, 2)
	assert.Equal("7-day Kalman loss 2.21lb, 14-day loss 4.41lb, %loss/week: 0.750%", lines[0])
	assert.Equal("Keep calories steady", lines[1])
}

func TestCSV(t *testing.T) {
	assert := assert.New(t)

	res := steady(t, tracker.BodyFat, 3)

	var buf bytes.Buffer
	err := Write(&buf, res, nil, CSV)
	assert.NoError(err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(lines, 4)
	assert.Equal("date,bf_est,wt_est_kg,tdee_est_kcal", lines[0])
	assert.Equal("2025-01-01,20.00,100.00,3100", lines[1])
	assert.Equal("2025-01-03,20.00,100.00,3100", lines[3])

	res = steady(t, tracker.Exertion, 3)
	sm, err := res.Smooth()
	assert.NoError(err)

	buf.Reset()
	err = Write(&buf, res, sm, CSV)
	assert.NoError(err)
	assert.True(strings.HasPrefix(buf.String(), "date,wt_est_kg,tdee_est_kcal,coef_est,wt_smooth_kg\n2025-01-01,100.00,3100,70.0,100.00\n"))
}

func TestTable(t *testing.T) {
	assert := assert.New(t)

	res := steady(t, tracker.Exertion, 3)

	var buf bytes.Buffer
	err := Write(&buf, res, nil, Table)
	assert.NoError(err)

	out := buf.String()
	assert.Contains(out, "WT_EST_KG")
	assert.Contains(out, "2025-01-02")
	assert.Contains(out, "Suggest -200 kcal/day T: 2900")
}

func TestWriteInvalid(t *testing.T) {
	assert := assert.New(t)

	res := steady(t, tracker.Weight, 3)

	var buf bytes.Buffer
	err := Write(&buf, res, []*estimate.Body{res.Last().Estimate}, Text)
	assert.Error(err)

	err = Write(&buf, res, nil, Format("xml"))
	assert.Error(err)
}
