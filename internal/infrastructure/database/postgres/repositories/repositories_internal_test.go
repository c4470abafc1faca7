package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmhernandez2525/patent-intelligence/internal/domain/patent"
	"github.com/dmhernandez2525/patent-intelligence/internal/domain/trend"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
)

func TestConstructors(t *testing.T) {
	t.Parallel()

	log := logging.NewNopLogger()
	assert.NotNil(t, NewPatentRepository(nil, log))
	assert.NotNil(t, NewCitationRepository(nil, log))
	assert.NotNil(t, NewTrendRepository(nil, log))
}

func TestWhereBuilderEmpty(t *testing.T) {
	t.Parallel()

	var b whereBuilder
	b.applyFilter(patent.Filter{})
	assert.Empty(t, b.where())
	assert.Empty(t, b.args)
	assert.Equal(t, 1, b.next())
}

func TestWhereBuilderPlaceholders(t *testing.T) {
	t.Parallel()

	from := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	var b whereBuilder
	b.applyFilter(patent.Filter{
		Country:  "US",
		Status:   patent.StatusActive,
		Assignee: "acme",
		CPCCodes: []string{"H01M"},
		DateFrom: &from,
	})

	where := b.where()
	assert.Contains(t, where, "country = $1")
	assert.Contains(t, where, "status = $2")
	assert.Contains(t, where, "assignee_organization ILIKE $3")
	assert.Contains(t, where, "$4::text[]")
	assert.Contains(t, where, "filing_date >= $5")
	assert.Len(t, b.args, 5)
	assert.Equal(t, "%acme%", b.args[2])
	assert.Equal(t, 6, b.next())
}

func TestWhereBuilderMultiplePlaceholdersInOneCondition(t *testing.T) {
	t.Parallel()

	var b whereBuilder
	b.addf("(title % ? OR abstract % ?)", "battery", "battery")
	assert.Equal(t, " WHERE (title % $1 OR abstract % $2)", b.where())
	assert.Len(t, b.args, 2)
}

func TestTrendWhere(t *testing.T) {
	t.Parallel()

	b := trendWhere(trend.Filter{Country: "US", CPCPrefix: "H01M"}, 2016, 2025)
	where := b.where()
	assert.Contains(t, where, "filing_date IS NOT NULL")
	assert.Contains(t, where, "BETWEEN $1 AND $2")
	assert.Contains(t, where, "country = $3")
	assert.Contains(t, where, "LIKE $4 || '%'")
}

func TestVectorLiteralRoundTrip(t *testing.T) {
	t.Parallel()

	in := []float32{0.25, -1, 3.5}
	literal := vectorLiteral(in)
	assert.Equal(t, "[0.25,-1,3.5]", literal)

	out, err := parseVector(literal)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestParseVectorErrors(t *testing.T) {
	t.Parallel()

	out, err := parseVector("[]")
	require.NoError(t, err)
	assert.Nil(t, out)

	_, err = parseVector("[1,not-a-number]")
	assert.Error(t, err)
}
