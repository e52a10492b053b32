package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"smart-hr/internal/domain/application"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleApps() []application.Application {
	applied := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)
	return []application.Application{
		{
			ID:         uuid.New(),
			Status:     application.StatusNew,
			MatchScore: application.ScorePtr(82),
			Candidate:  application.Candidate{FirstName: "Ann", LastName: "Lee", Gender: "Female", AppliedPosition: "IT Support", Phone: "020", Email: "ann@example.com"},
			AppliedAt:  applied,
		},
		{
			ID:        uuid.New(),
			Status:    application.StatusInterview,
			JobTitle:  "HR Officer",
			Candidate: application.Candidate{FirstName: "Bo, Jr.", LastName: "\"Kham\"", Phone: "030\n12"},
			AppliedAt: applied,
		},
		{ID: uuid.New(), Status: application.StatusHired, IsHidden: true},
	}
}

func TestCSV_LinesAndFields(t *testing.T) {
	out, err := CSV(sampleApps(), "")
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte(bom)))

	body := strings.TrimSuffix(string(out[len(bom):]), "\n")
	lines := strings.Split(body, "\n")
	assert.Len(t, lines, 3, "hidden applications are not exported")
	assert.Equal(t, "name,position,score,status,date,phone,email", lines[0])
	assert.Equal(t, "Ms. Ann Lee,IT Support,82%,New,2026-01-15,020,ann@example.com", lines[1])

	records, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	require.NoError(t, err)
	for _, r := range records {
		assert.Len(t, r, 7)
	}
	assert.Equal(t, `Bo, Jr. "Kham"`, records[2][0], "no title without a gender")
	assert.Equal(t, "HR Officer", records[2][1])
	assert.Equal(t, "0%", records[2][2], "unscored exports as zero")
	assert.Equal(t, "030 12", records[2][5])
}

func TestCSV_Empty(t *testing.T) {
	out, err := CSV(nil, "en")
	require.NoError(t, err)
	assert.Equal(t, bom+"name,position,score,status,date,phone,email\n", string(out))
}

func TestCSV_LocalizedLabels(t *testing.T) {
	out, err := CSV(sampleApps()[:1], "lo")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out[len(bom):])), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "ຊື່,"))
	assert.True(t, strings.HasPrefix(lines[1], "ນາງ Ann Lee,"))
	assert.Contains(t, lines[1], application.StatusNew.Label("lo"))
}

func TestXLSX(t *testing.T) {
	out, err := XLSX(sampleApps(), "en")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header("en"), rows[0])
	assert.Equal(t, "Ms. Ann Lee", rows[1][0])
	assert.Equal(t, "82", rows[1][2])
	assert.Equal(t, "Interview", rows[2][3])
}
