package admission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"college-advisor/internal/common/logger"
	"college-advisor/internal/models"
)

func strPtr(s string) *string { return &s }

var seatTable = []models.SeatRecord{
	{Institute: "IIT Bombay", Program: "Computer Science and Engineering (4 Years, Bachelor of Technology)", Gender: "Gender-Neutral", OpeningRank: "1", ClosingRank: "66"},
	{Institute: "IIT Bombay", Program: "Electrical Engineering (4 Years, Bachelor of Technology)", Gender: "Gender-Neutral", OpeningRank: "70", ClosingRank: "480"},
	{Institute: "IIT Bombay", Program: "Civil Engineering (4 Years, Bachelor of Technology)", Gender: "Female-only (including Supernumerary)", OpeningRank: "2,100", ClosingRank: "3,500"},
	{Institute: "IIT Delhi", Program: "Computer Science and Engineering (4 Years, Bachelor of Technology)", Gender: "Gender-Neutral", OpeningRank: "2", ClosingRank: "115"},
	{Institute: "IIT Madras", Program: "Civil Engineering (4 Years) Bachelor of Technology", Gender: "Gender-Neutral", OpeningRank: "3,000", ClosingRank: "5,120.0"},
	{Institute: "IIT Madras", Program: "Metallurgical Engineering", Gender: "Gender-Neutral", OpeningRank: "4,000", ClosingRank: "n/a"},
	{Institute: "IIT Kanpur", Program: "Aerospace Engineering", Gender: "Gender-Neutral", OpeningRank: "900"},
}

func institutes(seats []models.SeatRecord) []string {
	out := make([]string, len(seats))
	for i, s := range seats {
		out[i] = s.Institute + "/" + s.ClosingRank
	}
	return out
}

func TestSeatFilter_ClosingRankScenario(t *testing.T) {
	f := NewSeatFilter(logger.NewTestLogger(t))
	table := []models.SeatRecord{{Institute: "IIT Bombay", Program: "Civil Engineering", Gender: "Gender-Neutral", OpeningRank: "1,000", ClosingRank: "3,500"}}

	assert.Len(t, f.Filter(table, 3200, nil, nil, models.GenderNeutral), 1)
	assert.Len(t, f.Filter(table, 3500, nil, nil, models.GenderNeutral), 1)
	assert.Empty(t, f.Filter(table, 3600, nil, nil, models.GenderNeutral))
}

func TestSeatFilter_Filter(t *testing.T) {
	tests := []struct {
		name      string
		rank      int
		institute *string
		program   *string
		gender    string
		want      []string
	}{
		{
			name:   "rank only",
			rank:   100,
			gender: models.GenderNeutral,
			want:   []string{"IIT Bombay/480", "IIT Delhi/115", "IIT Madras/5,120.0"},
		},
		{
			name:      "institute exact",
			rank:      50,
			institute: strPtr("IIT Bombay"),
			gender:    models.GenderNeutral,
			want:      []string{"IIT Bombay/66", "IIT Bombay/480"},
		},
		{
			name:      "institute is case sensitive",
			rank:      50,
			institute: strPtr("iit bombay"),
			gender:    models.GenderNeutral,
			want:      []string{},
		},
		{
			name:    "program substring after boilerplate strip",
			rank:    10,
			program: strPtr("Computer Science And Engineering"),
			gender:  models.GenderNeutral,
			want:    []string{"IIT Bombay/66", "IIT Delhi/115"},
		},
		{
			name:    "program query with boilerplate",
			rank:    4000,
			program: strPtr("Civil Engineering (4 Years) Bachelor of Technology"),
			gender:  models.GenderNeutral,
			want:    []string{"IIT Madras/5,120.0"},
		},
		{
			name:    "partial program",
			rank:    10,
			program: strPtr("science"),
			gender:  models.GenderNeutral,
			want:    []string{"IIT Bombay/66", "IIT Delhi/115"},
		},
		{
			name:   "female only substring",
			rank:   3000,
			gender: models.GenderFemaleOnly,
			want:   []string{"IIT Bombay/3,500"},
		},
		{
			name:   "gender substring",
			rank:   3000,
			gender: "neutral",
			want:   []string{"IIT Madras/5,120.0"},
		},
		{
			name:   "empty gender means neutral",
			rank:   3000,
			gender: "",
			want:   []string{"IIT Madras/5,120.0"},
		},
		{
			name:   "rank beyond every seat",
			rank:   10000,
			gender: models.GenderNeutral,
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewSeatFilter(logger.NewTestLogger(t))
			got := f.Filter(seatTable, tt.rank, tt.institute, tt.program, tt.gender)
			assert.Equal(t, tt.want, institutes(got))
		})
	}
}

func TestSeatFilter_SkipsMalformedRecords(t *testing.T) {
	f := NewSeatFilter(logger.NewTestLogger(t))
	got := f.Filter(seatTable, 1, strPtr("IIT Madras"), nil, models.GenderNeutral)
	require.Len(t, got, 1)
	assert.Equal(t, "5,120.0", got[0].ClosingRank)

	got = f.Filter(seatTable, 1, strPtr("IIT Kanpur"), nil, models.GenderNeutral)
	assert.Empty(t, got)
}

func TestSeatFilter_DoesNotModifyTable(t *testing.T) {
	table := make([]models.SeatRecord, len(seatTable))
	copy(table, seatTable)

	f := NewSeatFilter(logger.NewTestLogger(t))
	got := f.Filter(table, 1, nil, nil, models.GenderNeutral)
	require.NotEmpty(t, got)
	got[0].Institute = "changed"

	assert.Equal(t, seatTable, table)
}

func TestSeatFilter_LargerRankIsSubset(t *testing.T) {
	f := NewSeatFilter(logger.NewTestLogger(t))
	prefs := []struct {
		institute *string
		program   *string
		gender    string
	}{
		{nil, nil, models.GenderNeutral},
		{strPtr("IIT Bombay"), nil, ""},
		{nil, strPtr("Civil Engineering"), "Gender"},
		{nil, nil, "female"},
	}
	ranks := []int{1, 50, 66, 67, 100, 480, 2000, 3500, 5120, 9000}

	for _, p := range prefs {
		for i := 0; i+1 < len(ranks); i++ {
			small := f.Filter(seatTable, ranks[i], p.institute, p.program, p.gender)
			large := f.Filter(seatTable, ranks[i+1], p.institute, p.program, p.gender)
			for _, s := range large {
				assert.Contains(t, small, s, "rank %d result must contain rank %d result", ranks[i], ranks[i+1])
			}
		}
	}
}

func TestParseRank(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "3,500", want: 3500},
		{in: " 12,345 ", want: 12345},
		{in: "66", want: 66},
		{in: "5,120.9", want: 5120},
		{in: "", wantErr: true},
		{in: "n/a", wantErr: true},
		{in: "NaN", wantErr: true},
		{in: "Inf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRank(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
